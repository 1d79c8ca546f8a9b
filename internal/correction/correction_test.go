package correction

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rblint/internal/source"
)

func TestApplyNonOverlapping(t *testing.T) {
	src := []byte("hello world")
	set := NewSet([]Correction{
		Replace(6, 11, "there", WithCop("A/B", 0)),
		Replace(0, 5, "HELLO", WithCop("A/B", 0)),
	})
	out, res := set.Apply(src)
	assert.Equal(t, "HELLO there", string(out))
	assert.Len(t, res.Applied, 2)
	assert.Empty(t, res.Dropped)
	assert.Equal(t, "hello world", string(src))
}

func TestApplyDeterministicConflict(t *testing.T) {
	// S3: two cops correct overlapping ranges.
	a := Replace(0, 2, "X", WithCop("A/A", 0))
	b := Replace(0, 3, "Y", WithCop("B/B", 1))
	for _, order := range [][]Correction{{a, b}, {b, a}} {
		out, res := NewSet(order).Apply([]byte("abcdef"))
		assert.Equal(t, "Xcdef", string(out))
		require.Len(t, res.Dropped, 1)
		assert.Equal(t, "B/B", res.Dropped[0].CopName)
	}
}

func TestApplySameRangeTieBreak(t *testing.T) {
	a := Replace(1, 2, "1", WithCop("Z/Z", 0))
	b := Replace(1, 2, "2", WithCop("A/A", 5))
	out, _ := NewSet([]Correction{a, b}).Apply([]byte("abc"))
	assert.Equal(t, "a2c", string(out))
}

func TestApplyInsertionAtCursor(t *testing.T) {
	set := NewSet([]Correction{
		Replace(0, 3, "foo"),
		Insert(3, "!"),
		Insert(3, "?"),
	})
	out, res := set.Apply([]byte("abcdef"))
	assert.Equal(t, "foo!?def", string(out))
	assert.Len(t, res.Applied, 3)
}

func TestApplyDropsInvalid(t *testing.T) {
	out, res := NewSet([]Correction{Replace(2, 1, "x"), Replace(0, 9, "y")}).Apply([]byte("abc"))
	assert.Equal(t, "abc", string(out))
	assert.Len(t, res.Dropped, 2)
	assert.False(t, res.Changed())
}

func TestApplyLengthLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := []byte("the quick brown fox jumps over the lazy dog")
	for round := 0; round < 200; round++ {
		var cs []Correction
		for i := rng.Intn(6); i >= 0; i-- {
			s := rng.Intn(len(src) + 1)
			e := s + rng.Intn(len(src)-s+1)
			cs = append(cs, Replace(s, e, string(make([]byte, rng.Intn(4)))))
		}
		out, res := NewSet(cs).Apply(src)
		want := len(src)
		for _, c := range res.Applied {
			want += c.Delta()
		}
		require.Equal(t, want, len(out), "round %d", round)
		assert.Equal(t, len(cs), len(res.Applied)+len(res.Dropped))
		for i := 1; i < len(res.Applied); i++ {
			assert.LessOrEqual(t, res.Applied[i-1].End, res.Applied[i].Start)
		}
	}
}

func TestDeleteLine(t *testing.T) {
	f := source.NewFile("x.rb", []byte("# encoding: utf-8\nputs 1\n"))
	c := DeleteLine(f, 1)
	out, _ := NewSet([]Correction{c}).Apply(f.Content)
	assert.Equal(t, "puts 1\n", string(out))
	assert.Equal(t, -1, c.Diagnostic)

	last := source.NewFile("x.rb", []byte("a\nb"))
	out, _ = NewSet([]Correction{DeleteLine(last, 2)}).Apply(last.Content)
	assert.Equal(t, "a\n", string(out))
}

func TestWrap(t *testing.T) {
	out, _ := NewSet(Wrap(0, 3, "(", ")")).Apply([]byte("abc d"))
	assert.Equal(t, "(abc) d", string(out))
}
