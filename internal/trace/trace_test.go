package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"":       LevelOff,
		"off":    LevelOff,
		"error":  LevelError,
		"Phase":  LevelPhase,
		"detail": LevelDetail,
		"debug":  LevelDebug,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelAdmits(t *testing.T) {
	assert.False(t, LevelOff.Admits(KindPoint, ScopeRun))
	assert.True(t, LevelError.Admits(KindPoint, ScopeRun))
	assert.False(t, LevelError.Admits(KindSpanBegin, ScopeRun))
	assert.True(t, LevelPhase.Admits(KindSpanBegin, ScopePhase))
	assert.False(t, LevelPhase.Admits(KindSpanBegin, ScopeFile))
	assert.True(t, LevelDetail.Admits(KindSpanEnd, ScopeFile))
	assert.False(t, LevelDetail.Admits(KindSpanEnd, ScopeCop))
	assert.True(t, LevelDebug.Admits(KindSpanEnd, ScopeCop))
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	run := Begin(tr, ScopeRun, "lint", 0)
	file := Begin(tr, ScopeFile, "app.rb", run.ID())
	cop := Begin(tr, ScopeCop, "Layout/LineLength", file.ID())
	cop.End("")
	file.WithExtra("offenses", "2").End("")
	run.End("ok")

	out := buf.String()
	assert.Contains(t, out, "→ run:lint")
	assert.Contains(t, out, "← file:app.rb {offenses=2}")
	assert.Contains(t, out, "← run:lint (ok)")
	assert.NotContains(t, out, "LineLength")
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)
	Point(tr, ScopeRun, "cop-error", "boom", map[string]string{"cop": "Style/Semicolon"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "point", got["kind"])
	assert.Equal(t, "run", got["scope"])
	assert.Equal(t, "boom", got["detail"])
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(tr, ScopeRun, name, "", nil)
	}
	snap := tr.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "c", snap[0].Name)
	assert.Equal(t, "e", snap[2].Name)
	assert.Less(t, snap[0].Seq, snap[2].Seq)
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	Begin(m, ScopePhase, "discover", 0).End("")

	assert.Same(t, ring, m.Ring())
	assert.Len(t, ring.Snapshot(), 2)
	assert.Contains(t, buf.String(), "phase:discover")
}

func TestInertSpanMeasures(t *testing.T) {
	s := Begin(Nop, ScopeFile, "x.rb", 7)
	time.Sleep(time.Millisecond)
	assert.Positive(t, s.End(""))
	assert.Equal(t, uint64(7), s.ID())
}

func TestContextPropagation(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))
	tr := NewRingTracer(4, LevelDebug)
	ctx := WithParent(WithTracer(context.Background(), tr), 42)
	assert.Equal(t, Tracer(tr), FromContext(ctx))
	assert.Equal(t, uint64(42), ParentFromContext(ctx))
}

func TestHeartbeatStop(t *testing.T) {
	assert.Nil(t, StartHeartbeat(Nop, time.Millisecond))
	tr := NewRingTracer(64, LevelError)
	h := StartHeartbeat(tr, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	h.Stop()
	h.Stop()
	assert.NotEmpty(t, tr.Snapshot())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]StorageMode{"": ModeStream, "Stream": ModeStream, "ring": ModeRing, " both ": ModeBoth} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("disk")
	assert.Error(t, err)
	assert.Equal(t, "ring", ModeRing.String())
}

func TestNewBuildsByMode(t *testing.T) {
	off, err := New(Config{Level: LevelOff, Mode: ModeBoth})
	require.NoError(t, err)
	assert.False(t, off.Enabled())

	var buf bytes.Buffer
	stream, err := New(Config{Level: LevelPhase, Output: &buf})
	require.NoError(t, err)
	assert.IsType(t, &StreamTracer{}, stream)
	assert.Nil(t, RingOf(stream))

	ring, err := New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 2})
	require.NoError(t, err)
	assert.NotNil(t, RingOf(ring))

	both, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	require.NotNil(t, RingOf(both))
	Point(both, ScopeRun, "start", "", nil)
	assert.Len(t, RingOf(both).Snapshot(), 1)
	assert.Contains(t, buf.String(), "start")
}

func TestConfigFormatFromExtension(t *testing.T) {
	assert.Equal(t, FormatNDJSON, Config{OutputPath: "run.ndjson"}.format())
	assert.Equal(t, FormatNDJSON, Config{OutputPath: "run.jsonl"}.format())
	assert.Equal(t, FormatText, Config{OutputPath: "run.log"}.format())
	assert.Equal(t, FormatNDJSON, Config{OutputPath: "run.log", Format: FormatNDJSON}.format())
}
