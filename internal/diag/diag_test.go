package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrderAndLetters(t *testing.T) {
	order := []Severity{SevInfo, SevRefactor, SevConvention, SevWarning, SevError, SevFatal}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i])
	}
	var letters []byte
	for _, s := range order {
		letters = append(letters, s.Letter())
	}
	assert.Equal(t, "IRCWEF", string(letters))
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{
		"info": SevInfo, "R": SevRefactor, "Convention": SevConvention,
		" w ": SevWarning, "error": SevError, "F": SevFatal,
	} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSeverity("loud")
	assert.Error(t, err)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Path:     "a.rb",
		Location: Location{Line: 1, Column: 10},
		Severity: SevConvention,
		CopName:  "Layout/LineLength",
		Message:  "Line is too long. [26/10]",
	}
	assert.Equal(t, "a.rb:1:10: [C] Layout/LineLength: Line is too long. [26/10]", d.String())

	d.Corrected = true
	assert.Equal(t, "a.rb:1:10: [C] Layout/LineLength: Line is too long. [26/10] [Corrected]", d.String())
	assert.Equal(t, "Layout", d.Department())
}

func TestBagSortAndFilter(t *testing.T) {
	b := NewBag(4)
	b.Add(Diagnostic{Path: "b.rb", Location: Location{Line: 1}, CopName: "X/A"})
	b.Add(Diagnostic{Path: "a.rb", Location: Location{Line: 2}, CopName: "X/A"})
	b.Add(Diagnostic{Path: "a.rb", Location: Location{Line: 2}, CopName: "W/A", Severity: SevError})
	b.Add(Diagnostic{Path: "a.rb", Location: Location{Line: 1, Column: 3}, CopName: "X/B"})

	remap := b.Filter(func(d *Diagnostic) bool { return d.CopName != "X/B" })
	assert.Equal(t, []int{0, 1, 2, -1}, remap)

	b.Sort()
	var got []string
	for _, d := range b.Items() {
		got = append(got, d.Path+" "+d.CopName)
	}
	assert.Equal(t, []string{"a.rb W/A", "a.rb X/A", "b.rb X/A"}, got)

	worst, ok := b.Worst()
	require.True(t, ok)
	assert.Equal(t, SevError, worst)
	assert.True(t, b.HasAtLeast(SevWarning))
}
