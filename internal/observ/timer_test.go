package observ

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("discover")
	tm.End(idx, "12 files")
	tm.End(99, "ignored")

	r := tm.Report()
	require.Len(t, r.Phases, 1)
	assert.Equal(t, "discover", r.Phases[0].Name)
	assert.Equal(t, "12 files", r.Phases[0].Note)
	assert.Contains(t, tm.Summary(5), "// 12 files")
}

func TestTimerCopsConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.AddCop("Layout/LineLength", time.Millisecond)
			tm.AddCop("Style/Semicolon", 2*time.Millisecond)
		}()
	}
	wg.Wait()

	r := tm.Report()
	require.Len(t, r.Cops, 2)
	assert.Equal(t, "Style/Semicolon", r.Cops[0].Name)
	assert.Equal(t, 8, r.Cops[0].Calls)

	s := tm.Summary(1)
	assert.Contains(t, s, "Style/Semicolon")
	assert.False(t, strings.Contains(s, "Layout/LineLength"))
}

func TestNilTimerAddCop(t *testing.T) {
	var tm *Timer
	assert.NotPanics(t, func() { tm.AddCop("X/Y", time.Second) })
}
