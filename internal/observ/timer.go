package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase is one timed step of a run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks run phases and accumulated per-cop time. It is safe for
// concurrent use: cop samples arrive from every lint worker.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	cops   map[string]*copStat
}

type copStat struct {
	total time.Duration
	calls int
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), cops: make(map[string]*copStat)}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// AddCop accumulates one invocation of a cop. Nil timers ignore samples.
func (t *Timer) AddCop(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.cops[name]
	if s == nil {
		s = &copStat{}
		t.cops[name] = s
	}
	s.total += d
	s.calls++
}

// PhaseReport is the serialized form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// CopReport is the serialized accumulated time of one cop.
type CopReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Calls      int     `json:"calls"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Cops    []CopReport   `json:"cops,omitempty"`
}

// Report snapshots the timer. Cops are ordered slowest first.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	var report Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		report.Phases = append(report.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	report.TotalMS = millis(total)
	for name, s := range t.cops {
		report.Cops = append(report.Cops, CopReport{Name: name, DurationMS: millis(s.total), Calls: s.calls})
	}
	sort.Slice(report.Cops, func(i, j int) bool {
		a, b := report.Cops[i], report.Cops[j]
		if a.DurationMS != b.DurationMS {
			return a.DurationMS > b.DurationMS
		}
		return a.Name < b.Name
	})
	return report
}

// Summary renders the report for --timings. topCops limits the cop table.
func (t *Timer) Summary(topCops int) string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-28s %9.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-28s %9.2f ms\n", "total", report.TotalMS)
	if len(report.Cops) > 0 && topCops > 0 {
		sb.WriteString("slowest cops:\n")
		for i, c := range report.Cops {
			if i == topCops {
				break
			}
			fmt.Fprintf(&sb, "  %-28s %9.2f ms  (%d calls)\n", c.Name, c.DurationMS, c.Calls)
		}
	}
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
