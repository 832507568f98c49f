// Package observ carries lightweight timing instrumentation for the compile
// pipeline. A Timer is not safe for concurrent use; each submission gets its
// own.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Stage is one timed section of a submission.
type Stage struct {
	Name string
	Dur  time.Duration
}

// Timer accumulates stage durations for one submission.
type Timer struct {
	stages []Stage
}

func NewTimer() *Timer { return &Timer{stages: make([]Stage, 0, 6)} }

// Start begins timing a stage and returns the function that ends it. The
// returned func must be called exactly once.
func (t *Timer) Start(name string) func() {
	begin := time.Now()
	return func() {
		t.stages = append(t.stages, Stage{Name: name, Dur: time.Since(begin)})
	}
}

// StageReport is one stage flattened for serialization.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
}

// Report is the aggregate view of a finished timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

func (t *Timer) Report() Report {
	if len(t.stages) == 0 {
		return Report{}
	}
	rep := Report{Stages: make([]StageReport, len(t.stages))}
	var total time.Duration
	for i, s := range t.stages {
		total += s.Dur
		rep.Stages[i] = StageReport{Name: s.Name, DurationMS: millis(s.Dur)}
	}
	rep.TotalMS = millis(total)
	return rep
}

// Summary renders the report as an indented block for terminal output.
func (r Report) Summary() string {
	if len(r.Stages) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range r.Stages {
		fmt.Fprintf(&b, "  %-12s %8.2f ms\n", s.Name, s.DurationMS)
	}
	fmt.Fprintf(&b, "  %-12s %8.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
