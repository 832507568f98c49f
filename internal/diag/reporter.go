package diag

import "branec/internal/source"

// Reporter is the minimal contract pipeline stages use to hand off
// diagnostics. Stages never fail fast; they report and continue.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter collects reported diagnostics into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything. Useful for probes and benchmarks.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// Warningf reports a warning at the given span.
func Warningf(r Reporter, code Code, sp source.Span, msg string) {
	if r != nil {
		r.Report(NewWarning(code, sp, msg))
	}
}

// Errorf reports an error at the given span.
func Errorf(r Reporter, code Code, sp source.Span, msg string) {
	if r != nil {
		r.Report(NewError(code, sp, msg))
	}
}

// Fatalf reports a fatal, span-less failure.
func Fatalf(r Reporter, code Code, msg string) {
	if r != nil {
		r.Report(NewFatal(code, msg))
	}
}
