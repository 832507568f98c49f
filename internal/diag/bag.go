package diag

import (
	"sort"
)

// Bag is the ordered diagnostic bundle for one submission. Every submission
// produces one, possibly empty. The retention limit sheds items, never facts:
// the severity counters track every Add, so the outcome predicates stay
// truthful past the cap.
type Bag struct {
	items    []Diagnostic
	max      int
	warnings int
	errors   int
	fatals   int
}

// NewBag creates a bundle that holds at most max diagnostics; max <= 0 means
// unbounded.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 16
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add records a diagnostic. It is always counted; retention honors the limit,
// except fatals, which are always kept. Returns whether the item was retained.
func (b *Bag) Add(d Diagnostic) bool {
	b.count(d.Severity)
	if b.max > 0 && len(b.items) >= b.max && d.Severity != SevFatal {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) count(sev Severity) {
	switch sev {
	case SevWarning:
		b.warnings++
	case SevError:
		b.errors++
	case SevFatal:
		b.fatals++
	}
}

// HasWarnings reports whether at least one warning was recorded, retained or
// not.
func (b *Bag) HasWarnings() bool {
	return b.warnings > 0
}

// HasErrors reports whether at least one error was recorded, retained or not.
func (b *Bag) HasErrors() bool {
	return b.errors > 0
}

// HasFatal reports whether the submission hit a fatal failure.
func (b *Bag) HasFatal() bool {
	return b.fatals > 0
}

// Blocking reports whether the bundle forbids serialization and commit.
// Warnings alone never block.
func (b *Bag) Blocking() bool {
	return b.HasErrors() || b.HasFatal()
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Dropped returns how many diagnostics were recorded but shed by the
// retention limit.
func (b *Bag) Dropped() int {
	return b.warnings + b.errors + b.fatals - len(b.items)
}

// Items returns a read-only view of the retained diagnostics.
// Callers must not modify the returned slice.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends diagnostics from another bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.warnings += other.warnings
	b.errors += other.errors
	b.fatals += other.fatals
}

// Sort orders diagnostics by pipeline stage, then source position within a
// stage, then severity (desc) and code, for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Code.Stage() != dj.Code.Stage() {
			return di.Code.Stage() < dj.Code.Stage()
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
