package symbols

// Conflict reports a staged name that already exists in the committed table.
type Conflict struct {
	Name     string
	Existing Definition
}

// Staging is the per-submission overlay on top of the committed table.
// Within one submission, redeclaring a name is last-write-wins; against the
// committed table it is a conflict surfaced at declare time and enforced
// again at commit. Lookup sees staged entries first, committed second.
type Staging struct {
	table      *Table
	staged     map[string]Definition
	order      []string // staged insertion order, for deterministic commits
	submission uint32
}

// NewStaging opens an overlay for one submission.
func NewStaging(table *Table, submission uint32) *Staging {
	return &Staging{
		table:      table,
		staged:     make(map[string]Definition, 8),
		submission: submission,
	}
}

// Declare stages a definition. A non-nil Conflict means the name already
// exists in the committed table; the entry is still staged so resolution of
// the rest of the snippet can proceed, but commit must never be reached for a
// submission that collected the resulting error.
func (s *Staging) Declare(d Definition) *Conflict {
	d.Submission = s.submission
	if _, seen := s.staged[d.Name]; !seen {
		s.order = append(s.order, d.Name)
	}
	s.staged[d.Name] = d

	if existing, ok := s.table.Lookup(d.Name); ok {
		return &Conflict{Name: d.Name, Existing: existing}
	}
	return nil
}

// Table exposes the committed table the overlay sits on.
func (s *Staging) Table() *Table {
	return s.table
}

// Submission returns the ordinal of the submission this overlay serves.
func (s *Staging) Submission() uint32 {
	return s.submission
}

// Lookup resolves staged declarations first, then the committed table.
func (s *Staging) Lookup(name string) (Definition, bool) {
	if d, ok := s.staged[name]; ok {
		return d, true
	}
	return s.table.Lookup(name)
}

// Staged returns this submission's declarations in insertion order.
func (s *Staging) Staged() []Definition {
	out := make([]Definition, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.staged[name])
	}
	return out
}

// Len returns the number of staged names.
func (s *Staging) Len() int {
	return len(s.staged)
}

// Commit merges the staged declarations into the committed table. It must
// only be invoked for submissions with zero errors and zero fatals; conflicts
// against the committed table make it a no-op returning the offenders.
func (s *Staging) Commit() []Conflict {
	var conflicts []Conflict
	for _, name := range s.order {
		if existing, ok := s.table.Lookup(name); ok {
			conflicts = append(conflicts, Conflict{Name: name, Existing: existing})
		}
	}
	if len(conflicts) > 0 {
		return conflicts
	}
	for _, name := range s.order {
		s.table.insert(s.staged[name])
	}
	return nil
}
