package symbols

// Table is the session-persistent definition table. It only ever holds
// committed entries; in-flight declarations live in a Staging overlay, so a
// failed submission cannot leave anything behind. Entries are append-only
// across successful submissions.
type Table struct {
	defs map[string]Definition
}

// NewTable builds a table seeded with the builtin prelude.
func NewTable() *Table {
	t := &Table{defs: make(map[string]Definition, 16)}
	for _, d := range builtinDefs() {
		t.defs[d.Name] = d
	}
	return t
}

// NewEmptyTable builds a table without builtins (snapshot restore path).
func NewEmptyTable() *Table {
	return &Table{defs: make(map[string]Definition, 16)}
}

// Lookup resolves a name against committed entries only.
func (t *Table) Lookup(name string) (Definition, bool) {
	d, ok := t.defs[name]
	return d, ok
}

// Has reports whether a committed entry with the name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.defs[name]
	return ok
}

// Len returns the number of committed definitions, builtins included.
func (t *Table) Len() int {
	return len(t.defs)
}

// Walk visits every committed definition in unspecified order.
func (t *Table) Walk(fn func(Definition)) {
	for _, d := range t.defs {
		fn(d)
	}
}

// RestoreTable rebuilds a committed table from snapshot definitions. Builtins
// are seeded fresh; builtin-flagged snapshot entries are skipped so a stale
// prelude never shadows the engine's.
func RestoreTable(defs []Definition) *Table {
	t := NewTable()
	for _, d := range defs {
		if d.Flags&DefFlagBuiltin != 0 {
			continue
		}
		t.insert(d)
	}
	return t
}

// insert is only called by Staging.Commit and the snapshot loader.
func (t *Table) insert(d Definition) {
	t.defs[d.Name] = d
}
