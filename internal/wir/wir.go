// Package wir defines the workflow intermediate representation: an edge-list
// task graph with an embedded definition table, plus the lowering that builds
// it from a resolved syntax tree and the deterministic serializer that turns
// it into the exchange document.
package wir

import (
	"encoding/json"
	"sort"

	"branec/internal/symbols"
	"branec/internal/version"
)

// FuncDef describes one workflow-local function in the document table.
type FuncDef struct {
	Name       string   `json:"name"`
	Args       []string `json:"args"`
	Ret        string   `json:"ret"`
	Submission uint32   `json:"submission"`
}

// TaskDef describes one remote task brought in by a package import.
type TaskDef struct {
	Name       string   `json:"name"`
	Package    string   `json:"package"`
	Version    string   `json:"version"`
	Args       []string `json:"args"`
	Ret        string   `json:"ret"`
	Submission uint32   `json:"submission"`
}

// VarDef describes one top-level variable.
type VarDef struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Submission uint32 `json:"submission"`
}

// DataDef describes one imported remote dataset.
type DataDef struct {
	Name       string `json:"name"`
	Submission uint32 `json:"submission"`
}

// Table is the definition table embedded in the document. Each category is
// sorted by name so that equal sessions serialize to equal bytes; edge
// operands reference entries by index into these slices.
type Table struct {
	Funcs []FuncDef `json:"funcs"`
	Tasks []TaskDef `json:"tasks"`
	Vars  []VarDef  `json:"vars"`
	Data  []DataDef `json:"data"`
}

// Workflow is the finalized task graph for one submission. Graph holds the
// top-level chain; Funcs holds one chain per workflow-local function, keyed
// by its Table.Funcs index.
type Workflow struct {
	Version string        `json:"version"`
	Table   Table         `json:"table"`
	Graph   []Edge        `json:"graph"`
	Funcs   map[int][]Edge `json:"funcs"`
}

// Serialize renders the workflow to its exchange document. The output is
// deterministic: identical graphs serialize to byte-identical documents, so
// callers may use the bytes as a cache key. On error nothing is returned.
func (w *Workflow) Serialize() ([]byte, error) {
	return json.Marshal(w)
}

// SerializeIndent renders the document human-readably, same determinism.
func (w *Workflow) SerializeIndent() ([]byte, error) {
	return json.MarshalIndent(w, "", "  ")
}

// buildTable collects every non-builtin definition visible to the submission
// (committed entries plus the staged overlay, the overlay winning on name
// clashes) into a sorted document table.
func buildTable(staging *symbols.Staging) Table {
	merged := make(map[string]symbols.Definition, 32)
	staging.Table().Walk(func(d symbols.Definition) {
		merged[d.Name] = d
	})
	for _, d := range staging.Staged() {
		merged[d.Name] = d
	}

	tbl := Table{
		Funcs: []FuncDef{},
		Tasks: []TaskDef{},
		Vars:  []VarDef{},
		Data:  []DataDef{},
	}
	for _, d := range merged {
		if d.Flags&symbols.DefFlagBuiltin != 0 {
			continue
		}
		switch d.Kind {
		case symbols.DefFunction:
			tbl.Funcs = append(tbl.Funcs, FuncDef{
				Name:       d.Name,
				Args:       sigArgs(d),
				Ret:        sigRet(d),
				Submission: d.Submission,
			})
		case symbols.DefTask:
			tbl.Tasks = append(tbl.Tasks, TaskDef{
				Name:       d.Name,
				Package:    d.Package,
				Version:    d.Version,
				Args:       sigArgs(d),
				Ret:        sigRet(d),
				Submission: d.Submission,
			})
		case symbols.DefVariable:
			typ := "Any"
			if d.Type != nil {
				typ = d.Type.String()
			}
			tbl.Vars = append(tbl.Vars, VarDef{Name: d.Name, Type: typ, Submission: d.Submission})
		case symbols.DefData:
			tbl.Data = append(tbl.Data, DataDef{Name: d.Name, Submission: d.Submission})
		}
	}

	sort.Slice(tbl.Funcs, func(i, j int) bool { return tbl.Funcs[i].Name < tbl.Funcs[j].Name })
	sort.Slice(tbl.Tasks, func(i, j int) bool { return tbl.Tasks[i].Name < tbl.Tasks[j].Name })
	sort.Slice(tbl.Vars, func(i, j int) bool { return tbl.Vars[i].Name < tbl.Vars[j].Name })
	sort.Slice(tbl.Data, func(i, j int) bool { return tbl.Data[i].Name < tbl.Data[j].Name })
	return tbl
}

func sigArgs(d symbols.Definition) []string {
	if d.Signature == nil {
		return []string{}
	}
	args := make([]string, len(d.Signature.Params))
	for i, p := range d.Signature.Params {
		args[i] = p.String()
	}
	return args
}

func sigRet(d symbols.Definition) string {
	if d.Signature == nil || d.Signature.Ret == nil {
		return "Void"
	}
	return d.Signature.Ret.String()
}

func newWorkflow(staging *symbols.Staging) *Workflow {
	return &Workflow{
		Version: version.Schema(),
		Table:   buildTable(staging),
		Funcs:   make(map[int][]Edge),
	}
}
