package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"branec/internal/symbols"
	"branec/internal/types"
)

// Bump when the payload layout changes; mismatched snapshots are rejected at
// Open instead of being misread.
const snapshotSchemaVersion uint16 = 1

type snapshotPayload struct {
	Schema      uint16
	Submissions uint32
	Defs        []snapshotDef
}

// snapshotDef flattens one table entry. Types travel as their source
// spellings and are re-parsed on load.
type snapshotDef struct {
	Name       string
	Kind       uint8
	Type       string
	Params     []string
	Ret        string
	HasSig     bool
	Package    string
	Version    string
	Submission uint32
}

// saveSnapshot writes the committed table atomically: encode to a temp file
// in the target directory, then rename over the destination. Builtins are
// reseeded on load and therefore not written.
func saveSnapshot(path string, table *symbols.Table, subs uint32) error {
	payload := snapshotPayload{
		Schema:      snapshotSchemaVersion,
		Submissions: subs,
	}
	table.Walk(func(d symbols.Definition) {
		if d.Flags&symbols.DefFlagBuiltin != 0 {
			return
		}
		payload.Defs = append(payload.Defs, flattenDef(d))
	})
	sort.Slice(payload.Defs, func(i, j int) bool {
		return payload.Defs[i].Name < payload.Defs[j].Name
	})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// loadSnapshot restores a table from disk. A missing file is not an error;
// a corrupt or schema-incompatible one is.
func loadSnapshot(path string) (*symbols.Table, uint32, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	defer f.Close()

	var payload snapshotPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, 0, false, fmt.Errorf("decode %s: %w", path, err)
	}
	if payload.Schema != snapshotSchemaVersion {
		return nil, 0, false, fmt.Errorf("%s: snapshot schema %d, engine expects %d",
			path, payload.Schema, snapshotSchemaVersion)
	}

	defs := make([]symbols.Definition, 0, len(payload.Defs))
	for _, sd := range payload.Defs {
		defs = append(defs, unflattenDef(sd))
	}
	return symbols.RestoreTable(defs), payload.Submissions, true, nil
}

func flattenDef(d symbols.Definition) snapshotDef {
	sd := snapshotDef{
		Name:       d.Name,
		Kind:       uint8(d.Kind),
		Package:    d.Package,
		Version:    d.Version,
		Submission: d.Submission,
	}
	if d.Type != nil {
		sd.Type = d.Type.String()
	}
	if d.Signature != nil {
		sd.HasSig = true
		sd.Params = make([]string, len(d.Signature.Params))
		for i, p := range d.Signature.Params {
			sd.Params[i] = p.String()
		}
		if d.Signature.Ret != nil {
			sd.Ret = d.Signature.Ret.String()
		} else {
			sd.Ret = "Void"
		}
	}
	return sd
}

func unflattenDef(sd snapshotDef) symbols.Definition {
	d := symbols.Definition{
		Name:       sd.Name,
		Kind:       symbols.DefKind(sd.Kind),
		Package:    sd.Package,
		Version:    sd.Version,
		Submission: sd.Submission,
	}
	if sd.Type != "" {
		d.Type = types.Parse(sd.Type)
	}
	if sd.HasSig {
		sig := &types.Signature{Ret: types.Parse(sd.Ret)}
		sig.Params = make([]*types.Type, len(sd.Params))
		for i, p := range sd.Params {
			sig.Params[i] = types.Parse(p)
		}
		d.Signature = sig
	}
	return d
}
