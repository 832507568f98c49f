package compiler

import (
	"time"

	"branec/internal/index"
)

// Options configure one Session. The zero value is usable: no external index,
// no snapshot persistence, unbounded diagnostics.
type Options struct {
	// Index is the external package/data catalog. Takes precedence over
	// IndexEndpoint when both are set.
	Index index.Index

	// IndexEndpoint is the catalog's base URL; the endpoint is validated at
	// Open but only contacted when a submission actually imports.
	IndexEndpoint string

	// IndexTimeout bounds each individual catalog lookup.
	IndexTimeout time.Duration

	// MaxDiagnostics caps each submission's bundle; <= 0 means unbounded.
	// Fatals are admitted past the cap.
	MaxDiagnostics int

	// WarningsAsErrors withholds the document and the commit when a
	// submission collects warnings. The warnings keep their severity.
	WarningsAsErrors bool

	// SnapshotPath persists the committed table across sessions. Loaded at
	// Open, written after every successful commit.
	SnapshotPath string
}
