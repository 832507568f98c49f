// Package index abstracts the remote catalog of importable packages and
// datasets. The resolve stage only sees the Index interface, so tests run
// against the in-memory implementation and never touch the network.
package index

import (
	"context"

	"branec/internal/types"
)

// FuncSpec describes one callable exposed by a remote package.
type FuncSpec struct {
	Name   string
	Params []*types.Type
	Ret    *types.Type
}

// PackageInfo is the catalog entry for one package version.
type PackageInfo struct {
	Name      string
	Version   string
	Functions []FuncSpec
}

// DataInfo is the catalog entry for one dataset.
type DataInfo struct {
	Name string
}

// Index is the read-only external catalog queried during resolution.
// Implementations return (zero, false, nil) for names the catalog does not
// know, and a non-nil error only for environment failures (connectivity,
// protocol); the resolver maps the latter to a fatal diagnostic.
type Index interface {
	// Package fetches a package, optionally pinned to a version (empty means
	// latest).
	Package(ctx context.Context, name, version string) (PackageInfo, bool, error)
	// Data fetches a dataset by name.
	Data(ctx context.Context, name string) (DataInfo, bool, error)
}
