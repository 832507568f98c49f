package symbols

import (
	"branec/internal/types"
)

// DefKind classifies a definition in the persistent table.
type DefKind uint8

const (
	DefInvalid DefKind = iota
	// DefFunction is a locally declared or builtin function.
	DefFunction
	// DefVariable is a top-level variable.
	DefVariable
	// DefPackage is an imported remote package.
	DefPackage
	// DefTask is a callable brought in by a package import; it lowers to a
	// remote task node instead of a local call.
	DefTask
	// DefData is an imported remote dataset.
	DefData
)

func (k DefKind) String() string {
	switch k {
	case DefFunction:
		return "function"
	case DefVariable:
		return "variable"
	case DefPackage:
		return "package"
	case DefTask:
		return "task"
	case DefData:
		return "data"
	default:
		return "invalid"
	}
}

// DefFlags encode miscellaneous attributes.
type DefFlags uint8

const (
	// DefFlagBuiltin marks engine-provided definitions; they are seeded into
	// every fresh table and excluded from snapshots.
	DefFlagBuiltin DefFlags = 1 << iota
)

// Definition is one committed (or staged) entry of the session table: a
// tagged variant over function, variable, package import, task, and data
// import. Submission records which compile call introduced it (0 for seeds).
type Definition struct {
	Name       string
	Kind       DefKind
	Flags      DefFlags
	Type       *types.Type      // variables, datasets
	Signature  *types.Signature // functions, tasks
	Package    string           // tasks: owning package
	Version    string           // package imports and tasks
	Submission uint32
}

// Callable reports whether the definition may appear as a call target.
func (d *Definition) Callable() bool {
	return d.Kind == DefFunction || d.Kind == DefTask
}

// ResultType returns the type a reference to this definition has.
func (d *Definition) ResultType() *types.Type {
	switch d.Kind {
	case DefVariable:
		return d.Type
	case DefData:
		return types.DataType
	default:
		return types.AnyType
	}
}
