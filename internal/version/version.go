package version

import (
	"fmt"

	"github.com/fatih/color"
)

// Version information for the branec CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// The workflow document schema version. Consumers check this before reading a
// document; it moves independently of the CLI version and is never colored.
const (
	SchemaMajor = 1
	SchemaMinor = 0
	SchemaPatch = 0
)

// Schema returns the three-part workflow schema version, e.g. "1.0.0".
func Schema() string {
	return fmt.Sprintf("%d.%d.%d", SchemaMajor, SchemaMinor, SchemaPatch)
}
