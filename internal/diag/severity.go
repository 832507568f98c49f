package diag

// Severity defines the tier of a diagnostic.
type Severity uint8

const (
	// SevWarning is advisory; it never blocks serialization or commit.
	SevWarning Severity = iota
	// SevError blocks the current submission but not the session.
	SevError
	// SevFatal indicates an environment or internal failure outside the
	// submitted text; it blocks the submission and carries no source span.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	}
	return "UNKNOWN"
}
