package source

type (
	// FileID uniquely identifies a source snippet within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source snippet.
	FileFlags uint8
)

const (
	// FileVirtual indicates the snippet was added from memory (submission, test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for one unit of submitted source text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source snippet.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
