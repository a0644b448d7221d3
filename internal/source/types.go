package source

type (
	// FileID uniquely identifies a script within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a loaded script.
	FileFlags uint8
)

const (
	// FileVirtual indicates the script was added from memory (test, stdin, API caller).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single shell script.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position in a script. Both fields are 1-based;
// columns are end-exclusive when used as a span boundary.
type LineCol struct {
	Line uint32
	Col  uint32
}
