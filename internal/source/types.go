package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks content that starts with a UTF-8 byte order mark.
	FileHadBOM
	// FileHasCRLF marks content with at least one \r\n terminator.
	FileHasCRLF
)

// File captures metadata and content for a single source file.
//
// Content is kept byte-for-byte as read: correction offsets and columns
// refer to these exact bytes, so neither the BOM nor CRLF terminators are
// stripped. The flags only record that they were present.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags

	// lineStarts[i] is the byte offset of line i+1.
	lineStarts []int
}

// Position is a resolved location: 1-based line, 0-based byte column.
type Position struct {
	Line   int
	Column int
}
