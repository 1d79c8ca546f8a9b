package source

import (
	"bytes"
	"sort"
)

// NewFile builds a File from raw bytes and indexes its line starts.
func NewFile(path string, content []byte) *File {
	f := &File{
		Path:       normalizePath(path),
		Content:    content,
		Flags:      detectFlags(content),
		lineStarts: buildLineStarts(content),
	}
	return f
}

// NewVirtual is NewFile for in-memory sources such as stdin and tests.
func NewVirtual(name string, content []byte) *File {
	f := NewFile(name, content)
	f.Flags |= FileVirtual
	return f
}

// LineStarts returns the sorted line start table. The slice must not be modified.
func (f *File) LineStarts() []int {
	return f.lineStarts
}

// LineCount is the number of entries in the line start table.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// OffsetToLineCol maps a byte offset to (1-based line, 0-based byte column).
// Offsets past the end of the content clamp to the last line.
func (f *File) OffsetToLineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	// largest i with lineStarts[i] <= offset
	idx := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, offset - f.lineStarts[idx]
}

// Position is OffsetToLineCol packed into a Position.
func (f *File) Position(offset int) Position {
	line, col := f.OffsetToLineCol(offset)
	return Position{Line: line, Column: col}
}

// LineStart returns the byte offset where line (1-based) begins.
// Lines outside [1, LineCount] clamp to the nearest valid one.
func (f *File) LineStart(line int) int {
	switch {
	case line < 1:
		return 0
	case line > len(f.lineStarts):
		return f.lineStarts[len(f.lineStarts)-1]
	}
	return f.lineStarts[line-1]
}

// LineEnd returns the offset of the line's terminating \n, or len(Content)
// for an unterminated last line.
func (f *File) LineEnd(line int) int {
	start := f.LineStart(line)
	if i := bytes.IndexByte(f.Content[start:], '\n'); i >= 0 {
		return start + i
	}
	return len(f.Content)
}

// Line returns the content of the given 1-based line without its terminator.
func (f *File) Line(line int) []byte {
	if line < 1 || line > len(f.lineStarts) {
		return nil
	}
	return f.Content[f.LineStart(line):f.LineEnd(line)]
}

// Lines splits the content on \n. The terminators are not included and a
// trailing \n yields a final empty element.
func (f *File) Lines() [][]byte {
	return bytes.Split(f.Content, []byte{'\n'})
}

// LineColToOffset is the inverse of OffsetToLineCol. ok is false when the
// position does not exist in the file.
func (f *File) LineColToOffset(line, col int) (offset int, ok bool) {
	if !f.ValidPosition(line, col) {
		return 0, false
	}
	return f.LineStart(line) + col, true
}

// ValidPosition reports whether (line, col) addresses a byte of the file
// or the end of a line.
func (f *File) ValidPosition(line, col int) bool {
	if line < 1 || line > len(f.lineStarts) || col < 0 {
		return false
	}
	return col <= f.LineEnd(line)-f.LineStart(line)
}

// HasBOM reports whether the content starts with a UTF-8 BOM.
func (f *File) HasBOM() bool {
	return f.Flags&FileHadBOM != 0
}

// HasCRLF reports whether the content uses \r\n terminators anywhere.
func (f *File) HasCRLF() bool {
	return f.Flags&FileHasCRLF != 0
}
