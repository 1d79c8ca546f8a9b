package source

import (
	"bytes"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func detectFlags(content []byte) FileFlags {
	var flags FileFlags
	if bytes.HasPrefix(content, utf8BOM) {
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	return flags
}

// buildLineStarts records offset 0 plus the offset after every \n that is
// not the final byte, so a trailing newline does not open a phantom line.
func buildLineStarts(content []byte) []int {
	out := make([]int, 1, bytes.Count(content, []byte{'\n'})+1)
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			out = append(out, i+1)
		}
	}
	return out
}

func normalizePath(p string) string {
	if p == "" {
		return p
	}
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the cleaned absolute form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. Paths outside baseDir
// fall back to their absolute form.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs), nil //nolint:nilerr // fallback is the answer
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
