package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
	"github.com/viant/afs"
)

// FileSet manages the files of one run. It is safe for concurrent use:
// files are loaded from parallel workers.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	index   map[string]FileID // path -> id
	baseDir string
	fs      afs.Service
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase creates a FileSet whose relative paths are resolved against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]*File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
		fs:      afs.New(),
	}
}

// BaseDir returns the base directory, defaulting to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add registers f and assigns it a new FileID. A later file with the same
// path shadows the earlier one in lookups by path.
func (fileSet *FileSet) Add(f *File) FileID {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	f.ID = FileID(lenFiles)
	fileSet.files = append(fileSet.files, f)
	fileSet.index[f.Path] = f.ID
	return f.ID
}

// AddVirtual adds an in-memory file (stdin, test, or generated).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(NewVirtual(name, content))
}

// Load reads path and registers it.
func (fileSet *FileSet) Load(ctx context.Context, path string) (*File, error) {
	content, err := fileSet.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	f := NewFile(path, content)
	fileSet.Add(f)
	return f, nil
}

// Read returns the raw bytes of path without registering them.
func (fileSet *FileSet) Read(ctx context.Context, path string) ([]byte, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	content, err := fileSet.fs.DownloadWithURL(ctx, abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// Write replaces the content of path on disk.
func (fileSet *FileSet) Write(ctx context.Context, path string, content []byte) error {
	abs, err := AbsolutePath(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(abs); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := fileSet.fs.Upload(ctx, abs, mode, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Get returns the file for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return fileSet.files[id]
}

// Len returns the number of registered files.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// GetByPath returns the latest file registered under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return fileSet.files[id], true
	}
	return nil, false
}

// FormatPath formats a path for display.
// mode: "absolute", "relative", "basename", "auto"
func (fileSet *FileSet) FormatPath(path, mode string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(path); err == nil {
			return abs
		}
	case "relative":
		if rel, err := RelativePath(path, fileSet.BaseDir()); err == nil {
			return rel
		}
	case "basename":
		return BaseName(path)
	}
	return path
}
