package linter

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rblint/internal/cop"
)

// ErrNoFiles is returned when the given paths contain no Ruby files.
var ErrNoFiles = errors.New("no Ruby files to inspect")

var rubyExtensions = map[string]bool{
	".rb":       true,
	".rake":     true,
	".gemspec":  true,
	".ru":       true,
	".rbw":      true,
	".jbuilder": true,
	".podspec":  true,
	".thor":     true,
}

var rubyFileNames = map[string]bool{
	"Gemfile":     true,
	"Rakefile":    true,
	"Guardfile":   true,
	"Capfile":     true,
	"Podfile":     true,
	"Vagrantfile": true,
	"Brewfile":    true,
	".pryrc":      true,
	".irbrc":      true,
}

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"tmp":          true,
}

// IsRubyFile reports whether path looks like Ruby by extension or name.
func IsRubyFile(path string) bool {
	base := filepath.Base(path)
	return rubyExtensions[filepath.Ext(base)] || rubyFileNames[base]
}

// hasRubyShebang reports whether an extensionless file starts with a ruby
// interpreter line.
func hasRubyShebang(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(line, "#!") && strings.Contains(line, "ruby")
}

// ExplicitFiles returns the cleaned paths that name files rather than
// directories. Paths that cannot be stat'ed are skipped.
func ExplicitFiles(paths []string) map[string]bool {
	out := make(map[string]bool)
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			out[filepath.Clean(p)] = true
		}
	}
	return out
}

// Discover expands paths into the sorted, de-duplicated list of files to
// lint. Directories are walked; hidden, vendor and dependency directories
// are skipped and AllCops exclusion applies. Files named explicitly are
// always linted unless force is set.
func Discover(paths []string, filter *cop.Filter, force bool) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		if !info.IsDir() {
			if force && filter.Excluded(root) {
				continue
			}
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || filter.Excluded(path) {
				return nil
			}
			if IsRubyFile(path) || (filepath.Ext(path) == "" && hasRubyShebang(path)) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(files)
	return files, nil
}
