package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SettingsFile is the tool settings file name.
const SettingsFile = "rblint.toml"

// FindSettings walks up from startDir to locate rblint.toml.
func FindSettings(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, SettingsFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// rootMarkers identify a Ruby project root when no rblint.toml exists.
var rootMarkers = []string{"Gemfile", ".git"}

// FindProjectRoot returns the directory containing rblint.toml or, failing
// that, the nearest directory above startDir holding a Gemfile or .git.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	settingsPath, ok, err := FindSettings(startDir)
	if err != nil {
		return "", false, err
	}
	if ok {
		return filepath.Dir(settingsPath), true, nil
	}
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
