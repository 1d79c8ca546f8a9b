package linter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rblint/internal/cop"
)

func TestIsRubyFile(t *testing.T) {
	for _, p := range []string{"a.rb", "lib/tasks/x.rake", "foo.gemspec", "Gemfile", "config.ru", "dir/Rakefile"} {
		assert.True(t, IsRubyFile(p), p)
	}
	for _, p := range []string{"a.py", "README.md", "Gemfile.lock", "script"} {
		assert.False(t, IsRubyFile(p), p)
	}
}

func TestDiscover(t *testing.T) {
	dir, _ := writeFiles(t, map[string]string{
		"lib/a.rb":          "x = 1\n",
		"Gemfile":           "source 'https://rubygems.org'\n",
		"notes.txt":         "hello\n",
		"bin/tool":          "#!/usr/bin/env ruby\nputs 1\n",
		"bin/sh":            "#!/bin/sh\necho 1\n",
		"vendor/gem/b.rb":   "x = 1\n",
		".bundle/c.rb":      "x = 1\n",
		"node_modules/d.rb": "x = 1\n",
	})
	filter := cop.NewFilter(cop.NewRegistry(), cop.Policy{})

	files, err := Discover([]string{dir}, filter, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Gemfile"),
		filepath.Join(dir, "bin/tool"),
		filepath.Join(dir, "lib/a.rb"),
	}, files)
}

func TestDiscoverExplicitFiles(t *testing.T) {
	dir, _ := writeFiles(t, map[string]string{"vendor/a.rb": "x = 1\n", "notes.txt": "x\n"})
	vendored := filepath.Join(dir, "vendor/a.rb")
	filter := cop.NewFilter(cop.NewRegistry(), cop.Policy{BaseDir: dir, Exclude: []string{"vendor/**"}})

	files, err := Discover([]string{vendored, vendored}, filter, false)
	require.NoError(t, err)
	assert.Equal(t, []string{vendored}, files)

	_, err = Discover([]string{vendored}, filter, true)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestExplicitFiles(t *testing.T) {
	dir, _ := writeFiles(t, map[string]string{"lib/a.rb": "x = 1\n"})
	file := filepath.Join(dir, "lib", "a.rb")

	got := ExplicitFiles([]string{dir, dir + "/lib/./a.rb", filepath.Join(dir, "missing.rb")})
	assert.Equal(t, map[string]bool{file: true}, got)
}

func TestDiscoverErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x\n"), 0o644))
	filter := cop.NewFilter(cop.NewRegistry(), cop.Policy{})

	_, err := Discover([]string{dir}, filter, false)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = Discover([]string{filepath.Join(dir, "missing")}, filter, false)
	assert.Error(t, err)
}
