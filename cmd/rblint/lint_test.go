package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rblint/internal/cop"
	"rblint/internal/cops"
)

func TestAutocorrectMode(t *testing.T) {
	tests := []struct {
		safe, all bool
		setting   string
		want      cop.AutocorrectMode
	}{
		{want: cop.AutocorrectOff},
		{safe: true, want: cop.AutocorrectSafe},
		{all: true, safe: true, want: cop.AutocorrectAll},
		{setting: "safe", want: cop.AutocorrectSafe},
		{setting: "ALL", want: cop.AutocorrectAll},
		{safe: true, setting: "all", want: cop.AutocorrectSafe},
	}
	for _, tt := range tests {
		got, err := autocorrectMode(tt.safe, tt.all, tt.setting)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%+v", tt)
	}

	_, err := autocorrectMode(false, false, "sometimes")
	assert.Error(t, err)
}

func TestCheckCopNames(t *testing.T) {
	reg := cops.Default()
	assert.NoError(t, checkCopNames(reg, []string{"Layout/LineLength", "Style"}))
	assert.EqualError(t, checkCopNames(reg, []string{"Layout/Nope"}), "unrecognized cop or department: Layout/Nope")
	assert.Error(t, checkCopNames(reg, []string{"Nope"}))
}

func TestReadUIMode(t *testing.T) {
	mode, err := readUIMode(" ON ")
	require.NoError(t, err)
	assert.Equal(t, uiModeOn, mode)
	mode, err = readUIMode("")
	require.NoError(t, err)
	assert.Equal(t, uiModeAuto, mode)
	_, err = readUIMode("sometimes")
	assert.Error(t, err)
	assert.False(t, shouldUseTUI(uiModeOff))
}

func TestCopTraits(t *testing.T) {
	reg := cops.Default()
	e, ok := reg.Lookup("Layout/TrailingWhitespace")
	require.True(t, ok)
	assert.Equal(t, "autocorrect", copTraits(e.Cop))

	e, ok = reg.Lookup("Metrics/MethodLength")
	require.True(t, ok)
	assert.Equal(t, "", copTraits(e.Cop))
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadConfig("", dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)

	path := filepath.Join(dir, ".rubocop.yml")
	require.NoError(t, os.WriteFile(path, []byte("Layout/LineLength:\n  Max: 100\n"), 0o644))
	cfg, err = loadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
}

// execute runs the root command in dir with every sticky lint flag reset.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	base := []string{"--ui", "off", "--color", "off", "--cache=false", "--format", "simple",
		"--autocorrect=false", "--stdin", "", "--only", "Layout/TrailingWhitespace"}
	rootCmd.SetArgs(append(base, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLintReportsOffenses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.rb"), []byte("x = 1 \n"), 0o644))

	out, err := execute(t, dir)
	var ee exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.code)
	assert.Contains(t, out, "bad.rb:1:5: [C] Layout/TrailingWhitespace: Trailing whitespace detected.")
	assert.Contains(t, out, "1 file inspected, 1 offense detected")
}

func TestLintAutocorrectWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.rb")
	require.NoError(t, os.WriteFile(path, []byte("x = 1   \n"), 0o644))

	out, err := execute(t, dir, "-a")
	require.NoError(t, err)
	assert.Contains(t, out, "[Corrected]")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}

func TestLintStdinPrintsCorrectedSource(t *testing.T) {
	dir := t.TempDir()
	rootCmd.SetIn(bytes.NewBufferString("y = 2  \n"))
	defer rootCmd.SetIn(nil)

	out, err := execute(t, dir, "-a", "--stdin", "piped.rb")
	require.NoError(t, err)
	assert.Contains(t, out, "piped.rb:1:5: [C] Layout/TrailingWhitespace: Trailing whitespace detected. [Corrected]")
	assert.Contains(t, out, stdinSeparator+"\ny = 2\n")
	_, statErr := os.Stat(filepath.Join(dir, "piped.rb"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLintRejectsUnknownOnly(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "--only", "Layout/Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Layout/Nope")
}
