package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsSuffix(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	Version = "1.2.3-rc.1"
	if got := Colored(); got != "1.2.3-rc.1" {
		t.Fatalf("Colored() = %q", got)
	}
	Version = "weird"
	if got := Colored(); got != "weird" {
		t.Fatalf("Colored() = %q", got)
	}
}

func TestLongIncludesOverrides(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"
	long := Long(false)
	for _, want := range []string{"rblint " + Version, "RuboCop " + RuboCop, "commit: abc123", "built:  2024-01-15"} {
		if !strings.Contains(long, want) {
			t.Errorf("Long() missing %q:\n%s", want, long)
		}
	}
}

func TestLongOmitsEmptyDate(t *testing.T) {
	origDate := BuildDate
	defer func() { BuildDate = origDate }()
	BuildDate = ""
	if strings.Contains(Long(false), "built:") {
		t.Fatal("empty build date should be omitted")
	}
}
