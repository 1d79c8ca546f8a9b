package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Overridable at build time via -ldflags "-X rblint/internal/version.Version=...".
var (
	// Version is the semantic version of rblint. It is part of every cache key.
	Version = "0.4.0-dev"

	// RuboCop is the RuboCop release whose cop names and messages rblint follows.
	RuboCop = "1.65.0"

	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted.
// Anything after the patch number is appended unstyled.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Commit returns GitCommit, falling back to the vcs.revision build setting.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// Long is the multi-line banner printed by `rblint version`.
func Long(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "rblint %s (RuboCop %s compatible)\n", v, RuboCop)
	if c := Commit(); c != "" {
		fmt.Fprintf(&sb, "commit: %s\n", c)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built:  %s\n", BuildDate)
	}
	return sb.String()
}
