package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rblint/internal/linter"
	"rblint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rblint [paths...]",
	Short: "Fast RuboCop-compatible linter for Ruby",
	Long: `rblint inspects Ruby sources with RuboCop's cop names, messages and
.rubocop.yml configuration, and corrects offenses in place on request.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runLint,
}

// exitError carries a process exit code through cobra without a message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(copsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(schemaCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "print phase and per-cop timings to stderr")
	flags.String("ui", "auto", "interactive progress (auto|on|off)")
	flags.String("trace", "", "write trace events to file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat trace events at this interval")
	flags.String("cpuprofile", "", "write a CPU profile to file")
	flags.String("memprofile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return applyColor(cmd)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "rblint: %v\n", err)
		os.Exit(linter.ExitInternal)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves --color against the terminal and NO_COLOR.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return os.Getenv("NO_COLOR") == "" && isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func applyColor(cmd *cobra.Command) error {
	on, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !on
	return nil
}
