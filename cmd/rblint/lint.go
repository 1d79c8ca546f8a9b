package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rblint/internal/config"
	"rblint/internal/cop"
	"rblint/internal/cops"
	"rblint/internal/diag"
	"rblint/internal/formatter"
	"rblint/internal/linter"
	"rblint/internal/observ"
	"rblint/internal/project"
	"rblint/internal/source"
	"rblint/internal/trace"
	"rblint/internal/version"
)

// stdinSeparator precedes the corrected source in --stdin mode.
const stdinSeparator = "===================="

func init() {
	flags := rootCmd.Flags()
	flags.BoolP("autocorrect", "a", false, "autocorrect offenses (only when it's safe)")
	flags.BoolP("autocorrect-all", "A", false, "autocorrect offenses (safe and unsafe)")
	flags.StringSlice("only", nil, "run only the given cops or departments")
	flags.StringSlice("except", nil, "exclude the given cops or departments")
	flags.String("fail-level", "", "minimum severity for exit code 1 (info|refactor|convention|warning|error|fatal)")
	flags.StringP("stdin", "s", "", "lint source from stdin, using PATH for configuration and output")
	flags.BoolP("list-target-files", "L", false, "list the files that would be inspected and exit")
	flags.Bool("list-cops", false, "list the cops enabled by the configuration and exit")
	flags.BoolP("fail-fast", "F", false, "stop after the first file with offenses at or above the fail level")
	flags.Bool("force-exclusion", false, "apply AllCops exclusion to files passed explicitly")
	flags.Bool("cache", true, "use the result cache")
	flags.StringP("config", "c", "", "configuration file (default: nearest .rubocop.yml)")
	flags.StringP("format", "f", "", "output format ("+strings.Join(formatter.Names(), "|")+")")
	flags.IntP("jobs", "j", 0, "files linted in parallel (0 = GOMAXPROCS)")
}

// lintRequest is the resolved command line of a lint run.
type lintRequest struct {
	paths          []string
	mode           cop.AutocorrectMode
	only, except   []string
	failLevel      diag.Severity
	stdinPath      string
	listTargets    bool
	listCops       bool
	failFast       bool
	forceExclusion bool
	cache          bool
	configPath     string
	format         string
	jobs           int
	ui             uiMode
	quiet          bool
	timings        bool
	color          bool
}

func readLintRequest(cmd *cobra.Command, args []string, settings *project.Settings) (*lintRequest, error) {
	flags := cmd.Flags()
	req := &lintRequest{paths: args}
	var err error

	autocorrect, _ := flags.GetBool("autocorrect")
	autocorrectAll, _ := flags.GetBool("autocorrect-all")
	req.mode, err = autocorrectMode(autocorrect, autocorrectAll, settings.Run.Autocorrect)
	if err != nil {
		return nil, err
	}

	req.only, _ = flags.GetStringSlice("only")
	req.except, _ = flags.GetStringSlice("except")
	req.stdinPath, _ = flags.GetString("stdin")
	req.listTargets, _ = flags.GetBool("list-target-files")
	req.listCops, _ = flags.GetBool("list-cops")
	req.failFast, _ = flags.GetBool("fail-fast")
	req.forceExclusion, _ = flags.GetBool("force-exclusion")

	req.cache, _ = flags.GetBool("cache")
	if !flags.Changed("cache") {
		req.cache = settings.CacheEnabled()
	}

	req.configPath, _ = flags.GetString("config")
	if req.configPath == "" && settings.Run.Config != "" {
		req.configPath = settings.Run.Config
		if !filepath.IsAbs(req.configPath) {
			req.configPath = filepath.Join(settings.Root, req.configPath)
		}
	}

	req.format, _ = flags.GetString("format")
	if req.format == "" {
		req.format = settings.Run.Format
	}
	if req.format == "" {
		req.format = "progress"
	}

	req.jobs, _ = flags.GetInt("jobs")
	if !flags.Changed("jobs") {
		req.jobs = settings.Run.Jobs
	}

	level, _ := flags.GetString("fail-level")
	if level == "" {
		level = settings.Run.FailLevel
	}
	req.failLevel = diag.SevConvention
	if level != "" {
		if req.failLevel, err = diag.ParseSeverity(level); err != nil {
			return nil, fmt.Errorf("invalid --fail-level: %w", err)
		}
	}

	persistent := cmd.Root().PersistentFlags()
	uiValue, _ := persistent.GetString("ui")
	if req.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	req.quiet, _ = persistent.GetBool("quiet")
	req.timings, _ = persistent.GetBool("timings")
	if req.color, err = colorEnabled(cmd); err != nil {
		return nil, err
	}
	return req, nil
}

// autocorrectMode combines -a, -A and the settings file; -A wins.
func autocorrectMode(safe, all bool, setting string) (cop.AutocorrectMode, error) {
	switch {
	case all:
		return cop.AutocorrectAll, nil
	case safe:
		return cop.AutocorrectSafe, nil
	}
	switch strings.ToLower(setting) {
	case "", "off":
		return cop.AutocorrectOff, nil
	case "safe":
		return cop.AutocorrectSafe, nil
	case "all":
		return cop.AutocorrectAll, nil
	}
	return cop.AutocorrectOff, fmt.Errorf("invalid autocorrect setting %q (expected off|safe|all)", setting)
}

// checkCopNames rejects --only/--except entries that name nothing.
func checkCopNames(reg *cop.Registry, names []string) error {
	for _, name := range names {
		if _, ok := reg.Lookup(name); ok {
			continue
		}
		if !strings.Contains(name, "/") && reg.HasDepartment(name) {
			continue
		}
		return fmt.Errorf("unrecognized cop or department: %s", name)
	}
	return nil
}

// loadConfig reads the explicit config file or the nearest .rubocop.yml.
func loadConfig(explicit, start string) (*config.Config, error) {
	if explicit != "" {
		return config.Load(explicit)
	}
	if path, ok := config.Discover(start); ok {
		return config.Load(path)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	return config.Default(dir), nil
}

func runLint(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	timer := observ.NewTimer()

	settings, err := project.LoadSettings(".")
	if err != nil {
		return err
	}

	cleanupTrace, err := setupTracing(cmd, settings)
	if err != nil {
		return err
	}
	defer cleanupTrace()
	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanupProf()

	req, err := readLintRequest(cmd, args, settings)
	if err != nil {
		return err
	}

	phase := timer.Begin("config")
	start := "."
	if req.stdinPath != "" {
		start = filepath.Dir(req.stdinPath)
	}
	cfg, err := loadConfig(req.configPath, start)
	if err != nil {
		return err
	}
	reg := cops.Default()
	if err := checkCopNames(reg, req.only); err != nil {
		return err
	}
	if err := checkCopNames(reg, req.except); err != nil {
		return err
	}
	if !req.quiet {
		for _, name := range cfg.UnknownSections(reg) {
			fmt.Fprintf(stderr, "Warning: unrecognized cop or department %s found in %s\n", name, displayConfig(cfg))
		}
	}
	policy := cfg.Policy(reg)
	policy.Only = req.only
	policy.Except = req.except
	policy.Mode = req.mode
	filter := cop.NewFilter(reg, policy)
	timer.End(phase, displayConfig(cfg))

	if req.listCops {
		return listEnabledCops(cmd.OutOrStdout(), filter)
	}

	opts := linter.Options{
		Jobs:            req.jobs,
		MaxPasses:       linter.DefaultMaxPasses,
		ReportConflicts: cfg.AllCops.ReportConflicts,
		FailLevel:       req.failLevel,
		FailFast:        req.failFast,
		ForceExclusion:  req.forceExclusion,
		Write:           req.stdinPath == "",
		Timer:           timer,
	}

	fmtOpts := formatter.Options{
		Color:   req.color,
		Version: version.Version,
		Args:    os.Args[1:],
	}
	if wd, err := os.Getwd(); err == nil {
		fmtOpts.Root = wd
	}

	if req.stdinPath != "" {
		opts.Explicit = map[string]bool{filepath.Clean(req.stdinPath): true}
	} else {
		opts.Explicit = linter.ExplicitFiles(req.paths)
	}

	var code int
	if req.stdinPath != "" {
		code, err = lintStdin(cmd, req, filter, opts, fmtOpts)
	} else {
		code, err = lintFiles(cmd, req, settings, filter, opts, fmtOpts, timer)
	}
	if err != nil {
		return err
	}
	if req.timings {
		fmt.Fprint(stderr, timer.Summary(10))
	}
	if code != linter.ExitClean {
		return exitError{code: code}
	}
	return nil
}

func lintFiles(cmd *cobra.Command, req *lintRequest, settings *project.Settings, filter *cop.Filter, opts linter.Options, fmtOpts formatter.Options, timer *observ.Timer) (int, error) {
	out := cmd.OutOrStdout()

	phase := timer.Begin("discover")
	files, err := linter.Discover(req.paths, filter, req.forceExclusion)
	timer.End(phase, fmt.Sprintf("%d files", len(files)))
	if errors.Is(err, linter.ErrNoFiles) {
		if req.listTargets {
			return linter.ExitClean, nil
		}
		files = nil
	} else if err != nil {
		return linter.ExitInternal, err
	}

	if req.listTargets {
		for _, f := range files {
			fmt.Fprintln(out, f)
		}
		return linter.ExitClean, nil
	}

	if req.cache {
		opts.Cache = openCache(cmd.ErrOrStderr(), settings.Run.CacheDir, req.quiet)
		if opts.ConfigHash, err = linter.ConfigHash(filter.Policy()); err != nil {
			return linter.ExitInternal, err
		}
	}

	fset := source.NewFileSetWithBase(fmtOpts.Root)
	fmtOpts.Files = fset

	useTUI := req.format == "progress" && shouldUseTUI(req.ui) && len(files) > 0
	format := req.format
	if useTUI {
		format = "simple"
	}
	f, err := formatter.New(format, out, fmtOpts)
	if err != nil {
		return linter.ExitInternal, err
	}

	ctx := cmd.Context()
	var run *linter.RunResult
	if useTUI {
		run, err = runLintWithUI(ctx, "rblint", files, fset, filter, opts)
	} else {
		run, err = linter.NewEngine(filter, opts).Run(ctx, fset, files)
	}
	if err != nil {
		return linter.ExitInternal, err
	}
	if run.Internal() {
		dumpTraceRing(ctx, cmd.ErrOrStderr())
	}

	phase = timer.Begin("report")
	defer func() { timer.End(phase, req.format) }()
	if err := report(f, files, run); err != nil {
		return linter.ExitInternal, err
	}
	return run.ExitCode(req.failLevel), nil
}

func lintStdin(cmd *cobra.Command, req *lintRequest, filter *cop.Filter, opts linter.Options, fmtOpts formatter.Options) (int, error) {
	out := cmd.OutOrStdout()
	if req.forceExclusion && filter.Excluded(req.stdinPath) {
		return linter.ExitClean, nil
	}
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return linter.ExitInternal, fmt.Errorf("read stdin: %w", err)
	}

	fset := source.NewFileSetWithBase(fmtOpts.Root)
	file := source.NewFile(req.stdinPath, content)
	fset.Add(file)
	fmtOpts.Files = fset

	format := req.format
	if format == "progress" {
		format = "simple"
	}
	f, err := formatter.New(format, out, fmtOpts)
	if err != nil {
		return linter.ExitInternal, err
	}

	res, err := linter.NewEngine(filter, opts).LintSource(cmd.Context(), file)
	if err != nil {
		return linter.ExitInternal, err
	}
	run := &linter.RunResult{Files: []linter.FileResult{res}}
	if err := report(f, []string{req.stdinPath}, run); err != nil {
		return linter.ExitInternal, err
	}
	if req.mode != cop.AutocorrectOff {
		corrected := content
		if res.Output != nil {
			corrected = res.Output
		}
		fmt.Fprintln(out, stdinSeparator)
		if _, err := out.Write(corrected); err != nil {
			return linter.ExitInternal, err
		}
	}
	return run.ExitCode(req.failLevel), nil
}

func report(f formatter.Formatter, files []string, run *linter.RunResult) error {
	f.Started(files)
	for i := range run.Files {
		f.FileFinished(&run.Files[i])
	}
	return f.Finished(run)
}

// openCache returns nil, after a warning, when the cache directory is unusable.
func openCache(stderr io.Writer, dir string, quiet bool) *linter.Cache {
	if dir == "" {
		var err error
		if dir, err = linter.DefaultCacheDir(); err != nil {
			if !quiet {
				fmt.Fprintf(stderr, "Warning: result cache disabled: %v\n", err)
			}
			return nil
		}
	}
	c, err := linter.OpenCache(dir)
	if err != nil {
		if !quiet {
			fmt.Fprintf(stderr, "Warning: result cache disabled: %v\n", err)
		}
		return nil
	}
	return c
}

// dumpTraceRing prints the in-memory trace tail after an internal error.
func dumpTraceRing(ctx context.Context, w io.Writer) {
	ring := trace.RingOf(trace.FromContext(ctx))
	if ring == nil {
		return
	}
	fmt.Fprintln(w, "trace: last events before the internal error:")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

func displayConfig(cfg *config.Config) string {
	if cfg.Path == "" {
		return "default configuration"
	}
	return cfg.Path
}
