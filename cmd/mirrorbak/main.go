package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/mirrorbak/internal/config"
	"github.com/bamsammich/mirrorbak/internal/copier"
	"github.com/bamsammich/mirrorbak/internal/engine"
	"github.com/bamsammich/mirrorbak/internal/filter"
	"github.com/bamsammich/mirrorbak/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// excludeFlag is a custom pflag.Value that appends each --exclude to a
// shared filter.Chain in CLI order.
type excludeFlag struct {
	chain *filter.Chain
	set   []string
}

var _ pflag.Value = (*excludeFlag)(nil)

func (*excludeFlag) String() string { return "" }
func (*excludeFlag) Type() string   { return "string" }

func (f *excludeFlag) Set(val string) error {
	if err := f.chain.AddExclude(val); err != nil {
		return err
	}
	f.set = append(f.set, val)
	return nil
}

// options holds the parsed command line.
type options struct {
	assumeYes      bool
	dryRun         bool
	verbose        bool
	quiet          bool
	showVersion    bool
	noSystemFilter bool
	logFile        string
	filterFile     string
	minSizeStr     string
	maxSizeStr     string
	copierPath     string
	retries        int
	wait           int
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts options
	chain := filter.NewChain()
	excludes := &excludeFlag{chain: chain}

	rootCmd := &cobra.Command{
		Use:   "mirrorbak [flags] <input-file> <output-root>",
		Short: "Back up a list of source paths into a dated folder using robocopy",
		Long: `mirrorbak reads one source path per line from <input-file>, checks every
path, reports the total size and any errors, and after confirmation copies
each source to <output-root>/Backup DD-MM-YYYY/<volume>/<path>.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "mirrorbak %s\n", version)
				return nil
			}
			return runBackup(cmd, args[0], args[1], &opts, chain, excludes)
		},
	}

	rootCmd.Flags().BoolVar(&opts.showVersion, "version", false, "print version and exit")
	rootCmd.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.Flags().
		BoolVar(&opts.dryRun, "dry-run", false, "check sources and print copy commands without running them")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.Flags().
		Var(excludes, "exclude", "exclude entries matching PATTERN (repeatable, trailing / for directories)")
	rootCmd.Flags().StringVar(&opts.filterFile, "filter", "", "read exclusion rules from FILE")
	rootCmd.Flags().
		StringVar(&opts.minSizeStr, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	rootCmd.Flags().
		StringVar(&opts.maxSizeStr, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")
	rootCmd.Flags().
		StringVar(&opts.copierPath, "copier", copier.DefaultTool, "copy tool to run")
	rootCmd.Flags().
		IntVar(&opts.retries, "retries", copier.DefaultRetries, "retries on failed copies (/R:n)")
	rootCmd.Flags().
		IntVar(&opts.wait, "wait", copier.DefaultWait, "seconds between retries (/W:n)")
	rootCmd.Flags().
		BoolVar(&opts.noSystemFilter, "no-system-filter", false, "include system and temporary entries in the size check")

	rootCmd.AddCommand(docsCmd)
	return rootCmd
}

func runBackup(
	cmd *cobra.Command,
	inputFile, outputRoot string,
	opts *options,
	chain *filter.Chain,
	excludes *excludeFlag,
) error {
	// Configure logging.
	logLevel := slog.LevelWarn
	if opts.verbose {
		logLevel = slog.LevelDebug
	} else if opts.quiet {
		logLevel = slog.LevelError
	}
	runID := uuid.NewString()
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	eventLogger := slog.New(slog.DiscardHandler)
	if opts.logFile != "" {
		lf, err := os.Create(opts.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer lf.Close()
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
		eventLogger = slog.New(jsonHandler).With("run_id", runID)
	}
	logger := slog.New(logHandler).With("run_id", runID)
	slog.SetDefault(logger)

	// Load optional config file.
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "path", config.Path(), "error", err)
	}
	if err := applyConfigDefaults(cmd, cfg.Defaults, opts, chain); err != nil {
		return err
	}

	if opts.filterFile != "" {
		if err := chain.LoadFile(opts.filterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}
	if opts.minSizeStr != "" {
		n, err := filter.ParseSize(opts.minSizeStr)
		if err != nil {
			return fmt.Errorf("invalid --min-size: %w", err)
		}
		chain.SetMinSize(n)
	}
	if opts.maxSizeStr != "" {
		n, err := filter.ParseSize(opts.maxSizeStr)
		if err != nil {
			return fmt.Errorf("invalid --max-size: %w", err)
		}
		chain.SetMaxSize(n)
	}
	if opts.retries < 0 || opts.wait < 0 {
		return errors.New("--retries and --wait must not be negative")
	}

	if !opts.assumeYes && !opts.dryRun && !ui.IsTTY(os.Stdin.Fd()) {
		slog.Warn("stdin is not a terminal, confirmation will be read from it")
	}
	if opts.dryRun {
		slog.Info("dry run mode")
	}

	// Set up context with signal handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// The first signal cancels the run; restoring default handling lets a
	// second one terminate the process while a copy is still running.
	go func() {
		<-ctx.Done()
		stop()
	}()

	engineCfg := engine.Config{
		InputFile:    inputFile,
		OutputRoot:   outputRoot,
		SystemFilter: !opts.noSystemFilter,
		Copier: &copier.Robocopy{
			Tool:    opts.copierPath,
			Retries: opts.retries,
			Wait:    opts.wait,
			Runner:  copier.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr},
		},
		Presenter: ui.NewPresenter(ui.Config{
			Writer:    os.Stdout,
			ErrWriter: os.Stderr,
			Quiet:     opts.quiet,
			Verbose:   opts.verbose,
		}),
		Logger:    eventLogger,
		Stdin:     bufio.NewReader(os.Stdin),
		Prompt:    os.Stdout,
		AssumeYes: opts.assumeYes,
		DryRun:    opts.dryRun,
	}
	// Only set filter if it has rules/size constraints.
	if !chain.Empty() {
		engineCfg.Filter = chain
		engineCfg.Copier.Filter = chain
	}

	slog.Debug("starting backup",
		"input", inputFile,
		"output", outputRoot,
		"copier", opts.copierPath,
		"excludes", excludes.set,
	)

	result := engine.Run(ctx, engineCfg)
	if result.Err != nil {
		slog.Error("backup failed", "error", result.Err)
		return &exitError{code: 1}
	}
	if result.Declined {
		slog.Debug("backup declined")
	}
	return nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	opts *options,
	chain *filter.Chain,
) error {
	if !cmd.Flags().Changed("copier") && defaults.Copier != nil {
		opts.copierPath = *defaults.Copier
	}
	if !cmd.Flags().Changed("retries") && defaults.Retries != nil {
		opts.retries = *defaults.Retries
	}
	if !cmd.Flags().Changed("wait") && defaults.Wait != nil {
		opts.wait = *defaults.Wait
	}
	if !cmd.Flags().Changed("min-size") && defaults.MinSize != nil {
		opts.minSizeStr = *defaults.MinSize
	}
	if !cmd.Flags().Changed("max-size") && defaults.MaxSize != nil {
		opts.maxSizeStr = *defaults.MaxSize
	}
	if !cmd.Flags().Changed("no-system-filter") && defaults.SystemFilter != nil {
		opts.noSystemFilter = !*defaults.SystemFilter
	}
	if !cmd.Flags().Changed("exclude") {
		for _, pattern := range defaults.Exclude {
			if err := chain.AddExclude(pattern); err != nil {
				return fmt.Errorf("config exclude %q: %w", pattern, err)
			}
		}
	}
	return nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
