// Package engine orchestrates a backup run: it plans every source line
// (validate, map, walk), reports the totals and then hands each planned job to
// the external copy tool after confirmation.
package engine

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bamsammich/mirrorbak/internal/copier"
	"github.com/bamsammich/mirrorbak/internal/event"
	"github.com/bamsammich/mirrorbak/internal/filter"
	"github.com/bamsammich/mirrorbak/internal/pathmap"
	"github.com/bamsammich/mirrorbak/internal/ui"
)

// Config describes a backup run.
type Config struct {
	InputFile  string
	OutputRoot string

	Now   time.Time     // date of the backup folder; zero means time.Now
	Style pathmap.Style // zero means pathmap.Native

	Filter       *filter.Chain
	SystemFilter bool // hide system/temporary entries where the platform has them

	Copier    *copier.Robocopy
	Presenter ui.Presenter
	Logger    *slog.Logger

	Stdin     *bufio.Reader // confirmation answers; nil means os.Stdin
	Prompt    io.Writer     // confirmation question; nil means os.Stdout
	AssumeYes bool
	DryRun    bool
}

// Result is the outcome of a backup run.
type Result struct {
	Plan     *Plan
	Copied   int
	Declined bool
	Err      error
}

// Run plans and executes a backup, blocking until complete.
func Run(ctx context.Context, cfg Config) Result {
	cfg = cfg.withDefaults()

	plan, err := BuildPlan(ctx, cfg)
	if err != nil {
		return Result{Err: err}
	}

	copied, declined, err := Execute(ctx, cfg, plan)
	return Result{
		Plan:     plan,
		Copied:   copied,
		Declined: declined,
		Err:      err,
	}
}

func (cfg Config) withDefaults() Config {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Style == 0 {
		cfg.Style = pathmap.Native()
	}
	if cfg.Presenter == nil {
		cfg.Presenter = ui.PresenterFunc(func(event.Event) {})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Stdin == nil {
		cfg.Stdin = bufio.NewReader(os.Stdin)
	}
	if cfg.Prompt == nil {
		cfg.Prompt = os.Stdout
	}
	if cfg.Copier == nil {
		cfg.Copier = &copier.Robocopy{
			Retries: copier.DefaultRetries,
			Wait:    copier.DefaultWait,
			Filter:  cfg.Filter,
			Runner:  copier.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr},
		}
	}
	return cfg
}

// emit timestamps ev, shows it and records it in the structured log.
func (cfg Config) emit(ev event.Event) {
	ev.Timestamp = time.Now()
	cfg.Presenter.Handle(ev)
	cfg.Logger.LogAttrs(context.Background(), slog.LevelInfo, "mirrorbak.event", ev.Attrs()...)
}
