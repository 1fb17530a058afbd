package engine

import (
	"context"
	"fmt"

	"github.com/bamsammich/mirrorbak/internal/event"
	"github.com/bamsammich/mirrorbak/internal/ui"
)

// Execute confirms the plan with the user and runs one copy per job, in
// input order. A copy failing at or above the severity threshold, or without
// an exit code, aborts the remaining jobs. It returns how many jobs ran and
// whether the user declined. Cancelling ctx abandons the prompt and stops
// before the next job.
func Execute(ctx context.Context, cfg Config, plan *Plan) (int, bool, error) {
	cfg = cfg.withDefaults()

	if !cfg.AssumeYes && !cfg.DryRun {
		question := fmt.Sprintf(
			"Are you sure you want to backup the paths in \"%s\" to \"%s\"?",
			cfg.InputFile, plan.Root,
		)
		ok, err := confirm(ctx, cfg, question)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, true, nil
		}
	}

	copied := 0
	for _, job := range plan.Jobs {
		if err := ctx.Err(); err != nil {
			return copied, false, err
		}
		base := event.Event{Line: job.Line, Path: job.Src, Dst: job.Dst, File: job.File}

		if cfg.DryRun {
			ev := base
			ev.Type = event.CopyPlanned
			ev.Command = cfg.Copier.CommandLine(job.Job)
			cfg.emit(ev)
			continue
		}

		ev := base
		ev.Type = event.CopyStarted
		cfg.emit(ev)

		code, err := cfg.Copier.Copy(job.Job)
		ev = base
		ev.Code = code
		if err != nil {
			ev.Type = event.CopyFailed
			ev.Error = err
			cfg.emit(ev)
			return copied, false, fmt.Errorf("copy %s: %w", job.Raw, err)
		}
		ev.Type = event.CopyCompleted
		cfg.emit(ev)
		copied++
	}

	cfg.emit(event.Event{Type: event.BackupComplete})
	return copied, false, nil
}

// confirm asks question on cfg.Prompt. A blocked read is abandoned when ctx
// is done.
func confirm(ctx context.Context, cfg Config, question string) (bool, error) {
	type answer struct {
		ok  bool
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		ok, err := ui.Confirm(cfg.Stdin, cfg.Prompt, question)
		ch <- answer{ok: ok, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		return a.ok, a.err
	}
}
