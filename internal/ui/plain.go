package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/mirrorbak/internal/backuperr"
	"github.com/bamsammich/mirrorbak/internal/event"
)

// plainPresenter writes one console line per notable event.
type plainPresenter struct {
	w       io.Writer
	verbose bool
}

func (p *plainPresenter) Handle(ev event.Event) {
	switch ev.Type {
	case event.CheckStarted:
		fmt.Fprintln(p.w, "Checking source paths...")
	case event.SourceAccepted:
		if p.verbose {
			fmt.Fprintf(p.w, "%s -> %s\n", displaySource(ev), ev.Dst)
		}
	case event.SourceFailed, event.EntryFailed:
		fmt.Fprintln(p.w, ErrorLine(ev.Error))
	case event.OverlapFound:
		fmt.Fprintf(p.w, "Warning: destination %s overlaps %s\n", ev.Dst, ev.Path)
	case event.PlanComplete:
		fmt.Fprintf(p.w, "\n%s\n", ev.Stats)
		if ev.Stats.Errors > 0 {
			fmt.Fprintln(p.w, "\nWarning: errors found, affected paths will be skipped")
		} else {
			fmt.Fprintln(p.w, "\nAll source paths ok")
		}
	case event.CopyStarted:
		if p.verbose {
			fmt.Fprintf(p.w, "Copying %s -> %s\n", displaySource(ev), ev.Dst)
		}
	case event.CopyCompleted:
		fmt.Fprintf(p.w, "Copy complete, exit code: %d\n", ev.Code)
	case event.CopyPlanned:
		fmt.Fprintln(p.w, ev.Command)
	case event.CopyFailed:
		// returned to the caller as an error
	case event.BackupComplete:
		fmt.Fprintln(p.w, "Backup complete")
	}
}

// ErrorLine formats err for the console, naming the offending path when known.
func ErrorLine(err error) string {
	if err == nil {
		return "Error: unknown"
	}
	if be, ok := backuperr.As(err); ok && be.Path != "" {
		return fmt.Sprintf("Error: %s. Path: %s", be.Message(), be.Path)
	}
	return fmt.Sprintf("Error: %s", err)
}

func displaySource(ev event.Event) string {
	if ev.File == "" {
		return ev.Path
	}
	return fmt.Sprintf("%s [%s]", ev.Path, ev.File)
}
