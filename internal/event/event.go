package event

import (
	"log/slog"
	"time"

	"github.com/bamsammich/mirrorbak/internal/stats"
)

// Type identifies the kind of event.
type Type int

const (
	CheckStarted Type = iota + 1
	SourceAccepted
	SourceFailed
	EntryFailed
	OverlapFound
	PlanComplete
	CopyStarted
	CopyCompleted
	CopyFailed
	CopyPlanned // dry run: the command that would run
	BackupComplete
)

var typeNames = [...]string{
	CheckStarted:   "CheckStarted",
	SourceAccepted: "SourceAccepted",
	SourceFailed:   "SourceFailed",
	EntryFailed:    "EntryFailed",
	OverlapFound:   "OverlapFound",
	PlanComplete:   "PlanComplete",
	CopyStarted:    "CopyStarted",
	CopyCompleted:  "CopyCompleted",
	CopyFailed:     "CopyFailed",
	CopyPlanned:    "CopyPlanned",
	BackupComplete: "BackupComplete",
}

func (t Type) String() string {
	if int(t) > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single step of a backup run.
type Event struct {
	Type      Type
	Timestamp time.Time
	Line      int    // input file line, 0 when not tied to a line
	Path      string // source path
	Dst       string // destination path
	File      string // single-file name, if any
	Code      int    // copy tool exit code
	Command   string // rendered copy command
	Stats     stats.WalkStats
	Error     error
}

// Attrs renders the event as structured log attributes.
func (e Event) Attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("type", e.Type.String())}
	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line))
	}
	if e.Path != "" {
		attrs = append(attrs, slog.String("path", e.Path))
	}
	if e.Dst != "" {
		attrs = append(attrs, slog.String("dst", e.Dst))
	}
	if e.File != "" {
		attrs = append(attrs, slog.String("file", e.File))
	}
	switch e.Type {
	case CopyCompleted, CopyFailed:
		attrs = append(attrs, slog.Int("code", e.Code))
	case CopyPlanned:
		attrs = append(attrs, slog.String("command", e.Command))
	case PlanComplete:
		attrs = append(attrs,
			slog.Uint64("bytes", e.Stats.Bytes),
			slog.Int64("files", e.Stats.Files),
			slog.Int64("folders", e.Stats.Folders),
			slog.Int64("errors", e.Stats.Errors),
		)
	}
	if e.Error != nil {
		attrs = append(attrs, slog.String("error", e.Error.Error()))
	}
	return attrs
}
