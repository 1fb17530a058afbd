package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bamsammich/mirrorbak/internal/backuperr"
	"github.com/bamsammich/mirrorbak/internal/copier"
	"github.com/bamsammich/mirrorbak/internal/event"
	"github.com/bamsammich/mirrorbak/internal/pathmap"
	"github.com/bamsammich/mirrorbak/internal/platform"
	"github.com/bamsammich/mirrorbak/internal/source"
	"github.com/bamsammich/mirrorbak/internal/stats"
	"github.com/bamsammich/mirrorbak/internal/walk"
)

// Job is a planned copy together with the input line it came from.
type Job struct {
	copier.Job
	Line int
	Raw  string
}

// Target returns the destination path this job writes: the destination
// directory, or the file inside it for single-file jobs.
func (j Job) Target(style pathmap.Style) string {
	if j.File == "" {
		return j.Dst
	}
	return style.Join(j.Dst, j.File)
}

// Overlap records two jobs whose targets coincide or nest. The copy tool
// writes into the same destination tree for both.
type Overlap struct {
	First, Second int // indexes into Plan.Jobs
}

// Plan is the validated work of a run.
type Plan struct {
	Root     string // dated backup root
	Style    pathmap.Style
	Jobs     []Job
	Stats    stats.WalkStats
	Overlaps []Overlap
}

// BuildPlan reads the input file and validates, maps and walks every source
// path. Failures on a line are reported and exclude that line; only an
// unreadable input file or cancellation abort planning.
func BuildPlan(ctx context.Context, cfg Config) (*Plan, error) {
	cfg = cfg.withDefaults()

	data, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	mapper := pathmap.New(cfg.OutputRoot, cfg.Now, cfg.Style)
	plan := &Plan{Root: mapper.Root(), Style: cfg.Style}
	skip := cfg.skipFunc()

	cfg.emit(event.Event{Type: event.CheckStarted})

	for i, line := range strings.Split(string(data), "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lineNum := i + 1

		job, ok := cfg.planLine(ctx, lineNum, raw, mapper, skip, &plan.Stats)
		if ok {
			plan.Jobs = append(plan.Jobs, job)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan.Overlaps = findOverlaps(plan.Jobs, plan.Style)
	for _, o := range plan.Overlaps {
		first, second := plan.Jobs[o.First], plan.Jobs[o.Second]
		cfg.emit(event.Event{
			Type: event.OverlapFound,
			Line: second.Line,
			Path: first.Target(plan.Style),
			Dst:  second.Target(plan.Style),
		})
	}

	cfg.emit(event.Event{Type: event.PlanComplete, Stats: plan.Stats})
	return plan, nil
}

// planLine validates, maps and measures a single source. It returns false
// when the line must be excluded from the copy phase.
func (cfg Config) planLine(
	ctx context.Context,
	lineNum int,
	raw string,
	mapper pathmap.Mapper,
	skip walk.SkipFunc,
	total *stats.WalkStats,
) (Job, bool) {
	fail := func(err error) (Job, bool) {
		total.AddError()
		cfg.emit(event.Event{Type: event.SourceFailed, Line: lineNum, Path: raw, Error: err})
		return Job{}, false
	}

	entry, err := source.Validate(raw)
	if err != nil {
		return fail(err)
	}
	dst, err := mapper.Map(entry.Dir)
	if err != nil {
		return fail(err)
	}

	job := Job{
		Job:  copier.Job{Src: entry.Dir, Dst: dst, File: entry.File},
		Line: lineNum,
		Raw:  raw,
	}

	if entry.IsFile() {
		if cfg.Filter.Match(entry.File, false, entry.Info.Size()) {
			total.AddEntry(entry.Info)
		}
	} else if !cfg.walkSource(ctx, lineNum, entry.Dir, skip, total) {
		return Job{}, false
	}

	cfg.emit(event.Event{
		Type: event.SourceAccepted,
		Line: lineNum,
		Path: job.Src,
		Dst:  job.Dst,
		File: job.File,
	})
	return job, true
}

// walkSource folds the tree under dir into total. It returns false when dir
// itself cannot be listed.
func (cfg Config) walkSource(
	ctx context.Context,
	lineNum int,
	dir string,
	skip walk.SkipFunc,
	total *stats.WalkStats,
) bool {
	w := walk.New(dir, walk.Options{Skip: skip})
	defer w.Close()

	for entry, err := range w.All() {
		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			total.AddError()
			typ := event.EntryFailed
			if w.RootErr() != nil {
				typ = event.SourceFailed
			}
			cfg.emit(event.Event{Type: typ, Line: lineNum, Path: dir, Error: err})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			total.AddError()
			cfg.emit(event.Event{
				Type:  event.EntryFailed,
				Line:  lineNum,
				Path:  dir,
				Error: backuperr.IO(entry.Path, err),
			})
			continue
		}
		total.AddEntry(info)
	}
	return w.RootErr() == nil
}

// skipFunc combines the platform attribute filter and the exclusion chain.
func (cfg Config) skipFunc() walk.SkipFunc {
	useSystem := cfg.SystemFilter && platform.FiltersEntries
	if !useSystem && cfg.Filter.Empty() {
		return nil
	}
	sized := cfg.Filter.MinSize() > 0 || cfg.Filter.MaxSize() > 0

	return func(_ string, d fs.DirEntry) bool {
		var info fs.FileInfo
		if useSystem || (sized && !d.IsDir()) {
			var err error
			if info, err = d.Info(); err != nil {
				// Surface the failure through the walk instead.
				return false
			}
		}
		if useSystem && platform.Hidden(info) {
			return true
		}

		var size int64
		if info != nil {
			size = info.Size()
		}
		return !cfg.Filter.Match(d.Name(), d.IsDir(), size)
	}
}

func findOverlaps(jobs []Job, style pathmap.Style) []Overlap {
	var out []Overlap
	for i := range jobs {
		a := jobs[i].Target(style)
		for j := i + 1; j < len(jobs); j++ {
			b := jobs[j].Target(style)
			if style.Contains(a, b) || style.Contains(b, a) {
				out = append(out, Overlap{First: i, Second: j})
			}
		}
	}
	return out
}
