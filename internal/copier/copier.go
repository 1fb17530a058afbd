// Package copier invokes the external recursive-copy tool for planned jobs.
//
// The tool is robocopy-compatible: positional source, destination and an
// optional file name, followed by switches. Exit codes below
// SeverityThreshold mean success or informational results; anything at or
// above it is a failure.
package copier

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bamsammich/mirrorbak/internal/filter"
)

// SeverityThreshold is the first exit code treated as a copy failure.
const SeverityThreshold = 8

// Defaults for the retry switches passed to the copy tool.
const (
	DefaultTool    = "robocopy"
	DefaultRetries = 10
	DefaultWait    = 5
)

// ErrNoExitCode is returned when the copy tool terminated without an exit
// code, for example because it was killed by a signal.
var ErrNoExitCode = errors.New("no exit code returned")

// SeverityError reports a copy tool exit code at or above SeverityThreshold.
type SeverityError struct {
	Code int
}

func (e *SeverityError) Error() string {
	return fmt.Sprintf("errors during copy, exit code: %d", e.Code)
}

// Job is a single copy invocation. File is empty for directory copies.
type Job struct {
	Src  string
	Dst  string
	File string
}

// Runner starts a process and waits for it, returning its exit code.
type Runner interface {
	Run(name string, args []string) (int, error)
}

// ExecRunner runs the tool with os/exec, streaming its output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner. A non-zero exit is not an error; a missing exit
// code is ErrNoExitCode.
func (r ExecRunner) Run(name string, args []string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
	default:
		return -1, fmt.Errorf("run %s: %w", name, err)
	}

	code := cmd.ProcessState.ExitCode()
	if code < 0 {
		return code, ErrNoExitCode
	}
	return code, nil
}

// Robocopy builds and runs copy tool invocations.
type Robocopy struct {
	Tool    string
	Retries int
	Wait    int
	Filter  *filter.Chain
	Runner  Runner
}

func (r *Robocopy) tool() string {
	if r.Tool == "" {
		return DefaultTool
	}
	return r.Tool
}

// Args returns the argument list for job.
func (r *Robocopy) Args(job Job) []string {
	args := []string{job.Src, job.Dst}
	if job.File != "" {
		args = append(args, job.File)
	} else {
		args = append(args, "/S", "/E")
	}
	args = append(args,
		"/DCOPY:DAT",
		"/XJ",
		"/ETA",
		"/R:"+strconv.Itoa(r.Retries),
		"/W:"+strconv.Itoa(r.Wait),
	)

	if r.Filter.Empty() {
		return args
	}
	if files := r.Filter.FilePatterns(); len(files) > 0 {
		args = append(append(args, "/XF"), files...)
	}
	// Directory exclusions are irrelevant when copying a single file.
	if dirs := r.Filter.DirPatterns(); len(dirs) > 0 && job.File == "" {
		args = append(append(args, "/XD"), dirs...)
	}
	if n := r.Filter.MinSize(); n > 0 {
		args = append(args, "/MIN:"+strconv.FormatInt(n, 10))
	}
	if n := r.Filter.MaxSize(); n > 0 {
		args = append(args, "/MAX:"+strconv.FormatInt(n, 10))
	}
	return args
}

// CommandLine renders the invocation for job as a single display string.
func (r *Robocopy) CommandLine(job Job) string {
	parts := []string{quote(r.tool())}
	for _, a := range r.Args(job) {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

// Copy runs the tool for job. The exit code is returned even on failure;
// codes at or above SeverityThreshold produce a *SeverityError.
func (r *Robocopy) Copy(job Job) (int, error) {
	code, err := r.Runner.Run(r.tool(), r.Args(job))
	if err != nil {
		return code, err
	}
	if code >= SeverityThreshold {
		return code, &SeverityError{Code: code}
	}
	return code, nil
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
