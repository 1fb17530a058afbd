package ui

import (
	"io"

	"github.com/bamsammich/mirrorbak/internal/event"
)

// Presenter renders run events for the user. Calls are synchronous and
// come from a single goroutine.
type Presenter interface {
	Handle(ev event.Event)
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Quiet     bool
	Verbose   bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{errW: cfg.ErrWriter}
	}
	return &plainPresenter{
		w:       cfg.Writer,
		verbose: cfg.Verbose,
	}
}

// PresenterFunc adapts a function to a Presenter.
type PresenterFunc func(ev event.Event)

// Handle implements Presenter.
func (f PresenterFunc) Handle(ev event.Event) { f(ev) }
