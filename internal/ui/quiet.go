package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/mirrorbak/internal/event"
)

// quietPresenter reports only errors.
type quietPresenter struct {
	errW io.Writer
}

func (p *quietPresenter) Handle(ev event.Event) {
	switch ev.Type {
	case event.SourceFailed, event.EntryFailed:
		fmt.Fprintln(p.errW, ErrorLine(ev.Error))
	}
}
