// Package input turns terminal events into dashboard actions.
package input

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/terminal"
)

// ErrQuit is returned by Run after the user asked to quit. It is a normal
// exit, not a failure.
var ErrQuit = errors.New("quit requested")

// EventSource is the input side of the terminal.
type EventSource interface {
	PollEvent() (terminal.Event, bool)
	Restore()
}

// Controller is what the listener can ask of the renderer.
type Controller interface {
	Invalidate()
	Repaint()
}

// Listener reads terminal events until the stream ends or the user quits.
type Listener struct {
	src    EventSource
	ctrl   Controller
	logger *zap.Logger
}

// New creates a Listener.
func New(src EventSource, ctrl Controller, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{src: src, ctrl: ctrl, logger: logger.Named("input")}
}

// Run blocks on the event stream. It returns nil once the terminal has been
// restored by someone else, and ErrQuit after a quit key, in which case it
// has restored the terminal itself.
func (l *Listener) Run(ctx context.Context) error {
	for {
		ev, ok := l.src.PollEvent()
		if !ok {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := l.Handle(ev); err != nil {
			return err
		}
	}
}

// Handle applies one event.
func (l *Listener) Handle(ev terminal.Event) error {
	switch ev.Kind {
	case terminal.EventKey:
		switch {
		case isQuit(ev):
			l.logger.Debug("Quit requested")
			l.src.Restore()
			return ErrQuit
		case ev.Key == tcell.KeyCtrlL:
			l.redraw()
		default:
			l.logger.Debug("Ignoring key", zap.Int("key", int(ev.Key)), zap.String("rune", string(ev.Rune)))
		}
	case terminal.EventResize:
		l.logger.Debug("Resize", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
		l.redraw()
	default:
		l.logger.Debug("Ignoring event", zap.Stringer("kind", ev.Kind))
	}
	return nil
}

func (l *Listener) redraw() {
	l.ctrl.Invalidate()
	l.ctrl.Repaint()
}

func isQuit(ev terminal.Event) bool {
	switch ev.Key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune == 'q' || ev.Rune == 'Q'
	}
	return false
}
