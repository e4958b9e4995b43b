// Package render lays out snapshots as terminal rows and runs the draw loop.
package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/snapshot"
	"github.com/Guliveer/rctop/internal/terminal"
)

// Screen is the drawing side of the terminal.
type Screen interface {
	Frame(draw func(c *terminal.Canvas) error) error
}

// Options configures a Renderer.
type Options struct {
	Interval time.Duration
	Theme    Theme
	Version  string
}

// State is what the renderer remembers between frames.
type State struct {
	Width, Height int
	Version       uint64
	Header        string
	Footer        string

	Frames     int
	FullClears int
	Skipped    int
}

// Renderer redraws the latest snapshot on a fixed cadence or on request.
type Renderer struct {
	screen Screen
	store  *snapshot.Store
	opts   Options
	logger *zap.Logger

	invalidated atomic.Bool
	repaint     chan struct{}

	mu    sync.Mutex
	state State
	drawn bool
}

// New creates a renderer. The first draw always clears the screen.
func New(screen Screen, store *snapshot.Store, opts Options, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &Renderer{
		screen:  screen,
		store:   store,
		opts:    opts,
		logger:  logger.Named("render"),
		repaint: make(chan struct{}, 1),
	}
}

// Invalidate forces a full clear on the next draw.
func (r *Renderer) Invalidate() { r.invalidated.Store(true) }

// Repaint asks the loop to draw now instead of waiting for the next tick.
// Requests made while one is already pending are merged.
func (r *Renderer) Repaint() {
	select {
	case r.repaint <- struct{}{}:
	default:
	}
}

// State returns a copy of the render state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run draws until ctx is cancelled or the terminal is closed, both of which
// return nil. Any other terminal failure is returned.
func (r *Renderer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		if err := r.Draw(); err != nil {
			if errors.Is(err, terminal.ErrClosed) {
				r.logger.Debug("Terminal closed, renderer stopping")
				return nil
			}
			return fmt.Errorf("drawing frame: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-r.repaint:
		}
	}
}

// Draw renders one frame. A frame whose size, snapshot and invalidation
// state are unchanged since the last one is skipped.
func (r *Renderer) Draw() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.screen.Frame(func(c *terminal.Canvas) error {
		width, height := c.Size()
		snap, version := r.store.LoadVersion()
		invalid := r.invalidated.Swap(false)
		resized := width != r.state.Width || height != r.state.Height

		if r.drawn && !invalid && !resized && version == r.state.Version {
			r.state.Skipped++
			return nil
		}

		if !r.drawn || invalid || resized {
			c.ClearAll()
			r.state.FullClears++
			if resized && r.drawn {
				r.logger.Debug("Terminal resized",
					zap.Int("width", width),
					zap.Int("height", height))
			}
		}

		page := Layout(snap, width, height, r.opts.Theme, r.opts.Version)
		for y, line := range page.Lines {
			c.ClearLine(y)
			x := 0
			for _, seg := range line {
				x += c.Text(x, y, seg.Text, seg.Style)
			}
		}

		r.state.Width, r.state.Height = width, height
		r.state.Version = version
		r.state.Header, r.state.Footer = page.Header, page.Footer
		r.state.Frames++
		r.drawn = true
		return nil
	})
}
