// Package terminal wraps a tcell screen with the locking the dashboard
// needs: frames and terminal restoration never interleave, and nothing is
// drawn once the terminal has been restored.
package terminal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	// ErrTerminal marks a failed terminal query or write. It is fatal.
	ErrTerminal = errors.New("terminal error")

	// ErrClosed is returned by Frame after Restore.
	ErrClosed = errors.New("terminal closed")
)

// Terminal serializes access to a tcell screen.
type Terminal struct {
	mu      sync.Mutex
	screen  tcell.Screen
	closed  bool
	restore sync.Once
}

// Open acquires the controlling terminal.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: creating screen: %v", ErrTerminal, err)
	}
	return New(screen)
}

// New initializes screen and takes ownership of it.
func New(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: initializing screen: %v", ErrTerminal, err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	screen.EnableMouse()
	screen.Clear()
	return &Terminal{screen: screen}, nil
}

// Size returns the current dimensions in cells.
func (t *Terminal) Size() (width, height int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, 0, ErrClosed
	}
	return t.size()
}

func (t *Terminal) size() (int, int, error) {
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: terminal reports size %dx%d", ErrTerminal, w, h)
	}
	return w, h, nil
}

// Frame runs draw with exclusive access to the screen and then flushes it.
// If draw cleared the whole canvas, the physical terminal is repainted from
// scratch rather than diffed.
func (t *Terminal) Frame(draw func(c *Canvas) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	w, h, err := t.size()
	if err != nil {
		return err
	}

	c := &Canvas{screen: t.screen, width: w, height: h}
	if err := draw(c); err != nil {
		return err
	}
	if c.cleared {
		t.screen.Sync()
	} else {
		t.screen.Show()
	}
	return nil
}

// Restore shows the cursor, clears the screen, resets colors, homes the
// cursor and releases the terminal. Safe to call more than once and from
// any goroutine; the first call wins.
func (t *Terminal) Restore() {
	t.restore.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.closed = true
		t.screen.SetStyle(tcell.StyleDefault)
		t.screen.Clear()
		t.screen.ShowCursor(0, 0)
		t.screen.Show()
		t.screen.Fini()
	})
}

// Closed reports whether Restore has run.
func (t *Terminal) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Canvas is the drawing surface handed to a Frame callback.
type Canvas struct {
	screen  tcell.Screen
	width   int
	height  int
	cleared bool
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Cleared reports whether ClearAll was called during this frame.
func (c *Canvas) Cleared() bool { return c.cleared }

// ClearAll blanks every cell.
func (c *Canvas) ClearAll() {
	c.screen.SetStyle(tcell.StyleDefault)
	c.screen.Clear()
	c.cleared = true
}

// ClearLine blanks row y.
func (c *Canvas) ClearLine(y int) {
	c.Fill(0, y, c.width, ' ', tcell.StyleDefault)
}

// Fill writes n copies of r starting at (x, y).
func (c *Canvas) Fill(x, y, n int, r rune, style tcell.Style) {
	if y < 0 || y >= c.height {
		return
	}
	for i := 0; i < n && x+i < c.width; i++ {
		c.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Text writes s at (x, y), clipped to the canvas width, and returns the
// number of cells used. Wide runes take two cells.
func (c *Canvas) Text(x, y int, s string, style tcell.Style) int {
	if y < 0 || y >= c.height {
		return 0
	}
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > c.width {
			break
		}
		c.screen.SetContent(col, y, r, nil, style)
		col += w
	}
	return col - x
}
