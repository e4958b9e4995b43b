package terminal

import "github.com/gdamore/tcell/v2"

// EventKind classifies terminal input.
type EventKind int

const (
	EventOther EventKind = iota
	EventKey
	EventMouse
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventResize:
		return "resize"
	default:
		return "other"
	}
}

// Event is one item from the terminal event stream.
type Event struct {
	Kind   EventKind
	Key    tcell.Key
	Rune   rune
	Mod    tcell.ModMask
	Width  int
	Height int
}

// PollEvent blocks until the next event. ok is false once the terminal has
// been restored and the stream has ended.
func (t *Terminal) PollEvent() (ev Event, ok bool) {
	raw := t.screen.PollEvent()
	if raw == nil {
		return Event{}, false
	}
	return convert(raw), true
}

func convert(raw tcell.Event) Event {
	switch e := raw.(type) {
	case *tcell.EventKey:
		return Event{Kind: EventKey, Key: e.Key(), Rune: e.Rune(), Mod: e.Modifiers()}
	case *tcell.EventMouse:
		return Event{Kind: EventMouse, Mod: e.Modifiers()}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Kind: EventResize, Width: w, Height: h}
	default:
		return Event{Kind: EventOther}
	}
}
