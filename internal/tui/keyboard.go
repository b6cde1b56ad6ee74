package tui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/arena/internal/arena"
)

// DefaultHold covers the gap between a key press and the terminal's
// auto-repeat.
const DefaultHold = 250 * time.Millisecond

// Keyboard turns terminal key presses into held controls. Terminals report
// presses and repeats but no releases, so a control counts as held until
// hold has passed since its last press.
type Keyboard struct {
	mu   sync.Mutex
	last map[arena.Control]time.Time
	hold time.Duration
	now  func() time.Time
}

var _ arena.Input = (*Keyboard)(nil)

func NewKeyboard(hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{last: make(map[arena.Control]time.Time), hold: hold, now: time.Now}
}

func (k *Keyboard) Press(c arena.Control) {
	k.mu.Lock()
	k.last[c] = k.now()
	k.mu.Unlock()
}

func (k *Keyboard) Held(c arena.Control) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	at, ok := k.last[c]
	return ok && k.now().Sub(at) < k.hold
}

// HandleEvent records steering keys and reports whether the event asks to
// quit.
func (k *Keyboard) HandleEvent(ev tcell.Event) (quit bool) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		k.Press(arena.ControlLeft)
	case tcell.KeyRight:
		k.Press(arena.ControlRight)
	case tcell.KeyUp:
		k.Press(arena.ControlUp)
	case tcell.KeyDown:
		k.Press(arena.ControlDown)
	case tcell.KeyRune:
		switch key.Rune() {
		case 'q', 'Q':
			return true
		case 'a', 'A':
			k.Press(arena.ControlLeft)
		case 'd', 'D':
			k.Press(arena.ControlRight)
		case 'w', 'W':
			k.Press(arena.ControlUp)
		case 's', 'S':
			k.Press(arena.ControlDown)
		}
	}
	return false
}
