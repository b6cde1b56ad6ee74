package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/arena/internal/arena"
	bus "github.com/zeusync/arena/internal/core/events/bus"
)

// Terminal owns the screen for an interactive session: it renders every
// tick and feeds key presses into a Keyboard.
type Terminal struct {
	screen   tcell.Screen
	view     *View
	keyboard *Keyboard
	sub      bus.Subscription
}

// Open initializes a terminal screen. Pass nil to use the real terminal.
func Open(screen tcell.Screen, halfSize float64) (*Terminal, error) {
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.HideCursor()
	return &Terminal{
		screen:   screen,
		view:     NewView(screen, halfSize),
		keyboard: NewKeyboard(DefaultHold),
	}, nil
}

func (t *Terminal) Input() arena.Input { return t.keyboard }

// Attach renders each published tick snapshot.
func (t *Terminal) Attach(events bus.EventBus) error {
	sub, err := events.Subscribe(arena.EventTick, func(e bus.Event) error {
		if snap, ok := e.Data().(arena.Snapshot); ok {
			t.view.Draw(snap)
		}
		return nil
	})
	if err != nil {
		return err
	}
	t.sub = sub
	return nil
}

// Listen reads terminal events until the screen is closed, calling quit
// when the user asks to leave.
func (t *Terminal) Listen(ctx context.Context, quit context.CancelFunc) {
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				t.screen.Sync()
				continue
			}
			if t.keyboard.HandleEvent(ev) {
				quit()
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

// Close restores the terminal.
func (t *Terminal) Close() {
	if t.sub != nil {
		_ = t.sub.Cancel()
	}
	t.screen.Fini()
}
