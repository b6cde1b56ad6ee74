package tui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/arena"
	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

func TestKeyboardHoldWindow(t *testing.T) {
	now := time.Unix(100, 0)
	k := NewKeyboard(200 * time.Millisecond)
	k.now = func() time.Time { return now }

	assert.False(t, k.Held(arena.ControlLeft))
	k.Press(arena.ControlLeft)
	assert.True(t, k.Held(arena.ControlLeft))
	assert.False(t, k.Held(arena.ControlRight))

	now = now.Add(199 * time.Millisecond)
	assert.True(t, k.Held(arena.ControlLeft))
	now = now.Add(time.Millisecond)
	assert.False(t, k.Held(arena.ControlLeft))
}

func TestKeyboardHandleEvent(t *testing.T) {
	k := NewKeyboard(time.Hour)

	assert.False(t, k.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
	assert.True(t, k.Held(arena.ControlLeft))
	assert.False(t, k.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone)))
	assert.True(t, k.Held(arena.ControlRight))
	assert.False(t, k.HandleEvent(tcell.NewEventResize(80, 24)))

	assert.True(t, k.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, k.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := s.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func rowText(s tcell.SimulationScreen, y, n int) string {
	out := make([]rune, 0, n)
	for x := range n {
		out = append(out, runeAt(s, x, y))
	}
	return string(out)
}

func view(role arena.Role, x, z float64) arena.VehicleView {
	return arena.VehicleView{Role: role.String(), Transform: physics.Transform{Position: physics.V3(x, 2, z)}}
}

func TestViewDrawsArena(t *testing.T) {
	s := newScreen(t, 21, 12)
	v := NewView(s, 20)

	player := view(arena.RolePlayer, 0, 0)
	v.Draw(arena.Snapshot{
		Overlay:  arena.OverlayText(2),
		Player:   player,
		Vehicles: []arena.VehicleView{player, view(arena.RoleEnemy, 20, 20), view(arena.RoleEnemy, -20, -20)},
	})

	assert.Equal(t, "Poäng: 2", rowText(s, 0, 8))
	assert.Equal(t, '#', runeAt(s, 0, 1))
	assert.Equal(t, '#', runeAt(s, 20, 11))
	assert.Equal(t, '@', runeAt(s, 10, 6))
	assert.Equal(t, 'E', runeAt(s, 19, 10))
	assert.Equal(t, 'E', runeAt(s, 1, 2))
}

func TestTerminalRendersTicksAndQuits(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	term, err := Open(s, 20)
	require.NoError(t, err)
	t.Cleanup(term.Close)
	s.SetSize(30, 10)
	term.keyboard.hold = time.Hour

	events := bus.New()
	require.NoError(t, term.Attach(events))
	require.NoError(t, events.Publish(bus.NewEvent(arena.EventTick, "test", arena.Snapshot{Overlay: arena.OverlayText(7)})))
	assert.Equal(t, "Poäng: 7", rowText(s, 0, 8))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	term.Listen(ctx, cancel)
	s.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("quit key did not cancel the session")
	}
	assert.True(t, term.Input().Held(arena.ControlLeft))
}
