package arena

import "github.com/zeusync/arena/internal/assets"

// Visuals resolves renderable assets for vehicles.
type Visuals interface {
	Resolve(name string) assets.Visual
	Release(v assets.Visual)
}

// Audio accepts fire-and-forget playback requests.
type Audio interface {
	Play(name string, loop bool)
}

// Control is a logical input of the player's device.
type Control uint8

const (
	ControlUp Control = iota
	ControlDown
	ControlLeft
	ControlRight
)

func (c Control) String() string {
	switch c {
	case ControlUp:
		return "up"
	case ControlDown:
		return "down"
	case ControlLeft:
		return "left"
	case ControlRight:
		return "right"
	default:
		return "unknown"
	}
}

// Input reports whether a control is currently held.
type Input interface {
	Held(c Control) bool
}

// NoInput never reports a held control.
type NoInput struct{}

func (NoInput) Held(Control) bool { return false }

type silentAudio struct{}

func (silentAudio) Play(string, bool) {}
