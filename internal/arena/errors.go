package arena

import "errors"

// Invariant violations. They mean the spawn and collision bookkeeping
// disagree and the session must stop.
var (
	ErrPopulationUnderflow = errors.New("enemy population would drop below zero")
	ErrPopulationOverflow  = errors.New("enemy population would exceed the cap")
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrPlayerExists    = errors.New("player vehicle already exists")
	ErrNoPlayer        = errors.New("session has no player vehicle")
)
