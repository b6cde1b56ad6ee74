package arena

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

// World owns every vehicle and its physics body.
type World struct {
	mu       sync.RWMutex
	engine   physics.Engine
	visuals  Visuals
	player   *Vehicle
	vehicles map[physics.BodyID]*Vehicle
}

func NewWorld(engine physics.Engine, visuals Visuals) *World {
	return &World{
		engine:   engine,
		visuals:  visuals,
		vehicles: make(map[physics.BodyID]*Vehicle),
	}
}

func (w *World) Engine() physics.Engine { return w.engine }

// AddStatic places scene geometry that is not a vehicle.
func (w *World) AddStatic(desc physics.BodyDesc) (physics.BodyID, error) {
	desc.Kind = physics.BodyStatic
	return w.engine.AddBody(desc)
}

// AddVehicle creates the body, attaches the visual and registers the
// vehicle. A missing visual does not prevent creation.
func (w *World) AddVehicle(role Role, variant string, desc physics.BodyDesc, params RoleParams) (*Vehicle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if role == RolePlayer && w.player != nil {
		return nil, ErrPlayerExists
	}
	id, err := w.engine.AddBody(desc)
	if err != nil {
		return nil, fmt.Errorf("add %s body: %w", role, err)
	}
	v := &Vehicle{
		Body:    id,
		Role:    role,
		Variant: variant,
		Visual:  w.visuals.Resolve(variant),
		Params:  params,
	}
	w.vehicles[id] = v
	if role == RolePlayer {
		w.player = v
	}
	return v, nil
}

// Destroy removes an enemy's body and visual and forgets the vehicle in a
// single critical section. The player cannot be destroyed.
func (w *World) Destroy(id physics.BodyID) (*Vehicle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.vehicles[id]
	if !ok || v.Role != RoleEnemy {
		return nil, fmt.Errorf("%w: enemy body %d", ErrVehicleNotFound, id)
	}
	if err := w.engine.RemoveBody(id); err != nil {
		return nil, fmt.Errorf("remove body %d: %w", id, err)
	}
	w.visuals.Release(v.Visual)
	delete(w.vehicles, id)
	return v, nil
}

func (w *World) Vehicle(id physics.BodyID) (*Vehicle, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.vehicles[id]
	return v, ok
}

func (w *World) Player() *Vehicle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.player
}

// Vehicles returns every live vehicle ordered by body id.
func (w *World) Vehicles() []*Vehicle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Vehicle, 0, len(w.vehicles))
	for _, v := range w.vehicles {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Vehicle) int { return int(a.Body) - int(b.Body) })
	return out
}

func (w *World) Enemies() []*Vehicle {
	all := w.Vehicles()
	out := all[:0]
	for _, v := range all {
		if v.Role == RoleEnemy {
			out = append(out, v)
		}
	}
	return out
}

// Transform reads the current pose of a vehicle.
func (w *World) Transform(v *Vehicle) (physics.Transform, bool) {
	return w.engine.Transform(v.Body)
}
