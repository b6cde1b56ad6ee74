package arena

import (
	"context"
	"fmt"
	"math"

	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/systems/physics"
	"github.com/zeusync/arena/pkg/concurrent"
)

// Hits closer than this are the ray touching its own origin.
const degenerateHitDistance = 1e-6

// BoundaryAvoidance probes ahead of every vehicle and turns it around
// when something is closer than the threshold.
type BoundaryAvoidance struct {
	world      *World
	threshold  float64
	probeRange float64
	workers    int
}

func NewBoundaryAvoidance(world *World, threshold, probeRange float64, workers int) *BoundaryAvoidance {
	return &BoundaryAvoidance{world: world, threshold: threshold, probeRange: probeRange, workers: workers}
}

func (b *BoundaryAvoidance) Name() string { return "boundary" }

// Update probes all vehicles concurrently; each probe only rotates its
// own vehicle, and rotation never moves a body, so probes do not
// influence each other.
func (b *BoundaryAvoidance) Update(system.Tick) error {
	return concurrent.ForEach(context.Background(), b.world.Vehicles(), b.workers, func(_ context.Context, v *Vehicle) error {
		_, err := b.avoid(v)
		return err
	})
}

func (b *BoundaryAvoidance) avoid(v *Vehicle) (bool, error) {
	engine := b.world.Engine()
	tf, ok := engine.Transform(v.Body)
	if !ok {
		return false, nil
	}
	d, hit := Clearance(engine, v.Body, tf, b.probeRange)
	if !hit || d >= b.threshold {
		return false, nil
	}
	if err := engine.Rotate(v.Body, math.Pi); err != nil {
		return false, fmt.Errorf("reverse %s %d: %w", v.Role, v.Body, err)
	}
	return true, nil
}

// Clearance casts the probe ray of a vehicle, travelling along -forward
// and ignoring the vehicle's own body, and returns the nearest
// non-degenerate hit.
func Clearance(engine physics.Engine, self physics.BodyID, tf physics.Transform, probeRange float64) (float64, bool) {
	dir := tf.Forward().Scale(-1)
	hits := engine.CastRay(tf.Position, dir, probeRange, func(id physics.BodyID) bool { return id != self })
	for _, h := range hits {
		if h.Distance > degenerateHitDistance {
			return h.Distance, true
		}
	}
	return 0, false
}
