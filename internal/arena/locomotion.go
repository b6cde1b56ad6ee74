package arena

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Locomotion turns every vehicle kinematically and pushes it forward with
// a force. The player steers from input; enemies flip a coin every tick.
type Locomotion struct {
	world *World
	input Input
	rng   *rand.Rand
}

func NewLocomotion(world *World, input Input, rng *rand.Rand) *Locomotion {
	if input == nil {
		input = NoInput{}
	}
	return &Locomotion{world: world, input: input, rng: rng}
}

func (l *Locomotion) Name() string { return "locomotion" }

func (l *Locomotion) Update(tick system.Tick) error {
	engine := l.world.Engine()
	for _, v := range l.world.Vehicles() {
		if delta := l.steer(v, tick.DeltaTime); delta != 0 {
			if err := engine.Rotate(v.Body, delta); err != nil {
				return fmt.Errorf("steer %s %d: %w", v.Role, v.Body, err)
			}
		}
		tf, ok := engine.Transform(v.Body)
		if !ok {
			continue
		}
		if err := engine.ApplyForce(v.Body, DriveForce(tf, v.Params.Speed)); err != nil {
			return fmt.Errorf("drive %s %d: %w", v.Role, v.Body, err)
		}
	}
	return nil
}

func (l *Locomotion) steer(v *Vehicle, dt float64) float64 {
	step := TurnStep(v.Params.TurnRate, dt)
	switch v.Role {
	case RolePlayer:
		var delta float64
		if l.input.Held(ControlLeft) {
			delta += step
		}
		if l.input.Held(ControlRight) {
			delta -= step
		}
		return delta
	case RoleEnemy:
		if l.rng.IntN(2) == 0 {
			return step
		}
		return -step
	default:
		return 0
	}
}

// TurnStep is the yaw change of one tick at turnRate turns per second.
func TurnStep(turnRate, dt float64) float64 {
	return turnRate * 2 * math.Pi * dt
}

// DriveForce is -speed times the horizontal unit forward vector.
func DriveForce(tf physics.Transform, speed float64) physics.Vec3 {
	return tf.Forward().Horizontal().Normalize().Scale(-speed)
}
