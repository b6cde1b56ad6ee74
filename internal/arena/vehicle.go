package arena

import (
	"github.com/zeusync/arena/internal/assets"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type Role uint8

const (
	RolePlayer Role = iota + 1
	RoleEnemy
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// RoleParams are the locomotion constants of a role.
type RoleParams struct {
	Speed    float64
	TurnRate float64 // turns per second
}

// Vehicle is immutable once created; its pose lives in the physics body.
type Vehicle struct {
	Body    physics.BodyID
	Role    Role
	Variant string
	Visual  assets.Visual
	Params  RoleParams
}

func paramsFor(rc config.RoleConfig) RoleParams {
	return RoleParams{Speed: rc.Speed, TurnRate: rc.TurnRate}
}

// vehicleBody builds the body shared by every vehicle: roll and pitch
// locked, role specific clamps and damping.
func vehicleBody(body config.BodyConfig, rc config.RoleConfig, at physics.Transform) physics.BodyDesc {
	return physics.BodyDesc{
		Kind:            physics.BodyDynamic,
		Transform:       at,
		HalfExtents:     body.HalfExtents,
		Mass:            body.Mass,
		MaxLinearSpeed:  rc.MaxLinearSpeed,
		MaxAngularSpeed: rc.MaxAngularSpeed,
		LinearDamping:   rc.LinearDamping,
		AngularDamping:  rc.AngularDamping,
		Locked:          physics.LockedAxes{RotationX: true, RotationZ: true},
	}
}
