package physics

import "errors"

var (
	ErrBodyNotFound = errors.New("physics: body not found")
	ErrInvalidBody  = errors.New("physics: invalid body description")
)

// BodyID identifies a body inside an Engine. Zero is never issued.
type BodyID uint64

type BodyKind uint8

const (
	BodyDynamic BodyKind = iota
	BodyStatic
)

// LockedAxes disables rotation around the flagged axes.
type LockedAxes struct {
	RotationX bool
	RotationY bool
	RotationZ bool
}

// BodyDesc describes a body to create. Static bodies are axis aligned
// boxes; dynamic bodies collide as circles of radius max(HalfExtents.X,
// HalfExtents.Z) on the ground plane.
type BodyDesc struct {
	Kind           BodyKind
	Transform      Transform
	HalfExtents    Vec3
	Mass           float64
	MaxLinearSpeed float64 // 0 means unlimited
	LinearDamping  float64
	// MaxAngularSpeed and AngularDamping only apply to angular velocity
	// produced by the solver itself. Yaw set through Rotate is kinematic
	// and never clamped or damped, so a full π reversal lands in one call.
	// SimpleEngine has no angular velocity and ignores both.
	MaxAngularSpeed float64 // 0 means unlimited
	AngularDamping  float64
	Locked          LockedAxes
}

func (d BodyDesc) Validate() error {
	if d.HalfExtents.X <= 0 || d.HalfExtents.Y <= 0 || d.HalfExtents.Z <= 0 {
		return errors.Join(ErrInvalidBody, errors.New("half extents must be positive"))
	}
	if d.Kind == BodyDynamic && d.Mass <= 0 {
		return errors.Join(ErrInvalidBody, errors.New("dynamic body needs positive mass"))
	}
	if d.LinearDamping < 0 || d.AngularDamping < 0 {
		return errors.Join(ErrInvalidBody, errors.New("damping must not be negative"))
	}
	return nil
}

// CollisionStart is emitted once when two bodies begin touching.
type CollisionStart struct {
	A, B BodyID
}

// Involves reports whether id is one of the two bodies.
func (c CollisionStart) Involves(id BodyID) bool { return c.A == id || c.B == id }

// Other returns the body that is not id.
func (c CollisionStart) Other(id BodyID) BodyID {
	if c.A == id {
		return c.B
	}
	return c.A
}

// RayHit is one intersection of a ray cast.
type RayHit struct {
	Body     BodyID
	Distance float64
}

// RayFilter returns false for bodies the ray must pass through.
type RayFilter func(BodyID) bool

// Engine is the port to the physics solver. Implementations must be safe
// for concurrent use by distinct goroutines working on distinct bodies.
type Engine interface {
	AddBody(desc BodyDesc) (BodyID, error)
	RemoveBody(id BodyID) error

	Transform(id BodyID) (Transform, bool)
	// Rotate applies a kinematic yaw change, honouring the body's locks.
	Rotate(id BodyID, deltaYaw float64) error
	// ApplyForce queues a force for the next Step only.
	ApplyForce(id BodyID, force Vec3) error

	// CastRay returns hits ordered by ascending distance, up to maxDistance.
	CastRay(origin, dir Vec3, maxDistance float64, filter RayFilter) []RayHit

	// Step integrates dt seconds, clears queued forces and records the
	// collisions that started during the step.
	Step(dt float64)
	// DrainCollisions hands every pending collision to the caller exactly once.
	DrainCollisions() []CollisionStart
}
