package physics

import (
	"math"
	"slices"
	"sync"
)

var _ Engine = (*SimpleEngine)(nil)

type body struct {
	id    BodyID
	desc  BodyDesc
	tf    Transform
	vel   Vec3
	force Vec3
}

func (b *body) radius() float64 {
	return math.Max(b.desc.HalfExtents.X, b.desc.HalfExtents.Z)
}

type contactKey struct{ a, b BodyID }

func newContactKey(a, b BodyID) contactKey {
	if a > b {
		a, b = b, a
	}
	return contactKey{a, b}
}

// SimpleEngine is a small ground-plane solver: dynamic bodies are circles
// integrated with semi-implicit Euler, static bodies are boxes. It exists
// so the arena can run headless; it is not a general physics engine.
type SimpleEngine struct {
	mu       sync.RWMutex
	nextID   BodyID
	bodies   map[BodyID]*body
	contacts map[contactKey]struct{}
	pending  []CollisionStart
}

func NewSimpleEngine() *SimpleEngine {
	return &SimpleEngine{
		bodies:   make(map[BodyID]*body),
		contacts: make(map[contactKey]struct{}),
	}
}

func (e *SimpleEngine) AddBody(desc BodyDesc) (BodyID, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	tf := desc.Transform
	tf.Yaw = WrapAngle(tf.Yaw)
	e.bodies[id] = &body{id: id, desc: desc, tf: tf}
	return id, nil
}

func (e *SimpleEngine) RemoveBody(id BodyID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.bodies[id]; !ok {
		return ErrBodyNotFound
	}
	delete(e.bodies, id)
	for k := range e.contacts {
		if k.a == id || k.b == id {
			delete(e.contacts, k)
		}
	}
	return nil
}

func (e *SimpleEngine) Transform(id BodyID) (Transform, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bodies[id]
	if !ok {
		return Transform{}, false
	}
	return b.tf, true
}

// Velocity returns the current linear velocity of a body.
func (e *SimpleEngine) Velocity(id BodyID) (Vec3, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bodies[id]
	if !ok {
		return Vec3{}, false
	}
	return b.vel, true
}

func (e *SimpleEngine) Rotate(id BodyID, deltaYaw float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bodies[id]
	if !ok {
		return ErrBodyNotFound
	}
	if b.desc.Locked.RotationY {
		return nil
	}
	b.tf.RotateY(deltaYaw)
	return nil
}

func (e *SimpleEngine) ApplyForce(id BodyID, force Vec3) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bodies[id]
	if !ok {
		return ErrBodyNotFound
	}
	if b.desc.Kind == BodyStatic {
		return nil
	}
	b.force = b.force.Add(force)
	return nil
}

func (e *SimpleEngine) CastRay(origin, dir Vec3, maxDistance float64, filter RayFilter) []RayHit {
	dir = dir.Normalize()
	if dir == (Vec3{}) {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var hits []RayHit
	for id, b := range e.bodies {
		if filter != nil && !filter(id) {
			continue
		}
		var (
			t  float64
			ok bool
		)
		if b.desc.Kind == BodyStatic {
			t, ok = rayBox(origin, dir, b.tf.Position.Sub(b.desc.HalfExtents), b.tf.Position.Add(b.desc.HalfExtents))
		} else {
			t, ok = raySphere(origin, dir, b.tf.Position, b.radius())
		}
		if ok && t <= maxDistance {
			hits = append(hits, RayHit{Body: id, Distance: t})
		}
	}
	slices.SortFunc(hits, func(a, b RayHit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return int(a.Body) - int(b.Body)
		}
	})
	return hits
}

func (e *SimpleEngine) Step(dt float64) {
	if dt <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	dynamic := make([]*body, 0, len(e.bodies))
	static := make([]*body, 0)
	for _, b := range e.bodies {
		if b.desc.Kind == BodyStatic {
			static = append(static, b)
		} else {
			dynamic = append(dynamic, b)
		}
	}
	slices.SortFunc(dynamic, func(a, b *body) int { return int(a.id) - int(b.id) })
	slices.SortFunc(static, func(a, b *body) int { return int(a.id) - int(b.id) })

	for _, b := range dynamic {
		integrate(b, dt)
	}

	current := make(map[contactKey]struct{})
	for i, a := range dynamic {
		for _, b := range dynamic[i+1:] {
			if separateCircles(a, b) {
				current[newContactKey(a.id, b.id)] = struct{}{}
			}
		}
		for _, s := range static {
			if separateFromBox(a, s) {
				current[newContactKey(a.id, s.id)] = struct{}{}
			}
		}
	}

	started := make([]contactKey, 0)
	for k := range current {
		if _, ok := e.contacts[k]; !ok {
			started = append(started, k)
		}
	}
	slices.SortFunc(started, func(x, y contactKey) int {
		if x.a != y.a {
			return int(x.a) - int(y.a)
		}
		return int(x.b) - int(y.b)
	})
	for _, k := range started {
		e.pending = append(e.pending, CollisionStart{A: k.a, B: k.b})
	}
	e.contacts = current
}

func (e *SimpleEngine) DrainCollisions() []CollisionStart {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pending
	e.pending = nil
	return out
}

func integrate(b *body, dt float64) {
	acc := b.force.Scale(1 / b.desc.Mass)
	b.vel = b.vel.Add(acc.Scale(dt)).Horizontal()
	b.vel = b.vel.Scale(1 / (1 + dt*b.desc.LinearDamping))
	if limit := b.desc.MaxLinearSpeed; limit > 0 {
		if speed := b.vel.Length(); speed > limit {
			b.vel = b.vel.Scale(limit / speed)
		}
	}
	b.tf.Position = b.tf.Position.Add(b.vel.Scale(dt))
	b.force = Vec3{}
}

func separateCircles(a, b *body) bool {
	d := b.tf.Position.Sub(a.tf.Position).Horizontal()
	dist := d.Length()
	overlap := a.radius() + b.radius() - dist
	if overlap <= 0 {
		return false
	}
	n := d.Normalize()
	if n == (Vec3{}) {
		n = Vec3{X: 1}
	}
	push := n.Scale(overlap / 2)
	a.tf.Position = a.tf.Position.Sub(push)
	b.tf.Position = b.tf.Position.Add(push)
	return true
}

func separateFromBox(d, s *body) bool {
	lo := s.tf.Position.Sub(s.desc.HalfExtents)
	hi := s.tf.Position.Add(s.desc.HalfExtents)
	p := d.tf.Position
	if p.Y+d.desc.HalfExtents.Y < lo.Y || p.Y-d.desc.HalfExtents.Y > hi.Y {
		return false
	}
	closest := Vec3{X: clamp(p.X, lo.X, hi.X), Y: p.Y, Z: clamp(p.Z, lo.Z, hi.Z)}
	delta := p.Sub(closest)
	dist := delta.Length()
	r := d.radius()
	if dist >= r {
		return false
	}
	var n Vec3
	if dist > 0 {
		n = delta.Scale(1 / dist)
	} else {
		// centre inside the box: leave through the nearest face
		n = nearestFaceNormal(p, lo, hi)
		dist = -faceDistance(p, lo, hi)
	}
	d.tf.Position = d.tf.Position.Add(n.Scale(r - dist))
	if vn := d.vel.Dot(n); vn < 0 {
		d.vel = d.vel.Sub(n.Scale(vn))
	}
	return true
}

func nearestFaceNormal(p, lo, hi Vec3) Vec3 {
	best, n := p.X-lo.X, Vec3{X: -1}
	if v := hi.X - p.X; v < best {
		best, n = v, Vec3{X: 1}
	}
	if v := p.Z - lo.Z; v < best {
		best, n = v, Vec3{Z: -1}
	}
	if v := hi.Z - p.Z; v < best {
		n = Vec3{Z: 1}
	}
	return n
}

func faceDistance(p, lo, hi Vec3) float64 {
	return math.Min(math.Min(p.X-lo.X, hi.X-p.X), math.Min(p.Z-lo.Z, hi.Z-p.Z))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// rayBox is the slab test; a ray starting inside the box hits at 0.
func rayBox(o, d, lo, hi Vec3) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)
	axes := [3][4]float64{
		{o.X, d.X, lo.X, hi.X},
		{o.Y, d.Y, lo.Y, hi.Y},
		{o.Z, d.Z, lo.Z, hi.Z},
	}
	for _, a := range axes {
		origin, dir, mn, mx := a[0], a[1], a[2], a[3]
		if dir == 0 {
			if origin < mn || origin > mx {
				return 0, false
			}
			continue
		}
		t1, t2 := (mn-origin)/dir, (mx-origin)/dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

func raySphere(o, d, c Vec3, r float64) (float64, bool) {
	oc := o.Sub(c)
	b := oc.Dot(d)
	cc := oc.Dot(oc) - r*r
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
