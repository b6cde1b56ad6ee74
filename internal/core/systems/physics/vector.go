package physics

import "math"

// Vec3 is a 3D vector in world units. Y is up.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 { return Vec3{v.X, 0, v.Z} }

// Normalize returns the unit vector, or the zero vector for a zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ApproxEqual compares component-wise within eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Transform is the pose of a body. Roll and pitch are locked for every
// vehicle, so orientation reduces to a yaw angle around +Y in radians.
type Transform struct {
	Position Vec3    `json:"position"`
	Yaw      float64 `json:"yaw"`
}

// Forward is the local -Z axis rotated by Yaw.
func (t Transform) Forward() Vec3 {
	s, c := math.Sincos(t.Yaw)
	return Vec3{X: -s, Y: 0, Z: -c}
}

// RotateY adds delta to the yaw and wraps the result into [-π, π].
func (t *Transform) RotateY(delta float64) {
	t.Yaw = WrapAngle(t.Yaw + delta)
}

// WrapAngle maps an angle into [-π, π].
func WrapAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

// AngleBetween returns the signed smallest difference b - a.
func AngleBetween(a, b float64) float64 {
	return WrapAngle(b - a)
}
