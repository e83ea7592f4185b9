package geo

import "math"

// Quat is a rotation quaternion. The zero value is not a rotation; use Identity.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Thresholds on dot(from, to) past which the shortest arc is treated as a
// half turn or as no rotation at all.
const (
	oppositeThreshold = -0.9999
	alignedThreshold  = 0.9999
)

func Identity() Quat { return Quat{W: 1} }

// FromAxisAngle builds the rotation of angle radians about axis. The axis
// does not need to be normalized.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{W: math.Cos(angle / 2), X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

// Mul composes rotations: the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q Quat) Dot(o Quat) float64 { return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z }

func (q Quat) Conjugate() Quat { return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z} }

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return Identity()
	}
	return Quat{W: q.W / l, X: q.X / l, Y: q.Y / l, Z: q.Z / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := q.Mul(Quat{X: v.X, Y: v.Y, Z: v.Z}).Mul(q.Conjugate())
	return Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// Angle returns the rotation angle of q in radians, in [0, pi].
func (q Quat) Angle() float64 {
	w := math.Abs(q.Normalize().W)
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}

// ShortestArc returns the rotation taking direction from onto direction to
// along the great circle joining them.
//
// Nearly opposite directions have no stable cross product; they get a half
// turn about world up, or about world X when from is itself vertical.
func ShortestArc(from, to Vec3) Quat {
	f := from.Normalize()
	t := to.Normalize()
	d := f.Dot(t)

	switch {
	case d > alignedThreshold:
		return Identity()
	case d < oppositeThreshold:
		axis := WorldUp
		if math.Abs(f.Dot(WorldUp)) > alignedThreshold {
			axis = WorldX
		}
		return FromAxisAngle(axis, math.Pi)
	}

	return FromAxisAngle(f.Cross(t), math.Acos(d))
}

// Slerp interpolates between a and b along the shorter arc. t is clamped to
// [0, 1] and the end points are returned exactly.
func Slerp(a, b Quat, t float64) Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}

	cos := a.Dot(b)
	if cos < 0 {
		b = Quat{W: -b.W, X: -b.X, Y: -b.Y, Z: -b.Z}
		cos = -cos
	}

	// Close enough for a normalized lerp.
	if cos > 0.9995 {
		return Quat{
			W: a.W + (b.W-a.W)*t,
			X: a.X + (b.X-a.X)*t,
			Y: a.Y + (b.Y-a.Y)*t,
			Z: a.Z + (b.Z-a.Z)*t,
		}.Normalize()
	}

	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin

	return Quat{
		W: a.W*wa + b.W*wb,
		X: a.X*wa + b.X*wb,
		Y: a.Y*wa + b.Y*wb,
		Z: a.Z*wa + b.Z*wb,
	}
}
