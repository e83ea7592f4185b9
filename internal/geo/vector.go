package geo

import "math"

// Vec3 is a point or direction in scene space (Y up, camera on +Z).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var (
	WorldUp = Vec3{0, 1, 0}
	WorldX  = Vec3{1, 0, 0}
	Front   = Vec3{0, 0, 1}
)

func (v Vec3) Add(o Vec3) Vec3             { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3             { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3        { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64          { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64             { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// LatLonToVector3 maps geographic coordinates in degrees onto a sphere of
// radius r. The mapping matches an equirectangular texture wrapped with its
// seam at longitude ±180, so a pin lands on the texel showing the same place.
func LatLonToVector3(lat, lon, r float64) Vec3 {
	// Poles collapse to a single point; sin(pi) is not exactly zero.
	if lat >= 90 {
		return Vec3{Y: r}
	}
	if lat <= -90 {
		return Vec3{Y: -r}
	}

	phi := degToRad(90 - lat)
	theta := degToRad(lon + 180)

	return Vec3{
		X: -r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Cos(phi),
		Z: r * math.Sin(phi) * math.Sin(theta),
	}
}
