package globe

import (
	"errors"

	"github.com/google/uuid"

	"github.com/i474232898/weather-globe/internal/geo"
)

// ErrUnknownCity is returned when a city has no pin on the globe.
var ErrUnknownCity = errors.New("no pin for city")

// Pin marks a city on the globe. Positions are in the globe's local frame,
// so rotating the globe carries every pin and label along with it.
type Pin struct {
	ID        string   `json:"id"`
	City      string   `json:"city"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lon"`
	Local     geo.Vec3 `json:"local"`
	Label     Label    `json:"label"`
}

// Globe is the textured sphere at the origin and the root of all pins.
type Globe struct {
	Radius      float64
	Texture     string
	Orientation geo.Quat

	pins  []*Pin
	index map[string]*Pin
}

func NewGlobe(radius float64, texture string) *Globe {
	return &Globe{
		Radius:      radius,
		Texture:     texture,
		Orientation: geo.Identity(),
		index:       make(map[string]*Pin),
	}
}

// PlacePin puts a pin for city at lat/lon. Placing a city again moves its
// existing pin and replaces the label instead of adding a second one.
func (g *Globe) PlacePin(city string, lat, lon float64, text string, opts LabelOptions) *Pin {
	local := geo.LatLonToVector3(lat, lon, g.Radius)

	p, ok := g.index[city]
	if !ok {
		p = &Pin{ID: uuid.NewString(), City: city}
		g.index[city] = p
		g.pins = append(g.pins, p)
	}
	p.Latitude = lat
	p.Longitude = lon
	p.Local = local
	p.Label = NewLabel(text, local, opts)

	return p
}

func (g *Globe) Pin(city string) (*Pin, bool) {
	p, ok := g.index[city]
	return p, ok
}

// Pins returns the pins in placement order.
func (g *Globe) Pins() []*Pin {
	out := make([]*Pin, len(g.pins))
	copy(out, g.pins)
	return out
}

// WorldPosition applies the globe's current transform to a local point.
func (g *Globe) WorldPosition(local geo.Vec3) geo.Vec3 {
	return g.Orientation.Rotate(local)
}

// Rotate applies q on top of the current orientation, in world space.
func (g *Globe) Rotate(q geo.Quat) {
	g.Orientation = q.Mul(g.Orientation).Normalize()
}
