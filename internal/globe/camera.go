package globe

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-globe/internal/geo"
)

// Camera is a perspective camera orbiting the origin. Target eases toward
// its goal by Damping each frame, like orbit controls with damping enabled.
type Camera struct {
	FOV      float64  `json:"fov"`
	Aspect   float64  `json:"aspect"`
	Near     float64  `json:"near"`
	Far      float64  `json:"far"`
	Position geo.Vec3 `json:"position"`
	Target   geo.Vec3 `json:"target"`
	Damping  float64  `json:"damping"`

	goal geo.Vec3
}

func NewCamera(distance float64, width, height int) *Camera {
	c := &Camera{
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Position: geo.Vec3{Z: distance},
		Damping:  0.05,
	}
	c.SetAspect(width, height)
	return c
}

func (c *Camera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
}

// LookAt sets the point the camera eases toward.
func (c *Camera) LookAt(p geo.Vec3) { c.goal = p }

// Goal is the point Target is easing toward.
func (c *Camera) Goal() geo.Vec3 { return c.goal }

// Front is the unit direction from the origin toward the camera.
func (c *Camera) Front() geo.Vec3 {
	f := c.Position.Normalize()
	if f == (geo.Vec3{}) {
		return geo.Front
	}
	return f
}

// Update advances damping by one frame.
func (c *Camera) Update() {
	if c.Damping <= 0 || c.Damping >= 1 {
		c.Target = c.goal
		return
	}
	c.Target = c.Target.Lerp(c.goal, c.Damping)
}

// Renderer tracks the output viewport and frame bookkeeping. Drawing is
// left to whichever client consumes scene snapshots.
type Renderer struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Frames    uint64    `json:"frames"`
	LastFrame time.Time `json:"lastFrame"`
}

func (r *Renderer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	r.Width = width
	r.Height = height
	return nil
}

func (r *Renderer) Render(now time.Time) uint64 {
	r.Frames++
	r.LastFrame = now
	return r.Frames
}
