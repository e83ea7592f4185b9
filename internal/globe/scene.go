package globe

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-globe/internal/geo"
)

// Config holds the scene parameters.
type Config struct {
	Radius            float64
	Texture           string
	CameraDistance    float64
	Width             int
	Height            int
	AutoRotateStep    float64 // radians per frame while idle
	AnimationDuration time.Duration
	Labels            LabelOptions
}

// Scene owns the globe, camera and renderer. It is not safe for concurrent
// use; callers serialize access onto one goroutine.
type Scene struct {
	Globe    *Globe
	Camera   *Camera
	Renderer *Renderer

	animator       Animator
	autoRotateStep float64
	duration       time.Duration
	labels         LabelOptions
}

func NewScene(cfg Config) (*Scene, error) {
	if cfg.Radius <= 0 {
		return nil, fmt.Errorf("globe radius must be positive, got %v", cfg.Radius)
	}
	if cfg.CameraDistance <= cfg.Radius {
		cfg.CameraDistance = cfg.Radius * 3
	}

	s := &Scene{
		Globe:          NewGlobe(cfg.Radius, cfg.Texture),
		Camera:         NewCamera(cfg.CameraDistance, cfg.Width, cfg.Height),
		Renderer:       &Renderer{},
		autoRotateStep: cfg.AutoRotateStep,
		duration:       cfg.AnimationDuration,
		labels:         cfg.Labels,
	}
	if err := s.Renderer.SetSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return s, nil
}

// Frame summarizes one tick.
type Frame struct {
	Number   uint64  `json:"number"`
	Mode     Mode    `json:"mode"`
	Progress float64 `json:"progress"`
}

// Tick advances the scene by one frame. Exactly one rotation source writes
// the orientation: the running animation, or idle auto-rotation.
func (s *Scene) Tick(now time.Time) Frame {
	f := Frame{Mode: s.animator.Mode()}

	if f.Mode == ModeAnimating {
		q, t, _ := s.animator.Step(now)
		s.Globe.Orientation = q
		f.Progress = t
	} else if s.autoRotateStep != 0 {
		s.Globe.Rotate(geo.FromAxisAngle(geo.WorldUp, s.autoRotateStep))
	}

	s.Camera.Update()
	f.Number = s.Renderer.Render(now)
	return f
}

// Resize applies a new viewport synchronously.
func (s *Scene) Resize(width, height int) error {
	if err := s.Renderer.SetSize(width, height); err != nil {
		return err
	}
	s.Camera.SetAspect(width, height)
	return nil
}

// LookAt sets the point the camera target eases toward over the following
// frames. The point must be finite and closer to the origin than the camera.
func (s *Scene) LookAt(p geo.Vec3) error {
	for _, c := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("camera target %v is not finite", p)
		}
	}
	if p.Length() >= s.Camera.Position.Length() {
		return fmt.Errorf("camera target %v is not in front of the camera", p)
	}
	s.Camera.LookAt(p)
	return nil
}

// PlaceCity adds or refreshes the pin and label for a city.
func (s *Scene) PlaceCity(city string, lat, lon float64, text string) *Pin {
	return s.Globe.PlacePin(city, lat, lon, text, s.labels)
}

// FaceCity starts rotating the globe so the city ends up facing the camera.
// Idle auto-rotation is suspended until the animation completes.
func (s *Scene) FaceCity(city string, now time.Time) error {
	p, ok := s.Globe.Pin(city)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}

	target := geo.ShortestArc(p.Local, s.Camera.Front())
	s.animator.Start(s.Globe.Orientation, target, now, s.duration)
	return nil
}

func (s *Scene) Mode() Mode { return s.animator.Mode() }

// Progress reports the current animation's interpolation parameter.
func (s *Scene) Progress() float64 { return s.animator.Progress() }
