package globe

import (
	"time"

	"github.com/i474232898/weather-globe/internal/geo"
)

// Mode says which driver owns the globe's orientation.
type Mode int

const (
	// ModeIdle lets auto-rotation advance the globe every frame.
	ModeIdle Mode = iota
	// ModeAnimating hands the globe to a timed slerp; auto-rotation waits.
	ModeAnimating
)

func (m Mode) String() string {
	if m == ModeAnimating {
		return "animating"
	}
	return "idle"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Animator interpolates the globe toward a target orientation over a fixed
// duration. Progress never moves backwards, even if the clock does.
type Animator struct {
	mode      Mode
	from      geo.Quat
	target    geo.Quat
	startedAt time.Time
	duration  time.Duration
	progress  float64
}

// Start begins an animation from the given orientation. A running animation
// is replaced; the caller passes the current orientation so there is no jump.
func (a *Animator) Start(from, target geo.Quat, now time.Time, d time.Duration) {
	a.mode = ModeAnimating
	a.from = from
	a.target = target
	a.startedAt = now
	a.duration = d
	a.progress = 0
}

// Step returns the orientation for the frame at now and the interpolation
// parameter. done is true on the frame that reaches t = 1, after which the
// animator is idle again.
func (a *Animator) Step(now time.Time) (q geo.Quat, t float64, done bool) {
	if a.mode != ModeAnimating {
		return a.target, a.progress, true
	}

	t = 1.0
	if a.duration > 0 {
		t = float64(now.Sub(a.startedAt)) / float64(a.duration)
	}
	if t > 1 {
		t = 1
	}
	if t < a.progress {
		t = a.progress
	}
	a.progress = t

	q = geo.Slerp(a.from, a.target, t)
	if t == 1 {
		a.mode = ModeIdle
		return a.target, t, true
	}
	return q, t, false
}

func (a *Animator) Mode() Mode { return a.mode }

// Progress is the last interpolation parameter handed out by Step.
func (a *Animator) Progress() float64 { return a.progress }

func (a *Animator) Target() geo.Quat { return a.target }
