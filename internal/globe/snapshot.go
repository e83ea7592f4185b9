package globe

import "github.com/i474232898/weather-globe/internal/geo"

// PinView is a pin as seen this frame, with world positions resolved.
type PinView struct {
	Pin
	World      geo.Vec3 `json:"world"`
	LabelWorld geo.Vec3 `json:"labelWorld"`
}

// Snapshot is a copy of the scene state a client needs to draw one frame.
type Snapshot struct {
	Texture     string    `json:"texture"`
	Radius      float64   `json:"radius"`
	Orientation geo.Quat  `json:"orientation"`
	Mode        Mode      `json:"mode"`
	Progress    float64   `json:"progress"`
	Camera      Camera    `json:"camera"`
	CameraGoal  geo.Vec3  `json:"cameraGoal"`
	Viewport    Renderer  `json:"viewport"`
	Pins        []PinView `json:"pins"`
}

func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Texture:     s.Globe.Texture,
		Radius:      s.Globe.Radius,
		Orientation: s.Globe.Orientation,
		Mode:        s.animator.Mode(),
		Progress:    s.animator.Progress(),
		Camera:      *s.Camera,
		CameraGoal:  s.Camera.Goal(),
		Viewport:    *s.Renderer,
		Pins:        make([]PinView, 0, len(s.Globe.pins)),
	}

	for _, p := range s.Globe.pins {
		snap.Pins = append(snap.Pins, PinView{
			Pin:        *p,
			World:      s.Globe.WorldPosition(p.Local),
			LabelWorld: s.Globe.WorldPosition(p.Local.Add(p.Label.Offset)),
		})
	}
	return snap
}
