package dashboard

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-globe/internal/events"
	"github.com/i474232898/weather-globe/internal/geo"
	"github.com/i474232898/weather-globe/internal/globe"
	"github.com/i474232898/weather-globe/internal/weather"
)

// ErrNoSlide is returned for a city id the carousel does not show.
var ErrNoSlide = errors.New("no slide for city")

// State is everything the dashboard shows: carousel, scene and the event
// wiring between them. It is not safe for concurrent use; App confines it to
// one goroutine.
type State struct {
	Scene    *globe.Scene
	Carousel *Carousel

	bus    *events.Bus
	logger *zap.Logger
	now    func() time.Time
}

// NewState builds the scene and carousel and subscribes the globe to
// carousel and resize events.
func NewState(cfg globe.Config, locs []weather.Location, logger *zap.Logger, now func() time.Time) (*State, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}

	scene, err := globe.NewScene(cfg)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(logger.Named("events"))
	s := &State{
		Scene:    scene,
		Carousel: NewCarousel(locs, bus),
		bus:      bus,
		logger:   logger,
		now:      now,
	}

	bus.OnSlideChange(s.onSlideChanged)
	bus.OnResize(s.onResize)

	return s, nil
}

// Bus exposes the event bus for extra subscribers.
func (s *State) Bus() *events.Bus { return s.bus }

func (s *State) onSlideChanged(ev events.SlideChange) {
	if err := s.Scene.FaceCity(ev.CityID, s.now()); err != nil {
		// The city's fetch failed or has not finished; leave the globe alone.
		s.logger.Debug("slide has no pin", zap.String("city", ev.CityID), zap.Error(err))
	}
}

func (s *State) onResize(vp events.Viewport) {
	if err := s.Scene.Resize(vp.Width, vp.Height); err != nil {
		s.logger.Warn("resize rejected", zap.Int("width", vp.Width), zap.Int("height", vp.Height), zap.Error(err))
	}
}

// ApplyRecord shows a fetched city: the slide gets its temperature and the
// globe gets a pin and label at the city's coordinates.
func (s *State) ApplyRecord(rec weather.CityRecord) {
	id := rec.Location.Key()
	text := rec.TemperatureText()

	if !s.Carousel.SetTemperature(id, text) {
		s.logger.Debug("record for city without slide", zap.String("city", id))
	}
	s.Scene.PlaceCity(id, rec.Latitude, rec.Longitude, fmt.Sprintf("%s %s", rec.Location.City, text))
}

func (s *State) SelectCity(id string) (Slide, error) { return s.Carousel.GoToCity(id) }

func (s *State) Next() (Slide, error) { return s.Carousel.Next() }

func (s *State) Prev() (Slide, error) { return s.Carousel.Prev() }

// Resize publishes a resize event; the scene applies it before this returns.
func (s *State) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	s.bus.PublishResize(events.Viewport{Width: width, Height: height})
	return nil
}

// LookAt moves the camera's goal; Tick eases the target toward it.
func (s *State) LookAt(p geo.Vec3) error { return s.Scene.LookAt(p) }

func (s *State) Tick() globe.Frame { return s.Scene.Tick(s.now()) }

// View is the read model served to clients.
type View struct {
	Slides []Slide        `json:"slides"`
	Active *Slide         `json:"active,omitempty"`
	Globe  globe.Snapshot `json:"globe"`
}

func (s *State) View() View {
	v := View{Slides: s.Carousel.Slides(), Globe: s.Scene.Snapshot()}
	if a, ok := s.Carousel.Active(); ok {
		v.Active = &a
	}
	return v
}
