package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/i474232898/weather-globe/internal/geo"
	"github.com/i474232898/weather-globe/internal/globe"
	"github.com/i474232898/weather-globe/internal/store"
	"github.com/i474232898/weather-globe/internal/weather"
	"github.com/i474232898/weather-globe/internal/weather/providers"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testSceneConfig() globe.Config {
	return globe.Config{
		Radius:            1,
		CameraDistance:    3,
		Width:             1024,
		Height:            768,
		AutoRotateStep:    0.001,
		AnimationDuration: time.Second,
		Labels:            globe.DefaultLabelOptions(),
	}
}

func newTestState(t *testing.T, cities ...string) (*State, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	locs := make([]weather.Location, 0, len(cities))
	for _, c := range cities {
		locs = append(locs, weather.Location{City: c})
	}
	s, err := NewState(testSceneConfig(), locs, zaptest.NewLogger(t), clock.Now)
	require.NoError(t, err)
	return s, clock
}

// openWeatherStub answers like OpenWeatherMap for the cities it knows and
// with 404 for everything else.
func openWeatherStub(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Query().Get("q")]
		if !ok {
			http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEndToEndUpdatePlacesPinsAndSkipsFailures(t *testing.T) {
	srv := openWeatherStub(t, map[string]string{
		"Paris": `{"main":{"temp":15.6},"coord":{"lat":48.85,"lon":2.35}}`,
		"Tokyo": `{"main":{"temp":-3.2},"coord":{"lat":35.69,"lon":139.69}}`,
	})

	state, _ := newTestState(t, "Paris", "Atlantis", "Tokyo")
	prov := providers.NewOpenWeatherProvider(srv.Client(), "key", providers.WithBaseURL(srv.URL))
	svc := weather.NewService(prov, store.NewMemoryStore(0, 0), zaptest.NewLogger(t), nil)
	svc.Subscribe(weather.ListenerFunc(func(_ context.Context, rec weather.CityRecord) error {
		state.ApplyRecord(rec)
		return nil
	}))

	res, err := svc.Update(context.Background(), []weather.Location{{City: "Paris"}, {City: "Atlantis"}, {City: "Tokyo"}})
	require.NoError(t, err)
	assert.Len(t, res.Updated, 2)
	assert.True(t, errors.Is(res.Failed["Atlantis"], weather.ErrStatus))

	slides := state.Carousel.Slides()
	assert.Equal(t, "16°C", slides[0].Temperature)
	assert.Equal(t, "", slides[1].Temperature)
	assert.Equal(t, "-3°C", slides[2].Temperature)

	pins := state.Scene.Globe.Pins()
	require.Len(t, pins, 2)
	assert.Equal(t, "Paris", pins[0].City)
	assert.Equal(t, geo.LatLonToVector3(48.85, 2.35, 1), pins[0].Local)
	assert.Equal(t, "Paris 16°C", pins[0].Label.Text)

	_, ok := state.Scene.Globe.Pin("Atlantis")
	assert.False(t, ok)
}

func TestSlideChangeRotatesGlobeToCity(t *testing.T) {
	state, clock := newTestState(t, "Paris", "Sydney")
	state.ApplyRecord(weather.CityRecord{Location: weather.Location{City: "Paris"}, Latitude: 48.85, Longitude: 2.35, TemperatureC: 15})
	state.ApplyRecord(weather.CityRecord{Location: weather.Location{City: "Sydney"}, Latitude: -33.87, Longitude: 151.21, TemperatureC: 25})

	slide, err := state.Next()
	require.NoError(t, err)
	assert.Equal(t, "Sydney", slide.ID)
	assert.Equal(t, globe.ModeAnimating, state.Scene.Mode())

	for i := 0; i < 70; i++ {
		clock.Advance(16 * time.Millisecond)
		state.Tick()
	}
	assert.Equal(t, globe.ModeIdle, state.Scene.Mode())

	p, _ := state.Scene.Globe.Pin("Sydney")
	facing := state.Scene.Globe.WorldPosition(p.Local).Normalize().Dot(geo.Front)
	assert.InDelta(t, 1, facing, 1e-3)
}

func TestSlideChangeWithoutPinLeavesGlobeIdle(t *testing.T) {
	state, _ := newTestState(t, "Paris", "Atlantis")

	_, err := state.SelectCity("Atlantis")
	require.NoError(t, err)
	assert.Equal(t, globe.ModeIdle, state.Scene.Mode())

	_, err = state.SelectCity("Gotham")
	assert.True(t, errors.Is(err, ErrNoSlide))
}

func TestCarouselWrapsAround(t *testing.T) {
	state, _ := newTestState(t, "A", "B", "C")

	s, _ := state.Prev()
	assert.Equal(t, "C", s.ID)
	s, _ = state.Next()
	assert.Equal(t, "A", s.ID)
	s, _ = state.Next()
	assert.Equal(t, "B", s.ID)

	active, ok := state.Carousel.Active()
	require.True(t, ok)
	assert.Equal(t, "B", active.ID)
}

func TestEmptyCarousel(t *testing.T) {
	state, _ := newTestState(t)
	_, err := state.Next()
	assert.Error(t, err)
	assert.Nil(t, state.View().Active)
}

func TestResizeUpdatesCameraAndViewport(t *testing.T) {
	state, _ := newTestState(t, "Paris")

	require.NoError(t, state.Resize(800, 600))
	assert.Equal(t, 800.0/600.0, state.Scene.Camera.Aspect)
	assert.Equal(t, 800, state.Scene.Renderer.Width)
	assert.Equal(t, 600, state.Scene.Renderer.Height)

	assert.Error(t, state.Resize(-1, 600))
	assert.Equal(t, 800, state.Scene.Renderer.Width)
}

func TestLookAtEasesCameraWhileGlobeAnimates(t *testing.T) {
	state, clock := newTestState(t, "Paris", "Sydney")
	state.ApplyRecord(weather.CityRecord{Location: weather.Location{City: "Sydney"}, Latitude: -33.87, Longitude: 151.21, TemperatureC: 25})

	_, err := state.SelectCity("Sydney")
	require.NoError(t, err)
	goal := geo.Vec3{Y: 0.4}
	require.NoError(t, state.LookAt(goal))

	for i := 0; i < 100; i++ {
		clock.Advance(16 * time.Millisecond)
		state.Tick()
	}
	assert.InDelta(t, goal.Y, state.Scene.Camera.Target.Y, 0.01)
	assert.Equal(t, globe.ModeIdle, state.Scene.Mode())
}
