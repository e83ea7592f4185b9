package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-globe/internal/weather"
)

func newOpenWeather(t *testing.T, h http.HandlerFunc, opts ...OpenWeatherOption) *OpenWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]OpenWeatherOption{WithBaseURL(srv.URL)}, opts...)
	return NewOpenWeatherProvider(srv.Client(), "test-key", opts...)
}

func TestOpenWeatherFetchParsesRecord(t *testing.T) {
	p := newOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Paris", q.Get("q"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "test-key", q.Get("appid"))
		_, _ = w.Write([]byte(`{"main":{"temp":15.4},"coord":{"lat":48.85,"lon":2.35}}`))
	})

	rec, err := p.Fetch(context.Background(), weather.Location{City: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, 15.4, rec.TemperatureC)
	assert.Equal(t, 48.85, rec.Latitude)
	assert.Equal(t, 2.35, rec.Longitude)
	assert.Equal(t, "openweathermap", rec.Provider)
	assert.Equal(t, time.UTC, rec.FetchedAt.Location())
}

func TestOpenWeatherNon2xxCarriesStatusText(t *testing.T) {
	var calls int32
	p := newOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	})

	_, err := p.Fetch(context.Background(), weather.Location{City: "Atlantis"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrStatus))
	assert.Contains(t, err.Error(), "404 Not Found")
	// No retry policy by default.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenWeatherMissingFieldsAreMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"no main":  `{"coord":{"lat":1,"lon":2}}`,
		"no temp":  `{"main":{},"coord":{"lat":1,"lon":2}}`,
		"no coord": `{"main":{"temp":3}}`,
		"garbage":  `not json`,
	} {
		t.Run(name, func(t *testing.T) {
			p := newOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := p.Fetch(context.Background(), weather.Location{City: "X"})
			assert.True(t, errors.Is(err, weather.ErrMalformedPayload), "got %v", err)
		})
	}
}

type fixedResolver struct {
	lat, lon float64
	err      error
}

func (f fixedResolver) Resolve(context.Context, weather.Location) (float64, float64, error) {
	return f.lat, f.lon, f.err
}

func TestOpenWeatherMissingCoordUsesResolver(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp":-2.5}}`))
	}

	p := newOpenWeather(t, handler, WithResolver(fixedResolver{lat: 64.1, lon: -21.9}))
	rec, err := p.Fetch(context.Background(), weather.Location{City: "Reykjavik", Country: "IS"})
	require.NoError(t, err)
	assert.Equal(t, 64.1, rec.Latitude)
	assert.Equal(t, -21.9, rec.Longitude)

	p = newOpenWeather(t, handler, WithResolver(fixedResolver{err: errors.New("ZERO_RESULTS")}))
	_, err = p.Fetch(context.Background(), weather.Location{City: "Reykjavik"})
	assert.True(t, errors.Is(err, weather.ErrMalformedPayload))
}

func TestOpenWeatherRetriesServerErrorsWhenConfigured(t *testing.T) {
	var calls int32
	p := newOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"main":{"temp":20},"coord":{"lat":1,"lon":2}}`))
	}, WithBackoff(BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}))

	rec, err := p.Fetch(context.Background(), weather.Location{City: "Lagos"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, rec.TemperatureC)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestOpenWeatherCircuitOpensAfterRepeatedServerErrors(t *testing.T) {
	var calls int32
	p := newOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	// The breaker trips once more than five consecutive requests fail.
	for i := 0; i < 6; i++ {
		_, err := p.Fetch(context.Background(), weather.Location{City: "Lagos"})
		require.True(t, errors.Is(err, weather.ErrStatus), "attempt %d: %v", i, err)
	}

	_, err := p.Fetch(context.Background(), weather.Location{City: "Lagos"})
	assert.True(t, errors.Is(err, weather.ErrCircuitOpen))
	assert.Equal(t, int32(6), atomic.LoadInt32(&calls))
}

func TestOpenWeatherUnknownCityDoesNotTripCircuit(t *testing.T) {
	p := newOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "city not found", http.StatusNotFound)
	})

	for i := 0; i < 10; i++ {
		_, err := p.Fetch(context.Background(), weather.Location{City: "Atlantis"})
		require.True(t, errors.Is(err, weather.ErrStatus))
		require.False(t, errors.Is(err, weather.ErrCircuitOpen))
	}
}

func TestOpenWeatherRequiresKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")
	_, err := p.Fetch(context.Background(), weather.Location{City: "Paris"})
	assert.Error(t, err)
}

func TestWeatherAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tokyo,JP", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"location":{"lat":35.69,"lon":139.69},"current":{"temp_c":22.5}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "k", srv.URL, BackoffConfig{})
	rec, err := p.Fetch(context.Background(), weather.Location{City: "Tokyo", Country: "JP"})
	require.NoError(t, err)
	assert.Equal(t, 22.5, rec.TemperatureC)
	assert.Equal(t, 35.69, rec.Latitude)
	assert.Equal(t, "weatherapi", rec.Provider)
}
