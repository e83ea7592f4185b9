package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-globe/internal/weather"
)

const OpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// CoordinateResolver looks up a city's position when a provider omits it.
type CoordinateResolver interface {
	Resolve(ctx context.Context, loc weather.Location) (lat, lon float64, err error)
}

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	resolver CoordinateResolver
	now      func() time.Time
}

// OpenWeatherOption customizes an OpenWeatherProvider.
type OpenWeatherOption func(*OpenWeatherProvider)

func WithBaseURL(u string) OpenWeatherOption {
	return func(p *OpenWeatherProvider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

func WithBackoff(b BackoffConfig) OpenWeatherOption {
	return func(p *OpenWeatherProvider) { p.httpCfg.Backoff = b }
}

// WithResolver sets a fallback for responses that lack coordinates.
func WithResolver(r CoordinateResolver) OpenWeatherOption {
	return func(p *OpenWeatherProvider) { p.resolver = r }
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...OpenWeatherOption) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: OpenWeatherBaseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newCircuitBreaker("openweather"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherPayload struct {
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.CityRecord, error) {
	if p.apiKey == "" {
		return weather.CityRecord{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("q", loc.Query())
		values.Set("units", "metric")
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CityRecord{}, err
	}
	defer resp.Body.Close()

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CityRecord{}, fmt.Errorf("%w: %v", weather.ErrMalformedPayload, err)
	}
	if payload.Main == nil || payload.Main.Temp == nil {
		return weather.CityRecord{}, fmt.Errorf("%w: missing main.temp", weather.ErrMalformedPayload)
	}

	rec := weather.CityRecord{
		Location:     loc,
		TemperatureC: *payload.Main.Temp,
		Provider:     p.name,
		FetchedAt:    p.now().UTC(),
	}

	if payload.Coord != nil {
		rec.Latitude, rec.Longitude = payload.Coord.Lat, payload.Coord.Lon
		return rec, nil
	}

	if p.resolver == nil {
		return weather.CityRecord{}, fmt.Errorf("%w: missing coord", weather.ErrMalformedPayload)
	}
	lat, lon, err := p.resolver.Resolve(ctx, loc)
	if err != nil {
		return weather.CityRecord{}, fmt.Errorf("%w: missing coord, geocoding failed: %v", weather.ErrMalformedPayload, err)
	}
	rec.Latitude, rec.Longitude = lat, lon
	return rec, nil
}
