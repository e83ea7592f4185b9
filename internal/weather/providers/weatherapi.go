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

const WeatherAPIBaseURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Its responses always carry the resolved location, so no geocoding is needed.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string, backoff BackoffConfig) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = WeatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client, Backoff: backoff},
		circuit: newCircuitBreaker("weatherapi"),
		now:     time.Now,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.CityRecord, error) {
	if p.apiKey == "" {
		return weather.CityRecord{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		values.Set("q", loc.Query())

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CityRecord{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"location"`
		Current *struct {
			TempC *float64 `json:"temp_c"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CityRecord{}, fmt.Errorf("%w: %v", weather.ErrMalformedPayload, err)
	}
	if payload.Current == nil || payload.Current.TempC == nil {
		return weather.CityRecord{}, fmt.Errorf("%w: missing current.temp_c", weather.ErrMalformedPayload)
	}
	if payload.Location == nil {
		return weather.CityRecord{}, fmt.Errorf("%w: missing location", weather.ErrMalformedPayload)
	}

	return weather.CityRecord{
		Location:     loc,
		Latitude:     payload.Location.Lat,
		Longitude:    payload.Location.Lon,
		TemperatureC: *payload.Current.TempC,
		Provider:     p.name,
		FetchedAt:    p.now().UTC(),
	}, nil
}
