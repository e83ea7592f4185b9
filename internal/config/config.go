package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-globe/internal/globe"
	"github.com/i474232898/weather-globe/internal/weather"
)

type AppConfig struct {
	// Provider selects the weather source: "openweather" or "weatherapi".
	Provider          string
	OpenWeatherAPIKey string
	OpenWeatherURL    string
	WeatherAPIKey     string
	WeatherAPIURL     string
	GeocoderAPIKey    string

	HTTPTimeout time.Duration
	MaxRetries  int

	// UpdateTimeout bounds one whole fetch pass over every city; 0 means none.
	UpdateTimeout time.Duration

	// RefreshInterval re-fetches every city periodically; 0 fetches once at startup.
	RefreshInterval time.Duration

	// Cities in carousel order.
	Locations []weather.Location

	// In-memory store retention.
	StoreMaxHistory int           // max number of records per city (0 = unlimited)
	StoreMaxAge     time.Duration // max age of records (0 = unlimited)

	FrameInterval     time.Duration
	GlobeRadius       float64
	CameraDistance    float64
	AutoRotateStep    float64
	AnimationDuration time.Duration
	LabelPolicy       globe.OffsetPolicy
	Texture           string
	AssetsDir         string
	ViewportWidth     int
	ViewportHeight    int

	ZipkinURL string
	LogLevel  string
	Port      string
}

// Load reads configuration from environment with sensible defaults. A .env
// file in the working directory is honoured when present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Provider:          getenvDefault("WEATHER_PROVIDER", "openweather"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherURL:    os.Getenv("OPENWEATHER_BASE_URL"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		WeatherAPIURL:     os.Getenv("WEATHERAPI_BASE_URL"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		MaxRetries:        getenvInt("HTTP_MAX_RETRIES", 0),
		StoreMaxHistory:   getenvInt("STORE_MAX_HISTORY", 96),
		Texture:           getenvDefault("GLOBE_TEXTURE", "/assets/world-equirectangular.jpg"),
		AssetsDir:         getenvDefault("ASSETS_DIR", "./assets"),
		ViewportWidth:     getenvInt("VIEWPORT_WIDTH", 1024),
		ViewportHeight:    getenvInt("VIEWPORT_HEIGHT", 768),
		LabelPolicy:       globe.OffsetPolicy(getenvDefault("LABEL_OFFSET_POLICY", string(globe.OffsetNormal))),
		ZipkinURL:         os.Getenv("ZIPKIN_URL"),
		LogLevel:          getenvDefault("LOG_LEVEL", "info"),
		Port:              getenvDefault("PORT", "8080"),
	}

	var err error
	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", "10s", &cfg.HTTPTimeout},
		{"UPDATE_TIMEOUT", "2m", &cfg.UpdateTimeout},
		{"REFRESH_INTERVAL", "0", &cfg.RefreshInterval},
		{"STORE_MAX_AGE", "24h", &cfg.StoreMaxAge},
		{"FRAME_INTERVAL", "16ms", &cfg.FrameInterval},
		{"ANIMATION_DURATION", "1s", &cfg.AnimationDuration},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(getenvDefault(d.key, d.def)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{"GLOBE_RADIUS", 1, &cfg.GlobeRadius},
		{"CAMERA_DISTANCE", 3, &cfg.CameraDistance},
		{"AUTO_ROTATE_STEP", 0.001, &cfg.AutoRotateStep},
	}
	for _, f := range floats {
		if *f.dst, err = getenvFloat(f.key, f.def); err != nil {
			return nil, err
		}
	}

	cfg.Locations, err = parseLocations(getenvDefault("WEATHER_CITIES", "Paris,London,New York,Tokyo,Sydney"))
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Provider {
	case "openweather", "weatherapi":
	default:
		return fmt.Errorf("invalid WEATHER_PROVIDER %q", c.Provider)
	}
	switch c.LabelPolicy {
	case globe.OffsetNormal, globe.OffsetVertical:
	default:
		return fmt.Errorf("invalid LABEL_OFFSET_POLICY %q", c.LabelPolicy)
	}
	if c.GlobeRadius <= 0 {
		return fmt.Errorf("GLOBE_RADIUS must be positive")
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("HTTP_MAX_RETRIES must not be negative")
	}
	if c.UpdateTimeout < 0 {
		return fmt.Errorf("UPDATE_TIMEOUT must not be negative")
	}
	return nil
}

// SceneConfig derives the globe scene parameters.
func (c *AppConfig) SceneConfig() globe.Config {
	labels := globe.LabelOptionsFor(c.CameraDistance)
	labels.Policy = c.LabelPolicy

	return globe.Config{
		Radius:            c.GlobeRadius,
		Texture:           c.Texture,
		CameraDistance:    c.CameraDistance,
		Width:             c.ViewportWidth,
		Height:            c.ViewportHeight,
		AutoRotateStep:    c.AutoRotateStep,
		AnimationDuration: c.AnimationDuration,
		Labels:            labels,
	}
}

// parseLocations reads "City[:CC],City[:CC],...". Blank entries are skipped.
func parseLocations(raw string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		city, country, _ := strings.Cut(part, ":")
		city = strings.TrimSpace(city)
		if city == "" {
			return nil, fmt.Errorf("invalid WEATHER_CITIES entry %q", part)
		}
		locs = append(locs, weather.Location{City: city, Country: strings.TrimSpace(country)})
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("WEATHER_CITIES must name at least one city")
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
