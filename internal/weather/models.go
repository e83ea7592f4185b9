package weather

import (
	"fmt"
	"math"
	"time"
)

// Location identifies a city shown on the dashboard. Country is optional and
// only narrows the provider lookup.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + ":" + l.Country
}

// Query is the value providers send as the city lookup.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// CityRecord is one successful fetch for a city. Records are never modified
// after creation; a refresh produces a new one.
type CityRecord struct {
	Location     Location  `json:"location"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lon"`
	TemperatureC float64   `json:"temperatureC"`
	Provider     string    `json:"provider"`
	FetchedAt    time.Time `json:"fetchedAt"` // always UTC
}

// TemperatureText formats the temperature the way slides show it.
func (r CityRecord) TemperatureText() string {
	return FormatCelsius(r.TemperatureC)
}

// FormatCelsius rounds half up to whole degrees, so -0.5 shows as "0°C".
func FormatCelsius(t float64) string {
	n := math.Floor(t + 0.5)
	if n == 0 {
		n = 0 // drop negative zero
	}
	return fmt.Sprintf("%.0f°C", n)
}
