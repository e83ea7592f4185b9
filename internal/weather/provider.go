package weather

import (
	"context"
	"errors"
)

var (
	// ErrStatus is returned for any non-2xx response; the status text is
	// wrapped alongside it.
	ErrStatus = errors.New("error fetching weather data")
	// ErrMalformedPayload is returned when a response lacks temperature or
	// coordinates.
	ErrMalformedPayload = errors.New("malformed weather payload")
	// ErrCircuitOpen is returned without a request while the provider's
	// circuit breaker is open or half-open and saturated.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// Provider abstracts a current-conditions source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (CityRecord, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	Save(rec CityRecord)
	Latest(loc Location) (CityRecord, error)
	All() []CityRecord
}

// Listener is told about every record after it has been stored.
type Listener interface {
	OnRecord(ctx context.Context, rec CityRecord) error
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ctx context.Context, rec CityRecord) error

func (f ListenerFunc) OnRecord(ctx context.Context, rec CityRecord) error { return f(ctx, rec) }
