package providers

import (
	"context"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-globe/internal/weather"
)

// GoogleResolver resolves city coordinates with the Google Geocoding API.
type GoogleResolver struct{}

// NewGoogleResolver configures the geocoder package's API key. The key is
// package-global in the geocoder library, so only one resolver is meaningful.
func NewGoogleResolver(apiKey string) *GoogleResolver {
	geocoder.ApiKey = apiKey
	return &GoogleResolver{}
}

func (r *GoogleResolver) Resolve(ctx context.Context, loc weather.Location) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	found, err := geocoder.Geocoding(geocoder.Address{
		City:    loc.City,
		Country: loc.Country,
	})
	if err != nil {
		return 0, 0, err
	}
	return found.Latitude, found.Longitude, nil
}
