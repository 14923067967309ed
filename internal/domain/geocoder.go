package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves free-text place names for the location search box.
type Geocoder interface {
	// ForwardGeocode converts a place name or address to coordinates.
	// A zero result with a nil error means nothing matched.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
