package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// maxQueryLen bounds the search string forwarded to the provider.
const maxQueryLen = 256

// Place is a resolved search result the map can recenter on.
type Place struct {
	Center           Coordinate `json:"center"`
	FormattedAddress string     `json:"formatted_address,omitempty"`
	PlaceName        string     `json:"place_name,omitempty"`
	Confidence       float64    `json:"confidence,omitempty"`
}

// Locate resolves a free-text query to a Place. A nil geocoder yields
// ErrGeocodingDisabled; a provider answer with no usable coordinate yields
// ErrNoMatch. Provider errors are logged and returned wrapped.
func Locate(ctx context.Context, geocoder Geocoder, query string, logger *slog.Logger) (Place, error) {
	if geocoder == nil {
		return Place{}, ErrGeocodingDisabled
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		query = string([]rune(query)[:maxQueryLen])
	}

	result, err := geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		logger.Warn("forward geocoding failed", "query", query, "error", err)
		return Place{}, fmt.Errorf("locate %q: %w", query, err)
	}

	if result.Lat == 0 && result.Lon == 0 && result.FormattedAddress == "" {
		return Place{}, ErrNoMatch
	}
	center := Coordinate{Lat: result.Lat, Lon: result.Lon}
	if err := center.Validate(); err != nil {
		logger.Warn("geocoder returned an invalid coordinate", "query", query, "error", err)
		return Place{}, ErrNoMatch
	}

	return Place{
		Center:           center,
		FormattedAddress: result.FormattedAddress,
		PlaceName:        result.PlaceName,
		Confidence:       result.Confidence,
	}, nil
}
