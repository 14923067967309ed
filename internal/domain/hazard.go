package domain

import (
	"math"
	"regexp"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used to turn meters into angles.
const EarthRadiusMeters = 6371008.8

// colorRe accepts CSS named colors and #rgb, #rgba, #rrggbb, #rrggbbaa.
var colorRe = regexp.MustCompile(`^(?:[a-zA-Z]{3,20}|#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8}))$`)

// HazardZone is a static circular risk area drawn on the map.
type HazardZone struct {
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_m"`
	Category     string     `json:"category"`
	Color        string     `json:"color"`
}

// NewHazardZone builds and validates a HazardZone.
func NewHazardZone(center Coordinate, radiusMeters float64, category, color string) (HazardZone, error) {
	z := HazardZone{
		Center:       center,
		RadiusMeters: radiusMeters,
		Category:     category,
		Color:        color,
	}
	if err := z.Validate(); err != nil {
		return HazardZone{}, err
	}
	return z, nil
}

// Validate enforces the zone invariants. It never clamps.
func (z HazardZone) Validate() error {
	if err := z.Center.Validate(); err != nil {
		return Prefix("center", err)
	}
	if math.IsNaN(z.RadiusMeters) || math.IsInf(z.RadiusMeters, 0) || z.RadiusMeters <= 0 {
		return configErrorf("radius_m", "%v must be a positive number of meters", z.RadiusMeters)
	}
	if z.RadiusMeters > math.Pi*EarthRadiusMeters {
		return configErrorf("radius_m", "%v exceeds half the Earth's circumference", z.RadiusMeters)
	}
	if strings.TrimSpace(z.Category) == "" {
		return configErrorf("category", "category is required")
	}
	if !colorRe.MatchString(z.Color) {
		return configErrorf("color", "%q is not a color name or #hex value", z.Color)
	}
	return nil
}

// Label is the popup text attached to the zone.
func (z HazardZone) Label() string {
	return z.Category + " Risk Zone"
}

// Cap returns the zone as a spherical cap.
func (z HazardZone) Cap() s2.Cap {
	angle := s1.Angle(z.RadiusMeters / EarthRadiusMeters)
	return s2.CapFromCenterAngle(s2.PointFromLatLng(z.Center.LatLng()), angle)
}

// Overlaps reports whether two zones share any area.
func (z HazardZone) Overlaps(other HazardZone) bool {
	return z.Cap().Intersects(other.Cap())
}

// Bounds is a latitude/longitude box in degrees. West may be greater than
// East when the box crosses the antimeridian.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Bounds returns the smallest lat/lon box containing the zone.
func (z HazardZone) Bounds() Bounds {
	r := z.Cap().RectBound()
	return Bounds{
		South: r.Lat.Lo * 180 / math.Pi,
		West:  r.Lng.Lo * 180 / math.Pi,
		North: r.Lat.Hi * 180 / math.Pi,
		East:  r.Lng.Hi * 180 / math.Pi,
	}
}
