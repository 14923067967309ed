package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	houston    = Coordinate{Lat: 29.76, Lon: -95.36}
	losAngeles = Coordinate{Lat: 34.05, Lon: -118.25}
)

func TestNewHazardZone_Valid(t *testing.T) {
	z, err := NewHazardZone(houston, 30000, "Flood", "blue")
	require.NoError(t, err)

	assert.Equal(t, houston, z.Center)
	assert.Equal(t, 30000.0, z.RadiusMeters)
	assert.Equal(t, "Flood Risk Zone", z.Label())
}

func TestNewHazardZone_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		center Coordinate
		radius float64
		cat    string
		color  string
		field  string
	}{
		{"zero radius", houston, 0, "Flood", "blue", "radius_m"},
		{"negative radius", houston, -5, "Flood", "blue", "radius_m"},
		{"NaN radius", houston, math.NaN(), "Flood", "blue", "radius_m"},
		{"infinite radius", houston, math.Inf(1), "Flood", "blue", "radius_m"},
		{"latitude too high", Coordinate{Lat: 90.5, Lon: 0}, 10, "Flood", "blue", "center.lat"},
		{"latitude too low", Coordinate{Lat: -91, Lon: 0}, 10, "Flood", "blue", "center.lat"},
		{"longitude out of range", Coordinate{Lat: 0, Lon: 181}, 10, "Flood", "blue", "center.lon"},
		{"missing category", houston, 10, "", "blue", "category"},
		{"missing color", houston, 10, "Flood", "", "color"},
		{"color with markup", houston, 10, "Flood", "red;}</style>", "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHazardZone(tt.center, tt.radius, tt.cat, tt.color)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestHazardZone_BoundaryCoordinatesAccepted(t *testing.T) {
	for _, c := range []Coordinate{{Lat: 90, Lon: 180}, {Lat: -90, Lon: -180}} {
		_, err := NewHazardZone(c, 1, "Wind", "#f00")
		assert.NoError(t, err, "center %+v", c)
	}
}

func TestHazardZone_Overlaps(t *testing.T) {
	flood := HazardZone{Center: houston, RadiusMeters: 30000, Category: "Flood", Color: "blue"}
	nearby := HazardZone{Center: Coordinate{Lat: 29.9, Lon: -95.2}, RadiusMeters: 10000, Category: "Wind", Color: "red"}
	wind := HazardZone{Center: losAngeles, RadiusMeters: 40000, Category: "Wind", Color: "red"}

	assert.True(t, flood.Overlaps(nearby))
	assert.True(t, nearby.Overlaps(flood))
	assert.False(t, flood.Overlaps(wind))
}

func TestHazardZone_Bounds(t *testing.T) {
	z := HazardZone{Center: houston, RadiusMeters: 30000, Category: "Flood", Color: "blue"}
	b := z.Bounds()

	// 30 km is roughly 0.27 degrees of latitude.
	assert.InDelta(t, houston.Lat-0.27, b.South, 0.01)
	assert.InDelta(t, houston.Lat+0.27, b.North, 0.01)
	assert.Less(t, b.West, houston.Lon)
	assert.Greater(t, b.East, houston.Lon)
}

func TestMapViewState_IsActive(t *testing.T) {
	s := MapViewState{ActiveLayers: []string{"nasa-truecolor", "usgs-streamflow"}}

	assert.True(t, s.IsActive("usgs-streamflow"))
	assert.False(t, s.IsActive("openstreetmap"))
}

func TestLayerEvent_Action(t *testing.T) {
	assert.Equal(t, "show", LayerEvent{Active: true}.Action())
	assert.Equal(t, "hide", LayerEvent{}.Action())
}

func TestNow_UsesInjectedClock(t *testing.T) {
	fixed := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	assert.Equal(t, fixed, Now())
}
