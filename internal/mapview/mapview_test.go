package mapview_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
	"github.com/couchcryptid/floodlight-guardian-view/internal/mapview"
)

const (
	gibsURL = "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/VIIRS_SNPP_CorrectedReflectance_TrueColor/default/2023-05-31/250m/{z}/{y}/{x}.jpg"
	usgsURL = "https://mrdata.usgs.gov/services/streamflow?FORMAT=image/png&TRANSPARENT=true"
)

var (
	usCenter = domain.Coordinate{Lat: 37.09, Lon: -95.71}

	testLayers = []domain.TileLayerSpec{
		{URLTemplate: gibsURL, Attribution: "NASA GIBS", DisplayName: "NASA TrueColor", IsOverlay: true},
		{URLTemplate: usgsURL, Attribution: "USGS", DisplayName: "USGS Streamflow", IsOverlay: true},
	}

	testZones = []domain.HazardZone{
		{Center: domain.Coordinate{Lat: 29.76, Lon: -95.36}, RadiusMeters: 30000, Category: "Flood", Color: "blue"},
		{Center: domain.Coordinate{Lat: 34.05, Lon: -118.25}, RadiusMeters: 40000, Category: "Wind", Color: "red"},
	}
)

func newTestView(t *testing.T) *mapview.MapView {
	t.Helper()
	v, err := mapview.New(usCenter, 4, testLayers, testZones)
	require.NoError(t, err)
	return v
}

func TestNew_EndToEndScenario(t *testing.T) {
	comp := newTestView(t).Composition()

	assert.Equal(t, usCenter, comp.Center)
	assert.Equal(t, 4.0, comp.Zoom)
	assert.Equal(t, mapview.DefaultWidth, comp.Width)
	assert.Equal(t, mapview.DefaultHeight, comp.Height)

	// Base layer is the engine default because both specs are overlays.
	assert.Equal(t, "openstreetmap", comp.Base.ID)
	assert.False(t, comp.Base.Overlay)
	assert.Equal(t, []string{"OpenStreetMap"}, comp.Control.BaseLayers)

	require.Len(t, comp.Control.Overlays, 2)
	assert.Equal(t, mapview.ControlEntry{ID: "nasa-truecolor", Name: "NASA TrueColor", Active: true}, comp.Control.Overlays[0])
	assert.Equal(t, mapview.ControlEntry{ID: "usgs-streamflow", Name: "USGS Streamflow", Active: true}, comp.Control.Overlays[1])

	require.Len(t, comp.Circles, 2)
	flood, wind := comp.Circles[0], comp.Circles[1]

	assert.Equal(t, domain.Coordinate{Lat: 29.76, Lon: -95.36}, flood.Center)
	assert.Equal(t, 30000.0, flood.RadiusMeters)
	assert.Equal(t, "blue", flood.Color)
	assert.Equal(t, "blue", flood.FillColor)
	assert.Equal(t, 0.4, flood.FillOpacity)
	assert.Equal(t, "Flood Risk Zone", flood.Popup)

	assert.Equal(t, domain.Coordinate{Lat: 34.05, Lon: -118.25}, wind.Center)
	assert.Equal(t, 40000.0, wind.RadiusMeters)
	assert.Equal(t, "red", wind.Color)
	assert.Equal(t, "Wind Risk Zone", wind.Popup)
}

func TestNew_OverlayStackingOrder(t *testing.T) {
	comp := newTestView(t).Composition()

	require.Len(t, comp.Overlays, 2)
	assert.Equal(t, 0, comp.Base.ZIndex)
	assert.Equal(t, "nasa-truecolor", comp.Overlays[0].ID)
	assert.Equal(t, "usgs-streamflow", comp.Overlays[1].ID)
	assert.Less(t, comp.Base.ZIndex, comp.Overlays[0].ZIndex)
	assert.Less(t, comp.Overlays[0].ZIndex, comp.Overlays[1].ZIndex)
	assert.False(t, comp.Overlays[0].ZoomInvariant)
	assert.True(t, comp.Overlays[1].ZoomInvariant)
}

func TestNew_Deterministic(t *testing.T) {
	a := newTestView(t)
	b := newTestView(t)

	if diff := cmp.Diff(a.Composition(), b.Composition()); diff != "" {
		t.Fatalf("compositions differ (-a +b):\n%s", diff)
	}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)
}

func TestNew_FingerprintTracksOrder(t *testing.T) {
	swapped := []domain.HazardZone{testZones[1], testZones[0]}
	v, err := mapview.New(usCenter, 4, testLayers, swapped)
	require.NoError(t, err)

	assert.NotEqual(t, newTestView(t).Fingerprint(), v.Fingerprint())
}

func TestNew_DrawOrderLastWins(t *testing.T) {
	z1 := domain.HazardZone{Center: domain.Coordinate{Lat: 29.76, Lon: -95.36}, RadiusMeters: 30000, Category: "Flood", Color: "blue"}
	z2 := domain.HazardZone{Center: domain.Coordinate{Lat: 29.9, Lon: -95.2}, RadiusMeters: 20000, Category: "Wind", Color: "red"}

	v, err := mapview.New(usCenter, 4, nil, []domain.HazardZone{z1, z2})
	require.NoError(t, err)

	comp := v.Composition()
	assert.Equal(t, 0, comp.Circles[0].Order)
	assert.Equal(t, 1, comp.Circles[1].Order)
	assert.Equal(t, "red", comp.Circles[1].FillColor, "the later zone is drawn on top")
	assert.Equal(t, []mapview.Overlap{{Lower: 0, Upper: 1}}, v.Overlaps())
}

func TestNew_NoOverlapsForDistantZones(t *testing.T) {
	assert.Empty(t, newTestView(t).Overlaps())
}

func TestNew_EmptyInputs(t *testing.T) {
	v, err := mapview.New(usCenter, 0, nil, nil)
	require.NoError(t, err)

	comp := v.Composition()
	assert.Equal(t, "openstreetmap", comp.Base.ID)
	assert.NotNil(t, comp.Overlays)
	assert.Empty(t, comp.Overlays)
	assert.NotNil(t, comp.Circles)
	assert.Empty(t, comp.Circles)
	assert.Empty(t, comp.Control.Overlays)
	assert.Empty(t, v.Legend())
	assert.Empty(t, v.OverlayIDs())
}

func TestNew_DesignatedBaseLayer(t *testing.T) {
	base := domain.TileLayerSpec{
		URLTemplate: "https://{s}.tile.example.org/{z}/{x}/{y}.png",
		Attribution: "Example",
		DisplayName: "Terrain",
	}
	layers := append([]domain.TileLayerSpec{base}, testLayers...)

	v, err := mapview.New(usCenter, 4, layers, nil)
	require.NoError(t, err)

	comp := v.Composition()
	assert.Equal(t, "terrain", comp.Base.ID)
	assert.Equal(t, []string{"Terrain"}, comp.Control.BaseLayers)
	assert.Equal(t, []string{"nasa-truecolor", "usgs-streamflow"}, v.OverlayIDs())
	assert.False(t, v.HasOverlay("terrain"), "base layer is not independently toggleable")
}

func TestNew_WithSize(t *testing.T) {
	v, err := mapview.New(usCenter, 4, nil, nil, mapview.WithSize(800, 400))
	require.NoError(t, err)

	comp := v.Composition()
	assert.Equal(t, 800, comp.Width)
	assert.Equal(t, 400, comp.Height)
}

func TestNew_FractionalZoomIsKept(t *testing.T) {
	v, err := mapview.New(usCenter, 4.5, testLayers, testZones)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v.Composition().Zoom)

	st := mapview.NewStateTracker(v, 4, time.Hour).Open()
	assert.Equal(t, 4.5, st.Zoom)
}

func TestNew_ConfigErrors(t *testing.T) {
	badZone := testZones[0]
	badZone.RadiusMeters = 0

	tests := []struct {
		name   string
		center domain.Coordinate
		zoom   float64
		layers []domain.TileLayerSpec
		zones  []domain.HazardZone
		opts   []mapview.Option
		field  string
	}{
		{name: "latitude out of range", center: domain.Coordinate{Lat: 95}, zoom: 4, field: "center.lat"},
		{name: "zoom too high", center: usCenter, zoom: 25, field: "zoom"},
		{name: "negative zoom", center: usCenter, zoom: -1, field: "zoom"},
		{name: "non-positive radius", center: usCenter, zoom: 4, zones: []domain.HazardZone{testZones[1], badZone}, field: "zones[1].radius_m"},
		{
			name: "malformed url", center: usCenter, zoom: 4,
			layers: []domain.TileLayerSpec{{URLTemplate: "https://tiles.example.com/{z}/{x}.png", Attribution: "x", DisplayName: "Broken", IsOverlay: true}},
			field:  "layers[0].url",
		},
		{
			name: "duplicate layer id", center: usCenter, zoom: 4,
			layers: []domain.TileLayerSpec{testLayers[0], {URLTemplate: usgsURL, Attribution: "USGS", DisplayName: "nasa truecolor", IsOverlay: true}},
			field:  "layers[1].name",
		},
		{
			name: "base layer not first", center: usCenter, zoom: 4,
			layers: []domain.TileLayerSpec{testLayers[0], {URLTemplate: usgsURL, Attribution: "USGS", DisplayName: "Streams"}},
			field:  "layers[1].overlay",
		},
		{name: "zero size", center: usCenter, zoom: 4, opts: []mapview.Option{mapview.WithSize(0, 600)}, field: "page.size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := mapview.New(tt.center, tt.zoom, tt.layers, tt.zones, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, v)

			var ce *domain.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestNew_ReportsEveryConfigError(t *testing.T) {
	zones := []domain.HazardZone{
		{Center: domain.Coordinate{Lat: 100, Lon: 0}, RadiusMeters: 10, Category: "Flood", Color: "blue"},
		{Center: domain.Coordinate{Lat: 0, Lon: 0}, RadiusMeters: -1, Category: "Wind", Color: "red"},
	}
	_, err := mapview.New(usCenter, 40, nil, zones)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "zoom")
	assert.Contains(t, msg, "zones[0].center.lat")
	assert.Contains(t, msg, "zones[1].radius_m")
}

func TestComposition_ReturnsCopy(t *testing.T) {
	v := newTestView(t)
	comp := v.Composition()
	comp.Circles[0].Color = "green"
	comp.Overlays[0].Name = "changed"

	fresh := v.Composition()
	assert.Equal(t, "blue", fresh.Circles[0].Color)
	assert.Equal(t, "NASA TrueColor", fresh.Overlays[0].Name)
}

func TestLegend_FirstAppearanceOrder(t *testing.T) {
	zones := append([]domain.HazardZone{}, testZones...)
	zones = append(zones, domain.HazardZone{Center: domain.Coordinate{Lat: 40, Lon: -100}, RadiusMeters: 5000, Category: "Flood", Color: "blue"})

	v, err := mapview.New(usCenter, 4, nil, zones)
	require.NoError(t, err)

	assert.Equal(t, []mapview.LegendEntry{
		{Category: "Flood", Color: "blue"},
		{Category: "Wind", Color: "red"},
	}, v.Legend())
}
