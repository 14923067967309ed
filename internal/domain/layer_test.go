package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	gibsTrueColor = "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/VIIRS_SNPP_CorrectedReflectance_TrueColor/default/2023-05-31/250m/{z}/{y}/{x}.jpg"
	usgsStreams   = "https://mrdata.usgs.gov/services/streamflow?FORMAT=image/png&TRANSPARENT=true"
)

func TestNewTileLayerSpec_Valid(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		invarint bool
	}{
		{"xyz template", "https://tile.openstreetmap.org/{z}/{x}/{y}.png", false},
		{"gibs row before column", gibsTrueColor, false},
		{"subdomains and retina", "https://{s}.basemaps.example.com/{z}/{x}/{y}{r}.png", false},
		{"tms row", "http://tiles.example.com/{z}/{x}/{-y}.png", false},
		{"zoom invariant query", usgsStreams, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewTileLayerSpec(tt.url, "attr", "Layer", true)
			require.NoError(t, err)
			assert.Equal(t, tt.invarint, spec.ZoomInvariant())
		})
	}
}

func TestNewTileLayerSpec_MalformedTemplate(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"missing x", "https://tiles.example.com/{z}/{y}.png"},
		{"missing z", "https://tiles.example.com/{x}/{y}.png"},
		{"unknown placeholder", "https://tiles.example.com/{z}/{x}/{y}.png?key={apikey}"},
		{"unbalanced braces", "https://tiles.example.com/{z}/{x}/{y.png"},
		{"no placeholders no query", "https://tiles.example.com/static.png"},
		{"not http", "ftp://tiles.example.com/{z}/{x}/{y}.png"},
		{"relative", "/tiles/{z}/{x}/{y}.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTileLayerSpec(tt.url, "attr", "Layer", true)
			require.Error(t, err)

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "url", ce.Field)
		})
	}
}

func TestNewTileLayerSpec_RequiresAttribution(t *testing.T) {
	_, err := NewTileLayerSpec(gibsTrueColor, " ", "NASA TrueColor", true)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "attribution", ce.Field)
}

func TestNewTileLayerSpec_RequiresDisplayName(t *testing.T) {
	for _, name := range []string{"", "  ", "!!!"} {
		_, err := NewTileLayerSpec(gibsTrueColor, "NASA GIBS", name, true)

		var ce *ConfigError
		require.ErrorAs(t, err, &ce, "name %q", name)
		assert.Equal(t, "name", ce.Field)
	}
}

func TestLayerID(t *testing.T) {
	assert.Equal(t, "nasa-truecolor", LayerID("NASA TrueColor"))
	assert.Equal(t, "usgs-streamflow", LayerID("USGS Streamflow"))
	assert.Equal(t, "rain-intensity-mm-h", LayerID("  Rain intensity (mm/h) "))
	assert.Empty(t, LayerID("--"))
}

func TestDefaultBaseLayerIsValid(t *testing.T) {
	require.NoError(t, DefaultBaseLayer.Validate())
	assert.False(t, DefaultBaseLayer.IsOverlay)
	assert.Equal(t, "openstreetmap", DefaultBaseLayer.ID())
}
