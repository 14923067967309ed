package mapview

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
)

// Layer is a tile layer placed in the stack. ZIndex 0 is the base layer;
// overlays count up from 1 in input order so a later overlay stays above an
// earlier one even after the user hides and re-shows it.
type Layer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	URLTemplate   string `json:"url_template"`
	Attribution   string `json:"attribution"`
	Overlay       bool   `json:"overlay"`
	ZIndex        int    `json:"z_index"`
	ZoomInvariant bool   `json:"zoom_invariant,omitempty"`
}

func newLayer(spec domain.TileLayerSpec, zIndex int) Layer {
	return Layer{
		ID:            spec.ID(),
		Name:          spec.DisplayName,
		URLTemplate:   spec.URLTemplate,
		Attribution:   spec.Attribution,
		Overlay:       zIndex > 0,
		ZIndex:        zIndex,
		ZoomInvariant: spec.ZoomInvariant(),
	}
}

// Circle is a hazard zone as drawn. Higher Order draws on top.
type Circle struct {
	Center       domain.Coordinate `json:"center"`
	RadiusMeters float64           `json:"radius_m"`
	Category     string            `json:"category"`
	Color        string            `json:"color"`
	FillColor    string            `json:"fill_color"`
	FillOpacity  float64           `json:"fill_opacity"`
	Popup        string            `json:"popup"`
	Order        int               `json:"order"`
	Bounds       domain.Bounds     `json:"bounds"`
}

// ControlEntry is one checkbox in the layer control.
type ControlEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// LayerControl lists what the toggle widget exposes. Base layers are radio
// entries; only overlays can be switched independently.
type LayerControl struct {
	BaseLayers []string       `json:"base_layers"`
	Overlays   []ControlEntry `json:"overlays"`
}

// Composition is the renderable description of the map handed to the page.
type Composition struct {
	Center   domain.Coordinate `json:"center"`
	Zoom     float64           `json:"zoom"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Base     Layer             `json:"base"`
	Overlays []Layer           `json:"overlays"`
	Circles  []Circle          `json:"circles"`
	Control  LayerControl      `json:"control"`
}

func (c Composition) clone() Composition {
	out := c
	out.Overlays = slices.Clone(c.Overlays)
	out.Circles = slices.Clone(c.Circles)
	out.Control.BaseLayers = slices.Clone(c.Control.BaseLayers)
	out.Control.Overlays = slices.Clone(c.Control.Overlays)
	return out
}

// Fingerprint hashes the JSON form of the composition. Struct fields encode
// in declaration order, so equal compositions hash equally.
func (c Composition) Fingerprint() string {
	data, err := json.Marshal(c)
	if err != nil {
		// Only float NaN/Inf can fail here and New rejects those.
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
