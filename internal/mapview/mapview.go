// Package mapview composes the Guardian View map: a base layer, toggleable
// tile overlays, hazard circles, and the layer control, in the stacking
// order the rendering engine must reproduce.
package mapview

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
)

const (
	// FillOpacity is the alpha of every hazard circle fill. It keeps the
	// imagery under a zone readable while the zone stays visible.
	FillOpacity = 0.4

	MinZoom = 0
	MaxZoom = 19

	DefaultWidth  = 1000
	DefaultHeight = 600
)

type options struct {
	width  int
	height int
}

// Option customizes MapView construction.
type Option func(*options)

// WithSize sets the pixel size of the map region on the hosting page.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// MapView is an immutable, fully composed map.
type MapView struct {
	comp     Composition
	zones    []domain.HazardZone
	overlaps []Overlap
	overlay  map[string]bool
}

// Overlap names two zones whose circles intersect. Upper is drawn on top
// of Lower because it comes later in the input.
type Overlap struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// New validates its inputs and composes the map. All configuration problems
// are reported together; each is a *domain.ConfigError naming its field.
func New(center domain.Coordinate, zoom float64, layers []domain.TileLayerSpec, zones []domain.HazardZone, opts ...Option) (*MapView, error) {
	o := options{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validate(center, zoom, layers, zones, o); err != nil {
		return nil, err
	}

	base, overlays := splitLayers(layers)
	comp := Composition{
		Center: center,
		Zoom:   zoom,
		Width:  o.width,
		Height: o.height,
		Base:   newLayer(base, 0),

		// Empty, not nil: the page iterates these unconditionally.
		Overlays: []Layer{},
		Circles:  []Circle{},
		Control: LayerControl{
			BaseLayers: []string{base.DisplayName},
			Overlays:   []ControlEntry{},
		},
	}

	overlayIDs := make(map[string]bool, len(overlays))
	for i, spec := range overlays {
		l := newLayer(spec, i+1)
		comp.Overlays = append(comp.Overlays, l)
		comp.Control.Overlays = append(comp.Control.Overlays, ControlEntry{ID: l.ID, Name: l.Name, Active: true})
		overlayIDs[l.ID] = true
	}

	for i, z := range zones {
		comp.Circles = append(comp.Circles, Circle{
			Center:       z.Center,
			RadiusMeters: z.RadiusMeters,
			Category:     z.Category,
			Color:        z.Color,
			FillColor:    z.Color,
			FillOpacity:  FillOpacity,
			Popup:        z.Label(),
			Order:        i,
			Bounds:       z.Bounds(),
		})
	}

	return &MapView{
		comp:     comp,
		zones:    append([]domain.HazardZone(nil), zones...),
		overlaps: findOverlaps(zones),
		overlay:  overlayIDs,
	}, nil
}

func validate(center domain.Coordinate, zoom float64, layers []domain.TileLayerSpec, zones []domain.HazardZone, o options) error {
	var errs []error

	if err := center.Validate(); err != nil {
		errs = append(errs, domain.Prefix("center", err))
	}
	if math.IsNaN(zoom) || zoom < MinZoom || zoom > MaxZoom {
		errs = append(errs, &domain.ConfigError{Field: "zoom", Reason: fmt.Sprintf("%v is outside [%d, %d]", zoom, MinZoom, MaxZoom)})
	}
	if o.width <= 0 || o.height <= 0 {
		errs = append(errs, &domain.ConfigError{Field: "page.size", Reason: fmt.Sprintf("%dx%d must be positive", o.width, o.height)})
	}

	seen := map[string]int{}
	if len(layers) == 0 || layers[0].IsOverlay {
		seen[domain.DefaultBaseLayer.ID()] = -1
	}
	for i, spec := range layers {
		field := fmt.Sprintf("layers[%d]", i)
		if err := spec.Validate(); err != nil {
			errs = append(errs, domain.Prefix(field, err))
			continue
		}
		if !spec.IsOverlay && i > 0 {
			errs = append(errs, &domain.ConfigError{Field: field + ".overlay", Reason: "only the first layer may be a base layer"})
		}
		if prev, dup := seen[spec.ID()]; dup {
			reason := fmt.Sprintf("layer id %q is already used", spec.ID())
			if prev >= 0 {
				reason = fmt.Sprintf("layer id %q is already used by layers[%d]", spec.ID(), prev)
			}
			errs = append(errs, &domain.ConfigError{Field: field + ".name", Reason: reason})
			continue
		}
		seen[spec.ID()] = i
	}

	for i, z := range zones {
		if err := z.Validate(); err != nil {
			errs = append(errs, domain.Prefix(fmt.Sprintf("zones[%d]", i), err))
		}
	}

	return errors.Join(errs...)
}

// splitLayers returns the base layer and the overlays in input order.
func splitLayers(layers []domain.TileLayerSpec) (domain.TileLayerSpec, []domain.TileLayerSpec) {
	if len(layers) > 0 && !layers[0].IsOverlay {
		return layers[0], layers[1:]
	}
	return domain.DefaultBaseLayer, layers
}

func findOverlaps(zones []domain.HazardZone) []Overlap {
	var out []Overlap
	for i := range zones {
		for j := i + 1; j < len(zones); j++ {
			if zones[i].Overlaps(zones[j]) {
				out = append(out, Overlap{Lower: i, Upper: j})
			}
		}
	}
	return out
}

// Composition returns a copy of the composed map.
func (m *MapView) Composition() Composition {
	return m.comp.clone()
}

// Zones returns the hazard zones in draw order.
func (m *MapView) Zones() []domain.HazardZone {
	return append([]domain.HazardZone(nil), m.zones...)
}

// Overlaps lists intersecting zone pairs; draw order alone decides which
// one is visible on top.
func (m *MapView) Overlaps() []Overlap {
	return append([]Overlap(nil), m.overlaps...)
}

// HasOverlay reports whether id names a toggleable overlay.
func (m *MapView) HasOverlay(id string) bool {
	return m.overlay[id]
}

// OverlayIDs returns overlay identifiers in stacking order.
func (m *MapView) OverlayIDs() []string {
	ids := make([]string, 0, len(m.comp.Overlays))
	for _, l := range m.comp.Overlays {
		ids = append(ids, l.ID)
	}
	return ids
}

// Fingerprint is a stable hash of the composition.
func (m *MapView) Fingerprint() string {
	return m.comp.Fingerprint()
}

// LegendEntry is one row of the hazard legend.
type LegendEntry struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// Legend lists each distinct category/color pair in first-appearance order.
func (m *MapView) Legend() []LegendEntry {
	var out []LegendEntry
	seen := map[LegendEntry]bool{}
	for _, z := range m.zones {
		e := LegendEntry{Category: z.Category, Color: z.Color}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
