package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
	"github.com/couchcryptid/floodlight-guardian-view/internal/mapview"
)

// Layout is the static description of the dashboard: page chrome, initial
// camera, tile layers, and hazard zones.
type Layout struct {
	Page   Page         `koanf:"page"`
	View   View         `koanf:"view"`
	Layers []LayerEntry `koanf:"layers"`
	Zones  []ZoneEntry  `koanf:"zones"`
}

// Page holds the hosting page text and the size of the map region.
type Page struct {
	Title    string `koanf:"title"`
	Subtitle string `koanf:"subtitle"`
	Width    int    `koanf:"width"`
	Height   int    `koanf:"height"`
}

// View is the initial camera.
type View struct {
	Center Point   `koanf:"center"`
	Zoom   float64 `koanf:"zoom"`
}

// Point is a lat/lon pair as written in the layout file.
type Point struct {
	Lat float64 `koanf:"lat"`
	Lon float64 `koanf:"lon"`
}

// LayerEntry is one tile layer. Layers are overlays unless Base is set;
// only the first entry may set it.
type LayerEntry struct {
	Name        string `koanf:"name"`
	URL         string `koanf:"url"`
	Attribution string `koanf:"attribution"`
	Base        bool   `koanf:"base"`
}

// ZoneEntry is one hazard zone.
type ZoneEntry struct {
	Center   Point   `koanf:"center"`
	RadiusM  float64 `koanf:"radius_m"`
	Category string  `koanf:"category"`
	Color    string  `koanf:"color"`
}

// DefaultLayout returns the built-in Guardian View dashboard.
func DefaultLayout() Layout {
	return Layout{
		Page: Page{
			Title:    "🌊 FloodLight: Guardian View",
			Subtitle: "Real-time monitoring of flood, rain & wind zones.",
			Width:    mapview.DefaultWidth,
			Height:   mapview.DefaultHeight,
		},
		View: View{
			Center: Point{Lat: 37.0902, Lon: -95.7129},
			Zoom:   4,
		},
		Layers: []LayerEntry{
			{
				Name:        "NASA TrueColor",
				URL:         "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/VIIRS_SNPP_CorrectedReflectance_TrueColor/default/2023-05-31/250m/{z}/{y}/{x}.jpg",
				Attribution: "NASA GIBS",
			},
			{
				Name:        "USGS Streamflow",
				URL:         "https://mrdata.usgs.gov/services/streamflow?FORMAT=image/png&TRANSPARENT=true",
				Attribution: "USGS",
			},
		},
		Zones: []ZoneEntry{
			{Center: Point{Lat: 29.76, Lon: -95.36}, RadiusM: 30000, Category: "Flood", Color: "blue"},
			{Center: Point{Lat: 34.05, Lon: -118.25}, RadiusM: 40000, Category: "Wind", Color: "red"},
		},
	}
}

// LoadLayout reads a YAML layout file over DefaultLayout. Keys missing from
// the file keep their defaults; a layers or zones list in the file replaces
// the default list entirely.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Layout{}, fmt.Errorf("load layout %s: %w", path, err)
	}

	if k.Exists("layers") {
		layout.Layers = nil
	}
	if k.Exists("zones") {
		layout.Zones = nil
	}
	if err := k.UnmarshalWithConf("", &layout, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Layout{}, fmt.Errorf("decode layout %s: %w", path, err)
	}
	return layout, nil
}

// TileLayers converts the layer entries to domain specs.
func (l Layout) TileLayers() []domain.TileLayerSpec {
	specs := make([]domain.TileLayerSpec, 0, len(l.Layers))
	for _, e := range l.Layers {
		specs = append(specs, domain.TileLayerSpec{
			URLTemplate: strings.TrimSpace(e.URL),
			Attribution: e.Attribution,
			DisplayName: e.Name,
			IsOverlay:   !e.Base,
		})
	}
	return specs
}

// HazardZones converts the zone entries to domain zones.
func (l Layout) HazardZones() []domain.HazardZone {
	zones := make([]domain.HazardZone, 0, len(l.Zones))
	for _, e := range l.Zones {
		zones = append(zones, domain.HazardZone{
			Center:       domain.Coordinate{Lat: e.Center.Lat, Lon: e.Center.Lon},
			RadiusMeters: e.RadiusM,
			Category:     e.Category,
			Color:        e.Color,
		})
	}
	return zones
}

// Build validates the layout and composes the map. Every problem is
// reported, joined, as *domain.ConfigError values.
func (l Layout) Build() (*mapview.MapView, error) {
	var errs []error
	if strings.TrimSpace(l.Page.Title) == "" {
		errs = append(errs, &domain.ConfigError{Field: "page.title", Reason: "title is required"})
	}

	view, err := mapview.New(
		domain.Coordinate{Lat: l.View.Center.Lat, Lon: l.View.Center.Lon},
		l.View.Zoom,
		l.TileLayers(),
		l.HazardZones(),
		mapview.WithSize(l.Page.Width, l.Page.Height),
	)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return view, nil
}
