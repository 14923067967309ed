package http

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"sync/atomic"

	"github.com/couchcryptid/floodlight-guardian-view/internal/config"
	"github.com/couchcryptid/floodlight-guardian-view/internal/mapview"
)

// LeafletVersion is the rendering engine release the page loads.
const LeafletVersion = "1.9.4"

// searchZoom is the minimum zoom the camera moves to after a location search.
const searchZoom = 8

//go:embed templates/map.html
var pageTemplate string

var pageTmpl = template.Must(template.New("map").Parse(pageTemplate))

// pageData is everything the page template reads.
type pageData struct {
	Title          string
	Subtitle       string
	SessionID      string
	Width          int
	Height         int
	MinZoom        int
	MaxZoom        int
	ZoomSnap       int
	SearchZoom     int
	SearchEnabled  bool
	LeafletVersion string
	Legend         []mapview.LegendEntry
	Composition    mapview.Composition
}

// Renderer produces the hosting page for a composed map.
type Renderer struct {
	view          *mapview.MapView
	page          config.Page
	searchEnabled bool
	rendered      atomic.Bool
}

// NewRenderer creates a page renderer. searchEnabled shows the location
// search box, which needs the /api/geocode route to be served.
func NewRenderer(view *mapview.MapView, page config.Page, searchEnabled bool) *Renderer {
	return &Renderer{view: view, page: page, searchEnabled: searchEnabled}
}

// Render writes the page. An empty sessionID renders a static page that
// does not report layer toggles back to the server.
func (r *Renderer) Render(w io.Writer, sessionID string) error {
	comp := r.view.Composition()
	data := pageData{
		Title:          r.page.Title,
		Subtitle:       r.page.Subtitle,
		SessionID:      sessionID,
		Width:          comp.Width,
		Height:         comp.Height,
		MinZoom:        mapview.MinZoom,
		MaxZoom:        mapview.MaxZoom,
		ZoomSnap:       zoomSnap(comp.Zoom),
		SearchZoom:     searchZoom,
		SearchEnabled:  r.searchEnabled,
		LeafletVersion: LeafletVersion,
		Legend:         r.view.Legend(),
		Composition:    comp,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	r.rendered.Store(true)
	return nil
}

// zoomSnap is the engine's zoom step. A fractional starting zoom turns
// snapping off so the map opens at exactly that zoom.
func zoomSnap(zoom float64) int {
	if zoom != math.Trunc(zoom) {
		return 0
	}
	return 1
}

// CheckReadiness reports ready once a page has rendered successfully.
func (r *Renderer) CheckReadiness(_ context.Context) error {
	if !r.rendered.Load() {
		return errors.New("page not rendered yet")
	}
	return nil
}
