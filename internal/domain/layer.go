package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// placeholderRe matches template placeholders such as {z} or {-y}.
	placeholderRe = regexp.MustCompile(`\{([^{}]*)\}`)

	// slugRe matches runs of characters that cannot appear in a layer ID.
	slugRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// allowedPlaceholders are the template keys the rendering engine fills in.
var allowedPlaceholders = map[string]bool{
	"z": true, "x": true, "y": true, "-y": true, "s": true, "r": true,
}

// DefaultBaseLayer is the engine's default base imagery, used when no
// TileLayerSpec is designated as the base.
var DefaultBaseLayer = TileLayerSpec{
	URLTemplate: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: "© OpenStreetMap contributors",
	DisplayName: "OpenStreetMap",
}

// TileLayerSpec describes one remote tile source.
type TileLayerSpec struct {
	URLTemplate string `json:"url_template"`
	Attribution string `json:"attribution"`
	DisplayName string `json:"display_name"`
	IsOverlay   bool   `json:"is_overlay"`
}

// NewTileLayerSpec builds and validates a TileLayerSpec.
func NewTileLayerSpec(urlTemplate, attribution, displayName string, isOverlay bool) (TileLayerSpec, error) {
	s := TileLayerSpec{
		URLTemplate: urlTemplate,
		Attribution: attribution,
		DisplayName: displayName,
		IsOverlay:   isOverlay,
	}
	if err := s.Validate(); err != nil {
		return TileLayerSpec{}, err
	}
	return s, nil
}

// ID returns the layer identifier used by the toggle control.
func (s TileLayerSpec) ID() string {
	return LayerID(s.DisplayName)
}

// ZoomInvariant reports whether the URL carries no tile position, i.e. the
// service returns the same pre-rendered raster for every tile request.
func (s TileLayerSpec) ZoomInvariant() bool {
	for _, m := range placeholderRe.FindAllStringSubmatch(s.URLTemplate, -1) {
		switch m[1] {
		case "z", "x", "y", "-y":
			return false
		}
	}
	return true
}

// Validate checks the URL template, attribution, and display name.
func (s TileLayerSpec) Validate() error {
	if strings.TrimSpace(s.DisplayName) == "" {
		return configErrorf("name", "display name is required")
	}
	if s.ID() == "" {
		return configErrorf("name", "%q has no letters or digits to build a layer id from", s.DisplayName)
	}
	if strings.TrimSpace(s.Attribution) == "" {
		return configErrorf("attribution", "attribution is required for %q", s.DisplayName)
	}
	return validateTemplate(s.URLTemplate)
}

func validateTemplate(tmpl string) error {
	if strings.TrimSpace(tmpl) == "" {
		return configErrorf("url", "url template is required")
	}
	if strings.Count(tmpl, "{") != strings.Count(tmpl, "}") {
		return configErrorf("url", "unbalanced braces in %q", tmpl)
	}

	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		key := m[1]
		if !allowedPlaceholders[key] {
			return configErrorf("url", "unknown placeholder {%s} in %q", key, tmpl)
		}
		seen[key] = true
	}

	hasY := seen["y"] || seen["-y"]
	positional := seen["z"] || seen["x"] || hasY
	if positional && (!seen["z"] || !seen["x"] || !hasY) {
		return configErrorf("url", "template %q must contain all of {z}, {x} and {y}", tmpl)
	}

	// Placeholders are not valid URL syntax everywhere; parse a filled-in copy.
	filled := placeholderRe.ReplaceAllString(tmpl, "0")
	u, err := url.Parse(filled)
	if err != nil {
		return configErrorf("url", "%q is not a valid URL: %v", tmpl, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return configErrorf("url", "%q must use http or https", tmpl)
	}
	if u.Host == "" {
		return configErrorf("url", "%q has no host", tmpl)
	}
	if !positional && u.RawQuery == "" {
		return configErrorf("url", "%q has neither {z}/{x}/{y} placeholders nor a query string", tmpl)
	}
	return nil
}

// LayerID turns a display name into a lowercase, dash separated identifier.
func LayerID(displayName string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(displayName), "-"), "-")
}
