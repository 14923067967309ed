package domain

import (
	"slices"
	"time"
)

// MapViewState is a read-only snapshot of one page session's map state.
// The rendering engine owns the live state; application code receives
// copies of it and never writes back.
type MapViewState struct {
	SessionID    string     `json:"session_id"`
	Center       Coordinate `json:"center"`
	Zoom         float64    `json:"zoom"`
	ActiveLayers []string   `json:"active_layers"` // sorted layer IDs
	Version      uint64     `json:"version"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive reports whether the layer is visible in this snapshot.
func (s MapViewState) IsActive(layerID string) bool {
	_, found := slices.BinarySearch(s.ActiveLayers, layerID)
	return found
}

// LayerEvent records a visibility toggle the engine performed.
type LayerEvent struct {
	SessionID string    `json:"session_id"`
	Layer     string    `json:"layer"`
	Active    bool      `json:"active"`
	Version   uint64    `json:"version"`
	At        time.Time `json:"at"`
}

// Action names the toggle direction for logs and metric labels.
func (e LayerEvent) Action() string {
	if e.Active {
		return "show"
	}
	return "hide"
}
