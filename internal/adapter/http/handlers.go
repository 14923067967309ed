package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
	"github.com/couchcryptid/floodlight-guardian-view/internal/mapview"
	"github.com/couchcryptid/floodlight-guardian-view/internal/observability"
)

const maxEventBody = 4 << 10

type handlers struct {
	deps   Dependencies
	etag   string
	logger *slog.Logger
}

func newHandlers(deps Dependencies, logger *slog.Logger) *handlers {
	return &handlers{
		deps:   deps,
		etag:   `"` + deps.View.Fingerprint() + `"`,
		logger: logger,
	}
}

// mapResponse is the body of GET /api/map.
type mapResponse struct {
	Fingerprint string                `json:"fingerprint"`
	Composition mapview.Composition   `json:"composition"`
	Legend      []mapview.LegendEntry `json:"legend"`
	Overlaps    []mapview.Overlap     `json:"overlaps"`
}

// layerEventRequest is the toggle callback body the page posts.
type layerEventRequest struct {
	Layer  string `json:"layer"`
	Active *bool  `json:"active"`
}

func (h *handlers) page(w http.ResponseWriter, _ *http.Request) {
	state := h.deps.Sessions.Open()
	h.deps.Metrics.ActiveSessions.Set(float64(h.deps.Sessions.Len()))

	start := time.Now()
	var buf bytes.Buffer
	if err := h.deps.Renderer.Render(&buf, state.SessionID); err != nil {
		h.logger.Error("page render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.deps.Metrics.PageRenderDuration.Observe(time.Since(start).Seconds())
	h.deps.Metrics.PageRenders.Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *handlers) composition(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", h.etag)
	if etagMatches(r.Header.Get("If-None-Match"), h.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	overlaps := h.deps.View.Overlaps()
	if overlaps == nil {
		overlaps = []mapview.Overlap{}
	}
	legend := h.deps.View.Legend()
	if legend == nil {
		legend = []mapview.LegendEntry{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, mapResponse{
		Fingerprint: h.deps.View.Fingerprint(),
		Composition: h.deps.View.Composition(),
		Legend:      legend,
		Overlaps:    overlaps,
	})
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Sessions.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, st)
}

func (h *handlers) layerEvent(w http.ResponseWriter, r *http.Request) {
	var req layerEventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("malformed layer event"))
		return
	}
	if req.Layer == "" || req.Active == nil {
		writeError(w, http.StatusBadRequest, errors.New(`"layer" and "active" are required`))
		return
	}

	st, err := h.deps.Sessions.Apply(chi.URLParam(r, "id"), req.Layer, *req.Active)
	switch {
	case errors.Is(err, mapview.ErrUnknownSession):
		writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, mapview.ErrUnknownLayer):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		h.logger.Error("apply layer event failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, st)
}

func (h *handlers) geocode(w http.ResponseWriter, r *http.Request) {
	place, err := domain.Locate(r.Context(), h.deps.Geocoder, r.URL.Query().Get("q"), h.logger)
	switch {
	case errors.Is(err, domain.ErrGeocodingDisabled):
		writeError(w, http.StatusServiceUnavailable, err)
		return
	case errors.Is(err, domain.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, domain.ErrNoMatch):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, errors.New("geocoding provider error"))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, place)
}

// ToggleRecorder returns a session listener that counts and logs toggles.
func ToggleRecorder(metrics *observability.Metrics, logger *slog.Logger) mapview.Listener {
	return func(e domain.LayerEvent) {
		metrics.LayerToggles.WithLabelValues(e.Layer, e.Action()).Inc()
		logger.Debug("layer toggled",
			"session_id", e.SessionID,
			"layer", e.Layer,
			"action", e.Action(),
			"version", e.Version,
		)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
