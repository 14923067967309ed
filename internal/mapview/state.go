package mapview

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
)

var (
	// ErrUnknownSession is returned for session IDs that never existed or expired.
	ErrUnknownSession = errors.New("unknown or expired session")
	// ErrUnknownLayer is returned when an event names something that is not an overlay.
	ErrUnknownLayer = errors.New("not a toggleable overlay")
)

// Listener receives toggle events after the session state changed. Events of
// one session arrive in version order.
type Listener func(domain.LayerEvent)

// sessionState mirrors the engine-owned state of one page session.
type sessionState struct {
	mu        sync.Mutex
	id        string
	active    map[string]bool
	version   uint64
	updatedAt time.Time
}

// StateTracker keeps a server-side mirror of MapViewState for every open
// page. Only engine toggle events (Apply) change it; everything else reads
// snapshots. Sessions expire after the configured TTL without a snapshot
// read or an applied toggle.
type StateTracker struct {
	view     *MapView
	sessions *expirable.LRU[string, *sessionState]

	mu        sync.RWMutex
	listeners []Listener
}

// NewStateTracker creates a tracker holding at most capacity sessions.
func NewStateTracker(view *MapView, capacity int, ttl time.Duration) *StateTracker {
	return &StateTracker{
		view:     view,
		sessions: expirable.NewLRU[string, *sessionState](capacity, nil, ttl),
	}
}

// OnToggle registers a listener. Listeners run synchronously, in
// registration order, on the goroutine that applied the event, while that
// session is locked. They must not call back into the tracker.
func (t *StateTracker) OnToggle(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// Open starts a session with every overlay visible, as the engine does
// when it first renders the page.
func (t *StateTracker) Open() domain.MapViewState {
	st := &sessionState{
		id:        uuid.NewString(),
		active:    make(map[string]bool, len(t.view.comp.Overlays)+1),
		updatedAt: domain.Now(),
	}
	st.active[t.view.comp.Base.ID] = true
	for _, l := range t.view.comp.Overlays {
		st.active[l.ID] = true
	}
	t.sessions.Add(st.id, st)

	st.mu.Lock()
	defer st.mu.Unlock()
	return t.snapshot(st)
}

// Snapshot returns the current state of a session and counts as activity.
func (t *StateTracker) Snapshot(sessionID string) (domain.MapViewState, error) {
	st, ok := t.sessions.Get(sessionID)
	if !ok {
		return domain.MapViewState{}, ErrUnknownSession
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	t.touch(st)
	return t.snapshot(st), nil
}

// Apply records that the engine showed or hid an overlay. Repeating the
// current visibility is a no-op: no version bump and no event.
func (t *StateTracker) Apply(sessionID, layerID string, active bool) (domain.MapViewState, error) {
	if !t.view.HasOverlay(layerID) {
		return domain.MapViewState{}, fmt.Errorf("%w: %q", ErrUnknownLayer, layerID)
	}
	st, ok := t.sessions.Get(sessionID)
	if !ok {
		return domain.MapViewState{}, ErrUnknownSession
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.active[layerID] == active {
		return t.snapshot(st), nil
	}
	if !t.touch(st) {
		return domain.MapViewState{}, ErrUnknownSession
	}
	st.active[layerID] = active
	st.version++
	st.updatedAt = domain.Now()

	event := domain.LayerEvent{
		SessionID: st.id,
		Layer:     layerID,
		Active:    active,
		Version:   st.version,
		At:        st.updatedAt,
	}
	t.mu.RLock()
	listeners := append([]Listener(nil), t.listeners...)
	t.mu.RUnlock()
	for _, l := range listeners {
		l(event)
	}
	return t.snapshot(st), nil
}

// touch restarts the idle TTL of st if it is still the live entry for its
// ID. An expired or evicted session is not brought back. Must be called with
// st.mu held.
func (t *StateTracker) touch(st *sessionState) bool {
	cur, ok := t.sessions.Get(st.id)
	if !ok || cur != st {
		return false
	}
	t.sessions.Add(st.id, st)
	return true
}

// Len returns the number of live sessions.
func (t *StateTracker) Len() int {
	return t.sessions.Len()
}

// snapshot must be called with st.mu held.
func (t *StateTracker) snapshot(st *sessionState) domain.MapViewState {
	active := make([]string, 0, len(st.active))
	for id, on := range st.active {
		if on {
			active = append(active, id)
		}
	}
	sort.Strings(active)
	return domain.MapViewState{
		SessionID:    st.id,
		Center:       t.view.comp.Center,
		Zoom:         t.view.comp.Zoom,
		ActiveLayers: active,
		Version:      st.version,
		UpdatedAt:    st.updatedAt,
	}
}
