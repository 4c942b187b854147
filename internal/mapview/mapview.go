package mapview

import (
	"sync"
	"time"

	"github.com/i474232898/activity-finder/internal/activity"
)

// Initial view of a new map before any search.
var (
	DefaultCenter = activity.Coordinate{Latitude: 35.5, Longitude: -80.85}
	DefaultZoom   = 13
)

// MarkerGroup is a clearable collection of markers belonging to one search.
type MarkerGroup struct {
	markers []activity.Marker
}

func (g *MarkerGroup) Add(m activity.Marker) {
	g.markers = append(g.markers, m)
}

func (g *MarkerGroup) Clear() {
	g.markers = nil
}

func (g *MarkerGroup) Len() int {
	return len(g.markers)
}

// Markers returns a copy of the group's markers.
func (g *MarkerGroup) Markers() []activity.Marker {
	out := make([]activity.Marker, len(g.markers))
	copy(out, g.markers)
	return out
}

// View is an in-memory map owning its marker group. It implements
// activity.MapView and is safe for concurrent use.
type View struct {
	id string

	// batchMu keeps readers out while a batch of mutations is applied.
	batchMu sync.Mutex

	mu        sync.RWMutex
	center    activity.Coordinate
	zoom      int
	markers   MarkerGroup
	forecast  *activity.ForecastPanel
	notice    string
	updatedAt time.Time
}

// Snapshot is a read-only copy of a View's state.
type Snapshot struct {
	ID        string                  `json:"id"`
	Center    activity.Coordinate     `json:"center"`
	Zoom      int                     `json:"zoom"`
	Markers   []activity.Marker       `json:"markers"`
	Forecast  *activity.ForecastPanel `json:"forecast,omitempty"`
	Notice    string                  `json:"notice,omitempty"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// New creates a view centered on the default location.
func New(id string) *View {
	return &View{
		id:        id,
		center:    DefaultCenter,
		zoom:      DefaultZoom,
		updatedAt: time.Now().UTC(),
	}
}

func (v *View) ID() string {
	return v.id
}

// SetView recenters the map. It also drops any notice left by an earlier
// failed search, since a recenter only happens on a successful render.
func (v *View) SetView(center activity.Coordinate, zoom int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center = center
	v.zoom = zoom
	v.notice = ""
	v.touch()
}

func (v *View) ClearMarkers() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers.Clear()
	v.touch()
}

func (v *View) AddMarker(m activity.Marker) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers.Add(m)
	v.touch()
}

func (v *View) SetForecast(p activity.ForecastPanel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.forecast = &p
	v.touch()
}

func (v *View) Notify(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notice = msg
	v.touch()
}

// Batch runs fn while snapshots are held off.
func (v *View) Batch(fn func()) {
	v.batchMu.Lock()
	defer v.batchMu.Unlock()
	fn()
}

// Snapshot returns the current state, never a half-applied batch.
func (v *View) Snapshot() Snapshot {
	v.batchMu.Lock()
	defer v.batchMu.Unlock()

	v.mu.RLock()
	defer v.mu.RUnlock()

	s := Snapshot{
		ID:        v.id,
		Center:    v.center,
		Zoom:      v.zoom,
		Markers:   v.markers.Markers(),
		Notice:    v.notice,
		UpdatedAt: v.updatedAt,
	}
	if v.forecast != nil {
		panel := *v.forecast
		s.Forecast = &panel
	}
	return s
}

// MarkerCount returns the size of the current marker group.
func (v *View) MarkerCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.markers.Len()
}

// UpdatedAt is the time of the last mutation.
func (v *View) UpdatedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.updatedAt
}

func (v *View) touch() {
	v.updatedAt = time.Now().UTC()
}

var _ activity.MapView = (*View)(nil)
