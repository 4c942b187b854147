package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/i474232898/activity-finder/internal/activity"
)

// overpassStub answers each query by matching the tag filter it contains.
type overpassStub struct {
	mu       sync.Mutex
	queries  []string
	byTag    map[string]string
	failTags map[string]bool
}

func (s *overpassStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := r.PostForm.Get("data")

	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	for tag, body := range s.byTag {
		if strings.Contains(q, "["+tag+"]") {
			if s.failTags[tag] {
				http.Error(w, "timeout", http.StatusGatewayTimeout)
				return
			}
			_, _ = w.Write([]byte(body))
			return
		}
	}
	_, _ = w.Write([]byte(`{"elements":[]}`))
}

var testCoord = activity.Coordinate{Latitude: 35.2272, Longitude: -80.8431}

func TestBuildQuery(t *testing.T) {
	got := BuildQuery(testCoord, 5000, "leisure=park", 90)
	want := "[out:json][timeout:90];node(around:5000,35.2272,-80.8431)[leisure=park];out body;"
	if got != want {
		t.Errorf("BuildQuery() = %q, want %q", got, want)
	}
}

func TestOverpassFinder_Queries(t *testing.T) {
	f := NewOverpassFinder(HTTPClientConfig{}, "", 0)
	pending := f.Queries(testCoord, 2.5, activity.OutdoorActivities)

	if len(pending) != len(activity.OutdoorActivities.Tags) {
		t.Fatalf("pending = %d, want %d", len(pending), len(activity.OutdoorActivities.Tags))
	}
	for i, p := range pending {
		if p.Tag != activity.OutdoorActivities.Tags[i] {
			t.Errorf("pending[%d].Tag = %q, want %q", i, p.Tag, activity.OutdoorActivities.Tags[i])
		}
		if !strings.Contains(p.Query, "around:2500,") {
			t.Errorf("pending[%d] radius not scaled to meters: %q", i, p.Query)
		}
		if !strings.Contains(p.Query, "[timeout:90]") {
			t.Errorf("pending[%d] missing default timeout: %q", i, p.Query)
		}
	}
}

func TestOverpassFinder_Find(t *testing.T) {
	stub := &overpassStub{
		byTag: map[string]string{
			"leisure=park": `{"elements":[
				{"type":"node","id":1,"lat":35.21,"lon":-80.84,"tags":{"leisure":"park","name":"Freedom Park"}},
				{"type":"node","id":2,"lat":35.22,"lon":-80.85,"tags":{"leisure":"park","amenity":"bench"}}
			]}`,
			"tourism=zoo":   `{"elements":[]}`,
			"natural=beach": `{"elements":[{"type":"node","id":3,"lat":35.3,"lon":-80.9,"tags":{"natural":"beach","name":"Lake Beach"}}]}`,
			"leisure=pitch": `{"elements":[{"type":"node","id":4,"lat":35.1,"lon":-80.7,"tags":{"amenity":"sports_centre","leisure":"pitch"}}]}`,
		},
	}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	f := NewOverpassFinder(testHTTPConfig(srv), srv.URL, 90)
	venues, err := f.Find(context.Background(), testCoord, 5, activity.OutdoorActivities)
	if err != nil {
		t.Fatalf("Find() unexpected error = %v", err)
	}

	if len(stub.queries) != 4 {
		t.Fatalf("queries issued = %d, want 4", len(stub.queries))
	}
	for i, q := range stub.queries {
		if !strings.Contains(q, "node(around:5000,") {
			t.Errorf("query %d radius = %q", i, q)
		}
		if !strings.Contains(q, "["+activity.OutdoorActivities.Tags[i]+"]") {
			t.Errorf("query %d out of tag order: %q", i, q)
		}
	}

	wantTypes := []string{"park", "park", "beach", "pitch"}
	if len(venues) != len(wantTypes) {
		t.Fatalf("venues = %d, want %d", len(venues), len(wantTypes))
	}
	for i, v := range venues {
		if v.Type != wantTypes[i] {
			t.Errorf("venues[%d].Type = %q, want %q", i, v.Type, wantTypes[i])
		}
	}
	if venues[0].Name == nil || *venues[0].Name != "Freedom Park" {
		t.Errorf("venues[0].Name = %v", venues[0].Name)
	}
	if venues[1].Name != nil {
		t.Errorf("venues[1].Name = %q, want nil", *venues[1].Name)
	}
	if venues[2].Latitude != 35.3 || venues[2].Longitude != -80.9 {
		t.Errorf("venues[2] coordinate = %v,%v", venues[2].Latitude, venues[2].Longitude)
	}
}

func TestOverpassFinder_FailFast(t *testing.T) {
	stub := &overpassStub{
		byTag: map[string]string{
			"amenity=cafe":   `{"elements":[{"type":"node","id":1,"lat":1,"lon":2,"tags":{"amenity":"cafe"}}]}`,
			"amenity=museum": `{"elements":[]}`,
		},
		failTags: map[string]bool{"amenity=museum": true},
	}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	f := NewOverpassFinder(testHTTPConfig(srv), srv.URL, 90)
	venues, err := f.Find(context.Background(), testCoord, 1, activity.IndoorActivities)

	if !errors.Is(err, activity.ErrFetchFailure) {
		t.Fatalf("Find() error = %v, want ErrFetchFailure", err)
	}
	if venues != nil {
		t.Errorf("Find() returned partial venues: %v", venues)
	}
	if len(stub.queries) != 2 {
		t.Errorf("queries issued = %d, want 2 (stop at first failure)", len(stub.queries))
	}
}

func TestOverpassFinder_InvalidRadius(t *testing.T) {
	f := NewOverpassFinder(HTTPClientConfig{}, "", 90)
	if _, err := f.Find(context.Background(), testCoord, 0, activity.IndoorActivities); !errors.Is(err, activity.ErrInvalidRadius) {
		t.Errorf("Find(radius 0) error = %v, want ErrInvalidRadius", err)
	}
}

func TestVenueType(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"leisure beats amenity", map[string]string{"amenity": "cafe", "leisure": "park"}, "park"},
		{"amenity beats natural", map[string]string{"natural": "beach", "amenity": "cafe"}, "cafe"},
		{"natural only", map[string]string{"natural": "beach"}, "beach"},
		{"tourism as last resort", map[string]string{"tourism": "zoo", "name": "Zoo"}, "zoo"},
		{"natural beats tourism", map[string]string{"tourism": "zoo", "natural": "wood"}, "wood"},
		{"empty leisure skipped", map[string]string{"leisure": "", "amenity": "museum"}, "museum"},
		{"no category", map[string]string{"name": "Somewhere"}, ""},
		{"nil tags", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := venueType(tt.tags); got != tt.want {
				t.Errorf("venueType(%v) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}
