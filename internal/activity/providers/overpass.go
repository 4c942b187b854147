package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/activity-finder/internal/activity"
	"github.com/sony/gobreaker"
)

// API Docs: https://wiki.openstreetmap.org/wiki/Overpass_API/Overpass_QL
const (
	defaultOverpassURL     = "https://overpass-api.de/api/interpreter"
	defaultOverpassTimeout = 90
)

// venueTypeKeys is the order in which tags are probed for a venue's type.
var venueTypeKeys = []string{"leisure", "amenity", "natural", "tourism"}

// OverpassFinder implements activity.VenueFinder for the Overpass API.
type OverpassFinder struct {
	name    string
	baseURL string
	timeout int
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

type overpassElement struct {
	ID   int64             `json:"id"`
	Type string            `json:"type"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// PendingQuery is one per-tag Overpass request waiting to be sent.
type PendingQuery struct {
	Tag   string
	Query string
}

// NewOverpassFinder creates the finder. timeoutSec is the server-side budget
// written into each query; <= 0 uses 90.
func NewOverpassFinder(httpCfg HTTPClientConfig, baseURL string, timeoutSec int) *OverpassFinder {
	if baseURL == "" {
		baseURL = defaultOverpassURL
	}
	if timeoutSec <= 0 {
		timeoutSec = defaultOverpassTimeout
	}
	return &OverpassFinder{
		name:    "overpass",
		baseURL: baseURL,
		timeout: timeoutSec,
		httpCfg: httpCfg,
		circuit: newBreaker("overpass", httpCfg.Breaker),
	}
}

func (f *OverpassFinder) Name() string {
	return f.name
}

// Queries lists the requests Find will send, in tag order.
func (f *OverpassFinder) Queries(coord activity.Coordinate, radiusKm float64, tags activity.ActivityTagSet) []PendingQuery {
	radiusM := radiusKm * 1000
	pending := make([]PendingQuery, 0, len(tags.Tags))
	for _, tag := range tags.Tags {
		pending = append(pending, PendingQuery{
			Tag:   tag,
			Query: BuildQuery(coord, radiusM, tag, f.timeout),
		})
	}
	return pending
}

// Find sends one query per tag, one after another, and flattens the results
// in tag order. A tag with no matches contributes nothing; any failed request
// fails the whole call.
func (f *OverpassFinder) Find(ctx context.Context, coord activity.Coordinate, radiusKm float64, tags activity.ActivityTagSet) ([]activity.Venue, error) {
	if radiusKm <= 0 {
		return nil, activity.ErrInvalidRadius
	}

	var venues []activity.Venue
	for _, q := range f.Queries(coord, radiusKm, tags) {
		var payload overpassResponse
		if err := fetchJSON(ctx, f.httpCfg, f.circuit, f.post(q.Query), &payload); err != nil {
			return nil, fmt.Errorf("%w: overpass %s: %w", activity.ErrFetchFailure, q.Tag, err)
		}
		if len(payload.Elements) == 0 {
			continue
		}
		for _, el := range payload.Elements {
			venues = append(venues, toVenue(el))
		}
	}
	return venues, nil
}

func (f *OverpassFinder) post(query string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		form := url.Values{}
		form.Set("data", query)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}
}

// BuildQuery renders the Overpass QL for nodes carrying tag (key=value)
// within radiusM meters of coord.
func BuildQuery(coord activity.Coordinate, radiusM float64, tag string, timeoutSec int) string {
	return fmt.Sprintf("[out:json][timeout:%d];node(around:%s,%s,%s)[%s];out body;",
		timeoutSec,
		strconv.FormatFloat(radiusM, 'f', -1, 64),
		strconv.FormatFloat(coord.Latitude, 'f', -1, 64),
		strconv.FormatFloat(coord.Longitude, 'f', -1, 64),
		tag,
	)
}

func toVenue(el overpassElement) activity.Venue {
	v := activity.Venue{
		Latitude:  el.Lat,
		Longitude: el.Lon,
		Type:      venueType(el.Tags),
	}
	if name, ok := el.Tags["name"]; ok && name != "" {
		v.Name = &name
	}
	return v
}

func venueType(tags map[string]string) string {
	for _, key := range venueTypeKeys {
		if v, ok := tags[key]; ok && v != "" {
			return v
		}
	}
	return ""
}
