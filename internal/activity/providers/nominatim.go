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

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
// Sample request: https://nominatim.openstreetmap.org/search?q=Charlotte%2C+NC&format=json&limit=1
const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder implements activity.Geocoder for OpenStreetMap Nominatim.
type NominatimGeocoder struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

type nominatimMatch struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewNominatimGeocoder(httpCfg HTTPClientConfig, baseURL string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	return &NominatimGeocoder{
		name:    "nominatim",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newBreaker("nominatim", httpCfg.Breaker),
	}
}

func (g *NominatimGeocoder) Name() string {
	return g.name
}

// Resolve returns the coordinate of the first match for place.
func (g *NominatimGeocoder) Resolve(ctx context.Context, place string) (activity.Coordinate, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return activity.Coordinate{}, activity.ErrNotFound
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("q", place)
		values.Set("format", "json")
		values.Set("limit", "1")

		u := fmt.Sprintf("%s/search?%s", g.baseURL, values.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	var matches []nominatimMatch
	if err := fetchJSON(ctx, g.httpCfg, g.circuit, buildRequest, &matches); err != nil {
		return activity.Coordinate{}, fmt.Errorf("%w: nominatim search: %w", activity.ErrFetchFailure, err)
	}
	if len(matches) == 0 {
		return activity.Coordinate{}, activity.ErrNotFound
	}

	lat, err := strconv.ParseFloat(matches[0].Lat, 64)
	if err != nil {
		return activity.Coordinate{}, fmt.Errorf("%w: nominatim latitude %q: %w", activity.ErrFetchFailure, matches[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(matches[0].Lon, 64)
	if err != nil {
		return activity.Coordinate{}, fmt.Errorf("%w: nominatim longitude %q: %w", activity.ErrFetchFailure, matches[0].Lon, err)
	}

	return activity.Coordinate{Latitude: lat, Longitude: lon}, nil
}
