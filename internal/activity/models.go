package activity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the geocoder has no match for a place.
	ErrNotFound = errors.New("no place found")
	// ErrFetchFailure covers any transport, status or decoding failure of an upstream service.
	ErrFetchFailure = errors.New("fetch failed")
	// ErrSuperseded is returned when a newer search on the same map cancelled this one.
	ErrSuperseded = errors.New("search superseded by a newer one")
	// ErrInvalidRadius is returned for a non-positive search radius.
	ErrInvalidRadius = errors.New("radius must be greater than zero")
)

// Coordinate is a resolved latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// ForecastSummary is the lowercased short description of the nearest forecast period.
type ForecastSummary string

// ActivityKind says which of the two fixed tag sets was chosen.
type ActivityKind string

const (
	KindOutdoor ActivityKind = "outdoor"
	KindIndoor  ActivityKind = "indoor"
)

// ActivityTagSet is an ordered list of key=value filters understood by the POI service.
type ActivityTagSet struct {
	Kind ActivityKind `json:"kind"`
	Tags []string     `json:"tags"`
}

var (
	// OutdoorActivities: parks, zoos, beaches, sports fields.
	OutdoorActivities = ActivityTagSet{
		Kind: KindOutdoor,
		Tags: []string{"leisure=park", "tourism=zoo", "natural=beach", "leisure=pitch"},
	}
	// IndoorActivities: cafes, museums, bowling alleys.
	IndoorActivities = ActivityTagSet{
		Kind: KindIndoor,
		Tags: []string{"amenity=cafe", "amenity=museum", "leisure=bowling_alley"},
	}
)

// Venue is a point of interest flattened from a raw POI record.
// Name is nil when the source record carried no name tag.
type Venue struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Name      *string `json:"name,omitempty"`
	Type      string  `json:"type"`
}

// SearchRequest is the user input that triggers one run of the pipeline.
type SearchRequest struct {
	Place    string
	RadiusKm float64
}

// SearchSession is the outcome of one successful run. The next search on the
// same map replaces it entirely.
type SearchSession struct {
	ID         string          `json:"id"`
	Place      string          `json:"place"`
	RadiusKm   float64         `json:"radiusKm"`
	Coordinate Coordinate      `json:"coordinate"`
	Forecast   ForecastSummary `json:"forecast"`
	Activities ActivityTagSet  `json:"activities"`
	Venues     []Venue         `json:"venues"`
}

// Marker is a single map marker with its popup.
type Marker struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Popup     string  `json:"popup"`
	Link      string  `json:"link"`
}

// ForecastCategory is the coarse bucket used to pick the forecast image.
type ForecastCategory string

const (
	CategorySunny  ForecastCategory = "sunny"
	CategoryCloudy ForecastCategory = "cloudy"
	CategorySnowy  ForecastCategory = "snowy"
	CategoryRainy  ForecastCategory = "rainy"
)

// ForecastPanel is the text/image status shown next to the map.
type ForecastPanel struct {
	Text     string           `json:"text"`
	Category ForecastCategory `json:"category"`
	Image    string           `json:"image"`
}
