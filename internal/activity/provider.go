package activity

import (
	"context"
)

// Geocoder resolves free text to a single coordinate.
type Geocoder interface {
	Name() string
	Resolve(ctx context.Context, place string) (Coordinate, error)
}

// Forecaster resolves a coordinate to the nearest-term forecast description.
type Forecaster interface {
	Name() string
	Resolve(ctx context.Context, coord Coordinate) (ForecastSummary, error)
}

// VenueFinder queries points of interest around a coordinate, one query per tag.
type VenueFinder interface {
	Name() string
	Find(ctx context.Context, coord Coordinate, radiusKm float64, tags ActivityTagSet) ([]Venue, error)
}

// MapView is the rendering target owned by one map session.
// Markers added through AddMarker form a group that ClearMarkers removes as a whole.
type MapView interface {
	ID() string
	SetView(center Coordinate, zoom int)
	ClearMarkers()
	AddMarker(m Marker)
	SetForecast(p ForecastPanel)
	Notify(msg string)
}

// batcher is implemented by views that can apply several mutations atomically.
type batcher interface {
	Batch(fn func())
}
