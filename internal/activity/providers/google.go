package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/activity-finder/internal/activity"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// GoogleGeocoder implements activity.Geocoder on top of the Google Maps
// Geocoding API. The underlying library keeps the API key in a package
// variable, so only one key per process is supported.
type GoogleGeocoder struct {
	name    string
	circuit *gobreaker.CircuitBreaker
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

func NewGoogleGeocoder(apiKey string, breaker BreakerConfig) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		name:    "google",
		circuit: newBreaker("google-geocoder", breaker),
		lookup:  geocoder.Geocoding,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Resolve geocodes the free-text place. The library call is not
// context-aware, so cancellation only stops the wait.
func (g *GoogleGeocoder) Resolve(ctx context.Context, place string) (activity.Coordinate, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return activity.Coordinate{}, activity.ErrNotFound
	}

	type outcome struct {
		loc geocoder.Location
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := g.circuit.Execute(func() (interface{}, error) {
			loc, err := g.lookup(geocoder.Address{City: place})
			if err != nil && isZeroResults(err) {
				// A miss is a valid answer, not an upstream failure.
				return nil, nil
			}
			return loc, err
		})
		if err != nil {
			done <- outcome{err: err}
			return
		}
		if res == nil {
			done <- outcome{err: activity.ErrNotFound}
			return
		}
		done <- outcome{loc: res.(geocoder.Location)}
	}()

	select {
	case <-ctx.Done():
		return activity.Coordinate{}, fmt.Errorf("%w: google geocoding: %w", activity.ErrFetchFailure, ctx.Err())
	case out := <-done:
		switch {
		case errors.Is(out.err, activity.ErrNotFound):
			return activity.Coordinate{}, activity.ErrNotFound
		case out.err != nil:
			return activity.Coordinate{}, fmt.Errorf("%w: google geocoding: %w", activity.ErrFetchFailure, out.err)
		}
		return activity.Coordinate{Latitude: out.loc.Latitude, Longitude: out.loc.Longitude}, nil
	}
}

func isZeroResults(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "zero_results") || strings.Contains(msg, "no results")
}
