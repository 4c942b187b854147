package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/i474232898/activity-finder/internal/activity"
	"github.com/sony/gobreaker"
)

// API Docs: https://www.weather.gov/documentation/services-web-api
// A coordinate must first be resolved to a grid point; the point document
// links to the forecast for that grid cell.
// - https://api.weather.gov/points/35.2272,-80.8431
// - https://api.weather.gov/gridpoints/GSP/119,65/forecast
const defaultNWSURL = "https://api.weather.gov"

// NWSForecaster implements activity.Forecaster for the National Weather Service API.
type NWSForecaster struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

type nwsPointResponse struct {
	Properties struct {
		GridID   string `json:"gridId"`
		GridX    int    `json:"gridX"`
		GridY    int    `json:"gridY"`
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type nwsForecastResponse struct {
	Properties struct {
		Periods []struct {
			Number        int    `json:"number"`
			Name          string `json:"name"`
			ShortForecast string `json:"shortForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

var (
	errNoForecastLink = errors.New("point response has no forecast link")
	errNoPeriods      = errors.New("forecast has no periods")
)

func NewNWSForecaster(httpCfg HTTPClientConfig, baseURL string) *NWSForecaster {
	if baseURL == "" {
		baseURL = defaultNWSURL
	}
	return &NWSForecaster{
		name:    "nws",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newBreaker("nws", httpCfg.Breaker),
	}
}

func (f *NWSForecaster) Name() string {
	return f.name
}

// Resolve looks up the grid point for coord, then returns the lowercased short
// description of the first forecast period.
func (f *NWSForecaster) Resolve(ctx context.Context, coord activity.Coordinate) (activity.ForecastSummary, error) {
	var point nwsPointResponse
	pointURL := fmt.Sprintf("%s/points/%.4f,%.4f", f.baseURL, coord.Latitude, coord.Longitude)
	if err := fetchJSON(ctx, f.httpCfg, f.circuit, f.get(pointURL), &point); err != nil {
		return "", fmt.Errorf("%w: nws point: %w", activity.ErrFetchFailure, err)
	}
	if point.Properties.Forecast == "" {
		return "", fmt.Errorf("%w: nws point: %w", activity.ErrFetchFailure, errNoForecastLink)
	}

	var forecast nwsForecastResponse
	if err := fetchJSON(ctx, f.httpCfg, f.circuit, f.get(point.Properties.Forecast), &forecast); err != nil {
		return "", fmt.Errorf("%w: nws forecast: %w", activity.ErrFetchFailure, err)
	}
	if len(forecast.Properties.Periods) == 0 {
		return "", fmt.Errorf("%w: nws forecast: %w", activity.ErrFetchFailure, errNoPeriods)
	}

	short := forecast.Properties.Periods[0].ShortForecast
	return activity.ForecastSummary(strings.ToLower(strings.TrimSpace(short))), nil
}

func (f *NWSForecaster) get(u string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/geo+json")
		return req, nil
	}
}
