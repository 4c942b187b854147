package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/activity-finder/internal/activity"
	"github.com/sony/gobreaker"
)

// API Docs: https://open-meteo.com/en/docs
// Sample request: https://api.open-meteo.com/v1/forecast?latitude=48.85&longitude=2.35&current_weather=true
const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoForecaster implements activity.Forecaster for Open-Meteo. Unlike
// the NWS it covers coordinates outside the United States and needs a single
// request.
type OpenMeteoForecaster struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoForecaster(httpCfg HTTPClientConfig, baseURL string) *OpenMeteoForecaster {
	if baseURL == "" {
		baseURL = defaultOpenMeteoURL
	}
	return &OpenMeteoForecaster{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newBreaker("openmeteo", httpCfg.Breaker),
	}
}

func (p *OpenMeteoForecaster) Name() string {
	return p.name
}

func (p *OpenMeteoForecaster) Resolve(ctx context.Context, coord activity.Coordinate) (activity.ForecastSummary, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coord.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coord.Longitude))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	var payload struct {
		CurrentWeather *struct {
			Time        string `json:"time"`
			WeatherCode int    `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := fetchJSON(ctx, p.httpCfg, p.circuit, buildRequest, &payload); err != nil {
		return "", fmt.Errorf("%w: openmeteo: %w", activity.ErrFetchFailure, err)
	}
	if payload.CurrentWeather == nil {
		return "", fmt.Errorf("%w: openmeteo: response has no current weather", activity.ErrFetchFailure)
	}

	return activity.ForecastSummary(strings.ToLower(describeWeatherCode(payload.CurrentWeather.WeatherCode))), nil
}

// describeWeatherCode maps WMO weather codes to short descriptions in the
// same vocabulary as NWS short forecasts.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code == 1:
		return "Mostly Clear"
	case code == 2:
		return "Partly Cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code == 66 || code == 67:
		return "Freezing Rain"
	case code >= 61 && code <= 65:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain Showers"
	case code == 85 || code == 86:
		return "Snow Showers"
	case code >= 95:
		return "Thunderstorms"
	default:
		return "Unknown"
	}
}
