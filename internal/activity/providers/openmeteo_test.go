package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/activity-finder/internal/activity"
)

func TestOpenMeteoForecaster_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    activity.ForecastSummary
		wantErr bool
	}{
		{"clear sky", http.StatusOK, `{"current_weather":{"time":"2024-06-01T12:00","weathercode":0}}`, "clear", false},
		{"partly cloudy", http.StatusOK, `{"current_weather":{"weathercode":2}}`, "partly cloudy", false},
		{"showers", http.StatusOK, `{"current_weather":{"weathercode":81}}`, "rain showers", false},
		{"missing current weather", http.StatusOK, `{}`, "", true},
		{"bad request", http.StatusBadRequest, `{"error":true,"reason":"Latitude must be in range"}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("current_weather") != "true" || q.Get("latitude") != "48.856600" || q.Get("longitude") != "2.352200" {
					t.Errorf("query = %v", q)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewOpenMeteoForecaster(testHTTPConfig(srv), srv.URL)
			got, err := f.Resolve(context.Background(), activity.Coordinate{Latitude: 48.8566, Longitude: 2.3522})
			if tt.wantErr {
				if !errors.Is(err, activity.ErrFetchFailure) {
					t.Fatalf("Resolve() error = %v, want ErrFetchFailure", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeWeatherCode_ClassifiesLikeNWS(t *testing.T) {
	tests := []struct {
		code int
		want activity.ActivityKind
	}{
		{0, activity.KindOutdoor},
		{1, activity.KindOutdoor},
		{2, activity.KindOutdoor},
		{3, activity.KindIndoor},
		{63, activity.KindIndoor},
		{95, activity.KindIndoor},
	}
	for _, tt := range tests {
		summary := activity.ForecastSummary(describeWeatherCode(tt.code))
		if got := activity.Classify(summary).Kind; got != tt.want {
			t.Errorf("code %d (%q) classified %v, want %v", tt.code, summary, got, tt.want)
		}
	}
}
