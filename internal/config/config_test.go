package config

import (
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "HTTP_TIMEOUT", "OVERPASS_TIMEOUT", "MAP_ZOOM", "SESSION_MAX_AGE", "GOOGLE_GEOCODER_API_KEY", "FORECAST_PROVIDER"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.OverpassTimeout != 90 {
		t.Errorf("OverpassTimeout = %d", cfg.OverpassTimeout)
	}
	if cfg.MapZoom != 12 {
		t.Errorf("MapZoom = %d", cfg.MapZoom)
	}
	if cfg.SessionMaxAge != time.Hour {
		t.Errorf("SessionMaxAge = %v", cfg.SessionMaxAge)
	}
	if cfg.GoogleGeocoderAPIKey != "" {
		t.Errorf("GoogleGeocoderAPIKey = %q", cfg.GoogleGeocoderAPIKey)
	}
	if cfg.ForecastProvider != "nws" {
		t.Errorf("ForecastProvider = %q", cfg.ForecastProvider)
	}
}

func TestLoadForecastProvider(t *testing.T) {
	t.Setenv("FORECAST_PROVIDER", "OpenMeteo")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ForecastProvider != "openmeteo" {
		t.Errorf("ForecastProvider = %q", cfg.ForecastProvider)
	}

	t.Setenv("FORECAST_PROVIDER", "metoffice")
	if _, err := Load(); err == nil {
		t.Error("Load() expected error for unknown FORECAST_PROVIDER")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAP_ZOOM", "14")
	t.Setenv("OVERPASS_URL", "http://localhost:12345/api/interpreter")
	t.Setenv("SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" || cfg.MapZoom != 14 || cfg.SweepInterval != 5*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.OverpassURL != "http://localhost:12345/api/interpreter" {
		t.Errorf("OverpassURL = %q", cfg.OverpassURL)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid HTTP_TIMEOUT")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &AppConfig{LogLevel: "debug", Env: "development"}
	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level not enabled")
	}

	cfg = &AppConfig{LogLevel: "bogus"}
	logger, err = cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) || !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("unknown level should fall back to info")
	}
}
