package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type AppConfig struct {
	Port string

	// Outbound HTTP.
	HTTPTimeout time.Duration
	UserAgent   string

	// Upstream endpoints.
	NominatimURL    string
	NWSURL          string
	OverpassURL     string
	OverpassTimeout int // server-side budget in seconds written into each query
	OpenMeteoURL    string

	// ForecastProvider selects the forecaster: "nws" (US only) or "openmeteo".
	ForecastProvider string

	// GoogleGeocoderAPIKey switches geocoding from Nominatim to Google when set.
	GoogleGeocoderAPIKey string

	// Circuit breaker per upstream.
	BreakerTimeout  time.Duration
	BreakerFailures int

	// Map rendering.
	MapZoom int

	// Map session retention.
	MaxSessions   int
	SessionMaxAge time.Duration
	SweepInterval time.Duration

	LogLevel string
	Env      string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	cfg.UserAgent = getenvDefault("USER_AGENT", "activity-finder/1.0")

	cfg.NominatimURL = getenvDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	cfg.NWSURL = getenvDefault("NWS_URL", "https://api.weather.gov")
	cfg.OverpassURL = getenvDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	cfg.OverpassTimeout = getenvInt("OVERPASS_TIMEOUT", 90)
	cfg.OpenMeteoURL = getenvDefault("OPENMETEO_URL", "https://api.open-meteo.com/v1/forecast")

	cfg.ForecastProvider = strings.ToLower(getenvDefault("FORECAST_PROVIDER", "nws"))
	if cfg.ForecastProvider != "nws" && cfg.ForecastProvider != "openmeteo" {
		return nil, fmt.Errorf("invalid FORECAST_PROVIDER %q: want nws or openmeteo", cfg.ForecastProvider)
	}
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	if cfg.BreakerTimeout, err = getenvDuration("BREAKER_TIMEOUT", "1m"); err != nil {
		return nil, err
	}
	cfg.BreakerFailures = getenvInt("BREAKER_FAILURES", 5)

	cfg.MapZoom = getenvInt("MAP_ZOOM", 12)

	cfg.MaxSessions = getenvInt("MAX_SESSIONS", 1000)
	if cfg.SessionMaxAge, err = getenvDuration("SESSION_MAX_AGE", "1h"); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getenvDuration("SWEEP_INTERVAL", "10m"); err != nil {
		return nil, err
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.Env = getenvDefault("APP_ENV", "production")

	return cfg, nil
}

// NewLogger builds a zap logger for the configured level and environment.
func (c *AppConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if strings.EqualFold(c.Env, "development") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
