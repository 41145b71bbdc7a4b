// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetAPIRateLimit() float64
	GetAPIRateBurst() int
}

// MapsConfig provides settings for the geocoding provider and the address widget.
type MapsConfig interface {
	GetMapboxToken() string
	GetMapboxBaseURL() string
	GetGeocodeTimeout() time.Duration
	GetGeocodeRequestsPerSecond() int
	GetAddressFormsFile() string
}

// CacheConfig provides settings for the geocode result cache.
type CacheConfig interface {
	GetRedisURL() string
	GetGeocodeCacheTTL() time.Duration
	IsCacheEnabled() bool
}

// LogConfig provides settings for log output.
type LogConfig interface {
	GetEnv() string
	GetLogFile() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	APIRateLimit             float64
	APIRateBurst             int
	MapboxToken              string
	MapboxBaseURL            string
	GeocodeTimeout           time.Duration
	GeocodeRequestsPerSecond int
	AddressFormsFile         string
	RedisURL                 string
	GeocodeCacheTTL          time.Duration
	LogFile                  string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetAPIRateLimit() float64 { return c.APIRateLimit }
func (c *Config) GetAPIRateBurst() int     { return c.APIRateBurst }

// MapsConfig implementation
func (c *Config) GetMapboxToken() string            { return c.MapboxToken }
func (c *Config) GetMapboxBaseURL() string          { return c.MapboxBaseURL }
func (c *Config) GetGeocodeTimeout() time.Duration  { return c.GeocodeTimeout }
func (c *Config) GetGeocodeRequestsPerSecond() int  { return c.GeocodeRequestsPerSecond }
func (c *Config) GetAddressFormsFile() string       { return c.AddressFormsFile }

// CacheConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetGeocodeCacheTTL() time.Duration { return c.GeocodeCacheTTL }
func (c *Config) IsCacheEnabled() bool {
	return c.RedisURL != "" && c.GeocodeCacheTTL > 0
}

// LogConfig implementation
func (c *Config) GetEnv() string     { return c.Env }
func (c *Config) GetLogFile() string { return c.LogFile }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		APIRateLimit:             mustFloat(getEnv("API_RATE_LIMIT", "5")),
		APIRateBurst:             mustInt(getEnv("API_RATE_BURST", "10")),
		MapboxToken:              getEnv("MAPBOX_ACCESS_TOKEN", ""),
		MapboxBaseURL:            getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com/geocoding/v5/mapbox.places"),
		GeocodeTimeout:           mustDuration(getEnv("GEOCODE_TIMEOUT", "5s")),
		GeocodeRequestsPerSecond: mustInt(getEnv("GEOCODE_RPS", "10")),
		AddressFormsFile:         getEnv("ADDRESS_FORMS_FILE", ""),
		RedisURL:                 getEnv("REDIS_URL", ""),
		GeocodeCacheTTL:          mustDuration(getEnv("GEOCODE_CACHE_TTL", "24h")),
		LogFile:                  getEnv("LOG_FILE", ""),
	}

	if cfg.MapboxToken == "" {
		return nil, fmt.Errorf("MAPBOX_ACCESS_TOKEN is required")
	}
	if cfg.GeocodeRequestsPerSecond <= 0 {
		return nil, fmt.Errorf("GEOCODE_RPS must be a positive number")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
