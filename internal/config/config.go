package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Ranking  RankingConfig
	Location LocationConfig
	Catalog  CatalogConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type RankingConfig struct {
	CriticalNearMeters float64
	HighNearMeters     float64
	HighRiskPercent    float64
}

type LocationConfig struct {
	Provider        string
	Latitude        float64
	Longitude       float64
	AccuracyMeters  float64
	RefreshInterval time.Duration
	Timeout         time.Duration
}

type CatalogConfig struct {
	// DBPath selects a SQLite catalog; empty means the embedded catalog.
	DBPath string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Ranking: RankingConfig{
			CriticalNearMeters: getEnvFloat("CRITICAL_NEAR_METERS", 1000),
			HighNearMeters:     getEnvFloat("HIGH_NEAR_METERS", 2000),
			HighRiskPercent:    getEnvFloat("HIGH_RISK_PERCENT", 70),
		},
		Location: LocationConfig{
			Provider:        getEnv("LOCATION_PROVIDER", "reported"),
			Latitude:        getEnvFloat("LOCATION_LATITUDE", 0),
			Longitude:       getEnvFloat("LOCATION_LONGITUDE", 0),
			AccuracyMeters:  getEnvFloat("LOCATION_ACCURACY", 0),
			RefreshInterval: getEnvDuration("LOCATION_REFRESH_INTERVAL", 5*time.Minute),
			Timeout:         getEnvDuration("LOCATION_TIMEOUT", 15*time.Second),
		},
		Catalog: CatalogConfig{
			DBPath: getEnv("CATALOG_DB_PATH", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}
	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Worker.BufferSize < 0 {
		return fmt.Errorf("worker buffer size must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Ranking.CriticalNearMeters <= 0 || c.Ranking.HighNearMeters <= 0 {
		return fmt.Errorf("proximity thresholds must be positive")
	}
	if c.Ranking.HighRiskPercent < 0 || c.Ranking.HighRiskPercent > 100 {
		return fmt.Errorf("high risk percent must be within [0, 100]: %v", c.Ranking.HighRiskPercent)
	}

	switch c.Location.Provider {
	case "static":
		if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
			return fmt.Errorf("invalid static latitude: %v", c.Location.Latitude)
		}
		if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
			return fmt.Errorf("invalid static longitude: %v", c.Location.Longitude)
		}
	case "reported":
	default:
		return fmt.Errorf("invalid location provider: %s", c.Location.Provider)
	}
	if c.Location.AccuracyMeters < 0 {
		return fmt.Errorf("location accuracy must not be negative")
	}
	if c.Location.RefreshInterval < 10*time.Second {
		return fmt.Errorf("location refresh interval must be at least 10 seconds")
	}
	if c.Location.Timeout <= 0 {
		return fmt.Errorf("location timeout must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
