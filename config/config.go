package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Directory  DirectoryConfig  `yaml:"directory"`
	Location   LocationConfig   `yaml:"location"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" env:"LOCATOR_VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" env:"LOCATOR_VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port" env:"LOCATOR_PORT"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DirectoryConfig points at the faculty/building seed loaded at startup.
type DirectoryConfig struct {
	SeedFile string `yaml:"seed_file" env:"LOCATOR_SEED_FILE"`
}

// Location source modes.
const (
	LocationModeNone   = "none"
	LocationModeStatic = "static"
	LocationModeHTTP   = "http"
)

// LocationConfig configures the auto-location source.
type LocationConfig struct {
	Mode   string            `yaml:"mode" env:"LOCATOR_LOCATION_MODE"`
	WaitMS int               `yaml:"wait_ms"`
	Wait   time.Duration     `yaml:"-"` // Ignored by YAML parser
	Static map[string]string `yaml:"static"`
	HTTP   LocationHTTP      `yaml:"http"`
}

// LocationHTTP defines the upstream locator request.
type LocationHTTP struct {
	URL            string            `yaml:"url"`
	Headers        map[string]string `yaml:"headers"`
	HTTPProxy      string            `yaml:"http_proxy"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" env:"LOCATOR_DB_DRIVER"`
	DSN                    string `yaml:"dsn" env:"LOCATOR_DB_DSN"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	// Environment variables override the file, so secrets can stay out of it.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Location.Mode == "" {
		cfg.Location.Mode = LocationModeStatic
	}
	if cfg.Location.WaitMS <= 0 {
		cfg.Location.WaitMS = 500
	}
	cfg.Location.Wait = time.Duration(cfg.Location.WaitMS) * time.Millisecond
	if cfg.Location.HTTP.TimeoutSeconds <= 0 {
		cfg.Location.HTTP.TimeoutSeconds = 10
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}

// CacheTTL returns the configured response cache lifetime.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}
