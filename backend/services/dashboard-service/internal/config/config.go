package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "citydash/backend/libs/config"
)

// Config defines dashboard service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Webhooks WebhooksConfig `yaml:"webhooks"`
	Auth     AuthConfig     `yaml:"auth"`
	Media    MediaConfig    `yaml:"media"`
	Live     LiveConfig     `yaml:"live"`
}

// HTTPConfig configures the listener.
type HTTPConfig struct {
	Port           string   `yaml:"port" env:"DASHBOARD_HTTP_PORT"`
	AllowedOrigins []string `yaml:"allowedOrigins" env:"DASHBOARD_ALLOWED_ORIGINS"`
}

// DatabaseConfig configures Postgres.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DASHBOARD_POSTGRES_DSN"`
}

// RedisConfig configures the notification guard. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"DASHBOARD_REDIS_ADDR"`
	Password string `yaml:"password" env:"DASHBOARD_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"DASHBOARD_REDIS_DB"`
	TTL      int    `yaml:"ttlSeconds" env:"DASHBOARD_REDIS_TTL"`
}

// WebhooksConfig holds the automation workflow endpoints.
type WebhooksConfig struct {
	TrafficURL     string `yaml:"trafficUrl" env:"N8N_TRAFFIC_WEBHOOK"`
	ReportURL      string `yaml:"reportUrl" env:"N8N_REPORT_WEBHOOK"`
	TrafficTimeout int    `yaml:"trafficTimeoutSeconds" env:"DASHBOARD_TRAFFIC_TIMEOUT"`
	ReportTimeout  int    `yaml:"reportTimeoutSeconds" env:"DASHBOARD_REPORT_TIMEOUT"`
}

// AuthConfig configures the bearer guard. An empty Secret disables it.
type AuthConfig struct {
	Secret string `yaml:"secret" env:"DASHBOARD_AUTH_SECRET"`
}

// MediaConfig configures upload storage.
type MediaConfig struct {
	Dir string `yaml:"dir" env:"DASHBOARD_MEDIA_DIR"`
}

// LiveConfig configures the websocket feed.
type LiveConfig struct {
	Interval int `yaml:"intervalSeconds" env:"DASHBOARD_LIVE_INTERVAL"`
}

// Default returns configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:           "8000",
			AllowedOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			TTL: 7 * 24 * 3600,
		},
		Webhooks: WebhooksConfig{
			TrafficTimeout: 30,
			ReportTimeout:  5,
		},
		Media: MediaConfig{Dir: "./media"},
		Live:  LiveConfig{Interval: 15},
	}
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads configuration without validating it, for commands that need no database.
func Read() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database dsn required")
	}
	if c.Webhooks.TrafficTimeout < 0 || c.Webhooks.ReportTimeout < 0 {
		return errors.New("config: webhook timeouts must not be negative")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8000"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// TrafficTimeout bounds the traffic analysis call.
func (c *Config) TrafficTimeout() time.Duration {
	return seconds(c.Webhooks.TrafficTimeout, 30*time.Second)
}

// ReportTimeout bounds a report notification.
func (c *Config) ReportTimeout() time.Duration {
	return seconds(c.Webhooks.ReportTimeout, 5*time.Second)
}

// NotificationGuardTTL returns how long a notified marker lives.
func (c *Config) NotificationGuardTTL() time.Duration {
	return seconds(c.Redis.TTL, 7*24*time.Hour)
}

// LiveInterval returns the push period of the live feed.
func (c *Config) LiveInterval() time.Duration {
	return seconds(c.Live.Interval, 15*time.Second)
}

func seconds(v int, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
