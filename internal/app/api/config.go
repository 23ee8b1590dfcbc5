package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	"github.com/telconova/portal/internal/clients/http/geo"
	"github.com/telconova/portal/internal/clients/http/telconova"
)

const (
	DefaultCacheIdleTTL     = 72 * time.Hour
	DefaultVerificationCode = "123456"
)

// Config carries the settings of the API and worker processes. Values come
// from the YAML file named by CONFIG_FILE, then from the environment, which
// wins.
type Config struct {
	Port                 string        `yaml:"port"`
	PostgresDSN          string        `yaml:"postgresDsn"`
	SQLitePath           string        `yaml:"sqlitePath"`
	TemporalAddress      string        `yaml:"temporalAddress"`
	TemporalNamespace    string        `yaml:"temporalNamespace"`
	TemporalDisabled     bool          `yaml:"temporalDisabled"`
	BackendURL           string        `yaml:"backendUrl"`
	BackendTimeout       time.Duration `yaml:"backendTimeout"`
	CountriesURL         string        `yaml:"countriesUrl"`
	ColombiaURL          string        `yaml:"colombiaUrl"`
	RabbitMQURL          string        `yaml:"rabbitmqUrl"`
	NotificationExchange string        `yaml:"notificationExchange"`
	CacheIdleTTL         time.Duration `yaml:"-"`
	CacheIdleTTLHours    int           `yaml:"cacheIdleTtlHours"`
	CachePurgeInterval   time.Duration `yaml:"-"`
	CachePurgeMinutes    int           `yaml:"cachePurgeIntervalMinutes"`
	VerificationCode     string        `yaml:"verificationCode"`
	// AllowedOrigins may open the notices WebSocket besides the API's own host.
	AllowedOrigins []string `yaml:"allowedOrigins"`
	// PinnedSessionID is kept across logins instead of being replaced. Only
	// the single-user CLI sets it.
	PinnedSessionID string `yaml:"-"`
}

// LoadConfig reads the optional config file and the environment, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = envDefault("PORT", orDefault(cfg.Port, "8080"))
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.SQLitePath = envDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.TemporalAddress = envDefault("TEMPORAL_ADDRESS", orDefault(cfg.TemporalAddress, client.DefaultHostPort))
	cfg.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", orDefault(cfg.TemporalNamespace, client.DefaultNamespace))
	if raw, ok := os.LookupEnv("TEMPORAL_DISABLED"); ok {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	cfg.BackendURL = envDefault("BACKEND_URL", orDefault(cfg.BackendURL, telconova.DefaultBaseURL))
	cfg.CountriesURL = envDefault("COUNTRIES_URL", orDefault(cfg.CountriesURL, geo.DefaultCountriesURL))
	cfg.ColombiaURL = envDefault("COLOMBIA_URL", orDefault(cfg.ColombiaURL, geo.DefaultColombiaURL))
	cfg.RabbitMQURL = envDefault("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.NotificationExchange = envDefault("NOTIFICATION_EXCHANGE", cfg.NotificationExchange)
	cfg.VerificationCode = envDefault("VERIFICATION_CODE", orDefault(cfg.VerificationCode, DefaultVerificationCode))
	if raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); raw != "" {
		cfg.AllowedOrigins = splitList(raw)
	}

	if raw := strings.TrimSpace(os.Getenv("BACKEND_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return Config{}, fmt.Errorf("BACKEND_TIMEOUT must be a non-negative duration")
		}
		cfg.BackendTimeout = timeout
	}

	hours, err := envPositiveInt("CACHE_IDLE_TTL_HOURS", cfg.CacheIdleTTLHours)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheIdleTTLHours = hours
	cfg.CacheIdleTTL = DefaultCacheIdleTTL
	if hours > 0 {
		cfg.CacheIdleTTL = time.Duration(hours) * time.Hour
	}

	minutes, err := envPositiveInt("CACHE_PURGE_INTERVAL_MINUTES", cfg.CachePurgeMinutes)
	if err != nil {
		return Config{}, err
	}
	cfg.CachePurgeMinutes = minutes
	cfg.CachePurgeInterval = time.Duration(minutes) * time.Minute
	return cfg, nil
}

// envPositiveInt returns fallback when key is unset; a set value must be a
// positive integer.
func envPositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		if fallback < 0 {
			return 0, fmt.Errorf("%s must be a positive integer", key)
		}
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
