package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig describes the REST backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"` // e.g. "http://localhost:8000"
	Timeout time.Duration `yaml:"timeout"`  // per-request timeout
}

// DatabaseConfig contains local session database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// SessionConfig selects where the storefront keeps cart and wishlist between commands.
type SessionConfig struct {
	Store      string        `yaml:"store"` // "sqlite" or "redis"
	CustomerID string        `yaml:"customer_id"`
	TTL        time.Duration `yaml:"ttl"` // redis key expiry; zero keeps keys forever
}

// RedisConfig contains redis connection settings for the redis session store.
type RedisConfig struct {
	URL       string `yaml:"url"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

// WalletConfig identifies the EcoCoin ledger address shown in the storefront.
type WalletConfig struct {
	Address        string `yaml:"address"`
	InitialBalance string `yaml:"initial_balance"` // shown until the first successful fetch
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Exporter    string `yaml:"exporter"` // "none", "stdout" or "otlp"
	Endpoint    string `yaml:"endpoint"` // OTLP gRPC endpoint
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

const (
	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"

	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

func defaults() *Config {
	return &Config{
		API: APIConfig{
			Timeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "session.db",
		},
		Session: SessionConfig{
			Store:      SessionStoreSQLite,
			CustomerID: "1234",
			TTL:        24 * time.Hour,
		},
		Redis: RedisConfig{
			URL:       "redis://localhost:6379",
			Namespace: "ecoroute:session",
		},
		Wallet: WalletConfig{
			Address:        "1Aej3ZBacU1JGtTTzAz4NfqvoanHrrN6Gaq3Ce",
			InitialBalance: "0",
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Exporter:    ExporterNone,
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: "ecoroute-client",
		},
	}
}

// Load reads configuration from the optional YAML file named by ECO_CONFIG and then
// from environment variables, which take precedence. ECO_API_URL must be set.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("ECO_API_URL environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but falls back to the local development backend
// at http://localhost:8000 when no API URL is configured.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := defaults()
	if path := getEnv("ECO_CONFIG", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays values from a YAML file; keys missing from the file keep their defaults.
func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	c.API.BaseURL = strings.TrimRight(getEnv("ECO_API_URL", c.API.BaseURL), "/")
	if c.API.Timeout, err = getEnvDuration("ECO_API_TIMEOUT", c.API.Timeout); err != nil {
		return err
	}
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Session.Store = strings.ToLower(getEnv("ECO_SESSION_STORE", c.Session.Store))
	c.Session.CustomerID = getEnv("ECO_CUSTOMER_ID", c.Session.CustomerID)
	if c.Session.TTL, err = getEnvDuration("ECO_SESSION_TTL", c.Session.TTL); err != nil {
		return err
	}
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	if c.Redis.DB, err = getEnvInt("REDIS_DB", c.Redis.DB); err != nil {
		return err
	}
	c.Redis.Namespace = getEnv("REDIS_NAMESPACE", c.Redis.Namespace)
	c.Wallet.Address = getEnv("ECO_WALLET_ADDRESS", c.Wallet.Address)
	c.Wallet.InitialBalance = getEnv("ECO_INITIAL_BALANCE", c.Wallet.InitialBalance)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if c.Log.Development, err = getEnvBool("LOG_DEV", c.Log.Development); err != nil {
		return err
	}
	c.Telemetry.Exporter = strings.ToLower(getEnv("OTEL_EXPORTER", c.Telemetry.Exporter))
	c.Telemetry.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.Endpoint)
	if c.Telemetry.Insecure, err = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", c.Telemetry.Insecure); err != nil {
		return err
	}
	c.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
	return nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case SessionStoreSQLite, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	switch c.Telemetry.Exporter {
	case "", ExporterNone, ExporterStdout, ExporterOTLP:
	default:
		return fmt.Errorf("unknown telemetry exporter %q", c.Telemetry.Exporter)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Session.CustomerID == "" {
		return fmt.Errorf("customer id must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (redis credentials are masked).
func (c *Config) String() string {
	redis := "-"
	if c.Session.Store == SessionStoreRedis {
		redis = "*** (masked) ***"
	}
	return fmt.Sprintf("Config{API: %s, DB: %s, Session: %s/%s, Redis: %s, Telemetry: %s}",
		c.API.BaseURL, c.Database.Path, c.Session.Store, c.Session.CustomerID, redis, c.Telemetry.Exporter)
}
