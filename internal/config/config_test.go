package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"ECO_CONFIG", "ECO_API_URL", "ECO_API_TIMEOUT", "DB_PATH", "ECO_SESSION_STORE",
	"ECO_CUSTOMER_ID", "ECO_SESSION_TTL", "REDIS_URL", "REDIS_DB", "REDIS_NAMESPACE",
	"ECO_WALLET_ADDRESS", "ECO_INITIAL_BALANCE", "LOG_LEVEL", "LOG_DEV", "OTEL_EXPORTER",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" || cfg.Database.Path == "" || cfg.Session.CustomerID != "1234" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.Store != SessionStoreSQLite || cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_RequiresAPIURL(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ECO_API_URL is not set")
	}
	t.Setenv("ECO_API_URL", "http://api.example:8000/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with url set: %v", err)
	}
	if cfg.API.BaseURL != "http://api.example:8000" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.API.BaseURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "eco.yaml")
	body := `
api:
  base_url: http://file-backend:9000
  timeout: 3s
session:
  store: redis
  customer_id: "42"
redis:
  namespace: test:ns
telemetry:
  exporter: stdout
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ECO_CONFIG", path)
	t.Setenv("ECO_CUSTOMER_ID", "77")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://file-backend:9000" || cfg.API.Timeout != 3*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.API)
	}
	if cfg.Session.Store != SessionStoreRedis || cfg.Redis.Namespace != "test:ns" {
		t.Fatalf("file values not applied: %+v %+v", cfg.Session, cfg.Redis)
	}
	if cfg.Session.CustomerID != "77" {
		t.Fatalf("env should override file, got %q", cfg.Session.CustomerID)
	}
	if cfg.Telemetry.Exporter != ExporterStdout {
		t.Fatalf("exporter = %q", cfg.Telemetry.Exporter)
	}
	if cfg.Database.Path != "session.db" {
		t.Fatalf("keys absent from the file keep defaults, got %q", cfg.Database.Path)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ECO_SESSION_STORE": "postgres",
		"OTEL_EXPORTER":     "zipkin",
		"ECO_API_TIMEOUT":   "soon",
		"REDIS_DB":          "one",
		"LOG_DEV":           "maybe",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := LoadWithDefaults(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestString_MasksRedis(t *testing.T) {
	clearEnv(t)
	t.Setenv("ECO_SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://:hunter2@cache:6379")
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if s := cfg.String(); strings.Contains(s, "hunter2") {
		t.Fatalf("redis url leaked: %s", s)
	}
}
