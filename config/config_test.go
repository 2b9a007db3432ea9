package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Paging.JobRolesPageSize != 10 {
		t.Fatalf("expected job roles page size 10, got %d", cfg.Paging.JobRolesPageSize)
	}
	if cfg.Paging.PostsPageSize != 5 {
		t.Fatalf("expected posts page size 5, got %d", cfg.Paging.PostsPageSize)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Fatalf("unexpected api base url %q", cfg.API.BaseURL)
	}
	if cfg.Cache.Backend != CacheBackendMemory {
		t.Fatalf("expected memory cache backend, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("expected 5m cache ttl, got %s", cfg.Cache.TTL)
	}
	if !cfg.API.StrictResponses {
		t.Fatalf("expected strict responses by default")
	}
}

func TestAppConfig_ParseAPIEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", " https://records.example.com/api/v1/ ")
	t.Setenv("API_TOKEN_URL", "https://records.example.com/api/v1/login/access-token")
	t.Setenv("API_USERNAME", "admin@example.com")
	t.Setenv("API_PASSWORD", "changethis")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("API_STRICT_RESPONSES", "false")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := APIConfig{
		BaseURL:         "https://records.example.com/api/v1",
		TokenURL:        "https://records.example.com/api/v1/login/access-token",
		Username:        "admin@example.com",
		Password:        "changethis",
		Timeout:         5 * time.Second,
		StrictResponses: false,
	}

	if !reflect.DeepEqual(cfg.API, expected) {
		t.Fatalf("unexpected api configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.API)
	}
	if !cfg.API.UsesPasswordGrant() {
		t.Fatalf("expected password grant to be selected")
	}
}

func TestAPIConfig_StaticTokenWins(t *testing.T) {
	cfg := APIConfig{
		Token:    "abc",
		TokenURL: "https://records.example.com/token",
		Username: "u",
		Password: "p",
	}
	cfg.Sanitize()

	if cfg.UsesPasswordGrant() {
		t.Fatalf("static token should disable the password grant")
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
}

func TestCacheConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      CacheConfig
		backend CacheBackend
		prefix  string
	}{
		{name: "redis mixed case", in: CacheConfig{Backend: " Redis ", KeyPrefix: "ui"}, backend: CacheBackendRedis, prefix: "ui"},
		{name: "unknown backend", in: CacheConfig{Backend: "memcached"}, backend: CacheBackendMemory, prefix: "records"},
		{name: "prefix colons trimmed", in: CacheConfig{KeyPrefix: ":app:"}, backend: CacheBackendMemory, prefix: "app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.Sanitize()
			if cfg.Backend != tt.backend {
				t.Fatalf("backend = %q, want %q", cfg.Backend, tt.backend)
			}
			if cfg.KeyPrefix != tt.prefix {
				t.Fatalf("prefix = %q, want %q", cfg.KeyPrefix, tt.prefix)
			}
			if cfg.TTL <= 0 {
				t.Fatalf("expected positive ttl")
			}
		})
	}
}

func TestPagingConfig_Sanitize(t *testing.T) {
	cfg := PagingConfig{JobRolesPageSize: 0, PostsPageSize: 500}
	cfg.Sanitize()

	if cfg.JobRolesPageSize != 10 {
		t.Fatalf("expected default 10, got %d", cfg.JobRolesPageSize)
	}
	if cfg.PostsPageSize != 100 {
		t.Fatalf("expected clamp to 100, got %d", cfg.PostsPageSize)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 12}
	cfg.Sanitize()

	if cfg.CompressionLevel != 9 {
		t.Fatalf("expected compression level clamp to 9, got %d", cfg.CompressionLevel)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
}

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := AppConfig{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Fatalf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAppConfig_NodeEnvDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatalf("expected NODE_ENV=development to enable dev mode")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "records_ui" {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}
}
