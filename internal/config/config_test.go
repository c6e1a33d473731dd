package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func floatPtr(v float64) *float64 { return &v }

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "memcached" }, "database.driver"},
		{"missing addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"blank addr", func(c *Config) { c.Database.Addrs = []string{" "} }, "database.addrs[0]"},
		{"negative workers", func(c *Config) { c.Search.Workers = -1 }, "search.workers"},
		{"bad scoring", func(c *Config) { c.Scoring.FuzzyBoost = floatPtr(0) }, "fuzzy_boost"},
		{"unknown weight", func(c *Config) {
			c.Scoring.FieldWeights = map[string]float64{"color": 1}
		}, "unknown field"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected http defaults: %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("expected driver %q, got %q", DriverValkey, cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Search.Timeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Search.Timeout())
	}
	if cfg.Search.MaxCandidates != 10000 {
		t.Errorf("expected MaxCandidates=10000, got %d", cfg.Search.MaxCandidates)
	}
	if cfg.Search.ParallelThreshold != 2000 {
		t.Errorf("expected ParallelThreshold=2000, got %d", cfg.Search.ParallelThreshold)
	}
	if cfg.Search.KeyPrefix != "prodex:product:" {
		t.Errorf("expected default key prefix, got %q", cfg.Search.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 3},
		Database: DatabaseConfig{Driver: DriverRedis},
		Search:   SearchConfig{TimeoutMs: 100, KeyPrefix: "shop:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 3 || cfg.Database.Driver != DriverRedis {
		t.Errorf("explicit values overwritten: %+v %+v", cfg.HTTP, cfg.Database)
	}
	if cfg.Search.TimeoutMs != 100 || cfg.Search.KeyPrefix != "shop:" {
		t.Errorf("explicit search values overwritten: %+v", cfg.Search)
	}
}

func TestToScoring_EmptyIsDefault(t *testing.T) {
	got, err := ScoringConfig{}.ToScoring()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != scoring.Default() {
		t.Errorf("expected default scoring, got %+v", got)
	}
}

func TestToScoring_Overrides(t *testing.T) {
	days := 30
	got, err := ScoringConfig{
		ExactMatchBoost:  floatPtr(2),
		TextWeight:       floatPtr(0.6),
		BusinessWeight:   floatPtr(0.4),
		RecentWindowDays: &days,
		FieldWeights:     map[string]float64{"sku": 2.5, "description": 0},
	}.ToScoring()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ExactMatchBoost != 2 || got.TextWeight != 0.6 || got.BusinessWeight != 0.4 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.RecentWindow != 30*24*time.Hour {
		t.Errorf("RecentWindow = %v", got.RecentWindow)
	}
	if got.FieldWeights.SKU != 2.5 || got.FieldWeights.Description != 0 {
		t.Errorf("field weights not applied: %+v", got.FieldWeights)
	}
	if got.ContainsScore != scoring.Default().ContainsScore {
		t.Error("unset values must keep the default")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PRODEX_X", "set")
	got := string(expandEnvVars([]byte("a=${PRODEX_X} b=${PRODEX_UNSET:-fallback} c=${PRODEX_UNSET}")))
	if got != "a=set b=fallback c=" {
		t.Errorf("expandEnvVars = %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PRODEX_TEST_ADDR", "cache:6380")

	cfg, err := LoadFile(filepath.Join("testdata", "full.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Database.Driver != DriverRedis || len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "cache:6380" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if len(cfg.Auth.APIKeys) != 2 {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
	if cfg.Search.Timeout() != 250*time.Millisecond || cfg.Search.Workers != 4 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Search.MaxCandidates != 10000 {
		t.Errorf("defaults not applied: %+v", cfg.Search)
	}

	sc, err := cfg.Scoring.ToScoring()
	if err != nil {
		t.Fatalf("ToScoring: %v", err)
	}
	if sc.FuzzyBoost != 0.5 || sc.RecentWindow != 14*24*time.Hour || sc.FieldWeights.Name != 3 {
		t.Errorf("scoring = %+v", sc)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFile_UnsetAddress(t *testing.T) {
	t.Setenv("PRODEX_TEST_ADDR", "")
	_, err := LoadFile(filepath.Join("testdata", "full.yaml"))
	if err == nil || !strings.Contains(err.Error(), "database.addrs[0]") {
		t.Fatalf("expected empty address error, got %v", err)
	}
}

func TestLoadFile_ProdUnsetAddress(t *testing.T) {
	t.Setenv("DB_ADDR", "")
	t.Setenv("PRODEX_API_KEY", "")
	_, err := LoadFile(filepath.Join("..", "..", "config", "prod.yaml"))
	if err == nil || !strings.Contains(err.Error(), "database.addrs[0] is empty") {
		t.Fatalf("expected empty address error, got %v", err)
	}
}

func TestLoadFile_ProdAddressFromEnv(t *testing.T) {
	t.Setenv("DB_ADDR", "valkey:6379")
	t.Setenv("PRODEX_API_KEY", "secret")
	cfg, err := LoadFile(filepath.Join("..", "..", "config", "prod.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "valkey:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "secret" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
}
