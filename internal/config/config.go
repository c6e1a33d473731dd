package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
)

// Supported database drivers. Both speak the same protocol through rueidis.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
)

// Config holds the prodex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds engine limits and the product key namespace.
type SearchConfig struct {
	TimeoutMs         int    `yaml:"timeout_ms"`
	MaxCandidates     int    `yaml:"max_candidates"`
	ParallelThreshold int    `yaml:"parallel_threshold"`
	Workers           int    `yaml:"workers"` // 0 = GOMAXPROCS
	KeyPrefix         string `yaml:"key_prefix"`
}

// Timeout returns the per-search deadline.
func (s SearchConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// ScoringConfig overrides the stock relevance configuration. Unset values keep the default.
type ScoringConfig struct {
	ExactMatchBoost  *float64           `yaml:"exact_match_boost"`
	ContainsScore    *float64           `yaml:"contains_score"`
	StartsWithScore  *float64           `yaml:"starts_with_score"`
	EndsWithScore    *float64           `yaml:"ends_with_score"`
	PhraseBoost      *float64           `yaml:"phrase_boost"`
	WildcardScore    *float64           `yaml:"wildcard_score"`
	FuzzyBoost       *float64           `yaml:"fuzzy_boost"`
	RecentBoost      *float64           `yaml:"recent_boost"`
	RecentWindowDays *int               `yaml:"recent_window_days"`
	TextWeight       *float64           `yaml:"text_weight"`
	BusinessWeight   *float64           `yaml:"business_weight"`
	BusinessBase     *float64           `yaml:"business_base"`
	BusinessStep     *float64           `yaml:"business_step"`
	HighMarginCutoff *float64           `yaml:"high_margin_cutoff"`
	FieldWeights     map[string]float64 `yaml:"field_weights"`
}

// ToScoring applies the overrides on top of scoring.Default.
func (s ScoringConfig) ToScoring() (scoring.Config, error) {
	cfg := scoring.Default()
	floats := []struct {
		src *float64
		dst *float64
	}{
		{s.ExactMatchBoost, &cfg.ExactMatchBoost},
		{s.ContainsScore, &cfg.ContainsScore},
		{s.StartsWithScore, &cfg.StartsWithScore},
		{s.EndsWithScore, &cfg.EndsWithScore},
		{s.PhraseBoost, &cfg.PhraseBoost},
		{s.WildcardScore, &cfg.WildcardScore},
		{s.FuzzyBoost, &cfg.FuzzyBoost},
		{s.RecentBoost, &cfg.RecentBoost},
		{s.TextWeight, &cfg.TextWeight},
		{s.BusinessWeight, &cfg.BusinessWeight},
		{s.BusinessBase, &cfg.BusinessBase},
		{s.BusinessStep, &cfg.BusinessStep},
		{s.HighMarginCutoff, &cfg.HighMarginCutoff},
	}
	for _, f := range floats {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if s.RecentWindowDays != nil {
		cfg.RecentWindow = time.Duration(*s.RecentWindowDays) * 24 * time.Hour
	}

	for name, w := range s.FieldWeights {
		switch name {
		case "name":
			cfg.FieldWeights.Name = w
		case "sku":
			cfg.FieldWeights.SKU = w
		case "tags":
			cfg.FieldWeights.Tags = w
		case "barcode":
			cfg.FieldWeights.Barcode = w
		case "description":
			cfg.FieldWeights.Description = w
		case "supplier_product_code":
			cfg.FieldWeights.SupplierProductCode = w
		default:
			return scoring.Config{}, fmt.Errorf("scoring.field_weights: unknown field %q", name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return scoring.Config{}, fmt.Errorf("scoring: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.TimeoutMs <= 0 {
		c.Search.TimeoutMs = 5000
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = 10000
	}
	if c.Search.ParallelThreshold <= 0 {
		c.Search.ParallelThreshold = 2000
	}
	if c.Search.KeyPrefix == "" {
		c.Search.KeyPrefix = "prodex:product:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverValkey, DriverRedis, c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	for i, a := range c.Database.Addrs {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("database.addrs[%d] is empty", i)
		}
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must be non-negative, got %d", c.Search.Workers)
	}
	if _, err := c.Scoring.ToScoring(); err != nil {
		return err
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
