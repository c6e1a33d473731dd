package prodex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	username string
	password string
	db       int

	keyPrefix     string
	scoring       *ScoringConfig
	timeout       time.Duration
	maxCandidates int
	batchSize     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCluster sets several seed addresses. The driver set by WithValkey or WithRedis is kept.
func WithCluster(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = append([]string(nil), addrs...)
	})
}

// WithCredentials sets ACL username and password.
func WithCredentials(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithDB selects the logical database (standalone servers only).
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix sets the hash key prefix products are stored under.
// Default: "prodex:product:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithScoring replaces the default relevance constants.
func WithScoring(cfg ScoringConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.scoring = &cfg
	})
}

// WithTimeout bounds every search, candidate fetch included. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMaxCandidates caps how many stored products one search considers. Default: 10000.
func WithMaxCandidates(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxCandidates = n
	})
}

// WithBatchSize sets the number of products written per round trip by Load.
// Default: 500.
func WithBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
