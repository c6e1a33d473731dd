package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Connection defaults.
const (
	DefaultClientName  = "prodex"
	DefaultDialTimeout = 5 * time.Second

	readyInitialDelay = 50 * time.Millisecond
	readyMaxDelay     = time.Second
)

// Config holds connection parameters for a Valkey or Redis store.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DB          int
	ClientName  string        // CLIENT SETNAME value; DefaultClientName when empty
	DialTimeout time.Duration // DefaultDialTimeout when zero
}

// Store implements db.Store via rueidis. Product records are plain hashes,
// so the same driver serves Valkey and Redis.
type Store struct {
	client rueidis.Client
}

// NewStore creates a store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	opt, err := clientOption(cfg)
	if err != nil {
		return nil, err
	}
	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// clientOption validates cfg and fills connection defaults.
// Client-side caching stays off: Fetch must see writes from other processes.
func clientOption(cfg Config) (rueidis.ClientOption, error) {
	if len(cfg.Addrs) == 0 {
		return rueidis.ClientOption{}, errors.New("addrs is required")
	}
	for i, a := range cfg.Addrs {
		if strings.TrimSpace(a) == "" {
			return rueidis.ClientOption{}, fmt.Errorf("addrs[%d] is blank", i)
		}
	}
	if cfg.DB < 0 {
		return rueidis.ClientOption{}, fmt.Errorf("db must be non-negative, got %d", cfg.DB)
	}

	name := cfg.ClientName
	if name == "" {
		name = DefaultClientName
	}
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = DefaultDialTimeout
	}

	return rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   name,
		Dialer:       net.Dialer{Timeout: dial},
		DisableCache: true,
	}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with doubling delays (capped at one second) until the store
// answers or timeout expires. The timeout error carries the last ping failure.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := readyInitialDelay
	timer := time.NewTimer(0)
	defer timer.Stop()

	var last error
	for {
		select {
		case <-ctx.Done():
			if last != nil {
				return fmt.Errorf("timeout waiting for database: %w (last error: %w)", ctx.Err(), last)
			}
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-timer.C:
			if last = s.Ping(ctx); last == nil {
				return nil
			}
			timer.Reset(delay)
			delay = min(delay*2, readyMaxDelay)
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
