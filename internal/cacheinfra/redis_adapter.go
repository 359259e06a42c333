package cacheinfra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"
)

const scanBatchSize = 100

// RedisConfig holds the connection settings of the shared Redis count store.
type RedisConfig struct {
	Addresses  []string
	Username   string
	Password   string
	DB         int
	ClientName string

	// TTL is applied to every SET. Zero stores counts without expiry.
	TTL time.Duration
}

// DefaultRedisConfig returns settings for a local Redis instance.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addresses:  []string{"127.0.0.1:6379"},
		ClientName: "yigil-counts",
		TTL:        10 * time.Minute,
	}
}

// Validate checks if the configuration values are valid.
func (c RedisConfig) Validate() error {
	if len(c.Addresses) == 0 {
		return &ConfigError{Field: "Addresses", Message: "must contain at least one address"}
	}

	if c.DB < 0 {
		return &ConfigError{Field: "DB", Message: "must be non-negative"}
	}

	if c.TTL < 0 {
		return &ConfigError{Field: "TTL", Message: "must be non-negative"}
	}

	return nil
}

// RedisStore keeps counts in Redis as decimal strings.
type RedisStore struct {
	client rueidis.Client
	ttl    time.Duration
}

// NewRedisStore validates cfg and connects a rueidis client.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   cfg.ClientName,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis client: %w", err)
	}

	return NewRedisStoreFromClient(client, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client. The store takes
// ownership of the client and closes it on Close.
func NewRedisStoreFromClient(client rueidis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the count stored under key. A missing key is a miss, not an error.
func (s *RedisStore) Get(ctx context.Context, key string) (int64, bool, error) {
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if rueidis.IsRedisNil(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis value at %s is not a count: %w", key, err)
	}

	return value, true, nil
}

// Set writes the count with a single SET, replacing any previous value.
func (s *RedisStore) Set(ctx context.Context, key string, value int64) error {
	raw := strconv.FormatInt(value, 10)

	var cmd rueidis.Completed
	if s.ttl > 0 {
		cmd = s.client.B().Set().Key(key).Value(raw).Ex(s.ttl).Build()
	} else {
		cmd = s.client.B().Set().Key(key).Value(raw).Build()
	}

	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the count stored under key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes all keys starting with prefix using SCAN, so the
// server is never blocked by a KEYS call. Each key gets its own DEL since
// keys of one page may live in different cluster slots.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	pattern := escapeGlob(prefix) + "*"

	var cursor uint64
	for {
		entry, err := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatchSize).Build()).AsScanEntry()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", pattern, err)
		}

		if len(entry.Elements) > 0 {
			cmds := make(rueidis.Commands, 0, len(entry.Elements))
			for _, key := range entry.Elements {
				cmds = append(cmds, s.client.B().Del().Key(key).Build())
			}
			for i, resp := range s.client.DoMulti(ctx, cmds...) {
				if err := resp.Error(); err != nil {
					return fmt.Errorf("redis delete %s: %w", entry.Elements[i], err)
				}
			}
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

// escapeGlob quotes the characters MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Close shuts down the underlying client.
func (s *RedisStore) Close() {
	s.client.Close()
}
