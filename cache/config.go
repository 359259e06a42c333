package cache

import (
	"fmt"
	"time"

	"github.com/yigil-travel/yigil-counts/internal/cacheinfra"
)

// Backend names a Store implementation.
type Backend string

const (
	// BackendMemory keeps counts inside the process (sturdyc).
	BackendMemory Backend = "memory"
	// BackendRedis shares counts between processes through Redis.
	BackendRedis Backend = "redis"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend Backend
	TTL     time.Duration
	Memory  MemoryConfig
	Redis   RedisConfig
}

// MemoryConfig mirrors the sturdyc sizing options.
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addresses  []string
	Username   string
	Password   string
	DB         int
	ClientName string
}

// DefaultConfig returns an in-memory Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig(), cacheinfra.DefaultRedisConfig())
}

// Validate checks whether the configuration of the selected backend is valid.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return c.toMemoryInternal().Validate()
	case BackendRedis:
		return c.toRedisInternal().Validate()
	default:
		return fmt.Errorf("invalid cache backend %q", c.Backend)
	}
}

// NewStore constructs the Store selected by cfg.Backend.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		store, err := cacheinfra.NewMemoryStore(cfg.toMemoryInternal())
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		store, err := cacheinfra.NewRedisStore(cfg.toRedisInternal())
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid cache backend %q", cfg.Backend)
	}
}

func (c Config) toMemoryInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Memory.Capacity,
		NumShards:          c.Memory.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.Memory.EvictionPercentage,
		EvictionInterval:   c.Memory.EvictionInterval,
	}
}

func (c Config) toRedisInternal() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		Addresses:  c.Redis.Addresses,
		Username:   c.Redis.Username,
		Password:   c.Redis.Password,
		DB:         c.Redis.DB,
		ClientName: c.Redis.ClientName,
		TTL:        c.TTL,
	}
}

func convertFromInternal(mem cacheinfra.Config, redis cacheinfra.RedisConfig) Config {
	return Config{
		Backend: BackendMemory,
		TTL:     mem.TTL,
		Memory: MemoryConfig{
			Capacity:           mem.Capacity,
			NumShards:          mem.NumShards,
			EvictionPercentage: mem.EvictionPercentage,
			EvictionInterval:   mem.EvictionInterval,
		},
		Redis: RedisConfig{
			Addresses:  redis.Addresses,
			Username:   redis.Username,
			Password:   redis.Password,
			DB:         redis.DB,
			ClientName: redis.ClientName,
		},
	}
}
