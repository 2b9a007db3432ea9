package config

import (
	"strings"
	"time"
)

// CacheBackend selects where cached list pages are stored.
type CacheBackend string

const (
	// CacheBackendMemory keeps pages in process memory.
	CacheBackendMemory CacheBackend = "memory"
	// CacheBackendRedis keeps pages in Redis so several UI replicas share them.
	CacheBackendRedis CacheBackend = "redis"
)

// CacheConfig contains list cache configuration.
type CacheConfig struct {
	Backend CacheBackend `env:"CACHE_BACKEND" envDefault:"memory"`

	// TTL bounds how long a cached page survives without being invalidated.
	TTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// KeyPrefix namespaces every cache key.
	KeyPrefix string `env:"CACHE_KEY_PREFIX" envDefault:"records"`
}

// Sanitize lowercases the backend name and falls back to memory for unknown values.
func (c *CacheConfig) Sanitize() {
	c.Backend = CacheBackend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	if c.Backend != CacheBackendRedis {
		c.Backend = CacheBackendMemory
	}
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	c.KeyPrefix = strings.Trim(strings.TrimSpace(c.KeyPrefix), ":")
	if c.KeyPrefix == "" {
		c.KeyPrefix = "records"
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// PagingConfig holds the fixed page size of each record table.
type PagingConfig struct {
	JobRolesPageSize int `env:"JOB_ROLES_PAGE_SIZE" envDefault:"10"`
	PostsPageSize    int `env:"POSTS_PAGE_SIZE"     envDefault:"5"`
}

// Sanitize restores the defaults for non-positive sizes and caps them at 100.
func (c *PagingConfig) Sanitize() {
	c.JobRolesPageSize = clampPageSize(c.JobRolesPageSize, 10)
	c.PostsPageSize = clampPageSize(c.PostsPageSize, 5)
}

func clampPageSize(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > 100 {
		return 100
	}
	return n
}
