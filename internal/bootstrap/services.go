package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/records-ui/config"
	"github.com/target/records-ui/internal/apiclient"
	"github.com/target/records-ui/internal/core"
	"github.com/target/records-ui/internal/data"
	"github.com/target/records-ui/internal/domain/model"
	httpx "github.com/target/records-ui/internal/http"
	"github.com/target/records-ui/internal/observability/statsd"
	"github.com/target/records-ui/internal/service"
)

const cacheSweepInterval = time.Minute

// Entity names used in cache keys, logs and metrics.
const (
	entityJobRoles = "job_roles"
	entityPosts    = "posts"
)

// ServiceDeps contains the infrastructure the services are built on.
type ServiceDeps struct {
	Config *config.AppConfig
	Cache  core.CacheRepository
	// HTTPClient overrides the records API transport (optional).
	HTTPClient *http.Client
	Metrics    statsd.Sink
	Logger     *slog.Logger
}

// ServiceContainer holds the wired record collections and their UI resources.
type ServiceContainer struct {
	JobRoles  *service.Collection[model.JobRole, model.JobRoleCreate]
	Posts     *service.Collection[model.Post, model.PostCreate]
	Resources []httpx.ResourceHandler
	Cache     core.CacheRepository
}

// Wait blocks until every background prefetch has finished.
func (s *ServiceContainer) Wait() {
	s.JobRoles.Wait()
	s.Posts.Wait()
}

// NewServices builds the records API client, one cached collection per entity,
// and the UI resource describing each collection.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service config is required")
	}
	if deps.Cache == nil {
		return nil, errors.New("cache is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := apiclient.NewClient(apiclient.Config{
		BaseURL:         cfg.API.BaseURL,
		Token:           cfg.API.Token,
		TokenURL:        cfg.API.TokenURL,
		ClientID:        cfg.API.ClientID,
		Username:        cfg.API.Username,
		Password:        cfg.API.Password,
		Timeout:         cfg.API.Timeout,
		StrictResponses: cfg.API.StrictResponses,
		HTTPClient:      deps.HTTPClient,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("records api client: %w", err)
	}

	jobRolesAPI, err := apiclient.JobRoles(client)
	if err != nil {
		return nil, err
	}
	postsAPI, err := apiclient.Posts(client)
	if err != nil {
		return nil, err
	}

	jobRoles, err := service.NewCollection(service.CollectionOptions[model.JobRole, model.JobRoleCreate]{
		Entity:          entityJobRoles,
		PageSize:        cfg.Paging.JobRolesPageSize,
		API:             jobRolesAPI,
		Cache:           deps.Cache,
		TTL:             cfg.Cache.TTL,
		KeyPrefix:       cfg.Cache.KeyPrefix,
		PrefetchTimeout: cfg.API.Timeout,
		Metrics:         deps.Metrics,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	posts, err := service.NewCollection(service.CollectionOptions[model.Post, model.PostCreate]{
		Entity:          entityPosts,
		PageSize:        cfg.Paging.PostsPageSize,
		API:             postsAPI,
		Cache:           deps.Cache,
		TTL:             cfg.Cache.TTL,
		KeyPrefix:       cfg.Cache.KeyPrefix,
		PrefetchTimeout: cfg.API.Timeout,
		Metrics:         deps.Metrics,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	jobRolesRes, err := httpx.NewJobRolesResource(jobRoles)
	if err != nil {
		return nil, err
	}
	postsRes, err := httpx.NewPostsResource(posts)
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		JobRoles:  jobRoles,
		Posts:     posts,
		Resources: []httpx.ResourceHandler{jobRolesRes, postsRes},
		Cache:     deps.Cache,
	}, nil
}

// CacheHandle is the selected cache backend plus what it needs to stop.
type CacheHandle struct {
	Repo  core.CacheRepository
	Redis redis.UniversalClient
	// memory is set when pages live in process memory; Sweep runs over it.
	memory *data.MemoryCacheRepo
}

// NewCache connects the configured cache backend.
func NewCache(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*CacheHandle, error) {
	if cfg.Cache.Backend == config.CacheBackendRedis {
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &CacheHandle{Repo: data.NewRedisCacheRepo(client), Redis: client}, nil
	}

	mem := data.NewMemoryCacheRepo(nil)
	logger.InfoContext(ctx, "using in-memory list cache")
	return &CacheHandle{Repo: mem, memory: mem}, nil
}

// RunJanitor drops expired in-memory pages until ctx is done. It returns at
// once for Redis, which expires keys itself.
func (c *CacheHandle) RunJanitor(ctx context.Context, logger *slog.Logger) {
	if c.memory == nil {
		return
	}
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.memory.Sweep(); n > 0 {
				logger.DebugContext(ctx, "swept expired cache entries", "count", n)
			}
		}
	}
}

// Close releases the Redis connection, if any.
func (c *CacheHandle) Close() error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Close()
}

// NewMetrics builds the StatsD client; a disabled config yields a client that drops everything.
func NewMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	return statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
}
