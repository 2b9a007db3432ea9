package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/target/records-ui/internal/core"
	"github.com/target/records-ui/internal/domain/model"
	apperrors "github.com/target/records-ui/internal/errors"
	"github.com/target/records-ui/internal/observability/metrics"
	"github.com/target/records-ui/internal/observability/statsd"
)

const (
	defaultCacheTTL        = 5 * time.Minute
	defaultPrefetchTimeout = 30 * time.Second
	defaultKeyPrefix       = "records"
)

// CollectionOptions groups dependencies for Collection.
type CollectionOptions[T any, C model.CreateRequest] struct {
	// Entity names the collection in cache keys, logs and metrics, e.g. "job_roles".
	Entity   string
	PageSize int
	API      core.RecordAPI[T, C]
	Cache    core.CacheRepository

	// TTL bounds the lifetime of a cached page (default 5m).
	TTL       time.Duration
	KeyPrefix string

	// PrefetchTimeout bounds a background next-page fetch (default 30s).
	PrefetchTimeout time.Duration

	Metrics statsd.Sink
	Logger  *slog.Logger
}

// PageResult is one page of records together with its request.
type PageResult[T any] struct {
	Request model.PageRequest
	Records []T
	// Count is the remote total; informational only.
	Count int
	// FromCache is true when the page was served without a remote call.
	FromCache bool
}

// HasPrev reports whether Previous should be enabled.
func (r *PageResult[T]) HasPrev() bool { return r.Request.HasPrev() }

// HasNext reports whether Next should be enabled: only after a full page.
func (r *PageResult[T]) HasNext() bool { return r.Request.HasNext(len(r.Records)) }

// Collection serves fixed-size pages of one remote record collection through a
// cache keyed by (entity, page). Creating a record invalidates every cached
// page of the entity by rotating its generation token.
type Collection[T any, C model.CreateRequest] struct {
	entity          string
	size            int
	api             core.RecordAPI[T, C]
	cache           core.CacheRepository
	ttl             time.Duration
	prefix          string
	prefetchTimeout time.Duration
	metrics         statsd.Sink
	logger          *slog.Logger

	flights   singleflight.Group
	prefetchW sync.WaitGroup
}

// NewCollection constructs a Collection.
func NewCollection[T any, C model.CreateRequest](opts CollectionOptions[T, C]) (*Collection[T, C], error) {
	if opts.Entity == "" {
		return nil, errors.New("collection entity is required")
	}
	if opts.PageSize <= 0 {
		return nil, fmt.Errorf("%s: page size must be > 0", opts.Entity)
	}
	if opts.API == nil {
		return nil, fmt.Errorf("%s: records api is required", opts.Entity)
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("%s: cache is required", opts.Entity)
	}

	c := &Collection[T, C]{
		entity:          opts.Entity,
		size:            opts.PageSize,
		api:             opts.API,
		cache:           opts.Cache,
		ttl:             opts.TTL,
		prefix:          opts.KeyPrefix,
		prefetchTimeout: opts.PrefetchTimeout,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
	}
	if c.ttl <= 0 {
		c.ttl = defaultCacheTTL
	}
	if c.prefix == "" {
		c.prefix = defaultKeyPrefix
	}
	if c.prefetchTimeout <= 0 {
		c.prefetchTimeout = defaultPrefetchTimeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("entity", c.entity)
	return c, nil
}

// Entity returns the collection name.
func (c *Collection[T, C]) Entity() string { return c.entity }

// PageSize returns the fixed page size.
func (c *Collection[T, C]) PageSize() int { return c.size }

// Page returns the requested page, from cache when present. Page numbers below
// 1 are treated as 1. A full page schedules a prefetch of the following page.
func (c *Collection[T, C]) Page(ctx context.Context, page int) (*PageResult[T], error) {
	req := model.NewPageRequest(page, c.size)
	start := time.Now()

	key := c.pageKey(ctx, req.Page)
	if res, ok := c.readPage(ctx, key, req); ok {
		metrics.EmitList(c.metrics, metrics.ListMetric{
			Entity: c.entity, Page: req.Page, Source: metrics.SourceCache, Result: metrics.ResultSuccess,
		})
		c.maybePrefetch(ctx, res)
		return res, nil
	}

	listing, err := c.fetch(ctx, key, req)
	metric := metrics.ListMetric{
		Entity:   c.entity,
		Page:     req.Page,
		Source:   metrics.SourceRemote,
		Result:   metrics.ResultSuccess,
		Duration: time.Since(start),
	}
	if err != nil {
		metric.Result, metric.Err = metrics.ResultError, err
		metrics.EmitList(c.metrics, metric)
		return nil, err
	}
	metrics.EmitList(c.metrics, metric)

	res := &PageResult[T]{Request: req, Records: listing.Data, Count: listing.Count}
	c.maybePrefetch(ctx, res)
	return res, nil
}

// Cached returns the page only when it is already cached; it never calls the API.
func (c *Collection[T, C]) Cached(ctx context.Context, page int) (*PageResult[T], bool) {
	req := model.NewPageRequest(page, c.size)
	return c.readPage(ctx, c.pageKey(ctx, req.Page), req)
}

// Prefetch fetches and caches page in the background unless it is cached already.
// The fetch outlives ctx's cancellation but is bounded by the prefetch timeout.
func (c *Collection[T, C]) Prefetch(ctx context.Context, page int) {
	if page < model.FirstPage {
		return
	}
	req := model.NewPageRequest(page, c.size)
	detached := context.WithoutCancel(ctx)

	c.prefetchW.Add(1)
	go func() {
		defer c.prefetchW.Done()

		pctx, cancel := context.WithTimeout(detached, c.prefetchTimeout)
		defer cancel()

		key := c.pageKey(pctx, req.Page)
		if key == "" {
			return
		}
		if ok, err := c.cache.Exists(pctx, key); err == nil && ok {
			metrics.EmitList(c.metrics, metrics.ListMetric{
				Entity: c.entity, Page: req.Page, Source: metrics.SourcePrefetch, Result: metrics.ResultNoop,
			})
			return
		}

		start := time.Now()
		_, err := c.fetch(pctx, key, req)
		metric := metrics.ListMetric{
			Entity:   c.entity,
			Page:     req.Page,
			Source:   metrics.SourcePrefetch,
			Result:   metrics.ResultSuccess,
			Duration: time.Since(start),
		}
		if err != nil {
			metric.Result, metric.Err = metrics.ResultError, err
			c.logger.DebugContext(pctx, "prefetch failed", "page", req.Page, "error", err)
		}
		metrics.EmitList(c.metrics, metric)
	}()
}

// Wait blocks until every prefetch started so far has finished.
func (c *Collection[T, C]) Wait() {
	c.prefetchW.Wait()
}

// Create submits req once. A request failing local validation never reaches the
// API and leaves the cache untouched. Once the API call settles, successfully or
// not, the entity's cached pages are invalidated.
func (c *Collection[T, C]) Create(ctx context.Context, req C) (*T, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid "+c.entity+" request")
	}

	start := time.Now()
	created, err := c.api.Create(ctx, req)

	if invErr := c.Invalidate(context.WithoutCancel(ctx)); invErr != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed", "error", invErr)
	}

	metric := metrics.CreateMetric{Entity: c.entity, Result: metrics.ResultSuccess, Duration: time.Since(start)}
	if err != nil {
		mapped := apperrors.MapRemoteError(err)
		metric.Result, metric.Err = metrics.ResultError, mapped
		metrics.EmitCreate(c.metrics, metric)
		c.logger.InfoContext(ctx, "create failed", "error", err)
		return nil, mapped
	}
	metrics.EmitCreate(c.metrics, metric)
	return created, nil
}

// Invalidate makes every cached page of the entity unreachable.
func (c *Collection[T, C]) Invalidate(ctx context.Context) error {
	if _, err := c.cache.Delete(ctx, c.generationKey()); err != nil {
		metrics.EmitInvalidate(c.metrics, c.entity, metrics.ResultError)
		return fmt.Errorf("invalidate %s: %w", c.entity, err)
	}
	metrics.EmitInvalidate(c.metrics, c.entity, metrics.ResultSuccess)
	return nil
}

// fetch loads req from the API, coalescing identical in-flight calls, and
// stores the listing under key when key is not empty.
func (c *Collection[T, C]) fetch(ctx context.Context, key string, req model.PageRequest) (*model.Listing[T], error) {
	flight := key
	if flight == "" {
		flight = "nocache:" + strconv.Itoa(req.Page)
	}

	v, err, _ := c.flights.Do(flight, func() (any, error) {
		listing, err := c.api.List(ctx, req.Offset(), req.Limit())
		if err != nil {
			return nil, apperrors.MapRemoteError(err)
		}
		if listing == nil {
			listing = &model.Listing[T]{}
		}
		if listing.Data == nil {
			listing.Data = []T{}
		}
		if key != "" {
			c.writePage(ctx, key, listing)
		}
		return listing, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Listing[T]), nil
}

func (c *Collection[T, C]) readPage(ctx context.Context, key string, req model.PageRequest) (*PageResult[T], bool) {
	if key == "" {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	var listing model.Listing[T]
	if err := json.Unmarshal(raw, &listing); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	if listing.Data == nil {
		listing.Data = []T{}
	}
	return &PageResult[T]{Request: req, Records: listing.Data, Count: listing.Count, FromCache: true}, true
}

func (c *Collection[T, C]) writePage(ctx context.Context, key string, listing *model.Listing[T]) {
	raw, err := json.Marshal(listing)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

func (c *Collection[T, C]) maybePrefetch(ctx context.Context, res *PageResult[T]) {
	if res.HasNext() {
		c.Prefetch(ctx, res.Request.Page+1)
	}
}

func (c *Collection[T, C]) generationKey() string {
	return c.prefix + ":" + c.entity + ":gen"
}

// generation returns the entity's current generation token, creating one when
// none exists. Concurrent creators converge on whichever token was stored first.
func (c *Collection[T, C]) generation(ctx context.Context) (string, error) {
	key := c.generationKey()
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if raw != nil {
		return string(raw), nil
	}

	token := uuid.NewString()
	set, err := c.cache.SetIfNotExists(ctx, key, []byte(token), 0)
	if err != nil {
		return "", err
	}
	if set {
		return token, nil
	}
	raw, err = c.cache.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", errors.New("generation token vanished")
	}
	return string(raw), nil
}

// pageKey returns the cache key of page, or "" when the cache is unusable.
func (c *Collection[T, C]) pageKey(ctx context.Context, page int) string {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "cache generation lookup failed", "error", err)
		return ""
	}
	return c.prefix + ":" + c.entity + ":" + gen + ":page:" + strconv.Itoa(page)
}
