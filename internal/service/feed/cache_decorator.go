package feed_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell-feed-service/internal/cache"
	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/model"
)

const indexKeyPattern = "feed:index:page:*"

// CacheDecorator serves the index listing from a short-lived cache. Cached
// pages are allowed to be stale until the TTL runs out or the cache is
// invalidated explicitly; every other listing passes straight through.
type CacheDecorator struct {
	service Service
	cache   cache.Cache
	ttl     time.Duration
	log     *logger.Logger
	metrics metrics.Provider
}

func NewCacheDecorator(service Service, cacheClient cache.Cache, ttl time.Duration, log *logger.Logger, metrics metrics.Provider) *CacheDecorator {
	return &CacheDecorator{
		service: service,
		cache:   cacheClient,
		ttl:     ttl,
		log:     log,
		metrics: metrics,
	}
}

func indexKey(page int) string {
	return fmt.Sprintf("feed:index:page:%d", page)
}

func (d *CacheDecorator) Index(ctx context.Context, page int) (*model.PostPage, error) {
	if page < 1 {
		page = 1
	}
	key := indexKey(page)

	var cached model.PostPage
	getStart := time.Now()
	err := d.cache.Get(ctx, key, &cached)
	d.metrics.RecordCacheOperationDuration("get", time.Since(getStart))
	if err == nil {
		d.metrics.IncrementCacheHits()
		d.log.Debug("Index page served from cache", slog.String("key", key))
		return &cached, nil
	}
	if !errors.Is(err, custom_errors.ErrCacheMiss) {
		// Cache trouble must not take the page down.
		d.log.Error("Failed to read index cache", slog.String("key", key), slog.String("error", err.Error()))
	}
	d.metrics.IncrementCacheMisses()

	result, err := d.service.Index(ctx, page)
	if err != nil {
		return nil, err
	}

	setStart := time.Now()
	setErr := d.cache.Set(ctx, key, result, d.ttl)
	d.metrics.RecordCacheOperationDuration("set", time.Since(setStart))
	if setErr != nil {
		d.log.Error("Failed to write index cache", slog.String("key", key), slog.String("error", setErr.Error()))
	}

	return result, nil
}

func (d *CacheDecorator) GroupPosts(ctx context.Context, slug string, page int) (*model.GroupPage, error) {
	return d.service.GroupPosts(ctx, slug, page)
}

func (d *CacheDecorator) FollowFeed(ctx context.Context, userID int64, page int) (*model.PostPage, error) {
	return d.service.FollowFeed(ctx, userID, page)
}

func (d *CacheDecorator) InvalidateIndex(ctx context.Context) error {
	start := time.Now()
	err := d.cache.DeletePattern(ctx, indexKeyPattern)
	d.metrics.RecordCacheOperationDuration("delete_pattern", time.Since(start))
	if err != nil {
		d.log.Error("Failed to invalidate index cache", slog.String("pattern", indexKeyPattern), slog.String("error", err.Error()))
		return err
	}
	d.log.Debug("Index cache invalidated", slog.String("pattern", indexKeyPattern))
	return d.service.InvalidateIndex(ctx)
}
