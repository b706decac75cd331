// Package cache implements the read-through artist cache on Redis.
//
// Cache failures never fail a request: on any Redis error the loader is
// called directly and the error is logged. Concurrent misses for the same
// artist are collapsed into a single load with singleflight.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
	"github.com/xiaoxiao0301/artist-atlas/pkg/redis"
)

// Loader fetches an artist from the backing store on a cache miss.
type Loader func(ctx context.Context) (*domain.Artist, error)

// ArtistCache caches artist records by id.
type ArtistCache interface {
	GetOrLoad(ctx context.Context, id string, load Loader) (*domain.Artist, error)
	Invalidate(ctx context.Context, id string)
}

type redisArtistCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
	group  singleflight.Group
}

// NewArtistCache creates a Redis-backed artist cache.
func NewArtistCache(client *redis.Client, ttl time.Duration, log logger.Logger) ArtistCache {
	return &redisArtistCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (c *redisArtistCache) GetOrLoad(ctx context.Context, id string, load Loader) (*domain.Artist, error) {
	key := redis.ArtistKey(id)

	data, err := c.client.Get(ctx, key)
	if err == nil {
		var artist domain.Artist
		if err := json.Unmarshal([]byte(data), &artist); err == nil {
			return &artist, nil
		}
		// Corrupt entry: drop it and fall through to the loader.
		c.logger.Warn("dropping corrupt cache entry", logger.String("key", key))
		_ = c.client.Delete(ctx, key)
	} else if !errors.Is(err, redis.ErrKeyNotFound) {
		c.logger.Warn("artist cache read failed",
			logger.String("key", key), logger.Err(err))
		return load(ctx)
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		artist, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, artist)
		return artist, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Artist), nil
}

func (c *redisArtistCache) store(ctx context.Context, key string, artist *domain.Artist) {
	data, err := json.Marshal(artist)
	if err != nil {
		c.logger.Warn("artist cache marshal failed", logger.Err(err))
		return
	}
	if err := c.client.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.Warn("artist cache write failed",
			logger.String("key", key), logger.Err(err))
	}
}

func (c *redisArtistCache) Invalidate(ctx context.Context, id string) {
	key := redis.ArtistKey(id)
	if err := c.client.Delete(ctx, key); err != nil {
		c.logger.Warn("artist cache invalidation failed",
			logger.String("key", key), logger.Err(err))
	}
}

// noopCache always calls the loader. Used when caching is disabled.
type noopCache struct{}

// NewNoopCache returns a cache that never stores anything.
func NewNoopCache() ArtistCache {
	return noopCache{}
}

func (noopCache) GetOrLoad(ctx context.Context, _ string, load Loader) (*domain.Artist, error) {
	return load(ctx)
}

func (noopCache) Invalidate(context.Context, string) {}
