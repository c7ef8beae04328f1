package competitor

import (
	"context"
	"encoding/json"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "smartpricing:competitor:"

// memoryCache keeps the first successful result per query for the
// lifetime of the process.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string][]Offer
}

// NewMemoryCache builds an in-process offer cache.
func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string][]Offer)}
}

func (c *memoryCache) Get(ctx context.Context, query string) ([]Offer, bool) {
	_ = ctx
	c.mu.RLock()
	defer c.mu.RUnlock()
	offers, ok := c.entries[query]
	return offers, ok
}

func (c *memoryCache) Set(ctx context.Context, query string, offers []Offer) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[query]; exists {
		return
	}
	c.entries[query] = offers
}

// redisCache shares offers across instances. Failures degrade to a miss.
type redisCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisCache builds a redis-backed offer cache.
func NewRedisCache(client *redis.Client, log *zap.Logger) Cache {
	return &redisCache{
		client: client,
		log:    log.Named("competitor.cache"),
	}
}

func (c *redisCache) Get(ctx context.Context, query string) ([]Offer, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+query).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", zap.String("query", query), zap.Error(err))
		}
		return nil, false
	}

	var offers []Offer
	if err := json.Unmarshal(payload, &offers); err != nil {
		c.log.Warn("cache entry corrupt", zap.String("query", query), zap.Error(err))
		return nil, false
	}
	return offers, true
}

func (c *redisCache) Set(ctx context.Context, query string, offers []Offer) {
	payload, err := json.Marshal(offers)
	if err != nil {
		return
	}
	// SetNX keeps the first successful result; no TTL.
	if err := c.client.SetNX(ctx, redisKeyPrefix+query, payload, 0).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("query", query), zap.Error(err))
	}
}
