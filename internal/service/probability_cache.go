package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProbabilityCache memoriza la probabilidad de clase 1 por (modelo, registro).
// Es valido porque el modelo es determinista para pesos fijos.
type ProbabilityCache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, proba float64, ttl time.Duration) error
}

type memoryEntry struct {
	proba     float64
	expiresAt time.Time
}

const memoryCacheSweepEvery = time.Minute

type memoryProbabilityCache struct {
	mu         sync.Mutex
	items      map[string]memoryEntry
	sweepEvery time.Duration
	lastSweep  time.Time
}

func NewMemoryProbabilityCache() ProbabilityCache {
	return &memoryProbabilityCache{
		items:      make(map[string]memoryEntry),
		sweepEvery: memoryCacheSweepEvery,
		lastSweep:  time.Now().UTC(),
	}
}

func (c *memoryProbabilityCache) Get(_ context.Context, key string) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return 0, false, nil
	}
	if time.Now().UTC().After(e.expiresAt) {
		delete(c.items, key)
		return 0, false, nil
	}
	return e.proba, true, nil
}

func (c *memoryProbabilityCache) Set(_ context.Context, key string, proba float64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(key) == "" {
		return nil
	}
	now := time.Now().UTC()
	if now.Sub(c.lastSweep) >= c.sweepEvery {
		for k, e := range c.items {
			if now.After(e.expiresAt) {
				delete(c.items, k)
			}
		}
		c.lastSweep = now
	}
	c.items[key] = memoryEntry{proba: proba, expiresAt: now.Add(ttl)}
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisProbabilityCache struct {
	client redisKVClient
	prefix string
}

func NewRedisProbabilityCache(client *redis.Client) ProbabilityCache {
	if client == nil {
		return nil
	}
	return &redisProbabilityCache{
		client: client,
		prefix: "score:proba:",
	}
}

func (c *redisProbabilityCache) Get(ctx context.Context, key string) (float64, bool, error) {
	if strings.TrimSpace(key) == "" {
		return 0, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	proba, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return proba, true, nil
}

func (c *redisProbabilityCache) Set(ctx context.Context, key string, proba float64, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+key, strconv.FormatFloat(proba, 'g', -1, 64), ttl).Err()
}
