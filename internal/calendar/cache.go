package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved days until the following local midnight.
type Cache interface {
	Get(ctx context.Context, day Date) (Result, bool, error)
	Set(ctx context.Context, day Date, result Result, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type memoryEntry struct {
	result  Result
	expires time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[Date]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[Date]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, day Date) (Result, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[day]
	if !ok || !c.now().Before(entry.expires) {
		return Result{}, false, nil
	}
	return entry.result, true, nil
}

func (c *MemoryCache) Set(_ context.Context, day Date, result Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for d, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, d)
		}
	}
	c.entries[day] = memoryEntry{result: result, expires: now.Add(ttl)}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Date]memoryEntry)
	return nil
}

// Len returns the number of stored days, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisKeyPrefix namespaces active-service keys.
const RedisKeyPrefix = "nextstop:active-services:"

// RedisCache shares resolved days between processes.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, config RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisKey is the key a day is stored under.
func RedisKey(day Date) string {
	return RedisKeyPrefix + day.String()
}

type redisResult struct {
	Services   []string `json:"services"`
	Overridden bool     `json:"overridden"`
	Skipped    int      `json:"skipped"`
}

func (c *RedisCache) Get(ctx context.Context, day Date) (Result, bool, error) {
	data, err := c.client.Get(ctx, RedisKey(day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("failed to read cached services: %w", err)
	}

	var cached redisResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return Result{}, false, fmt.Errorf("failed to unmarshal cached services: %w", err)
	}

	return Result{
		Date:       day,
		Services:   NewServiceSet(cached.Services...),
		Overridden: cached.Overridden,
		Skipped:    cached.Skipped,
	}, true, nil
}

func (c *RedisCache) Set(ctx context.Context, day Date, result Result, ttl time.Duration) error {
	data, err := json.Marshal(redisResult{
		Services:   result.Services.IDs(),
		Overridden: result.Overridden,
		Skipped:    result.Skipped,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal services: %w", err)
	}
	return c.client.Set(ctx, RedisKey(day), data, ttl).Err()
}

// Clear deletes every active-service key.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, RedisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached services: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
