// Package rediscache keeps per-user category lists in Redis so several
// server instances share one cache.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	categoriesdomain "fintrack-go/internal/domain/categories"
	"fintrack-go/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const opTimeout = 500 * time.Millisecond

func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// CategoriesCache fails open: a Redis error is logged and treated as a miss.
type CategoriesCache struct {
	client *redis.Client
	log    logger.Logger
}

func NewCategoriesCache(client *redis.Client, log logger.Logger) *CategoriesCache {
	return &CategoriesCache{client: client, log: log}
}

func categoriesKey(userID string) string {
	return "fintrack:user:" + userID + ":categories"
}

func (c *CategoriesCache) GetByUserID(userID string) ([]categoriesdomain.Category, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, categoriesKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("rediscache.categories: get failed", "user_id", userID, "err", err)
		}
		return nil, false
	}

	var items []categoriesdomain.Category
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Warn("rediscache.categories: corrupt entry", "user_id", userID, "err", err)
		c.DeleteByUserID(userID)
		return nil, false
	}
	return items, true
}

func (c *CategoriesCache) SetByUserID(userID string, categories []categoriesdomain.Category, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}

	data, err := json.Marshal(categories)
	if err != nil {
		c.log.Warn("rediscache.categories: encode failed", "user_id", userID, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.client.Set(ctx, categoriesKey(userID), data, ttl).Err(); err != nil {
		c.log.Warn("rediscache.categories: set failed", "user_id", userID, "err", err)
	}
}

func (c *CategoriesCache) DeleteByUserID(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.client.Del(ctx, categoriesKey(userID)).Err(); err != nil {
		c.log.Warn("rediscache.categories: delete failed", "user_id", userID, "err", err)
	}
}
