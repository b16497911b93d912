package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLinkCache оборачивает LinkRepository кешем Redis для чтения.
// Ключ строится из кода в нижнем регистре, так как поиск нечувствителен к регистру.
type RedisLinkCache struct {
	next   LinkRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLinkCache создаёт декоратор с кешированием найденных ссылок
func NewRedisLinkCache(next LinkRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLinkCache {
	return &RedisLinkCache{
		next:   next,
		client: client,
		prefix: "shorty:link:",
		ttl:    ttl,
		logger: logger,
	}
}

// Resolve сначала проверяет кеш, затем обращается к хранилищу.
// Ошибки Redis не прерывают запрос: поиск продолжается в хранилище.
func (c *RedisLinkCache) Resolve(ctx context.Context, code string) (string, bool, error) {
	key := c.key(code)

	url, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return url, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Failed to read link from cache", zap.String("key", key), zap.Error(err))
	}

	url, found, err := c.next.Resolve(ctx, code)
	if err != nil || !found {
		return url, found, err
	}

	if err := c.client.Set(ctx, key, url, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write link to cache", zap.String("key", key), zap.Error(err))
	}
	return url, true, nil
}

func (c *RedisLinkCache) key(code string) string {
	return c.prefix + strings.ToLower(code)
}

var _ LinkRepository = (*RedisLinkCache)(nil)
