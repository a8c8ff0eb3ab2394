package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterCache 站点级展示计数的 redis 读缓存（帖子总数、活跃用户数
// 这类全站聚合）。源头在数据库，缓存只是减读放大；帖子得分等需要
// 写后立刻可见的数字不走这里
type CounterCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCounterCache(client *redis.Client, ttl time.Duration) *CounterCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CounterCache{client: client, ttl: ttl}
}

func counterKey(name string) string {
	return "freak:stats:" + name
}

// Counter 读缓存；miss 返回 (0, false, nil)
func (c *CounterCache) Counter(ctx context.Context, name string) (int64, bool, error) {
	val, err := c.client.Get(ctx, counterKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// 缓存里出现脏值，当 miss 处理并清掉
		c.client.Del(ctx, counterKey(name))
		return 0, false, nil
	}
	return n, true, nil
}

func (c *CounterCache) SetCounter(ctx context.Context, name string, value int64) error {
	return c.client.Set(ctx, counterKey(name), strconv.FormatInt(value, 10), c.ttl).Err()
}

func (c *CounterCache) Invalidate(ctx context.Context, name string) error {
	return c.client.Del(ctx, counterKey(name)).Err()
}
