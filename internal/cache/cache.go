package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pagecache:"

// PageCache stores fetched catalog page bodies in redis so repeated runs
// inside the TTL skip refetching. Cache failures are treated as misses.
type PageCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(url string, ttl time.Duration) (*PageCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	return &PageCache{Client: redis.NewClient(opt), TTL: ttl}, nil
}

func (c *PageCache) Get(ctx context.Context, url string) (string, bool) {
	val, err := c.Client.Get(ctx, keyPrefix+url).Result()
	if err != nil {
		return "", false
	}

	return val, true
}

func (c *PageCache) Set(ctx context.Context, url, body string) {
	_ = c.Client.Set(ctx, keyPrefix+url, body, c.TTL).Err()
}
