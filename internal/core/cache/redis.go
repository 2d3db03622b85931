package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	RDB *redis.Client
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

// Hit bumps the fixed-window counter for key and returns the count within
// the current window. The first hit sets the window TTL.
func (c *Cache) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.RDB.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *Cache) Close() error { return c.RDB.Close() }
