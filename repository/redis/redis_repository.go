package redis

import (
	"context"
	"errors"
	"time"

	redisclient "github.com/muhammadheryan/crm/cmd/redis"
	goredis "github.com/redis/go-redis/v9"
)

// Repository defines methods for interacting with Redis key-values
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

type redis struct {
	client func() goredis.Cmdable
}

// NewRepository returns a Redis Repository implementation. Every call is a
// no-op when the client was never initialized.
func NewRepository() Repository {
	return &redis{client: globalClient}
}

func globalClient() goredis.Cmdable {
	if c := redisclient.Get(); c != nil {
		return c
	}
	return nil
}

// Get retrieves a value by key from Redis; a missing key yields "".
func (r *redis) Get(ctx context.Context, key string) (string, error) {
	client := r.client()
	if client == nil {
		return "", nil
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// IncrWithTTL increments a counter; the window starts with the first increment.
func (r *redis) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	client := r.client()
	if client == nil {
		return 0, nil
	}
	var incr *goredis.IntCmd
	_, err := client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Delete removes a key from Redis
func (r *redis) Delete(ctx context.Context, key string) error {
	client := r.client()
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}
