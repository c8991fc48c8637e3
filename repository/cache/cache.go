// Package cacherepo wraps Redis for read-through caching of catalog lookups.
package cacherepo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Close() error
}

type client struct {
	c *redis.Client
}

func New(addr string) (Cache, error) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &client{c: c}, nil
}

func (cl *client) Get(ctx context.Context, key string) (string, error) {
	v, err := cl.c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

func (cl *client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return cl.c.Set(ctx, key, value, ttl).Err()
}

func (cl *client) Del(ctx context.Context, key string) error {
	return cl.c.Del(ctx, key).Err()
}

func (cl *client) Close() error { return cl.c.Close() }

// Nop disables caching when Redis is not configured.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) (string, error)                 { return "", ErrMiss }
func (Nop) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
func (Nop) Del(ctx context.Context, key string) error                           { return nil }
func (Nop) Close() error                                                        { return nil }
