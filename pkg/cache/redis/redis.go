package redis

import (
	"time"

	r "gopkg.in/redis.v5"
)

// key prefix so we can share a redis instance with other tools
const prefix = "_PRBOARD_"

// Cache persists lookup results in redis so merged-PR counts survive
// across reconciliation runs.
type Cache struct {
	client *r.Client
}

func NewRedisCache(url string) (*Cache, error) {
	opts, err := r.ParseURL(url)
	if err != nil {
		return nil, err
	}

	return &Cache{
		client: r.NewClient(opts),
	}, nil
}

func (c Cache) Get(key string) ([]byte, error) {
	return c.client.Get(prefix + key).Bytes()
}

func (c Cache) Set(key string, content []byte, duration time.Duration) error {
	return c.client.Set(prefix+key, content, duration).Err()
}
