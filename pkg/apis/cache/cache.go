package cache

import "time"

// Cache is an optional persistence layer for expensive GitHub lookups.
// A zero duration means no expiry.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, content []byte, duration time.Duration) error
}
