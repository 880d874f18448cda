package flags

import (
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/jupyterhub/prboard/pkg/apis/cache"
	"github.com/jupyterhub/prboard/pkg/cache/redis"
)

// CacheFlags configures the optional cross-run lookup cache.
type CacheFlags struct {
	RedisURL string
	CacheTTL time.Duration
}

func NewCacheFlags() *CacheFlags {
	return &CacheFlags{
		CacheTTL: 24 * time.Hour,
	}
}

func (f *CacheFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.RedisURL,
		"redis-url",
		os.Getenv("REDIS_URL"),
		"Redis URL for persisting lookup results across runs (optional)")
	fs.DurationVar(&f.CacheTTL,
		"redis-cache-ttl",
		f.CacheTTL,
		"How long persisted lookup results stay valid")
}

// GetCacheClient returns the configured cache, or nil when persistent
// caching is disabled.
func (f *CacheFlags) GetCacheClient() (cache.Cache, error) {
	if f.RedisURL != "" {
		return redis.NewRedisCache(f.RedisURL)
	}

	return nil, nil
}
