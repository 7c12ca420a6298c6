// Package cache stores export results between runs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for shared deployments of the HTTP API, and [NullCache] when
// caching is disabled. [Open] selects a backend from a URL.
//
// Keys come from a [Keyer]. The [DefaultKeyer] hashes the assembly together
// with every option that changes the output, so an entry is only reused
// for identical exports.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Open returns the cache backend named by target:
//
//	""  or "file"                 FileCache in dir
//	"none"                        NullCache
//	"redis://..." "rediss://..."  RedisCache
//	"mongodb://..." "mongodb+srv://..."  MongoCache in database "kinetree"
func Open(ctx context.Context, target, dir string) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch {
	case target == "" || target == "file":
		c, err = openFile(dir)
	case target == "none":
		c = NewNullCache()
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		c, err = openRedis(ctx, target)
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		c, err = openMongo(ctx, target)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, target)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openFile(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openRedis(ctx context.Context, url string) (Cache, error) {
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openMongo(ctx context.Context, uri string) (Cache, error) {
	c, err := NewMongoCache(ctx, uri, DefaultMongoDatabase)
	if err != nil {
		return nil, err
	}
	return c, nil
}
