// Package cache stores rendered scenes and artifacts between runs.
//
// The CLI uses a [FileCache] under the user cache directory; a redis:// URL
// selects a [RedisCache] shared between machines, and --no-cache selects a
// [NullCache]. Keys come from a [Keyer] so that identical inputs and options
// always map to the same entry.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fpviz/fpviz/pkg/errors"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLRender   = 24 * time.Hour // renders stored by the HTTP server
)

// DefaultDir returns the per-user cache directory for fpviz.
func DefaultDir() (string, error) {
	if dir := os.Getenv("FPVIZ_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "fpviz"), nil
}

// Open returns the cache described by url:
//
//	""                 file cache in DefaultDir
//	"none"             NullCache
//	"file:///path"     file cache in /path (a bare path works too)
//	"redis://..."      RedisCache
func Open(ctx context.Context, url string) (Cache, error) {
	switch {
	case url == "":
		dir, err := DefaultDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "locate cache directory")
		}
		return openFile(dir)
	case url == "none" || url == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		c, err := NewRedisCache(ctx, url, "fpviz:")
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(url, "file://"):
		return openFile(strings.TrimPrefix(url, "file://"))
	case strings.Contains(url, "://"):
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported cache URL: %s", url)
	default:
		return openFile(url)
	}
}

func openFile(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create cache directory")
	}
	return c, nil
}
