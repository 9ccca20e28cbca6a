package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// entryMagic starts every file cache entry. The header line is
//
//	fpviz1 <expiry in unix nanoseconds, 0 for none>\n
//
// and the raw value follows, so PNG and PDF artifacts are stored unencoded.
const entryMagic = "fpviz1 "

// FileCache stores one file per key below dir, fanned out into 256
// subdirectories by the first byte of the key hash. Writes go through a
// temporary file and a rename, so concurrent readers never see a partial
// entry.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file cache in dir, creating the directory.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Get returns the value stored under key. Expired and unreadable entries
// are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, data, ok := decodeEntry(raw)
	if !ok || c.expired(expires) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores data under key; ttl <= 0 means the entry never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = c.now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	header := entryMagic + strconv.FormatInt(expires, 10) + "\n"
	if _, err := tmp.WriteString(header); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry. Only files laid out and headed like entries
// are touched, so a cache pointed at a shared directory leaves other files
// alone. Shard directories left empty are removed.
func (c *FileCache) Clear(ctx context.Context) error {
	_, err := c.walk(ctx, func(raw []byte) bool {
		return bytes.HasPrefix(raw, []byte(entryMagic))
	})
	return err
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	return c.walk(ctx, func(raw []byte) bool {
		expires, _, ok := decodeEntry(raw)
		return !ok || c.expired(expires)
	})
}

// walk visits the files at entry paths, <dir>/<2 hex>/<62 hex>, and removes
// those for which drop returns true. It returns the number removed.
func (c *FileCache) walk(ctx context.Context, drop func(raw []byte) bool) (int, error) {
	shards, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, shard := range shards {
		if !shard.IsDir() || !isHex(shard.Name(), 2) {
			continue
		}
		dir := filepath.Join(c.dir, shard.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return removed, err
			}
			if f.IsDir() || !isHex(f.Name(), 62) {
				continue
			}
			path := filepath.Join(dir, f.Name())
			raw, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if drop(raw) && os.Remove(path) == nil {
				removed++
			}
		}
		_ = os.Remove(dir) // fails unless empty
	}
	return removed, nil
}

func isHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) expired(expires int64) bool {
	return expires != 0 && c.now().UnixNano() > expires
}

// path maps a key to <dir>/<hash[:2]>/<hash[2:]>.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:])
}

// decodeEntry splits a stored entry into its expiry and value.
func decodeEntry(raw []byte) (expires int64, data []byte, ok bool) {
	if !bytes.HasPrefix(raw, []byte(entryMagic)) {
		return 0, nil, false
	}
	rest := raw[len(entryMagic):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return 0, nil, false
	}
	expires, err := strconv.ParseInt(string(rest[:nl]), 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return expires, rest[nl+1:], true
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
