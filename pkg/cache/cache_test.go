package cache

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/fpviz/fpviz/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "scene:a", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "scene:a")
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "scene:a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "scene:a"); hit {
		t.Error("entry still present after Delete")
	}
	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "scene:a"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}

	// No TTL means no expiry.
	_ = c.Set(ctx, "forever", []byte("v"), 0)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), time.Hour)

	if err := os.WriteFile(c.path("k"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCacheBinaryValue(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	// PNG signature with embedded newlines and a zero byte.
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0}
	if err := c.Set(ctx, "artifact:png", png, time.Hour); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, "artifact:png")
	if err != nil || !hit || !bytes.Equal(got, png) {
		t.Errorf("Get = %v, %v, %v; want %v", got, hit, err, png)
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "old", []byte("1"), time.Minute)
	_ = c.Set(ctx, "new", []byte("2"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("3"), 0)

	now = now.Add(10 * time.Minute)
	removed, err := c.Prune(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("Prune() = %d, %v; want 1", removed, err)
	}
	for key, want := range map[string]bool{"old": false, "new": true, "forever": true} {
		if _, hit, _ := c.Get(ctx, key); hit != want {
			t.Errorf("Get(%s) hit = %v, want %v", key, hit, want)
		}
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, _ := NewFileCache(dir)
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir missing after Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestFileCacheClearKeepsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	_ = c.Set(ctx, "a", []byte("1"), 0)

	foreign := []string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "ab", "readme"),
		filepath.Join(dir, "docs", "design.md"),
		c.path("not-an-entry"),
	}
	for _, p := range foreign {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("keep me"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
	for _, p := range foreign {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Clear removed %s: %v", p, err)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		url     string
		want    string
		wantErr errors.Code
	}{
		{"none", "*cache.NullCache", ""},
		{"off", "*cache.NullCache", ""},
		{dir, "*cache.FileCache", ""},
		{"file://" + dir, "*cache.FileCache", ""},
		{"s3://bucket", "", errors.ErrCodeInvalidInput},
		{"redis://:bad@[::1", "", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, err := Open(ctx, tt.url)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open(%q) error = %v, want %s", tt.url, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q) error = %v", tt.url, err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open(%q) = %s, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *NullCache:
		return "*cache.NullCache"
	case *FileCache:
		return "*cache.FileCache"
	case *RedisCache:
		return "*cache.RedisCache"
	}
	return "?"
}

func TestDefaultDirEnv(t *testing.T) {
	t.Setenv("FPVIZ_CACHE_DIR", "/tmp/fpviz-test")
	dir, err := DefaultDir()
	if err != nil || dir != "/tmp/fpviz-test" {
		t.Errorf("DefaultDir() = %q, %v", dir, err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashAll(t *testing.T) {
	a := HashAll([]byte("ab"), []byte("c"))
	b := HashAll([]byte("a"), []byte("bc"))
	if a == b {
		t.Error("HashAll should depend on input boundaries")
	}
	if HashAll([]byte("x")) != HashAll([]byte("x")) {
		t.Error("HashAll should be deterministic")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	sk1 := k.SceneKey("floorplan", "hash123", SceneKeyOpts{})
	sk2 := k.SceneKey("floorplan", "hash123", SceneKeyOpts{HideNets: true})
	sk3 := k.SceneKey("overlap", "hash123", SceneKeyOpts{})
	if sk1 == sk2 || sk1 == sk3 {
		t.Error("Different SceneKeyOpts or kinds should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Width: 800})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Width: 800})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	if rk := k.RenderKey("abc"); rk != "render:abc" {
		t.Errorf("RenderKey unexpected: %s", rk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "serve:")

	if key := scoped.RenderKey("id1"); key != "serve:render:id1" {
		t.Errorf("ScopedKeyer RenderKey unexpected: %s", key)
	}

	sceneKey := scoped.SceneKey("placement", "h", SceneKeyOpts{})
	if len(sceneKey) < 15 || sceneKey[:6] != "serve:" {
		t.Errorf("ScopedKeyer SceneKey should be prefixed: %s", sceneKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.RenderKey("x"); key != "prefix:render:x" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"eof", io.EOF, true},
		{"auth", stderrors.New("NOAUTH Authentication required"), false},
		{"coded", errors.New(errors.ErrCodeInvalidInput, "bad url"), false},
	}
	for _, tt := range tests {
		if got := Transient(tt.err); got != tt.want {
			t.Errorf("Transient(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Delay: time.Millisecond}
	refused := &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}

	tests := []struct {
		name      string
		failures  int   // calls that fail before success
		failWith  error // error returned by failing calls
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, refused, 1, false},
		{"permanent error stops", 5, io.ErrClosedPipe, 1, true},
		{"transient then success", 2, refused, 3, false},
		{"gives up", 5, refused, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Do(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			if calls != tt.wantCalls || (err != nil) != tt.wantErr {
				t.Errorf("calls=%d err=%v, want calls=%d err=%v", calls, err, tt.wantCalls, tt.wantErr)
			}
		})
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DefaultBackoff.Do(ctx, func() error {
		return &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}
	})
	if err != context.Canceled {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}
