package cache

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a nil miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exercise runs the shared Get/Set/Delete/Clear contract against c.
func exercise(t *testing.T, c interface {
	Cache
	Clearer
}) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v err %v, want miss", hit, err)
	}
	if err := c.Set(ctx, "a", []byte("alpha"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "alpha" {
		t.Fatalf("Get(a) = %q %v %v, want alpha hit", data, hit, err)
	}

	if err := c.Set(ctx, "a", []byte("beta"), time.Hour); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "a"); string(data) != "beta" {
		t.Errorf("after overwrite = %q, want beta", data)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}

	_ = c.Set(ctx, "x", []byte("1"), 0)
	_ = c.Set(ctx, "y", []byte("2"), 0)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"x", "y"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
}

func TestMemoryCache(t *testing.T) {
	exercise(t, NewMemoryCache(0))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry removed", c.Len())
	}
}

func TestMemoryCacheBounded(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { now = now.Add(time.Second); return now }

	_ = c.Set(ctx, "first", []byte("1"), 0)
	_ = c.Set(ctx, "second", []byte("2"), 0)
	_ = c.Set(ctx, "third", []byte("3"), 0)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "first"); hit {
		t.Error("oldest entry should have been evicted")
	}
	if _, hit, _ := c.Get(ctx, "third"); !hit {
		t.Error("newest entry should be present")
	}
}

func TestMemoryCacheCopiesData(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'z'
	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get() = %q, want stored copy abc", got)
	}
}

func TestFileCache(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
	exercise(t, c)

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Clear removed the cache directory: %v", err)
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v err %v, want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		check   func(Cache) bool
	}{
		{BackendNone, func(c Cache) bool { _, ok := c.(*NullCache); return ok }},
		{BackendMemory, func(c Cache) bool { _, ok := c.(*MemoryCache); return ok }},
		{BackendFile, func(c Cache) bool { _, ok := c.(*FileCache); return ok }},
	}
	for _, tt := range tests {
		c, err := Open(ctx, Options{Backend: tt.backend, Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("Open(%q): %v", tt.backend, err)
		}
		if !tt.check(c) {
			t.Errorf("Open(%q) = %T", tt.backend, c)
		}
		c.Close()
	}

	if _, err := Open(ctx, Options{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(memcached) = %v, want ErrUnknownBackend", err)
	}
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, PingAttempts: 1})
	if err == nil {
		t.Fatal("NewRedisCache() to a closed port should fail")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func testPictograph(turns float64) pictograph.PictographData {
	m := pictograph.MotionData{MotionType: pictograph.Pro, StartLoc: pictograph.North, EndLoc: pictograph.South, Turns: turns, PropRotDir: pictograph.Clockwise, StartOri: pictograph.In}
	return pictograph.NewPictograph("G", m, m, "staff")
}

func mustKey(t *testing.T, key string, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("key error: %v", err)
	}
	return key
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	p := testPictograph(1)
	placement := func(p pictograph.PictographData, ctx pictograph.Orientations, opts KeyOpts) string {
		key, err := k.PlacementKey(p, ctx, opts)
		return mustKey(t, key, err)
	}

	key := placement(p, nil, KeyOpts{})
	if !strings.HasPrefix(key, "placement:") {
		t.Errorf("PlacementKey = %q, want placement: prefix", key)
	}
	if key != placement(p.Clone(), nil, KeyOpts{}) {
		t.Error("equal pictographs should give equal keys")
	}
	if key == placement(testPictograph(2), nil, KeyOpts{}) {
		t.Error("different turns should give different keys")
	}
	ctx := pictograph.Orientations{pictograph.Blue: pictograph.Out}
	if key == placement(p, ctx, KeyOpts{}) {
		t.Error("sequence context should change the key")
	}
	if key == placement(p, nil, KeyOpts{Profile: "big-canvas"}) {
		t.Error("profile should change the key")
	}

	seq := pictograph.Sequence{ID: "a", Word: "GG", Beats: []pictograph.Beat{{Number: 1, Pictograph: p}}}
	renamed := seq
	renamed.ID, renamed.Word = "b", "other"
	k1, err1 := k.SequenceKey(seq, KeyOpts{})
	k2, err2 := k.SequenceKey(renamed, KeyOpts{})
	if mustKey(t, k1, err1) != mustKey(t, k2, err2) {
		t.Error("identity fields should not affect the sequence key")
	}
}

func TestKeyerRejectsNonFiniteTurns(t *testing.T) {
	tests := []struct {
		name  string
		turns float64
	}{
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPictograph(tt.turns)
			for _, k := range []Keyer{NewDefaultKeyer(), NewScopedKeyer(nil, "x:")} {
				if key, err := k.PlacementKey(p, nil, KeyOpts{}); !errors.Is(err, ErrUnhashable) {
					t.Errorf("PlacementKey() = %q, %v, want ErrUnhashable", key, err)
				}
				seq := pictograph.Sequence{Beats: []pictograph.Beat{{Number: 1, Pictograph: p}}}
				if key, err := k.SequenceKey(seq, KeyOpts{}); !errors.Is(err, ErrUnhashable) {
					t.Errorf("SequenceKey() = %q, %v, want ErrUnhashable", key, err)
				}
			}
		})
	}

	if _, err := HashValue(math.NaN()); !errors.Is(err, ErrUnhashable) {
		t.Errorf("HashValue(NaN) error = %v, want ErrUnhashable", err)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:1:")
	p := testPictograph(0)

	got, err := scoped.PlacementKey(p, nil, KeyOpts{})
	want, _ := inner.PlacementKey(p, nil, KeyOpts{})
	if mustKey(t, got, err) != "tenant:1:"+want {
		t.Errorf("PlacementKey = %q, want %q", got, "tenant:1:"+want)
	}
	seq := pictograph.Sequence{Beats: []pictograph.Beat{{Number: 1, Pictograph: p}}}
	if got, err := scoped.SequenceKey(seq, KeyOpts{}); !strings.HasPrefix(mustKey(t, got, err), "tenant:1:sequence:") {
		t.Errorf("SequenceKey = %q", got)
	}
	if got, err := NewScopedKeyer(nil, "x:").PlacementKey(p, nil, KeyOpts{}); !strings.HasPrefix(mustKey(t, got, err), "x:placement:") {
		t.Errorf("nil inner key = %q", got)
	}
	if NewScopedKeyer(inner, "") != inner {
		t.Error("empty prefix should return the inner keyer")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if IsRetryable(ErrUnknownBackend) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v calls %d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error { calls++; return ErrUnknownBackend })
	if err != ErrUnknownBackend || calls != 1 {
		t.Errorf("non-retryable: err %v calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error { calls++; return Retryable(ErrNetwork) })
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, 3, time.Second, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
