package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/redis/go-redis/v9"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		signature string
		want      string
	}{
		{signature: "categories", want: "toolhub:cache:categories"},
		{signature: "tools_1_20", want: "toolhub:cache:tools_1_20"},
	}

	for _, tt := range tests {
		t.Run(tt.signature, func(t *testing.T) {
			key := CacheKey(tt.signature)
			if key != tt.want {
				t.Errorf("CacheKey() = %q, want %q", key, tt.want)
			}
			if got := Signature(key); got != tt.signature {
				t.Errorf("Signature() = %q, want %q", got, tt.signature)
			}
		})
	}

	if got := Signature("toolhub:cache:"); got != "" {
		t.Errorf("Signature(prefix only) = %q, want empty", got)
	}
}

// newTestStore connects to the Redis named by TOOLHUB_TEST_REDIS_ADDR and
// selects a scratch database. The test is skipped when the variable is unset.
func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()

	addr := os.Getenv("TOOLHUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOOLHUB_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = client.Close() })

	s := NewStore(client, ttl, logger.Nop())
	if err := s.Ping(context.Background()); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Minute)

	if _, ok := s.Get(ctx, "categories"); ok {
		t.Fatal("Get() on empty store reported a hit")
	}

	s.Set(ctx, "categories", []byte(`[{"id":"1"}]`))
	got, ok := s.Get(ctx, "categories")
	if !ok || string(got) != `[{"id":"1"}]` {
		t.Fatalf("Get() = %s, %v", got, ok)
	}

	keys, err := s.Keys(ctx)
	if err != nil || len(keys) != 1 || keys[0] != "categories" {
		t.Fatalf("Keys() = %v, %v", keys, err)
	}

	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	if _, ok := s.Get(ctx, "categories"); ok {
		t.Error("entry survived Flush")
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 50*time.Millisecond)

	s.Set(ctx, "tools_1_20", []byte(`{}`))
	time.Sleep(120 * time.Millisecond)

	if _, ok := s.Get(ctx, "tools_1_20"); ok {
		t.Error("entry still present after TTL")
	}
}
