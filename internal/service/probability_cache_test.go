package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockRedisKVClient struct {
	lastGetKey string
	lastSetKey string
	lastSetVal interface{}
	lastSetTTL time.Duration

	getVal string
	getErr error
	setErr error
}

func (m *mockRedisKVClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.lastGetKey = key
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	cmd.SetVal(m.getVal)
	return cmd
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetVal = value
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func TestMemoryProbabilityCache_Basics(t *testing.T) {
	cache := NewMemoryProbabilityCache()
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("expected miss, got %v,%v", ok, err)
	}

	if err := cache.Set(ctx, "k1", 0.62, 50*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	p, ok, err := cache.Get(ctx, "k1")
	if err != nil || !ok || p != 0.62 {
		t.Fatalf("expected hit 0.62, got %v,%v,%v", p, ok, err)
	}

	time.Sleep(70 * time.Millisecond)
	_, ok, err = cache.Get(ctx, "k1")
	if err != nil || ok {
		t.Fatalf("expected expired entry, got %v,%v", ok, err)
	}

	if err := cache.Set(ctx, "  ", 0.1, time.Minute); err != nil {
		t.Fatalf("empty key set should be no-op, got %v", err)
	}
}

func TestMemoryProbabilityCache_SweepsExpired(t *testing.T) {
	cache := NewMemoryProbabilityCache().(*memoryProbabilityCache)
	cache.sweepEvery = 200 * time.Millisecond
	cache.lastSweep = time.Now().UTC()
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("digest:%d", i), 0.5, 10*time.Millisecond); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	if len(cache.items) != 500 {
		t.Fatalf("expected 500 entries, got %d", len(cache.items))
	}

	time.Sleep(250 * time.Millisecond)
	if err := cache.Set(ctx, "digest:fresh", 0.7, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if len(cache.items) != 1 {
		t.Fatalf("expected expired entries swept, got %d", len(cache.items))
	}
}

func TestRedisProbabilityCache_Mock(t *testing.T) {
	mock := &mockRedisKVClient{getVal: "0.45"}
	cache := &redisProbabilityCache{client: mock, prefix: "score:proba:"}
	ctx := context.Background()

	if err := cache.Set(ctx, "abc", 0.45, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.lastSetKey != "score:proba:abc" || mock.lastSetVal != "0.45" {
		t.Fatalf("unexpected set: %q=%v", mock.lastSetKey, mock.lastSetVal)
	}
	if mock.lastSetTTL <= 0 {
		t.Fatalf("expected positive TTL fallback, got %v", mock.lastSetTTL)
	}

	p, ok, err := cache.Get(ctx, "abc")
	if err != nil || !ok || p != 0.45 {
		t.Fatalf("expected hit 0.45, got %v,%v,%v", p, ok, err)
	}
	if mock.lastGetKey != "score:proba:abc" {
		t.Fatalf("unexpected get key %q", mock.lastGetKey)
	}
}

func TestRedisProbabilityCache_ErrorPaths(t *testing.T) {
	ctx := context.Background()

	miss := &redisProbabilityCache{client: &mockRedisKVClient{getErr: redis.Nil}, prefix: "p:"}
	if _, ok, err := miss.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("redis.Nil should be a clean miss, got %v,%v", ok, err)
	}

	down := &redisProbabilityCache{client: &mockRedisKVClient{getErr: errors.New("down"), setErr: errors.New("down")}, prefix: "p:"}
	if _, _, err := down.Get(ctx, "k"); err == nil {
		t.Fatalf("expected get error")
	}
	if err := down.Set(ctx, "k", 0.5, time.Minute); err == nil {
		t.Fatalf("expected set error")
	}

	garbage := &redisProbabilityCache{client: &mockRedisKVClient{getVal: "not-a-float"}, prefix: "p:"}
	if _, _, err := garbage.Get(ctx, "k"); err == nil {
		t.Fatalf("expected parse error")
	}

	if _, ok, err := down.Get(ctx, ""); ok || err != nil {
		t.Fatalf("empty key should be a miss, got %v,%v", ok, err)
	}
}

func TestRedisProbabilityCache_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisProbabilityCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "digest:fp", 0.7125, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !mr.Exists("score:proba:digest:fp") {
		t.Fatalf("expected key in redis")
	}
	p, ok, err := cache.Get(ctx, "digest:fp")
	if err != nil || !ok || p != 0.7125 {
		t.Fatalf("expected hit, got %v,%v,%v", p, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "digest:fp"); ok {
		t.Fatalf("expected key to expire")
	}

	if NewRedisProbabilityCache(nil) != nil {
		t.Fatalf("expected nil cache for nil client")
	}
}
