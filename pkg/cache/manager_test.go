package cache

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client. Unit tests use a local
// Redis on a dedicated DB and skip when none is available; the
// integration suite covers the containerized path.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func testEntry(ttl time.Duration) *Entry {
	return &Entry{
		Data:       []byte(`{"id": "a1", "url": "https://img.example/a1.jpg"}`),
		ETag:       `"abc123"`,
		Expires:    time.Now().Add(ttl),
		StatusCode: 200,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		CachedAt:   time.Now(),
	}
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil redis client")
		}
	}()
	NewManager(nil)
}

func TestManager_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	key := Key{Collection: "photos", RecordID: "a1"}
	entry := testEntry(5 * time.Minute)

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %q, want %q", got.Data, entry.Data)
	}
	if got.ETag != entry.ETag {
		t.Errorf("ETag = %q, want %q", got.ETag, entry.ETag)
	}
}

func TestManager_GetMiss(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client)

	_, err := manager.Get(context.Background(), Key{Collection: "photos", RecordID: "missing"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get on missing key returned %v, want ErrCacheMiss", err)
	}
}

func TestManager_ExpiredEntryNotCached(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	key := Key{Collection: "photos", RecordID: "stale"}

	// An already-expired entry is silently dropped by Set.
	if err := manager.Set(ctx, key, testEntry(-time.Minute)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get returned %v, want ErrCacheMiss", err)
	}
}

func TestManager_Delete(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	key := Key{Collection: "photos", RecordID: "a1"}
	if err := manager.Set(ctx, key, testEntry(5*time.Minute)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete returned %v, want ErrCacheMiss", err)
	}
}

func TestManager_UpdateTTL(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	key := Key{Collection: "photos", RecordID: "a1"}
	if err := manager.Set(ctx, key, testEntry(time.Minute)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	newExpires := time.Now().Add(10 * time.Minute)
	if err := manager.UpdateTTL(ctx, key, newExpires); err != nil {
		t.Fatalf("UpdateTTL failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TTL() <= 5*time.Minute {
		t.Errorf("TTL() = %v after refresh, want > 5 minutes", got.TTL())
	}
}
