package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		t.Fatalf("Failed to connect to test Redis: %v", err)
	}

	t.Cleanup(func() {
		redisClient.Close()
		mr.Close()
	})
	return redisClient
}

func TestTokenBucket_Allow(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 5, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := bucket.Allow(ctx, "203.0.113.7", "login")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}

	allowed, err := bucket.Allow(ctx, "203.0.113.7", "login")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Expected request to be denied after limit reached")
	}

	remaining, err := bucket.GetRemaining(ctx, "203.0.113.7", "login")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("Expected 0 remaining tokens, got %d", remaining)
	}
}

func TestTokenBucket_SubjectsAndActionsAreIndependent(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 1, 1)
	ctx := context.Background()

	for _, tc := range []struct{ subject, action string }{
		{"203.0.113.7", "login"},
		{"203.0.113.8", "login"},
		{"203.0.113.7", "signup"},
	} {
		allowed, err := bucket.Allow(ctx, tc.subject, tc.action)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("Expected first %s for %s to be allowed", tc.action, tc.subject)
		}
	}

	allowed, err := bucket.Allow(ctx, "203.0.113.7", "login")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Expected second login from the same IP to be denied")
	}
}

func TestTokenBucket_GetRemaining(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 10, 10)
	ctx := context.Background()

	remaining, err := bucket.GetRemaining(ctx, "user-2", "offers")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 10 {
		t.Fatalf("Expected 10 remaining tokens, got %d", remaining)
	}

	for i := 0; i < 3; i++ {
		bucket.Allow(ctx, "user-2", "offers")
	}

	remaining, err = bucket.GetRemaining(ctx, "user-2", "offers")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 7 {
		t.Fatalf("Expected 7 remaining tokens, got %d", remaining)
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 5, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		bucket.Allow(ctx, "user-3", "offers")
	}

	if err := bucket.Reset(ctx, "user-3", "offers"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	remaining, err := bucket.GetRemaining(ctx, "user-3", "offers")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 5 {
		t.Fatalf("Expected 5 remaining tokens after reset, got %d", remaining)
	}
}
