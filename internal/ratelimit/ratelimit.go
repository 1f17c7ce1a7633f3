package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// allowScript refills the bucket for the elapsed time and takes one token.
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
		last_refill = now
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return allowed
`)

var remainingScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
	end
	return tokens
`)

// TokenBucket is a Redis-backed token bucket. A subject is whatever the
// caller limits on: a user id or a client IP.
type TokenBucket struct {
	redis    *redis.Client
	capacity int64
	refill   int64 // tokens added per window
	window   time.Duration
}

func NewTokenBucket(redisClient *redis.Client, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
	}
}

func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

func (tb *TokenBucket) Window() time.Duration {
	return tb.window
}

func key(subject, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

func (tb *TokenBucket) args() []interface{} {
	return []interface{}{tb.capacity, tb.refill, int64(tb.window.Seconds()), time.Now().Unix()}
}

// Allow takes a token for subject and reports whether one was available.
func (tb *TokenBucket) Allow(ctx context.Context, subject, action string) (bool, error) {
	allowed, err := allowScript.Run(ctx, tb.redis, []string{key(subject, action)}, tb.args()...).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return allowed == 1, nil
}

// GetRemaining returns the tokens left for subject without taking one.
func (tb *TokenBucket) GetRemaining(ctx context.Context, subject, action string) (int64, error) {
	remaining, err := remainingScript.Run(ctx, tb.redis, []string{key(subject, action)}, tb.args()...).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}
	return remaining, nil
}

func (tb *TokenBucket) Reset(ctx context.Context, subject, action string) error {
	return tb.redis.Del(ctx, key(subject, action)).Err()
}
