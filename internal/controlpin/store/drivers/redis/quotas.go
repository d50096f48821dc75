// Package redis implements the quota backend on top of a shared redis
// deployment, so every replica of the service counts attempts in one place.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/go-redis/redis/v8"
)

const DefaultKeyPrefix = "controlpin:quota:"

var errUnexpectedReply = errors.New("redis: unexpected quota script reply")

// consumeScript applies the fixed window rule in a single round trip. Redis
// runs scripts atomically, which makes check-then-increment a critical
// section across replicas. Times are unix milliseconds supplied by the caller.
var consumeScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

local state = redis.call('HMGET', KEYS[1], 'start', 'count')
local start = tonumber(state[1])
local count = tonumber(state[2]) or 0

if start == nil or now >= start + window then
	start = now
	count = 0
end

local remaining = start + window - now
if count >= max then
	return {0, remaining}
end

count = count + 1
redis.call('HSET', KEYS[1], 'start', start, 'count', count)
redis.call('PEXPIRE', KEYS[1], remaining)
return {1, 0}
`)

// Options mirrors the subset of redis.UniversalOptions the service exposes.
type Options struct {
	Addrs     []string
	Password  string
	DB        int
	KeyPrefix string
}

type Quotas struct {
	client redis.UniversalClient
	prefix string
}

// NewQuotas connects to redis and verifies the connection.
func NewQuotas(ctx context.Context, opts Options) (*Quotas, error) {
	if len(opts.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    opts.Addrs,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis (addrs: %v): %w", opts.Addrs, err)
	}

	return NewQuotasFromClient(client, opts.KeyPrefix), nil
}

// NewQuotasFromClient wraps an existing client.
func NewQuotasFromClient(client redis.UniversalClient, prefix string) *Quotas {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Quotas{client: client, prefix: prefix}
}

func (q *Quotas) Consume(ctx context.Context, key string, now time.Time, window time.Duration, max int) (domain.Decision, error) {
	reply, err := consumeScript.Run(ctx, q.client,
		[]string{q.prefix + key},
		now.UnixMilli(), window.Milliseconds(), max,
	).Slice()
	if err != nil {
		return domain.Decision{}, fmt.Errorf("redis: consume quota: %w", err)
	}
	if len(reply) != 2 {
		return domain.Decision{}, errUnexpectedReply
	}

	allowed, ok1 := reply[0].(int64)
	remaining, ok2 := reply[1].(int64)
	if !ok1 || !ok2 {
		return domain.Decision{}, errUnexpectedReply
	}

	if allowed == 1 {
		return domain.Allow(), nil
	}
	return domain.Deny(time.Duration(remaining) * time.Millisecond), nil
}

// Prune is a no-op, every window key carries a PEXPIRE matching its end.
func (q *Quotas) Prune(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	return 0, nil
}

func (q *Quotas) Ping(ctx context.Context) error { return q.client.Ping(ctx).Err() }

func (q *Quotas) Close() error { return q.client.Close() }
