package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Devuelve {contador, ms restantes de la ventana}.
const chatRateScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`

// chatRateTimeout acota la consulta a Redis para no demorar la apertura del stream.
const chatRateTimeout = 500 * time.Millisecond

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

// NewRedisRateLimiter comparte el contador de requests de chat entre replicas.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int) RateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "chat:rl:",
	}
}

// Allow deja pasar el request si Redis falla: el limite protege la cuota del
// proveedor, no es un control de acceso.
func (l *redisRateLimiter) Allow(ctx context.Context, key string) RateDecision {
	if l == nil || l.client == nil {
		return RateDecision{Allowed: true}
	}
	ctx, cancel := context.WithTimeout(ctx, chatRateTimeout)
	defer cancel()

	count, ttl, err := l.incr(ctx, l.prefix+key)
	if err != nil {
		return RateDecision{Allowed: true}
	}
	if count <= int64(l.max) {
		return RateDecision{Allowed: true}
	}
	if ttl <= 0 {
		ttl = l.window
	}
	return RateDecision{RetryAfter: ttl}
}

func (l *redisRateLimiter) incr(ctx context.Context, redisKey string) (int64, time.Duration, error) {
	vals, err := l.client.Eval(ctx, chatRateScript, []string{redisKey}, l.window.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate script reply: %v", vals)
	}
	count, ok := vals[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate counter type %T", vals[0])
	}
	pttl, _ := vals[1].(int64)
	return count, time.Duration(pttl) * time.Millisecond, nil
}
