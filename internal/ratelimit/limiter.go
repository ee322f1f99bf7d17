// Package ratelimit guards the public submission endpoint with a Redis-backed
// fixed-window limiter, so the counter survives restarts and is shared across
// replicas.
package ratelimit

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts hits per key within a fixed window.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit hits per window.
func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow records one hit for key and reports whether it stays within the
// limit. Redis errors fail open: agreement submissions must not depend on the
// limiter being reachable.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	k := "ratelimit:" + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		log.Printf("ratelimit: counting %s failed, allowing request: %v", key, err)
		return true
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			log.Printf("ratelimit: setting window for %s failed: %v", key, err)
		}
	}
	return n <= int64(l.limit)
}

// Middleware limits requests by client IP. RealIP middleware must run earlier
// in the chain so RemoteAddr reflects the actual client behind a proxy.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.Allow(r.Context(), ip) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
