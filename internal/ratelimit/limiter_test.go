package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, limit, time.Minute), mr
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow(ctx, "1.2.3.4"), "hit %d should be allowed", i+1)
	}
	require.False(t, l.Allow(ctx, "1.2.3.4"), "hit over the limit should be blocked")
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "1.2.3.4"))
	require.False(t, l.Allow(ctx, "1.2.3.4"))
	require.True(t, l.Allow(ctx, "5.6.7.8"), "a different client has its own window")
}

func TestAllowWindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "1.2.3.4"))
	require.False(t, l.Allow(ctx, "1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	require.True(t, l.Allow(ctx, "1.2.3.4"), "counter resets after the window")
}

func TestAllowFailsOpenWhenRedisIsDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	mr.Close()

	require.True(t, l.Allow(context.Background(), "1.2.3.4"), "redis outage must not block submissions")
}

func TestMiddlewareBlocksOverLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 2)

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/agreements", nil)
		req.RemoteAddr = "1.2.3.4:51000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusOK, do().Code)
	require.Equal(t, http.StatusOK, do().Code)

	blocked := do()
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	require.JSONEq(t, `{"error":"too many requests"}`, blocked.Body.String())
}
