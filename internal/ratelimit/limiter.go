// Package ratelimit implements a fixed-window request limiter backed by the
// shared Redis cache, so the limit holds across server instances.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/linkup-social/linkup-be/internal/cache"
	"github.com/rs/zerolog/log"
)

// Limiter counts actions per source key within a fixed window using an
// atomic increment-and-expire on Redis.
type Limiter struct {
	cache  *cache.RedisCache
	action string
	limit  int64
	window time.Duration
}

// NewLimiter creates a limiter allowing at most limit actions per window.
func NewLimiter(c *cache.RedisCache, action string, limit int64, window time.Duration) *Limiter {
	return &Limiter{cache: c, action: action, limit: limit, window: window}
}

// Allow records one action for the source key and reports whether it is
// within the limit. The first hit in a window sets the window expiry.
func (l *Limiter) Allow(ctx context.Context, sourceKey string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", l.action, sourceKey)
	n, err := l.cache.IncrWithTTL(ctx, key, l.window)
	if err != nil {
		return false, err
	}
	return n <= l.limit, nil
}

// Middleware gates a route on the client IP. When Redis is unreachable the
// request is allowed through; throttling is protection, not a dependency.
func (l *Limiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.Warn().Err(err).Str("action", l.action).Msg("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"error":"too many requests, slow down"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. The chi RealIP middleware has
// already rewritten RemoteAddr from X-Forwarded-For when behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
