package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/MarketplaceGo/pkg/logger"
)

// ResponseCache serves successful GET responses from Redis for a short TTL.
// Cache failures are never fatal; the request just falls through to the
// handler.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewResponseCache creates a cache with the given TTL and key prefix.
func NewResponseCache(client *redis.Client, ttl time.Duration, prefix string) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *ResponseCache) key(r *http.Request) string {
	return c.prefix + ":" + r.URL.Path + "?" + r.URL.RawQuery
}

// Middleware caches GET responses with a 2xx status. Responses to any other
// method or status bypass the cache entirely.
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || c.client == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := c.key(r)
		if body, err := c.client.Get(r.Context(), key).Bytes(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(body)
			return
		}

		buf := &bytes.Buffer{}
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(buf)
		w.Header().Set("X-Cache", "MISS")

		next.ServeHTTP(ww, r)

		if ww.Status() == http.StatusOK {
			if err := c.client.Set(r.Context(), key, buf.Bytes(), c.ttl).Err(); err != nil {
				logger.FromContext(r.Context()).Warn("response cache write failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
	})
}

// Invalidate removes every cached entry under the cache prefix. Used after
// writes that change listed data.
func (c *ResponseCache) Invalidate(r *http.Request) {
	if c.client == nil {
		return
	}

	ctx := r.Context()
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.FromContext(ctx).Warn("cache invalidation failed",
				slog.String("key", iter.Val()),
				slog.String("error", err.Error()),
			)
		}
	}
}
