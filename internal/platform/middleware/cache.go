package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/lumina-storefront/pkg/logger"
)

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL       time.Duration // Default cache TTL
	CacheableMethods []string      // HTTP methods to cache
	CacheableStatus  []int         // HTTP status codes to cache
	Prefix           string
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:       time.Minute,
		CacheableMethods: []string{http.MethodGet, http.MethodHead},
		CacheableStatus:  []int{http.StatusOK, http.StatusNotFound},
		Prefix:           "cache",
	}
}

// Cache caches JSON responses of read-only endpoints in Redis. A nil client
// disables caching.
func Cache(redisClient *redis.Client, config CacheConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if redisClient == nil || !slices.Contains(config.CacheableMethods, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey := generateCacheKey(config.Prefix, r)

			if entry, ok := lookup(ctx, redisClient, cacheKey); ok {
				logger.Debug(ctx).
					Str("path", r.URL.Path).
					Str("cache_key", cacheKey).
					Int("status", entry.Status).
					Msg("Cache hit")

				w.Header().Set("X-Cache", "HIT")
				w.Header().Set("Content-Type", entry.ContentType)
				w.WriteHeader(entry.Status)
				_, _ = w.Write(entry.Body)
				return
			}

			rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if !slices.Contains(config.CacheableStatus, rec.status) || rec.body.Len() == 0 {
				return
			}

			payload, err := json.Marshal(cachedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				return
			}

			// The response is already sent; store it without holding the request.
			storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			if err := redisClient.Set(storeCtx, cacheKey, payload, config.DefaultTTL).Err(); err != nil {
				logger.Warn(ctx).
					Err(err).
					Str("cache_key", cacheKey).
					Msg("Failed to cache response")
				return
			}

			logger.Debug(ctx).
				Str("path", r.URL.Path).
				Str("cache_key", cacheKey).
				Dur("ttl", config.DefaultTTL).
				Int("size", rec.body.Len()).
				Msg("Response cached")
		})
	}
}

// cachedResponse is the stored form of a response. The status is kept so a
// cached 404 is replayed as a 404.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// lookup returns the cached response under key. Missing or unreadable
// entries are a miss.
func lookup(ctx context.Context, redisClient *redis.Client, key string) (cachedResponse, bool) {
	raw, err := redisClient.Get(ctx, key).Bytes()
	if err != nil || len(raw) == 0 {
		return cachedResponse{}, false
	}
	var entry cachedResponse
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Status == 0 {
		return cachedResponse{}, false
	}
	if entry.ContentType == "" {
		entry.ContentType = "application/json"
	}
	return entry, true
}

// bodyRecorder passes the response through while keeping a copy of the body.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// generateCacheKey hashes method, path and query into a cache key
func generateCacheKey(prefix string, r *http.Request) string {
	keyComponents := fmt.Sprintf("%s:%s:%s", r.Method, r.URL.Path, r.URL.Query().Encode())
	hash := sha256.Sum256([]byte(keyComponents))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// InvalidateCache deletes every key matching pattern
func InvalidateCache(ctx context.Context, redisClient *redis.Client, pattern string) error {
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}

		logger.Info(ctx).
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}

	return nil
}
