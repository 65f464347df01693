package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})
}

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestQuota(t *testing.T) {
	tests := []struct {
		count         int64
		max           int
		wantAllowed   bool
		wantRemaining int
	}{
		{0, 3, true, 2},
		{2, 3, true, 0},
		{3, 3, false, 0},
		{10, 3, false, 0},
	}

	for _, tt := range tests {
		allowed, remaining := quota(tt.count, tt.max)
		assert.Equal(t, tt.wantAllowed, allowed)
		assert.Equal(t, tt.wantRemaining, remaining)
	}
}

func TestRateLimiterDisabledWithoutRedis(t *testing.T) {
	calls := 0
	h := NewRateLimiter(nil, 1, time.Minute).Middleware(okHandler(&calls))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 3, calls)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	calls := 0
	h := NewRateLimiter(unreachableRedis(t), 1, time.Minute).Middleware(okHandler(&calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestIdentifier(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "ip:10.0.0.7", Identifier(r))

	r.Header.Set(SessionHeader, "abc")
	assert.Equal(t, "ip:10.0.0.7", Identifier(r), "session header does not change the identity")
}

func TestRateLimiterLimitsPerClientIP(t *testing.T) {
	_, client := testRedis(t)
	calls := 0
	h := NewRateLimiter(client, 2, time.Minute).Middleware(okHandler(&calls))

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.7:5123"
		req.Header.Set(SessionHeader, fmt.Sprintf("session-%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if i == 0 {
			assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
		}
	}

	assert.Equal(t, []int{200, 200, 429, 429, 429}, codes)
	assert.Equal(t, 2, calls)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = "10.0.0.8:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other clients keep their own budget")
}

func TestCachePassThrough(t *testing.T) {
	calls := 0
	h := Cache(nil, DefaultCacheConfig())(okHandler(&calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, `{"success":true}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))

	h = Cache(unreachableRedis(t), DefaultCacheConfig())(okHandler(&calls))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"success":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", nil))
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls)
}

func TestCacheKeyIgnoresQueryOrder(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/api/products?category=Home&page=2", nil)
	b := httptest.NewRequest(http.MethodGet, "/api/products?page=2&category=Home", nil)
	c := httptest.NewRequest(http.MethodGet, "/api/products?page=3&category=Home", nil)

	assert.Equal(t, generateCacheKey("cache", a), generateCacheKey("cache", b))
	assert.NotEqual(t, generateCacheKey("cache", a), generateCacheKey("cache", c))
	assert.Contains(t, generateCacheKey("cache", a), "cache:")
}

func TestTracingSetsTraceHeader(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	calls := 0
	h := Tracing("storefront", otelhttp.WithTracerProvider(tp))(okHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(SessionHeader, "s-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Len(t, rec.Header().Get("X-Trace-Id"), 32)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/cart", spans[0].Name)
}

func TestCacheReplaysStatusOnHit(t *testing.T) {
	_, client := testRedis(t)

	calls := 0
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Product not found"}`))
	})
	h := Cache(client, DefaultCacheConfig())(notFound)

	for i, want := range []string{"MISS", "HIT"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/404", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, "request %d", i+1)
		assert.Equal(t, want, rec.Header().Get("X-Cache"))
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":false,"error":"Product not found"}`, rec.Body.String())
	}
	assert.Equal(t, 1, calls)
}

func TestCacheHitServesStoredBody(t *testing.T) {
	mr, client := testRedis(t)

	calls := 0
	cfg := DefaultCacheConfig()
	cfg.DefaultTTL = time.Minute
	h := Cache(client, cfg)(okHandler(&calls))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?page=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"success":true}`, rec.Body.String())
	}
	assert.Equal(t, 1, calls)
	assert.Len(t, mr.Keys(), 1)

	mr.FastForward(2 * time.Minute)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?page=1", nil))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestCacheSkipsUncacheableStatus(t *testing.T) {
	mr, client := testRedis(t)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false}`))
	})
	rec := httptest.NewRecorder()
	Cache(client, DefaultCacheConfig())(failing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, mr.Keys())
}
