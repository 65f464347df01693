// Package health reports the state of a service and its downstream
// dependencies.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tair/lumina-storefront/internal/platform/breaker"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Probe checks one dependency. A nil error means healthy.
type Probe func(ctx context.Context) error

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the overall health of a service.
type Report struct {
	Service       string                 `json:"service"`
	Status        string                 `json:"status"`
	Checks        map[string]CheckResult `json:"checks"`
	UptimeSeconds float64                `json:"uptime_seconds"`
}

type namedProbe struct {
	name  string
	probe Probe
}

// Checker runs the registered probes concurrently.
type Checker struct {
	service   string
	timeout   time.Duration
	startTime time.Time

	mu     sync.RWMutex
	probes []namedProbe
}

// NewChecker creates a checker whose probes each get timeout to answer.
func NewChecker(service string, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Checker{service: service, timeout: timeout, startTime: time.Now()}
}

// Add registers a probe under name.
func (c *Checker) Add(name string, probe Probe) *Checker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes = append(c.probes, namedProbe{name: name, probe: probe})
	return c
}

// Check runs every probe and summarises them.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	probes := append([]namedProbe(nil), c.probes...)
	c.mu.RUnlock()

	results := make([]CheckResult, len(probes))

	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			results[i] = c.run(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]CheckResult, len(results))
	for _, r := range results {
		checks[r.Name] = r
	}

	return Report{
		Service:       c.service,
		Status:        overallStatus(results),
		Checks:        checks,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
}

func (c *Checker) run(ctx context.Context, p namedProbe) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := p.probe(ctx)

	result := CheckResult{
		Name:      p.name,
		Status:    StatusHealthy,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: time.Now(),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		logger.Warn(ctx).
			Str("dependency", p.name).
			Err(err).
			Msg("Health check failed")
	}
	return result
}

// overallStatus is healthy when every probe passes, unhealthy when all fail,
// degraded otherwise.
func overallStatus(results []CheckResult) string {
	healthy := 0
	for _, r := range results {
		if r.Status == StatusHealthy {
			healthy++
		}
	}

	switch {
	case healthy == len(results):
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	}
	return StatusUnhealthy
}

// Handler serves the report. Only an unhealthy service answers 503.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Check(r.Context())

		status := http.StatusOK
		if report.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		web.RespondJSON(w, status, report)
	}
}

// RedisProbe pings Redis.
func RedisProbe(client *redis.Client) Probe {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// SQLProbe pings a database.
func SQLProbe(db *sql.DB) Probe {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}

// HTTPProbe expects 200 from url.
func HTTPProbe(client *http.Client, url string) Probe {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to reach service: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil
	}
}

// BreakerProbe fails while the circuit breaker is open.
func BreakerProbe(b *breaker.Breaker) Probe {
	return func(context.Context) error {
		if s := b.State(); s == breaker.StateOpen {
			return fmt.Errorf("circuit %s", s)
		}
		return nil
	}
}
