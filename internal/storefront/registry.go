package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/lumina-storefront/pkg/logger"
)

// Registry holds the state of every live session. States are created on first
// use and dropped after idleTTL without a request.
type Registry struct {
	deps    Deps
	idleTTL time.Duration
	now     func() time.Time

	mu     sync.Mutex
	states map[string]*State
}

// NewRegistry creates a registry and registers its gauges on reg. A nil reg
// skips metrics.
func NewRegistry(deps Deps, idleTTL time.Duration, reg prometheus.Registerer) *Registry {
	r := &Registry{
		deps:    deps,
		idleTTL: idleTTL,
		now:     time.Now,
		states:  make(map[string]*State),
	}

	if reg != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "storefront_active_sessions",
				Help: "Number of sessions with live state",
			}, func() float64 { return float64(r.Len()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "storefront_cart_items",
				Help: "Total quantity sitting in carts across live sessions",
			}, func() float64 { return float64(r.CartItems()) }),
		)
	}
	return r
}

// Get returns the state of session id, creating it if needed, and marks it
// as recently used.
func (r *Registry) Get(ctx context.Context, id string) *State {
	s, ok := r.Lookup(id)
	if !ok {
		s = r.create(ctx, id)
	}
	s.touch(r.now())
	return s
}

// create builds the state outside the lock, since building it reads the
// catalog and the session store. When another request created the same
// session meanwhile, its state wins and ours is closed.
func (r *Registry) create(ctx context.Context, id string) *State {
	fresh := NewState(ctx, id, r.deps)

	r.mu.Lock()
	s, ok := r.states[id]
	if !ok {
		r.states[id] = fresh
	}
	r.mu.Unlock()

	if ok {
		fresh.Close()
		return s
	}
	logger.Debug(ctx).Str("session_id", id).Msg("Session state created")
	return fresh
}

// Lookup returns the state of session id without creating it.
func (r *Registry) Lookup(id string) (*State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[id]
	return s, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// CartItems sums the cart counts of every live session.
func (r *Registry) CartItems() int {
	total := 0
	for _, s := range r.snapshot() {
		total += s.CartCount()
	}
	return total
}

// Evict closes and drops every state idle since before now-idleTTL and
// returns how many were dropped. A non-positive idleTTL disables eviction.
func (r *Registry) Evict(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTTL)

	var stale []*State
	r.mu.Lock()
	for id, s := range r.states {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(r.states, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(r.now()); n > 0 {
				logger.Info(ctx).Int("evicted", n).Int("active", r.Len()).Msg("Evicted idle sessions")
			}
		}
	}
}

// Close drops every state.
func (r *Registry) Close() {
	r.mu.Lock()
	states := r.states
	r.states = make(map[string]*State)
	r.mu.Unlock()

	for _, s := range states {
		s.Close()
	}
}

func (r *Registry) snapshot() []*State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*State, 0, len(r.states))
	for _, s := range r.states {
		out = append(out, s)
	}
	return out
}
