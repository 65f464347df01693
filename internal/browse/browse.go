// Package browse holds the product grid state of one browser session: the
// filter spec, the current page and the latest fetched result.
//
// Every change schedules a debounced fetch. Fetches are numbered; only the
// result of the newest generation is kept and a superseded fetch has its
// context cancelled.
package browse

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/internal/session"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// DefaultDebounce is the quiet period before a fetch starts.
const DefaultDebounce = 300 * time.Millisecond

// PageSize is the number of products on one grid page.
const PageSize = domain.DefaultPageSize

// ErrClosed is returned by Wait after Close.
var ErrClosed = errors.New("browse closed")

// Fetcher loads one page for a filter spec. It must honour ctx.
type Fetcher func(ctx context.Context, spec domain.FilterSpec) (domain.Page, error)

// View is a snapshot of the grid state.
type View struct {
	Filters       domain.FilterSpec `json:"filters"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalPages    int               `json:"total_pages"`
	ActiveFilters int               `json:"active_filters"`
	Generation    uint64            `json:"generation"`
	Loading       bool              `json:"loading"`
	Result        domain.Page       `json:"result"`
	Error         string            `json:"error,omitempty"`
}

// Option configures a Browse.
type Option func(*Browse)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(b *Browse) {
		if d >= 0 {
			b.debounce = d
		}
	}
}

// Browse is safe for concurrent use.
type Browse struct {
	fetch    Fetcher
	store    session.Store
	debounce time.Duration

	mu       sync.Mutex
	filters  domain.FilterSpec
	page     int
	gen      uint64
	loading  bool
	result   domain.Page
	err      error
	timer    *time.Timer
	cancel   context.CancelFunc
	done     chan struct{}
	doneShut bool
	closed   bool
}

// New restores the persisted filters from store, falling back to the
// defaults, and schedules the first fetch.
func New(ctx context.Context, fetch Fetcher, store session.Store, opts ...Option) *Browse {
	b := &Browse{
		fetch:    fetch,
		store:    store,
		debounce: DefaultDebounce,
		filters:  restore(ctx, store),
		page:     1,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.mu.Lock()
	b.scheduleLocked()
	b.mu.Unlock()
	return b
}

func restore(ctx context.Context, store session.Store) domain.FilterSpec {
	if store == nil {
		return domain.DefaultFilterSpec()
	}

	raw, err := store.Get(ctx, session.KeyFilters)
	if err != nil {
		if !errors.Is(err, session.ErrKeyNotFound) {
			logger.Warn(ctx).Err(err).Msg("Failed to read persisted filters")
		}
		return domain.DefaultFilterSpec()
	}

	var spec domain.FilterSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		logger.Warn(ctx).Err(err).Msg("Discarding unreadable persisted filters")
		return domain.DefaultFilterSpec()
	}
	return normalize(spec)
}

// normalize drops the parts of a spec that are not filter state.
func normalize(spec domain.FilterSpec) domain.FilterSpec {
	spec.Page = nil
	spec.Limit = nil
	spec.Search = strings.TrimSpace(spec.Search)
	if spec.Category == "" {
		spec.Category = domain.CategoryAll
	}
	if spec.SortBy == "" {
		spec.SortBy = domain.SortNewest
	}
	return spec
}

// SetFilters replaces the filter spec, returns to page 1 and persists the
// spec without its search term.
func (b *Browse) SetFilters(ctx context.Context, spec domain.FilterSpec) uint64 {
	spec = normalize(spec)

	b.mu.Lock()
	b.filters = spec
	b.page = 1
	gen := b.scheduleLocked()
	b.mu.Unlock()

	b.persist(ctx, spec)
	return gen
}

// SetSearch changes only the search term and returns to page 1.
func (b *Browse) SetSearch(term string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filters.Search = strings.TrimSpace(term)
	b.page = 1
	return b.scheduleLocked()
}

// SetPage moves to page. Pages below 1 become 1.
func (b *Browse) SetPage(page int) uint64 {
	if page < 1 {
		page = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.page = page
	return b.scheduleLocked()
}

// Reset restores the default filters, clears the search and returns to page 1.
func (b *Browse) Reset(ctx context.Context) uint64 {
	return b.SetFilters(ctx, domain.DefaultFilterSpec())
}

// Snapshot returns the current state.
func (b *Browse) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Wait blocks until the newest scheduled fetch has finished, or ctx ends.
func (b *Browse) Wait(ctx context.Context) (View, error) {
	for {
		b.mu.Lock()
		if b.closed {
			v := b.viewLocked()
			b.mu.Unlock()
			return v, ErrClosed
		}
		if !b.loading {
			v := b.viewLocked()
			b.mu.Unlock()
			return v, nil
		}
		done := b.done
		b.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return b.Snapshot(), ctx.Err()
		}
	}
}

// Close stops the pending timer and cancels an in-flight fetch.
func (b *Browse) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	b.stopLocked()
	b.loading = false
	b.releaseLocked()
}

func (b *Browse) viewLocked() View {
	v := View{
		Filters:       b.filters,
		Page:          b.page,
		PageSize:      PageSize,
		TotalPages:    (b.result.Total + PageSize - 1) / PageSize,
		ActiveFilters: b.filters.ActiveFilters(),
		Generation:    b.gen,
		Loading:       b.loading,
		Result:        b.result,
	}
	if b.err != nil {
		v.Error = b.err.Error()
	}
	return v
}

// scheduleLocked starts a new generation. The previous timer is stopped, a
// fetch still in flight is cancelled and waiters are woken to re-check.
func (b *Browse) scheduleLocked() uint64 {
	if b.closed {
		return b.gen
	}

	b.stopLocked()
	b.releaseLocked()

	b.gen++
	gen := b.gen
	b.loading = true
	b.done = make(chan struct{})
	b.doneShut = false

	spec := b.filters.WithPage(b.page, PageSize)
	b.timer = time.AfterFunc(b.debounce, func() { b.run(gen, spec) })
	return gen
}

func (b *Browse) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *Browse) releaseLocked() {
	if !b.doneShut {
		close(b.done)
		b.doneShut = true
	}
}

func (b *Browse) run(gen uint64, spec domain.FilterSpec) {
	b.mu.Lock()
	if b.closed || gen != b.gen {
		b.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.mu.Unlock()

	page, err := b.fetch(ctx, spec)

	b.mu.Lock()
	defer b.mu.Unlock()
	cancel()

	if b.closed || gen != b.gen {
		logger.Debug(ctx).Uint64("generation", gen).Msg("Discarding stale browse result")
		return
	}

	b.cancel = nil
	b.loading = false
	if err != nil {
		// The previous result stays on screen.
		b.err = err
		logger.Warn(ctx).Err(err).Uint64("generation", gen).Msg("Failed to fetch products")
	} else {
		b.err = nil
		b.result = page
	}
	b.releaseLocked()
}

func (b *Browse) persist(ctx context.Context, spec domain.FilterSpec) {
	if b.store == nil {
		return
	}

	spec.Search = ""
	raw, err := json.Marshal(spec)
	if err != nil {
		return
	}
	if err := b.store.Set(ctx, session.KeyFilters, raw); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to persist filters")
	}
}
