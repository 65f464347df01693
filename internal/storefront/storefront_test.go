package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/internal/catalog/repository"
	"github.com/tair/lumina-storefront/internal/events"
	"github.com/tair/lumina-storefront/internal/profile"
	"github.com/tair/lumina-storefront/internal/session"
)

type stubAuth struct {
	grant *session.Grant
	err   error
}

func (s stubAuth) Login(context.Context, string, string) (*session.Grant, error) {
	return s.grant, s.err
}

func (s stubAuth) Register(context.Context, string, string, string) (*session.Grant, error) {
	return s.grant, s.err
}

type echoResponder struct{}

func (echoResponder) Ask(_ context.Context, message string) (string, error) {
	return "re: " + message, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CartEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.CartEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

var admin = session.User{ID: 2, Name: "Admin User", Email: "admin@lumina.com", Role: session.RoleAdmin}

func testDeps(publisher events.Publisher, user *session.User) Deps {
	auth := stubAuth{err: session.ErrInvalidCredentials}
	if user != nil {
		auth = stubAuth{grant: &session.Grant{User: *user, Token: "tok"}}
	}
	return Deps{
		Catalog:   repository.NewMemoryCatalogRepository(),
		Auth:      auth,
		Store:     session.NewMemoryStore(),
		Publisher: publisher,
		Responder: echoResponder{},
		Debounce:  time.Millisecond,
	}
}

func newTestState(t *testing.T, deps Deps) *State {
	t.Helper()
	s := NewState(context.Background(), "s-1", deps)
	t.Cleanup(s.Close)
	return s
}

func TestStateCartPublishesEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := newTestState(t, testDeps(pub, nil))

	snap, err := s.AddToCart(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Count)
	assert.True(t, decimal.RequireFromString("259.98").Equal(snap.Subtotal))

	s.UpdateQuantity(ctx, 1, -5)
	assert.Equal(t, 1, s.CartCount())

	snap = s.SaveForLater(ctx, 1)
	assert.Zero(t, snap.Count)
	require.Len(t, snap.Saved, 1)

	snap = s.MoveToCart(ctx, 1)
	assert.Equal(t, 1, snap.Count)
	assert.Empty(t, snap.Saved)

	s.RemoveFromCart(ctx, 1)
	s.RemoveFromCart(ctx, 1)
	s.RemoveSaved(ctx, 99)

	assert.Equal(t, []string{
		events.EventTypeItemAdded,
		events.EventTypeQuantityChanged,
		events.EventTypeItemSaved,
		events.EventTypeItemMovedToCart,
		events.EventTypeItemRemoved,
	}, pub.types())
	for _, e := range pub.events {
		assert.Equal(t, "s-1", e.SessionID)
	}
}

func TestStateMoveToCartCountsOneUnit(t *testing.T) {
	ctx := context.Background()
	popularity := events.NewPopularity()
	s := newTestState(t, testDeps(popularity.Local(), nil))

	_, err := s.AddToCart(ctx, 2, 3)
	require.NoError(t, err)
	s.SaveForLater(ctx, 2)
	snap := s.MoveToCart(ctx, 2)
	assert.Equal(t, 1, snap.Count)

	top := popularity.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, 3+1, top[0].Added)
	assert.Equal(t, 1, top[0].Saved)
}

func TestStateAddUnknownProduct(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestState(t, testDeps(pub, nil))

	_, err := s.AddToCart(context.Background(), 404, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Zero(t, s.CartCount())
	assert.Empty(t, pub.types())
}

func TestStateEventsCarrySignedInUser(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := newTestState(t, testDeps(pub, &admin))

	_, err := s.Session.Login(ctx, admin.Email, "password")
	require.NoError(t, err)

	_, err = s.AddToCart(ctx, 3, 1)
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.EqualValues(t, 2, pub.events[0].UserID)
}

func TestStateRequireUserAndAuthorize(t *testing.T) {
	ctx := context.Background()
	s := newTestState(t, testDeps(nil, &admin))

	_, err := s.RequireUser(ctx)
	assert.ErrorIs(t, err, ErrSignedOut)
	assert.Equal(t, session.RouteLogin, s.Authorize(ctx, "/admin").Redirect)

	_, err = s.Session.Login(ctx, admin.Email, "password")
	require.NoError(t, err)

	u, err := s.RequireUser(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.True(t, s.Authorize(ctx, "/admin").Allowed)

	summary := s.Describe(ctx)
	assert.Equal(t, "s-1", summary.SessionID)
	assert.Equal(t, admin.Email, summary.User.Email)
}

func TestStateProfileBooks(t *testing.T) {
	s := newTestState(t, testDeps(nil, nil))

	created, err := s.CreateAddress(profile.Address{Street: "1 Main St", City: "Austin", Default: true})
	require.NoError(t, err)

	defaults := 0
	for _, a := range s.Addresses() {
		if a.Default {
			defaults++
			assert.Equal(t, created.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	require.NoError(t, s.DeleteAddress(created.ID))
	assert.ErrorIs(t, s.DeleteAddress(created.ID), profile.ErrNotFound)

	_, err = s.CreatePayment(profile.PaymentMethod{Network: profile.NetworkVisa, Last4: "12"})
	assert.ErrorIs(t, err, profile.ErrInvalidLast4)

	listing, err := s.CreateListing(profile.ListingInput{Name: "Lamp", Price: 20, Description: "Vintage"})
	require.NoError(t, err)
	assert.Greater(t, listing.ID, uint(100000))
	require.NoError(t, s.DeleteListing(listing.ID))
	assert.Empty(t, s.Listings())

	assert.Len(t, s.Orders(), 3)
}

func TestStateBrowseUsesCatalog(t *testing.T) {
	s := newTestState(t, testDeps(nil, nil))

	s.Browse.SetFilters(context.Background(), domain.FilterSpec{Category: domain.CategoryElectronics})
	view, err := s.Browse.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, view.Result.Total)
}

func TestRegistryGetIsLazyAndStable(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(testDeps(nil, nil), time.Hour, nil)
	t.Cleanup(r.Close)

	a := r.Get(ctx, "a")
	assert.Same(t, a, r.Get(ctx, "a"))
	assert.NotSame(t, a, r.Get(ctx, "b"))
	assert.Equal(t, 2, r.Len())

	_, ok := r.Lookup("c")
	assert.False(t, ok)
}

func TestRegistryCreationDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	deps := testDeps(nil, nil)
	deps.Catalog = repository.NewMemoryCatalogRepository(repository.WithLatency(300 * time.Millisecond))

	r := NewRegistry(deps, time.Hour, nil)
	t.Cleanup(r.Close)
	existing := r.Get(ctx, "existing")

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		r.Get(ctx, "newcomer")
		close(done)
	}()
	<-started
	time.Sleep(50 * time.Millisecond)

	begin := time.Now()
	assert.Same(t, existing, r.Get(ctx, "existing"))
	assert.Less(t, time.Since(begin), 100*time.Millisecond)

	<-done
	assert.Equal(t, 2, r.Len())
}

func TestRegistryConcurrentGetSharesState(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(testDeps(nil, nil), time.Hour, nil)
	t.Cleanup(r.Close)

	const workers = 8
	got := make([]*State, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = r.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	r := NewRegistry(testDeps(nil, nil), time.Minute, nil)
	r.now = func() time.Time { return now }
	t.Cleanup(r.Close)

	r.Get(ctx, "old")
	now = now.Add(50 * time.Second)
	r.Get(ctx, "new")

	assert.Zero(t, r.Evict(now))
	assert.Equal(t, 1, r.Evict(now.Add(30*time.Second)))

	_, ok := r.Lookup("old")
	assert.False(t, ok)
	_, ok = r.Lookup("new")
	assert.True(t, ok)
}

func TestRegistryGauges(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	r := NewRegistry(testDeps(nil, nil), time.Hour, reg)
	t.Cleanup(r.Close)

	_, err := r.Get(ctx, "a").AddToCart(ctx, 1, 2)
	require.NoError(t, err)
	_, err = r.Get(ctx, "b").AddToCart(ctx, 2, 1)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, r.CartItems())

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		values[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
	}
	assert.Equal(t, 2.0, values["storefront_active_sessions"])
	assert.Equal(t, 3.0, values["storefront_cart_items"])
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	deps := testDeps(nil, nil)
	popularity := events.NewPopularity()
	deps.Publisher = popularity.Local()

	r := NewRegistry(deps, time.Hour, nil)
	t.Cleanup(r.Close)
	d := NewDashboard(deps.Catalog, popularity, r)

	s := r.Get(ctx, "a")
	_, err := s.AddToCart(ctx, 2, 3)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, 5, 1)
	require.NoError(t, err)

	stats, err := d.Stats(ctx, s)
	require.NoError(t, err)

	assert.True(t, profile.Revenue(s.Orders()).Equal(stats.Revenue))
	assert.Equal(t, 3+profile.ArchivedOrders, stats.Orders)
	assert.Equal(t, profile.DemoAccounts+profile.ArchivedAccounts, stats.Users)
	assert.EqualValues(t, 8, stats.Products)
	assert.EqualValues(t, 1, stats.OutOfStock)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 4, stats.CartItems)

	require.Len(t, stats.PopularProducts, 2)
	assert.EqualValues(t, 2, stats.PopularProducts[0].ProductID)
	assert.Equal(t, "Urban Noise-Cancelling Headphones", stats.PopularProducts[0].Name)
	assert.Equal(t, 3, stats.PopularProducts[0].Added)
}
