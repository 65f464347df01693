// Package storefront owns the per-browser-session application state: cart,
// saved items, product grid, chat, profile books and the signed-in user.
package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/lumina-storefront/internal/assistant"
	"github.com/tair/lumina-storefront/internal/browse"
	"github.com/tair/lumina-storefront/internal/cart"
	"github.com/tair/lumina-storefront/internal/catalog/domain"
	catalogquery "github.com/tair/lumina-storefront/internal/catalog/usecase/query"
	"github.com/tair/lumina-storefront/internal/events"
	"github.com/tair/lumina-storefront/internal/profile"
	"github.com/tair/lumina-storefront/internal/session"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// Deps are the process-wide collaborators every session state uses.
type Deps struct {
	Catalog   domain.CatalogRepository
	Auth      session.AuthClient
	Store     session.Store
	Publisher events.Publisher
	Responder assistant.Responder
	Debounce  time.Duration
}

// State is the application state of one browser session. Cart and profile
// data are guarded by mu; browse and chat guard themselves.
type State struct {
	id        string
	catalog   *catalogquery.GetProductHandler
	publisher events.Publisher

	Browse  *browse.Browse
	Chat    *assistant.Chat
	Session *session.Manager

	mu        sync.Mutex
	cart      *cart.Cart
	addresses *profile.Book[profile.Address]
	payments  *profile.Book[profile.PaymentMethod]
	listings  *profile.Listings
	orders    []profile.Order
	lastSeen  time.Time
}

// NewState builds the state of session id, restoring persisted filters and
// the signed-in user from deps.Store.
func NewState(ctx context.Context, id string, deps Deps) *State {
	store := session.Scoped(deps.Store, id)
	list := catalogquery.NewListProductsHandler(deps.Catalog)

	fetch := func(ctx context.Context, spec domain.FilterSpec) (domain.Page, error) {
		return list.Handle(ctx, catalogquery.ListProductsQuery{Filters: spec})
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	products, err := deps.Catalog.FindAll(ctx)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to load products for order history")
	}

	return &State{
		id:        id,
		catalog:   catalogquery.NewGetProductHandler(deps.Catalog),
		publisher: publisher,
		Browse:    browse.New(ctx, fetch, store, browse.WithDebounce(deps.Debounce)),
		Chat:      assistant.NewChat(deps.Responder),
		Session:   session.NewManager(deps.Auth, store),
		cart:      cart.New(),
		addresses: profile.NewAddressBook(profile.SeedAddresses()...),
		payments:  profile.NewPaymentBook(profile.SeedPayments()...),
		listings:  profile.NewListings(),
		orders:    profile.SeedOrders(products),
		lastSeen:  time.Now(),
	}
}

// ID returns the session id.
func (s *State) ID() string { return s.id }

// Close stops background work of the state.
func (s *State) Close() { s.Browse.Close() }

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// --- cart ---

// Cart returns the cart view.
func (s *State) Cart() cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// AddToCart adds qty units of a catalog product.
func (s *State) AddToCart(ctx context.Context, productID uint, qty int) (cart.Snapshot, error) {
	product, err := s.catalog.Handle(ctx, catalogquery.GetProductQuery{ID: productID})
	if err != nil {
		return cart.Snapshot{}, err
	}
	qty = max(qty, 1)

	s.mu.Lock()
	s.cart.Add(*product, qty)
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	s.publish(ctx, events.EventTypeItemAdded, productID, qty)
	return snap, nil
}

// RemoveFromCart drops a cart line. Unknown ids change nothing.
func (s *State) RemoveFromCart(ctx context.Context, productID uint) cart.Snapshot {
	s.mu.Lock()
	removed := s.cart.Remove(productID)
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	if removed {
		s.publish(ctx, events.EventTypeItemRemoved, productID, 0)
	}
	return snap
}

// UpdateQuantity changes a line's quantity by delta, flooring at 1.
func (s *State) UpdateQuantity(ctx context.Context, productID uint, delta int) cart.Snapshot {
	s.mu.Lock()
	qty, ok := s.cart.UpdateQuantity(productID, delta)
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	if ok {
		s.publish(ctx, events.EventTypeQuantityChanged, productID, qty)
	}
	return snap
}

// SaveForLater moves a cart line to the saved list.
func (s *State) SaveForLater(ctx context.Context, productID uint) cart.Snapshot {
	s.mu.Lock()
	line, ok := s.cart.SaveForLater(productID)
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	if ok {
		s.publish(ctx, events.EventTypeItemSaved, productID, line.Quantity)
	}
	return snap
}

// MoveToCart moves a saved item back into the cart.
func (s *State) MoveToCart(ctx context.Context, productID uint) cart.Snapshot {
	s.mu.Lock()
	_, ok := s.cart.MoveToCart(productID)
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	// One unit goes back to the cart whatever quantity was saved.
	if ok {
		s.publish(ctx, events.EventTypeItemMovedToCart, productID, 1)
	}
	return snap
}

// RemoveSaved drops an item from the saved list.
func (s *State) RemoveSaved(ctx context.Context, productID uint) cart.Snapshot {
	s.mu.Lock()
	removed := s.cart.RemoveSaved(productID)
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	if removed {
		s.publish(ctx, events.EventTypeSavedRemoved, productID, 0)
	}
	return snap
}

// SetCartOpen shows or hides the cart drawer.
func (s *State) SetCartOpen(open bool) cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetOpen(open)
	return s.cart.Snapshot()
}

// CartCount returns the total quantity in the cart.
func (s *State) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *State) publish(ctx context.Context, eventType string, productID uint, qty int) {
	event := events.CartEvent{
		EventType: eventType,
		SessionID: s.id,
		ProductID: productID,
		Quantity:  qty,
	}
	if u := s.Session.Current(ctx); u != nil {
		event.UserID = u.ID
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", eventType).
			Uint("product_id", productID).
			Msg("Failed to publish cart event")
	}
}

// --- profile ---

// Addresses lists the address book.
func (s *State) Addresses() []profile.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.List()
}

func (s *State) CreateAddress(a profile.Address) (profile.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.Create(a)
}

func (s *State) UpdateAddress(a profile.Address) (profile.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.Update(a)
}

func (s *State) DeleteAddress(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.Delete(id)
}

// Payments lists the saved payment methods.
func (s *State) Payments() []profile.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.List()
}

func (s *State) CreatePayment(p profile.PaymentMethod) (profile.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.Create(p)
}

func (s *State) UpdatePayment(p profile.PaymentMethod) (profile.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.Update(p)
}

func (s *State) DeletePayment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.Delete(id)
}

// Listings lists the items the user put up for sale.
func (s *State) Listings() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings.List()
}

func (s *State) CreateListing(in profile.ListingInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings.Create(in)
}

func (s *State) DeleteListing(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings.Delete(id)
}

// Orders returns the order history.
func (s *State) Orders() []profile.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]profile.Order(nil), s.orders...)
}

// Wishlist is the saved-for-later list shown on the profile page.
func (s *State) Wishlist() []cart.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Saved()
}

// --- auth ---

// ErrSignedOut is returned by operations that need a signed-in user.
var ErrSignedOut = errors.New("not signed in")

// RequireUser returns the signed-in user or ErrSignedOut.
func (s *State) RequireUser(ctx context.Context) (*session.User, error) {
	if u := s.Session.Current(ctx); u != nil {
		return u, nil
	}
	return nil, ErrSignedOut
}

// Authorize decides whether the current user may open route.
func (s *State) Authorize(ctx context.Context, route string) session.Decision {
	return session.Authorize(route, s.Session.Current(ctx))
}

// Describe is a short summary of the session for the client bootstrap.
func (s *State) Describe(ctx context.Context) Summary {
	return Summary{
		SessionID: s.id,
		User:      s.Session.Current(ctx),
		CartCount: s.CartCount(),
		ChatState: s.Chat.State(),
	}
}

// Summary describes a session.
type Summary struct {
	SessionID string          `json:"session_id"`
	User      *session.User   `json:"user"`
	CartCount int             `json:"cart_count"`
	ChatState assistant.State `json:"chat_state"`
}
