package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/internal/platform/middleware"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/storefront"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// Replier answers a one-off styling question and never fails.
type Replier interface {
	Reply(ctx context.Context, message string) string
}

// StateHandlerFunc is an HTTP handler bound to the caller's session state.
type StateHandlerFunc func(w http.ResponseWriter, r *http.Request, s *storefront.State)

// StorefrontHandler serves the session-scoped storefront API
type StorefrontHandler struct {
	registry  *storefront.Registry
	dashboard *storefront.Dashboard
	replier   Replier
	metrics   *web.Metrics
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(
	registry *storefront.Registry,
	dashboard *storefront.Dashboard,
	replier Replier,
	metrics *web.Metrics,
) *StorefrontHandler {
	return &StorefrontHandler{
		registry:  registry,
		dashboard: dashboard,
		replier:   replier,
		metrics:   metrics,
	}
}

func (h *StorefrontHandler) RegisterRoutes(router *mux.Router) {
	h.handle(router, "/api/session", "GET", h.GetSession)

	// Cart
	h.handle(router, "/api/cart", "GET", h.GetCart)
	h.handle(router, "/api/cart/items", "POST", h.AddToCart)
	h.handle(router, "/api/cart/items/{id}", "DELETE", h.RemoveFromCart)
	h.handle(router, "/api/cart/items/{id}", "PATCH", h.UpdateQuantity)
	h.handle(router, "/api/cart/items/{id}/save", "POST", h.SaveForLater)
	h.handle(router, "/api/cart/open", "PUT", h.SetCartOpen)
	h.handle(router, "/api/saved", "GET", h.GetSaved)
	h.handle(router, "/api/saved/{id}/move", "POST", h.MoveToCart)
	h.handle(router, "/api/saved/{id}", "DELETE", h.RemoveSaved)

	// Product grid
	h.handle(router, "/api/browse", "GET", h.GetBrowse)
	h.handle(router, "/api/browse/filters", "PUT", h.SetFilters)
	h.handle(router, "/api/browse/filters", "DELETE", h.ResetFilters)
	h.handle(router, "/api/browse/search", "PUT", h.SetSearch)
	h.handle(router, "/api/browse/page", "PUT", h.SetPage)

	// Assistant
	h.handle(router, "/api/chat", "GET", h.GetChat)
	h.handle(router, "/api/chat", "POST", h.SendChat)
	router.HandleFunc("/api/assistant/reply", h.metrics.Wrap("/api/assistant/reply", h.AssistantReply)).Methods("POST")

	// Account
	h.handle(router, "/api/auth/login", "POST", h.Login)
	h.handle(router, "/api/auth/register", "POST", h.Register)
	h.handle(router, "/api/auth/logout", "POST", h.Logout)
	h.handle(router, "/api/auth/session", "GET", h.CurrentUser)
	h.handle(router, "/api/auth/forgot-password", "POST", h.ForgotPassword)
	h.handle(router, "/api/routes/authorize", "GET", h.AuthorizeRoute)

	// Profile (signed in)
	h.handle(router, "/api/profile/orders", "GET", h.signedIn(h.ListOrders))
	h.handle(router, "/api/profile/wishlist", "GET", h.signedIn(h.ListWishlist))
	h.handle(router, "/api/profile/addresses", "GET", h.signedIn(h.ListAddresses))
	h.handle(router, "/api/profile/addresses", "POST", h.signedIn(h.CreateAddress))
	h.handle(router, "/api/profile/addresses/{id}", "PUT", h.signedIn(h.UpdateAddress))
	h.handle(router, "/api/profile/addresses/{id}", "DELETE", h.signedIn(h.DeleteAddress))
	h.handle(router, "/api/profile/payments", "GET", h.signedIn(h.ListPayments))
	h.handle(router, "/api/profile/payments", "POST", h.signedIn(h.CreatePayment))
	h.handle(router, "/api/profile/payments/{id}", "PUT", h.signedIn(h.UpdatePayment))
	h.handle(router, "/api/profile/payments/{id}", "DELETE", h.signedIn(h.DeletePayment))
	h.handle(router, "/api/profile/listings", "GET", h.signedIn(h.ListListings))
	h.handle(router, "/api/profile/listings", "POST", h.signedIn(h.CreateListing))
	h.handle(router, "/api/profile/listings/{id}", "DELETE", h.signedIn(h.DeleteListing))

	// Admin only
	h.handle(router, "/api/admin/stats", "GET", h.AdminStats)
}

func (h *StorefrontHandler) handle(router *mux.Router, path, method string, next StateHandlerFunc) {
	router.HandleFunc(path, h.metrics.Wrap(path, h.withState(next))).Methods(method)
}

// withState resolves the caller's session from the X-Session-ID header,
// issuing a fresh id when it is missing or malformed. The id in use is
// always echoed back.
func (h *StorefrontHandler) withState(next StateHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.SessionHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			r.Header.Set(middleware.SessionHeader, id)
		}
		w.Header().Set(middleware.SessionHeader, id)

		next(w, r, h.registry.Get(r.Context(), id))
	}
}

// signedIn answers 401 unless a user is signed in.
func (h *StorefrontHandler) signedIn(next StateHandlerFunc) StateHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, s *storefront.State) {
		if _, err := s.RequireUser(r.Context()); err != nil {
			web.RespondError(w, http.StatusUnauthorized, "Sign in to continue")
			return
		}
		next(w, r, s)
	}
}

// GetSession handles GET /api/session
func (h *StorefrontHandler) GetSession(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Describe(r.Context()))
}

// AdminStats handles GET /api/admin/stats
func (h *StorefrontHandler) AdminStats(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	user := s.Session.Current(r.Context())
	switch {
	case user == nil:
		web.RespondError(w, http.StatusUnauthorized, "Sign in to continue")
		return
	case !user.IsAdmin():
		web.RespondError(w, http.StatusForbidden, "Admin access required")
		return
	}

	stats, err := h.dashboard.Stats(r.Context(), s)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build admin stats")
		web.RespondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	web.RespondData(w, http.StatusOK, stats)
}

func uintVar(w http.ResponseWriter, r *http.Request, message string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.RespondError(w, http.StatusBadRequest, message)
		return 0, false
	}
	return uint(id), true
}

func respondProductError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		web.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}
	logger.Error(r.Context()).Err(err).Msg("Failed to load product")
	web.RespondError(w, http.StatusInternalServerError, "Failed to load product")
}
