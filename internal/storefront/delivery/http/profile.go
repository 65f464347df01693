package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/lumina-storefront/internal/profile"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/storefront"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// ListOrders handles GET /api/profile/orders
func (h *StorefrontHandler) ListOrders(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Orders())
}

// ListWishlist handles GET /api/profile/wishlist
func (h *StorefrontHandler) ListWishlist(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Wishlist())
}

// ListAddresses handles GET /api/profile/addresses
func (h *StorefrontHandler) ListAddresses(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Addresses())
}

// CreateAddress handles POST /api/profile/addresses
func (h *StorefrontHandler) CreateAddress(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var a profile.Address
	if !web.DecodeJSON(w, r, &a) {
		return
	}
	created, err := s.CreateAddress(a)
	if err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusCreated, created)
}

// UpdateAddress handles PUT /api/profile/addresses/{id}
func (h *StorefrontHandler) UpdateAddress(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var a profile.Address
	if !web.DecodeJSON(w, r, &a) {
		return
	}
	a.ID = mux.Vars(r)["id"]

	updated, err := s.UpdateAddress(a)
	if err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusOK, updated)
}

// DeleteAddress handles DELETE /api/profile/addresses/{id}
func (h *StorefrontHandler) DeleteAddress(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	if err := s.DeleteAddress(mux.Vars(r)["id"]); err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusOK, s.Addresses())
}

// ListPayments handles GET /api/profile/payments
func (h *StorefrontHandler) ListPayments(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Payments())
}

// CreatePayment handles POST /api/profile/payments
func (h *StorefrontHandler) CreatePayment(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var p profile.PaymentMethod
	if !web.DecodeJSON(w, r, &p) {
		return
	}
	created, err := s.CreatePayment(p)
	if err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusCreated, created)
}

// UpdatePayment handles PUT /api/profile/payments/{id}
func (h *StorefrontHandler) UpdatePayment(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var p profile.PaymentMethod
	if !web.DecodeJSON(w, r, &p) {
		return
	}
	p.ID = mux.Vars(r)["id"]

	updated, err := s.UpdatePayment(p)
	if err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusOK, updated)
}

// DeletePayment handles DELETE /api/profile/payments/{id}
func (h *StorefrontHandler) DeletePayment(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	if err := s.DeletePayment(mux.Vars(r)["id"]); err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusOK, s.Payments())
}

// ListListings handles GET /api/profile/listings
func (h *StorefrontHandler) ListListings(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Listings())
}

// CreateListing handles POST /api/profile/listings
func (h *StorefrontHandler) CreateListing(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var in profile.ListingInput
	if !web.DecodeJSON(w, r, &in) {
		return
	}
	product, err := s.CreateListing(in)
	if err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusCreated, product)
}

// DeleteListing handles DELETE /api/profile/listings/{id}
func (h *StorefrontHandler) DeleteListing(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	id, ok := uintVar(w, r, "Invalid listing ID")
	if !ok {
		return
	}
	if err := s.DeleteListing(id); err != nil {
		respondProfileError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusOK, s.Listings())
}

func respondProfileError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		web.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, profile.ErrIncompleteListing),
		errors.Is(err, profile.ErrInvalidLast4),
		errors.Is(err, profile.ErrInvalidNetwork):
		web.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(r.Context()).Err(err).Msg("Profile update failed")
		web.RespondError(w, http.StatusInternalServerError, "Profile update failed")
	}
}
