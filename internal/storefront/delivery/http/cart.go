package http

import (
	"net/http"

	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/storefront"
)

// GetCart handles GET /api/cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Cart())
}

// AddToCart handles POST /api/cart/items
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}

	snap, err := s.AddToCart(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondProductError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusOK, snap)
}

// RemoveFromCart handles DELETE /api/cart/items/{id}
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	id, ok := uintVar(w, r, "Invalid product ID")
	if !ok {
		return
	}
	web.RespondData(w, http.StatusOK, s.RemoveFromCart(r.Context(), id))
}

// UpdateQuantity handles PATCH /api/cart/items/{id}
func (h *StorefrontHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	id, ok := uintVar(w, r, "Invalid product ID")
	if !ok {
		return
	}
	var req struct {
		Delta int `json:"delta"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}
	web.RespondData(w, http.StatusOK, s.UpdateQuantity(r.Context(), id, req.Delta))
}

// SaveForLater handles POST /api/cart/items/{id}/save
func (h *StorefrontHandler) SaveForLater(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	id, ok := uintVar(w, r, "Invalid product ID")
	if !ok {
		return
	}
	web.RespondData(w, http.StatusOK, s.SaveForLater(r.Context(), id))
}

// SetCartOpen handles PUT /api/cart/open
func (h *StorefrontHandler) SetCartOpen(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		Open bool `json:"open"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}
	web.RespondData(w, http.StatusOK, s.SetCartOpen(req.Open))
}

// GetSaved handles GET /api/saved
func (h *StorefrontHandler) GetSaved(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, s.Wishlist())
}

// MoveToCart handles POST /api/saved/{id}/move
func (h *StorefrontHandler) MoveToCart(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	id, ok := uintVar(w, r, "Invalid product ID")
	if !ok {
		return
	}
	web.RespondData(w, http.StatusOK, s.MoveToCart(r.Context(), id))
}

// RemoveSaved handles DELETE /api/saved/{id}
func (h *StorefrontHandler) RemoveSaved(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	id, ok := uintVar(w, r, "Invalid product ID")
	if !ok {
		return
	}
	web.RespondData(w, http.StatusOK, s.RemoveSaved(r.Context(), id))
}
