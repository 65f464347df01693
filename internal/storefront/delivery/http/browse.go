package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tair/lumina-storefront/internal/browse"
	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/storefront"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// maxBrowseWait bounds how long GET /api/browse?wait=true blocks.
const maxBrowseWait = 5 * time.Second

// GetBrowse handles GET /api/browse. With wait=true it blocks until the
// newest fetch has landed.
func (h *StorefrontHandler) GetBrowse(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		web.RespondData(w, http.StatusOK, s.Browse.Snapshot())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), maxBrowseWait)
	defer cancel()

	view, err := s.Browse.Wait(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		if errors.Is(err, browse.ErrClosed) {
			web.RespondError(w, http.StatusGone, "Session expired")
			return
		}
		logger.Warn(r.Context()).Err(err).Msg("Browse wait interrupted")
	}
	web.RespondData(w, http.StatusOK, view)
}

// SetFilters handles PUT /api/browse/filters
func (h *StorefrontHandler) SetFilters(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var spec domain.FilterSpec
	if !web.DecodeJSON(w, r, &spec) {
		return
	}
	s.Browse.SetFilters(r.Context(), spec)
	web.RespondData(w, http.StatusAccepted, s.Browse.Snapshot())
}

// ResetFilters handles DELETE /api/browse/filters
func (h *StorefrontHandler) ResetFilters(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	s.Browse.Reset(r.Context())
	web.RespondData(w, http.StatusAccepted, s.Browse.Snapshot())
}

// SetSearch handles PUT /api/browse/search
func (h *StorefrontHandler) SetSearch(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		Term string `json:"term"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}
	s.Browse.SetSearch(req.Term)
	web.RespondData(w, http.StatusAccepted, s.Browse.Snapshot())
}

// SetPage handles PUT /api/browse/page
func (h *StorefrontHandler) SetPage(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		Page int `json:"page"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}
	s.Browse.SetPage(req.Page)
	web.RespondData(w, http.StatusAccepted, s.Browse.Snapshot())
}
