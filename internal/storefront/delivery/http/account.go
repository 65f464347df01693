package http

import (
	"errors"
	"net/http"

	"github.com/tair/lumina-storefront/internal/assistant"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/session"
	"github.com/tair/lumina-storefront/internal/storefront"
	"github.com/tair/lumina-storefront/pkg/logger"
)

type signedInResponse struct {
	User     *session.User `json:"user"`
	Redirect string        `json:"redirect"`
}

// Login handles POST /api/auth/login
func (h *StorefrontHandler) Login(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.Session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusOK, signedInResponse{User: user, Redirect: session.LandingRoute(user)})
}

// Register handles POST /api/auth/register
func (h *StorefrontHandler) Register(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.Session.Register(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		respondAuthError(w, r, err)
		return
	}
	web.RespondData(w, http.StatusCreated, signedInResponse{User: user, Redirect: session.LandingRoute(user)})
}

// Logout handles POST /api/auth/logout
func (h *StorefrontHandler) Logout(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	if err := s.Session.Logout(r.Context()); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to sign out")
		web.RespondError(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	web.RespondMessage(w, http.StatusOK, "Signed out", signedInResponse{Redirect: session.RouteHome})
}

// CurrentUser handles GET /api/auth/session
func (h *StorefrontHandler) CurrentUser(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	user, err := s.RequireUser(r.Context())
	if err != nil {
		web.RespondError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	web.RespondData(w, http.StatusOK, user)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *StorefrontHandler) ForgotPassword(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		Email string `json:"email"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}

	notice, err := s.Session.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		respondAuthError(w, r, err)
		return
	}
	web.RespondMessage(w, http.StatusOK, notice, nil)
}

// AuthorizeRoute handles GET /api/routes/authorize?route=
func (h *StorefrontHandler) AuthorizeRoute(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	route := r.URL.Query().Get("route")
	if route == "" {
		route = session.RouteHome
	}
	web.RespondData(w, http.StatusOK, s.Authorize(r.Context(), route))
}

// GetChat handles GET /api/chat
func (h *StorefrontHandler) GetChat(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	web.RespondData(w, http.StatusOK, chatView(s))
}

// SendChat handles POST /api/chat
func (h *StorefrontHandler) SendChat(w http.ResponseWriter, r *http.Request, s *storefront.State) {
	var req struct {
		Text string `json:"text"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}

	if _, err := s.Chat.Send(r.Context(), req.Text); err != nil {
		if errors.Is(err, assistant.ErrIgnored) {
			web.RespondError(w, http.StatusConflict, "Message ignored")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Chat send failed")
		web.RespondError(w, http.StatusInternalServerError, "Chat failed")
		return
	}
	web.RespondData(w, http.StatusOK, chatView(s))
}

// AssistantReply handles POST /api/assistant/reply. It always answers 200;
// a failed completion yields the apology text.
func (h *StorefrontHandler) AssistantReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}
	web.RespondData(w, http.StatusOK, map[string]string{"reply": h.replier.Reply(r.Context(), req.Message)})
}

type chatResponse struct {
	State      assistant.State     `json:"state"`
	Transcript []assistant.Message `json:"transcript"`
}

func chatView(s *storefront.State) chatResponse {
	return chatResponse{State: s.Chat.State(), Transcript: s.Chat.Transcript()}
}

func respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var regErr *session.RegistrationError
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		web.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrPasswordMismatch),
		errors.Is(err, session.ErrPasswordTooShort),
		errors.Is(err, session.ErrEmailRequired):
		web.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &regErr):
		web.RespondError(w, http.StatusBadRequest, regErr.Error())
	default:
		logger.Error(r.Context()).Err(err).Msg("Auth request failed")
		web.RespondError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
