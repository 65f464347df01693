package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/lumina-storefront/internal/identity/domain"
	"github.com/tair/lumina-storefront/internal/identity/usecase/command"
	"github.com/tair/lumina-storefront/internal/identity/usecase/query"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/pkg/auth"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// AuthHandler handles HTTP requests of the auth service
type AuthHandler struct {
	// Command handlers
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler

	// Query handlers
	getUserHandler *query.GetUserHandler
	statsHandler   *query.GetStatsHandler

	tokens  *auth.TokenManager
	metrics *web.Metrics
}

// NewAuthHandler creates a new auth handler (manual DI)
func NewAuthHandler(repo domain.UserRepository, tokens *auth.TokenManager, metrics *web.Metrics) *AuthHandler {
	return NewAuthHandlerWithDI(
		command.NewRegisterUserHandler(repo, tokens),
		command.NewLoginUserHandler(repo, tokens),
		query.NewGetUserHandler(repo),
		query.NewGetStatsHandler(repo),
		tokens,
		metrics,
	)
}

// NewAuthHandlerWithDI creates a new auth handler from prebuilt handlers.
// This is used by Wire for automatic dependency injection
func NewAuthHandlerWithDI(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	getUserHandler *query.GetUserHandler,
	statsHandler *query.GetStatsHandler,
	tokens *auth.TokenManager,
	metrics *web.Metrics,
) *AuthHandler {
	return &AuthHandler{
		registerHandler: registerHandler,
		loginHandler:    loginHandler,
		getUserHandler:  getUserHandler,
		statsHandler:    statsHandler,
		tokens:          tokens,
		metrics:         metrics,
	}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	// Public
	router.HandleFunc("/auth/register", h.metrics.Wrap("/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/auth/login", h.metrics.Wrap("/auth/login", h.Login)).Methods("POST")

	// Authenticated
	router.HandleFunc("/auth/me", h.metrics.Wrap("/auth/me", AuthMiddleware(h.tokens, h.Me))).Methods("GET")

	// Admin only
	router.HandleFunc("/admin/users/stats", h.metrics.Wrap("/admin/users/stats", AdminMiddleware(h.tokens, h.Stats))).Methods("GET")
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmailTaken):
		web.RespondJSON(w, http.StatusConflict, web.Response{Message: err.Error(), Error: "email_taken"})
		return
	case errors.Is(err, command.ErrValidation):
		reason := strings.TrimPrefix(err.Error(), command.ErrValidation.Error()+": ")
		web.RespondJSON(w, http.StatusBadRequest, web.Response{Message: capitalize(reason) + ".", Error: "validation_failed"})
		return
	default:
		logger.Error(r.Context()).Err(err).Msg("Failed to register user")
		web.RespondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	logger.Info(r.Context()).Uint("user_id", result.User.ID).Msg("User registered")
	web.RespondData(w, http.StatusCreated, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !web.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, command.ErrInvalidCredentials) {
		logger.Warn(r.Context()).Msg("Rejected login attempt")
		web.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to log in")
		web.RespondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	web.RespondData(w, http.StatusOK, result)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		web.RespondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: userID})
	if errors.Is(err, domain.ErrUserNotFound) {
		web.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", userID).Msg("Failed to load user")
		web.RespondError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	web.RespondData(w, http.StatusOK, user)
}

// Stats handles GET /admin/users/stats
func (h *AuthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load user stats")
		web.RespondError(w, http.StatusInternalServerError, "Failed to load user stats")
		return
	}

	web.RespondData(w, http.StatusOK, stats)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
