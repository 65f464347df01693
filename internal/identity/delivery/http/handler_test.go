package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/lumina-storefront/internal/identity/repository"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/pkg/auth"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type grant struct {
	User struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	repo, err := repository.NewSeededMemoryUserRepository()
	require.NoError(t, err)

	h := NewAuthHandler(repo, auth.NewTokenManager("test-secret", time.Hour), web.NewMetrics(prometheus.NewRegistry(), "auth_test"))
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func login(t *testing.T, router http.Handler, email string) grant {
	t.Helper()
	code, env := do(t, router, http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"password"}`, "")
	require.Equal(t, http.StatusOK, code)

	var g grant
	require.NoError(t, json.Unmarshal(env.Data, &g))
	return g
}

func TestLoginAndMe(t *testing.T) {
	router := newRouter(t)

	g := login(t, router, "user@lumina.com")
	assert.Equal(t, "Demo User", g.User.Name)
	assert.Equal(t, "customer", g.User.Role)

	code, env := do(t, router, http.MethodGet, "/auth/me", "", g.Token)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"email":"user@lumina.com"`)
	assert.NotContains(t, string(env.Data), "password")
}

func TestLoginRejected(t *testing.T) {
	router := newRouter(t)

	code, env := do(t, router, http.MethodPost, "/auth/login", `{"email":"user@lumina.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = do(t, router, http.MethodPost, "/auth/login", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRegister(t *testing.T) {
	router := newRouter(t)

	code, env := do(t, router, http.MethodPost, "/auth/register", `{"name":"Sam","email":"sam@lumina.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, code)
	var g grant
	require.NoError(t, json.Unmarshal(env.Data, &g))
	assert.Equal(t, "customer", g.User.Role)
	assert.NotEmpty(t, g.Token)

	code, env = do(t, router, http.MethodPost, "/auth/register", `{"name":"Sam","email":"sam@lumina.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Email already registered.", env.Message)

	code, env = do(t, router, http.MethodPost, "/auth/register", `{"name":"Kim","email":"kim@lumina.com","password":"abc"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Password must be at least 6 characters.", env.Message)
}

func TestMeRequiresToken(t *testing.T) {
	router := newRouter(t)

	code, _ := do(t, router, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, router, http.MethodGet, "/auth/me", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestStatsIsAdminOnly(t *testing.T) {
	router := newRouter(t)

	customer := login(t, router, "user@lumina.com")
	code, _ := do(t, router, http.MethodGet, "/admin/users/stats", "", customer.Token)
	assert.Equal(t, http.StatusForbidden, code)

	admin := login(t, router, "admin@lumina.com")
	code, env := do(t, router, http.MethodGet, "/admin/users/stats", "", admin.Token)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"total_users":2,"admin_count":1,"customer_count":1}`, string(env.Data))
}
