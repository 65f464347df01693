package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/lumina-storefront/internal/catalog/repository"
	"github.com/tair/lumina-storefront/internal/events"
	"github.com/tair/lumina-storefront/internal/platform/middleware"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/session"
	"github.com/tair/lumina-storefront/internal/storefront"
)

var accounts = map[string]session.User{
	"user@lumina.com":  {ID: 1, Name: "Demo User", Email: "user@lumina.com", Role: session.RoleCustomer},
	"admin@lumina.com": {ID: 2, Name: "Admin User", Email: "admin@lumina.com", Role: session.RoleAdmin},
}

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, email, password string) (*session.Grant, error) {
	u, ok := accounts[email]
	if !ok || password != "password" {
		return nil, session.ErrInvalidCredentials
	}
	return &session.Grant{User: u, Token: "tok-" + email}, nil
}

func (fakeAuth) Register(_ context.Context, name, email, _ string) (*session.Grant, error) {
	if _, ok := accounts[email]; ok {
		return nil, &session.RegistrationError{Reason: "Email already registered."}
	}
	return &session.Grant{User: session.User{ID: 3, Name: name, Email: email, Role: session.RoleCustomer}, Token: "tok"}, nil
}

type fixedResponder struct{}

func (fixedResponder) Ask(context.Context, string) (string, error) { return "Try the watch.", nil }

func (fixedResponder) Reply(context.Context, string) string { return "Try the watch." }

type client struct {
	t       *testing.T
	router  http.Handler
	session string
}

func newClient(t *testing.T) *client {
	t.Helper()

	catalog := repository.NewMemoryCatalogRepository()
	popularity := events.NewPopularity()
	registry := storefront.NewRegistry(storefront.Deps{
		Catalog:   catalog,
		Auth:      fakeAuth{},
		Store:     session.NewMemoryStore(),
		Publisher: popularity.Local(),
		Responder: fixedResponder{},
		Debounce:  time.Millisecond,
	}, time.Hour, nil)
	t.Cleanup(registry.Close)

	router := mux.NewRouter()
	NewStorefrontHandler(
		registry,
		storefront.NewDashboard(catalog, popularity, registry),
		fixedResponder{},
		web.NewMetrics(prometheus.NewRegistry(), "storefront_test"),
	).RegisterRoutes(router)

	return &client{t: t, router: router}
}

func (c *client) do(method, target string, body any) (int, json.RawMessage) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if c.session != "" {
		req.Header.Set(middleware.SessionHeader, c.session)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	if id := rec.Header().Get(middleware.SessionHeader); id != "" {
		c.session = id
	}

	var resp struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp.Data
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (c *client) login(email string) {
	c.t.Helper()
	status, _ := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "password"})
	require.Equal(c.t, http.StatusOK, status)
}

func TestSessionIDIssuedAndKept(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, status)
	first := c.session
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	c.do(http.MethodGet, "/api/session", nil)
	assert.Equal(t, first, c.session)

	c.session = "not-a-uuid"
	c.do(http.MethodGet, "/api/session", nil)
	assert.NotEqual(t, "not-a-uuid", c.session)
	assert.NotEqual(t, first, c.session)
}

func TestCartFlow(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, status)
	c.do(http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1, "quantity": 1})

	status, data := c.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, status)
	snap := decode[struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
		Count    int    `json:"count"`
		Subtotal string `json:"subtotal"`
	}](t, data)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, "259.98", snap.Subtotal)

	status, _ = c.do(http.MethodPatch, "/api/cart/items/1", map[string]int{"delta": -10})
	require.Equal(t, http.StatusOK, status)

	status, data = c.do(http.MethodPost, "/api/cart/items/1/save", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, decode[struct {
		Count int `json:"count"`
	}](t, data).Count)

	_, data = c.do(http.MethodGet, "/api/saved", nil)
	assert.Len(t, decode[[]json.RawMessage](t, data), 1)

	_, data = c.do(http.MethodPost, "/api/saved/1/move", nil)
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, data).Count)
}

func TestCartErrors(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodPost, "/api/cart/items", map[string]int{"product_id": 999})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodDelete, "/api/cart/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBrowseWait(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodPut, "/api/browse/filters", map[string]any{"category": "Electronics"})
	require.Equal(t, http.StatusAccepted, status)

	status, data := c.do(http.MethodGet, "/api/browse?wait=true", nil)
	require.Equal(t, http.StatusOK, status)
	view := decode[struct {
		Page   int `json:"page"`
		Result struct {
			Total int `json:"total"`
		} `json:"result"`
		Loading bool `json:"loading"`
	}](t, data)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 2, view.Result.Total)
	assert.False(t, view.Loading)
}

func TestChatEndpoints(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodPost, "/api/chat", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusConflict, status)

	status, data := c.do(http.MethodPost, "/api/chat", map[string]string{"text": "Gift ideas?"})
	require.Equal(t, http.StatusOK, status)
	chat := decode[struct {
		State      string `json:"state"`
		Transcript []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"transcript"`
	}](t, data)
	assert.Equal(t, "idle", chat.State)
	require.Len(t, chat.Transcript, 3)
	assert.Equal(t, "Try the watch.", chat.Transcript[2].Text)

	status, data = c.do(http.MethodPost, "/api/assistant/reply", map[string]string{"message": "hi"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Try the watch.", decode[map[string]string](t, data)["reply"])
}

func TestAuthEndpoints(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "user@lumina.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "New", "email": "new@lumina.com", "password": "secret1", "confirm_password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Dup", "email": "user@lumina.com", "password": "secret1", "confirm_password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "New", "email": "new@lumina.com", "password": "secret1", "confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, session.RouteProfile, decode[struct {
		Redirect string `json:"redirect"`
	}](t, data).Redirect)

	status, _ = c.do(http.MethodGet, "/api/auth/session", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodGet, "/api/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": ""})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthorizeRouteEndpoint(t *testing.T) {
	c := newClient(t)

	_, data := c.do(http.MethodGet, "/api/routes/authorize?route=/profile?tab=wishlist", nil)
	assert.Equal(t, session.RouteLogin, decode[session.Decision](t, data).Redirect)

	c.login("user@lumina.com")
	_, data = c.do(http.MethodGet, "/api/routes/authorize?route=/profile?tab=wishlist", nil)
	d := decode[session.Decision](t, data)
	assert.True(t, d.Allowed)
	assert.Equal(t, "wishlist", d.Tab)
}

func TestProfileRequiresSignIn(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodGet, "/api/profile/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	c.login("user@lumina.com")

	status, data := c.do(http.MethodGet, "/api/profile/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]json.RawMessage](t, data), 3)

	status, data = c.do(http.MethodPost, "/api/profile/addresses", map[string]any{"street": "9 Elm", "city": "Boise", "is_default": true})
	require.Equal(t, http.StatusCreated, status)
	id := decode[map[string]any](t, data)["id"].(string)

	_, data = c.do(http.MethodGet, "/api/profile/addresses", nil)
	defaults := 0
	for _, a := range decode[[]map[string]any](t, data) {
		if a["is_default"] == true {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	status, _ = c.do(http.MethodDelete, "/api/profile/addresses/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodDelete, "/api/profile/addresses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodPost, "/api/profile/payments", map[string]any{"network": "Discover", "last4": "1234"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/api/profile/listings", map[string]any{"name": "Lamp"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminStatsAccess(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	c.login("user@lumina.com")
	status, _ = c.do(http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, status)

	c.do(http.MethodPost, "/api/auth/logout", nil)
	c.login("admin@lumina.com")
	c.do(http.MethodPost, "/api/cart/items", map[string]int{"product_id": 6, "quantity": 2})

	status, data := c.do(http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[storefront.AdminStats](t, data)
	assert.Equal(t, 127, stats.Orders)
	assert.Equal(t, 47, stats.Users)
	assert.Equal(t, 1, stats.ActiveSessions)
	require.Len(t, stats.PopularProducts, 1)
	assert.EqualValues(t, 6, stats.PopularProducts[0].ProductID)
}
