package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/server/handlers"
	"github.com/mamadbah2/estoque/internal/service/accounts"
	"github.com/mamadbah2/estoque/internal/service/inventory"
)

type tokenTable map[string]models.Session

func (t tokenTable) Authenticate(token string) (models.Session, error) {
	session, ok := t[token]
	if !ok {
		return models.Session{}, accounts.ErrUnauthenticated
	}
	return session, nil
}

type noAccounts struct{ tokenTable }

func (noAccounts) Register(context.Context, accounts.RegisterInput) (models.User, error) {
	return models.User{}, accounts.ErrInvalidInput
}

func (noAccounts) Login(context.Context, string, string) (models.Session, error) {
	return models.Session{}, accounts.ErrWrongPassword
}

func (noAccounts) Logout(string) {}

func (noAccounts) ListUsers(context.Context) ([]models.User, error) {
	return []models.User{}, nil
}

func (noAccounts) UpdateUser(context.Context, string, accounts.UpdateInput) (models.User, error) {
	return models.User{}, accounts.ErrUserNotFound
}

func (noAccounts) DeleteUser(context.Context, string) error {
	return accounts.ErrUserNotFound
}

type staticSource []models.RawRecord

func (s staticSource) FetchRaw(context.Context) ([]models.RawRecord, error) {
	return s, nil
}

func newTestEngine(t *testing.T, ratePerMin int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := inventory.NewService(staticSource{
		{"id": "X1", "name": "Luva", "quantity": "9", "category": "x"},
	}, nil, inventory.Config{}, nil)
	require.NoError(t, err)

	tokens := tokenTable{
		"admin-token":    {Token: "admin-token", User: models.User{ID: "a", Role: models.RoleAdmin}},
		"employee-token": {Token: "employee-token", User: models.User{ID: "e", Role: models.RoleEmployee}},
	}
	return New(
		handlers.NewStockHandler(svc, nil, nil),
		handlers.NewAuthHandler(noAccounts{tokens}, nil),
		tokens,
		Config{SearchRatePerMin: ratePerMin},
		nil,
	)
}

func request(r http.Handler, method, target, token string) int {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestHealthz(t *testing.T) {
	r := newTestEngine(t, 100)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/healthz", ""))
}

func TestAuthentication(t *testing.T) {
	r := newTestEngine(t, 100)

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/stock", ""))
	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/stock", "forged"))
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/stock", "employee-token"))
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/stock/categories", "employee-token"))
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/stock/X1", "employee-token"))
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/stock/movements", "employee-token"))
}

func TestAdminRoutes(t *testing.T) {
	r := newTestEngine(t, 100)

	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/stock/refresh", "employee-token"))
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodDelete, "/api/stock/X1", "employee-token"))
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "/api/admin/users", "employee-token"))

	assert.Equal(t, http.StatusOK, request(r, http.MethodPost, "/api/stock/refresh", "admin-token"))
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/admin/users", "admin-token"))
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/admin/diagnostics", "admin-token"))
	assert.Equal(t, http.StatusConflict, request(r, http.MethodDelete, "/api/stock/X1", "admin-token"))
	assert.Equal(t, http.StatusConflict, request(r, http.MethodPost, "/api/stock/sync", "admin-token"))
}

func TestStockListIsRateLimited(t *testing.T) {
	r := newTestEngine(t, 1)

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/stock", "employee-token"))
	assert.Equal(t, http.StatusTooManyRequests, request(r, http.MethodGet, "/api/stock", "employee-token"))
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/stock/categories", "employee-token"))
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := newRateLimiter(1)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
}
