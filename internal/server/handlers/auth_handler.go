package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/service/accounts"
)

// SessionKey is the gin context key holding the authenticated session.
const SessionKey = "session"

// AccountService is the part of the accounts service exposed over HTTP.
type AccountService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (models.User, error)
	Login(ctx context.Context, email, password string) (models.Session, error)
	Authenticate(token string) (models.Session, error)
	Logout(token string)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, in accounts.UpdateInput) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler serves login, registration and user administration.
type AuthHandler struct {
	svc    AccountService
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc AccountService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// SessionFrom returns the session stored by the authentication middleware.
func SessionFrom(c *gin.Context) (models.Session, bool) {
	value, ok := c.Get(SessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := value.(models.Session)
	return session, ok
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, "login failed", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Register creates an employee account.
func (h *AuthHandler) Register(c *gin.Context) {
	var in accounts.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in.Role = models.RoleEmployee

	user, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Logout ends the session of the bearer token.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(BearerToken(c))
	c.Status(http.StatusNoContent)
}

// ListUsers returns every account.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateUser changes name, role or password of an account.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var in accounts.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, "failed to update user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account.
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "failed to delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) fail(c *gin.Context, msg string, err error) {
	status := accountStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	h.logger.Info(msg, zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func accountStatus(err error) int {
	switch {
	case errors.Is(err, accounts.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, accounts.ErrWrongPassword), errors.Is(err, accounts.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, accounts.ErrProtectedUser):
		return http.StatusForbidden
	case errors.Is(err, accounts.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, accounts.ErrEmailInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
