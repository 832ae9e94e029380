package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/repository/mongodb"
)

const (
	minPasswordLength  = 6
	defaultMaxSessions = 10000
	adminName          = "Administrador"
)

var (
	// ErrEmailInUse is returned when registering an email that already has an account.
	ErrEmailInUse = errors.New("email already in use")
	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned when the password does not match.
	ErrWrongPassword = errors.New("wrong password")
	// ErrProtectedUser is returned when changing or deleting the bootstrap admin.
	ErrProtectedUser = errors.New("user is protected")
	// ErrInvalidInput is returned for malformed emails, short passwords or unknown roles.
	ErrInvalidInput = errors.New("invalid account data")
	// ErrUnauthenticated is returned for unknown or expired session tokens.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Store persists user accounts.
type Store interface {
	CreateUser(ctx context.Context, user models.User) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	DeleteUser(ctx context.Context, id string) error
}

// Config holds the bootstrap admin and session policy.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionTTL    time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost  int
	MaxSessions int
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// UpdateInput carries the fields to change. Nil fields are left untouched.
type UpdateInput struct {
	Name     *string      `json:"name"`
	Role     *models.Role `json:"role"`
	Password *string      `json:"password"`
}

// Service manages accounts and sessions.
type Service struct {
	store    Store
	cfg      Config
	sessions *expirable.LRU[string, models.Session]
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires a new accounts service instance.
func NewService(store Store, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	cfg.AdminEmail = normalizeEmail(cfg.AdminEmail)

	return &Service{
		store:    store,
		cfg:      cfg,
		sessions: expirable.NewLRU[string, models.Session](cfg.MaxSessions, nil, cfg.SessionTTL),
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Init makes sure the bootstrap admin account exists.
func (s *Service) Init(ctx context.Context) error {
	_, err := s.store.FindUserByEmail(ctx, s.cfg.AdminEmail)
	if err == nil {
		s.logger.Debug("admin account present", zap.String("email", s.cfg.AdminEmail))
		return nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	_, err = s.Register(ctx, RegisterInput{
		Email:    s.cfg.AdminEmail,
		Password: s.cfg.AdminPassword,
		Name:     adminName,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	s.logger.Info("admin account created", zap.String("email", s.cfg.AdminEmail))
	return nil
}

// Register creates an account. The role defaults to employee.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	email := normalizeEmail(in.Email)
	if !validEmail(email) {
		return models.User{}, fmt.Errorf("%w: email %q", ErrInvalidInput, in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return models.User{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if !validRole(role) {
		return models.User{}, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailInUse
	} else if !errors.Is(err, mongodb.ErrNotFound) {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return models.User{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Usuário"
	}

	now := s.now().UTC()
	user := models.User{
		ID:           s.newID(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, mongodb.ErrDuplicate) {
			return models.User{}, ErrEmailInUse
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (models.Session, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.Session{}, ErrUserNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID))
		return models.Session{}, ErrWrongPassword
	}

	now := s.now().UTC()
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	session := models.Session{
		Token:     s.newID(),
		User:      user,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	s.sessions.Add(session.Token, session)

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return session, nil
}

// Authenticate resolves a session token.
func (s *Service) Authenticate(token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrUnauthenticated
	}
	session, ok := s.sessions.Get(token)
	if !ok || !s.now().Before(session.ExpiresAt) {
		return models.Session{}, ErrUnauthenticated
	}
	return session, nil
}

// Logout closes the session.
func (s *Service) Logout(token string) {
	s.sessions.Remove(token)
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser changes name, role or password of an account and ends its sessions.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateInput) (models.User, error) {
	user, err := s.protectedLookup(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			user.Name = name
		}
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return models.User{}, fmt.Errorf("%w: role %q", ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return models.User{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLength)
		}
		if user.PasswordHash, err = s.hash(*in.Password); err != nil {
			return models.User{}, err
		}
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	s.dropSessions(user.ID)

	s.logger.Info("user updated", zap.String("user_id", user.ID))
	return user, nil
}

// DeleteUser removes an account and ends its sessions.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	user, err := s.protectedLookup(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.dropSessions(user.ID)

	s.logger.Info("user deleted", zap.String("user_id", user.ID))
	return nil
}

func (s *Service) protectedLookup(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if user.Email == s.cfg.AdminEmail {
		return models.User{}, ErrProtectedUser
	}
	return user, nil
}

func (s *Service) dropSessions(userID string) {
	for _, token := range s.sessions.Keys() {
		if session, ok := s.sessions.Peek(token); ok && session.User.ID == userID {
			s.sessions.Remove(token)
		}
	}
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func validRole(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleEmployee
}
