// Package service implements staff authentication and credential management:
// login with server-issued session tokens, password changes, and admin user
// CRUD.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mangonet/internal/auth/models"
	"mangonet/internal/auth/session"
	settingsservice "mangonet/internal/settings/service"
	dErrors "mangonet/pkg/domain-errors"
	"mangonet/pkg/platform/sentinel"
	"mangonet/pkg/requestcontext"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// UserStore persists admin users.
type UserStore interface {
	CreateIfUsernameAvailable(ctx context.Context, user *models.AdminUser) error
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	List(ctx context.Context) ([]*models.AdminUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsStore is the slice of the settings service the auth flow needs for
// the legacy shared-password fallback.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// TokenIssuer mints session tokens at login.
type TokenIssuer interface {
	GenerateSessionToken(username, role string, ttl time.Duration) (token string, sessionID string, err error)
}

// Service orchestrates staff authentication.
type Service struct {
	users    UserStore
	settings SettingsStore
	tokens   TokenIssuer
	sessions session.Store
	logger   *slog.Logger

	sessionTTL time.Duration
	// Accepted until an admin password hash is stored; deployment bootstrap.
	bootstrapPassword string
}

func New(users UserStore, settings SettingsStore, tokens TokenIssuer, sessions session.Store,
	sessionTTL time.Duration, bootstrapPassword string, logger *slog.Logger) *Service {
	return &Service{
		users:             users,
		settings:          settings,
		tokens:            tokens,
		sessions:          sessions,
		sessionTTL:        sessionTTL,
		bootstrapPassword: bootstrapPassword,
		logger:            logger,
	}
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Role  models.Role
	Token string
}

// Login authenticates staff. With a username it checks that user's
// credentials; otherwise (or when that fails) it falls back to the legacy
// shared admin password stored in settings, then to the bootstrap password.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	if username != "" {
		user, err := s.users.FindByUsername(ctx, username)
		if err == nil && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
			return s.issueSession(ctx, user.Username, user.Role)
		}
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
	}

	ok, err := s.checkSharedPassword(ctx, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.WarnContext(ctx, "login rejected",
			"request_id", requestcontext.RequestID(ctx),
			"username", username,
		)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return s.issueSession(ctx, username, models.RoleAdmin)
}

// ChangePassword rotates the shared admin password stored in settings.
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return dErrors.Newf(dErrors.CodeValidation,
			"new password must be at least %d characters", minPasswordLength)
	}

	ok, err := s.checkSharedPassword(ctx, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	if err := s.settings.Set(ctx, settingsservice.KeyAdminPasswordHash, string(hash)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store password")
	}

	s.logger.InfoContext(ctx, "admin password changed",
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// CreateUser registers a staff credential. Usernames are unique; the role is
// normalized to admin or standard.
func (s *Service) CreateUser(ctx context.Context, username, password, role string) (*models.PublicUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}
	if len(password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &models.AdminUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.NormalizeRole(role),
	}
	if err := s.users.CreateIfUsernameAvailable(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "username already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.logger.InfoContext(ctx, "admin user created",
		"request_id", requestcontext.RequestID(ctx),
		"username", user.Username,
		"role", user.Role,
		"actor", requestcontext.Username(ctx),
	)
	pub := user.Public()
	return &pub, nil
}

// ListUsers returns all staff users without password hashes.
func (s *Service) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		out = append(out, user.Public())
	}
	return out, nil
}

// DeleteUser removes a staff credential.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}
	s.logger.InfoContext(ctx, "admin user deleted",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", id,
		"actor", requestcontext.Username(ctx),
	)
	return nil
}

func (s *Service) issueSession(ctx context.Context, username string, role models.Role) (*LoginResult, error) {
	if username == "" {
		// Legacy shared-password login has no per-user identity.
		username = "admin"
	}
	token, sessionID, err := s.tokens.GenerateSessionToken(username, string(role), s.sessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}
	if err := s.sessions.Save(ctx, sessionID, s.sessionTTL); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}

	s.logger.InfoContext(ctx, "staff login",
		"request_id", requestcontext.RequestID(ctx),
		"username", username,
		"role", role,
	)
	return &LoginResult{Role: role, Token: token}, nil
}

// checkSharedPassword verifies against the settings-stored hash, falling
// back to the bootstrap password when no hash has been stored yet.
func (s *Service) checkSharedPassword(ctx context.Context, password string) (bool, error) {
	storedHash, err := s.settings.Get(ctx, settingsservice.KeyAdminPasswordHash)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read stored password")
	}
	if storedHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil, nil
	}
	if s.bootstrapPassword == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.bootstrapPassword)) == 1, nil
}
