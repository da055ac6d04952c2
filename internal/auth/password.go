// ABOUTME: Password hashing and credential verification backed by bcrypt
// ABOUTME: Classifies login failures without leaking the distinction to callers

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/2389/opsdesk/internal/store"
)

// Login failures. The API layer collapses all of these into a single generic
// "incorrect username or password" response so that callers cannot tell which
// check failed.
var (
	ErrUnknownUser   = errors.New("unknown user")
	ErrBadCredential = errors.New("incorrect password")
	ErrUserDisabled  = errors.New("user is disabled")
)

// dummyHash is a valid bcrypt hash compared against when the user doesn't
// exist, keeping the unknown-user path as slow as a real comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword derives a bcrypt hash from a cleartext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a submitted password against a stored bcrypt hash.
func VerifyPassword(password, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// Authenticator verifies submitted credentials against the user store.
type Authenticator struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator backed by the given user store.
func NewAuthenticator(users store.UserStore, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		users:  users,
		logger: logger.With("component", "auth"),
	}
}

// Authenticate looks up the user and verifies the submitted password.
// Returns ErrUnknownUser, ErrBadCredential, or ErrUserDisabled on failure.
// A disabled user never authenticates, even with the correct password.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Do a dummy bcrypt comparison to maintain constant timing
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			a.logger.Debug("login failed", "username", username, "reason", "unknown user")
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		a.logger.Debug("login failed", "username", username, "reason", "bad credential")
		return nil, ErrBadCredential
	}

	if user.Disabled {
		a.logger.Debug("login failed", "username", username, "reason", "disabled")
		return nil, ErrUserDisabled
	}

	return user, nil
}
