// ABOUTME: User account persistence methods and the one-time admin seed
// ABOUTME: Users are keyed by username; only bcrypt hashes are stored

package store

import (
	"context"
	"fmt"
	"time"
)

// CreateUser creates a new user account.
// Returns ErrUsernameExists if the username is already taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, password_hash, full_name, email, disabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Disabled,
		user.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("created user", "username", user.Username)
	return nil
}

// GetUserByUsername retrieves a user by username.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT username, password_hash, full_name, email, disabled, created_at
		FROM users
		WHERE username = ?
	`

	var user User
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Email,
		&user.Disabled,
		&createdAtStr,
	)

	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &user, nil
}

// UpdateUser updates an existing user's profile, credential, and disabled flag.
// The username itself is immutable. Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET password_hash = ?, full_name = ?, email = ?, disabled = ?
		WHERE username = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Disabled,
		user.Username,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated user", "username", user.Username)
	return nil
}

// DeleteUser removes a user account.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) DeleteUser(ctx context.Context, username string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted user", "username", username)
	return nil
}

// ListUsers returns all user accounts ordered by creation time.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	query := `
		SELECT username, password_hash, full_name, email, disabled, created_at
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*User
	for rows.Next() {
		var user User
		var createdAtStr string

		if err := rows.Scan(&user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Disabled, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// EnsureAdminUser seeds the bootstrap admin account if it doesn't exist yet.
// It never overwrites an existing admin, and is safe to race against
// concurrent startups: the conditional insert is guarded by the PRIMARY KEY
// on username, so a loser of the race just observes the unique violation.
// Returns true if the admin was created by this call.
func (s *SQLiteStore) EnsureAdminUser(ctx context.Context, passwordHash string) (bool, error) {
	query := `
		INSERT INTO users (username, password_hash, full_name, email, disabled, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT(username) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		AdminUsername,
		passwordHash,
		"Admin User",
		"admin@example.com",
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("seeding admin user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected > 0 {
		s.logger.Info("seeded admin user", "username", AdminUsername)
		return true, nil
	}
	return false, nil
}
