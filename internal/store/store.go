// ABOUTME: Store interfaces and data types for opsdesk persistence
// ABOUTME: Defines User, Employee, Item structs and the per-table store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when trying to create a user with an existing username
var ErrUsernameExists = errors.New("username already exists")

// ErrDuplicateID is returned when trying to create a record with an existing ID
var ErrDuplicateID = errors.New("id already exists")

// AdminUsername is the username of the bootstrap account seeded on first start.
const AdminUsername = "admin"

// User represents a registered account that can authenticate against the API.
// Username is unique and immutable once assigned. PasswordHash is a bcrypt
// hash; cleartext passwords are never persisted. Disabled users must never
// pass authentication regardless of credential correctness.
type User struct {
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Disabled     bool
	CreatedAt    time.Time
}

// Employee represents a staff directory record
type Employee struct {
	ID         string
	Name       string
	Department string
	Position   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Item represents an inventory record
type Item struct {
	ID        string
	Name      string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserStore defines the persistence interface for user accounts.
// The auth layer only needs GetUserByUsername plus the one-time admin seed;
// the remaining methods serve the user-management CRUD endpoints.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]*User, error)
	EnsureAdminUser(ctx context.Context, passwordHash string) (created bool, err error)
}

// EmployeeStore defines the persistence interface for employee records.
type EmployeeStore interface {
	CreateEmployee(ctx context.Context, emp *Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	UpdateEmployee(ctx context.Context, emp *Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context) ([]*Employee, error)
}

// ItemStore defines the persistence interface for inventory items.
type ItemStore interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id string) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]*Item, error)
}
