// Package store provides persistent storage for opsdesk using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with one interface
// per table:
//
//   - UserStore: account records used by both authentication and the user
//     management endpoints
//   - EmployeeStore: staff directory records
//   - ItemStore: inventory records
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries. Callers depend on
// the narrow interface they need; the auth layer, for example, only consumes
// UserStore.
//
// # Data Models
//
//   - User: username (primary key), bcrypt password hash, profile fields,
//     disabled flag
//   - Employee: id, name, department, position
//   - Item: id, name, price
//
// # Admin Seeding
//
// EnsureAdminUser seeds a bootstrap "admin" account exactly once. The insert
// is conditional on the username primary key, so concurrent instances racing
// at startup cannot produce duplicates or overwrite an existing admin.
//
// # Concurrency
//
// SQLite runs in WAL mode. Single-row operations are atomic; the package adds
// no application-level locking of its own.
package store
