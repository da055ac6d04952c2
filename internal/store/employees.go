// ABOUTME: Employee directory persistence methods
// ABOUTME: Simple keyed-record CRUD over the employees table

package store

import (
	"context"
	"fmt"
	"time"
)

// CreateEmployee creates a new employee record.
// Returns ErrDuplicateID if a record with the same ID already exists.
func (s *SQLiteStore) CreateEmployee(ctx context.Context, emp *Employee) error {
	query := `
		INSERT INTO employees (id, name, department, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID,
		emp.Name,
		emp.Department,
		emp.Position,
		emp.CreatedAt.UTC().Format(time.RFC3339),
		emp.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("inserting employee: %w", err)
	}

	s.logger.Debug("created employee", "id", emp.ID, "name", emp.Name)
	return nil
}

// GetEmployee retrieves an employee by ID.
// Returns ErrNotFound if the employee doesn't exist.
func (s *SQLiteStore) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	query := `
		SELECT id, name, department, position, created_at, updated_at
		FROM employees
		WHERE id = ?
	`

	var emp Employee
	var createdAtStr, updatedAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&emp.ID,
		&emp.Name,
		&emp.Department,
		&emp.Position,
		&createdAtStr,
		&updatedAtStr,
	)

	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying employee: %w", err)
	}

	emp.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	emp.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &emp, nil
}

// UpdateEmployee updates an existing employee record.
// Returns ErrNotFound if the employee doesn't exist.
func (s *SQLiteStore) UpdateEmployee(ctx context.Context, emp *Employee) error {
	query := `
		UPDATE employees
		SET name = ?, department = ?, position = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		emp.Name,
		emp.Department,
		emp.Position,
		emp.UpdatedAt.UTC().Format(time.RFC3339),
		emp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated employee", "id", emp.ID)
	return nil
}

// DeleteEmployee removes an employee record.
// Returns ErrNotFound if the employee doesn't exist.
func (s *SQLiteStore) DeleteEmployee(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted employee", "id", id)
	return nil
}

// ListEmployees returns all employee records ordered by name.
func (s *SQLiteStore) ListEmployees(ctx context.Context) ([]*Employee, error) {
	query := `
		SELECT id, name, department, position, created_at, updated_at
		FROM employees
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var employees []*Employee
	for rows.Next() {
		var emp Employee
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Department, &emp.Position, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}

		emp.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		emp.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		employees = append(employees, &emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}

	return employees, nil
}
