// ABOUTME: Inventory item persistence methods
// ABOUTME: Simple keyed-record CRUD over the items table

package store

import (
	"context"
	"fmt"
	"time"
)

// CreateItem creates a new item record.
// Returns ErrDuplicateID if a record with the same ID already exists.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO items (id, name, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.Price,
		item.CreatedAt.UTC().Format(time.RFC3339),
		item.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("inserting item: %w", err)
	}

	s.logger.Debug("created item", "id", item.ID, "name", item.Name)
	return nil
}

// GetItem retrieves an item by ID.
// Returns ErrNotFound if the item doesn't exist.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*Item, error) {
	query := `
		SELECT id, name, price, created_at, updated_at
		FROM items
		WHERE id = ?
	`

	var item Item
	var createdAtStr, updatedAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&createdAtStr,
		&updatedAtStr,
	)

	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying item: %w", err)
	}

	item.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	item.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &item, nil
}

// UpdateItem updates an existing item record.
// Returns ErrNotFound if the item doesn't exist.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *Item) error {
	query := `
		UPDATE items
		SET name = ?, price = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		item.Name,
		item.Price,
		item.UpdatedAt.UTC().Format(time.RFC3339),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated item", "id", item.ID)
	return nil
}

// DeleteItem removes an item record.
// Returns ErrNotFound if the item doesn't exist.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted item", "id", id)
	return nil
}

// ListItems returns all item records ordered by name.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]*Item, error) {
	query := `
		SELECT id, name, price, created_at, updated_at
		FROM items
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*Item
	for rows.Next() {
		var item Item
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		item.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		item.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}
