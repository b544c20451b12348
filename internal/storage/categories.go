package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/henryt56/expense-tracker/internal/core"
)

const categoryColumns = "id, name, color, icon, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c       core.Category
		icon    sql.NullString
		created sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &icon, &created); err != nil {
		return core.Category{}, err
	}
	c.Icon = icon.String
	c.CreatedAt = created.Time
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category and returns the persisted row.
func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"INSERT INTO categories (name, color, icon) VALUES (?, ?, ?) RETURNING "+categoryColumns,
		c.Name, c.Color, nullString(c.Icon))
	created, err := scanCategory(row)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"id", created.ID,
		"name", created.Name)
	return created, nil
}

// UpdateCategory replaces name, color and icon of an existing category.
// Returns core.ErrNotFound when the id does not exist.
func (s *Store) UpdateCategory(ctx context.Context, id int64, c core.Category) (core.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ? RETURNING "+categoryColumns,
		c.Name, c.Color, nullString(c.Icon), id)
	updated, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("update category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	return updated, nil
}

// DeleteCategory removes a category; the schema cascades the delete to its
// expenses. Returns core.ErrNotFound when the id does not exist.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete category %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
