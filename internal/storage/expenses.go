package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/henryt56/expense-tracker/internal/core"
)

const expenseColumns = "id, category_id, name, subcategory, amount_cents, date, notes, created_at"

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		catID   sql.NullInt64
		date    string
		notes   sql.NullString
		created sql.NullTime
	)
	if err := row.Scan(&e.ID, &catID, &e.Name, &e.Subcategory, &e.Amount.Cents, &date, &notes, &created); err != nil {
		return core.Expense{}, err
	}
	e.CategoryID = catID.Int64
	e.Notes = notes.String
	e.CreatedAt = created.Time
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	e.Date = parsed
	return e, nil
}

// ListExpenses returns expenses joined with their category's name and color,
// newest first. A nil categoryID returns expenses across all categories.
func (s *Store) ListExpenses(ctx context.Context, categoryID *int64) ([]core.Expense, error) {
	query := `
		SELECT e.id, e.category_id, e.name, e.subcategory, e.amount_cents, e.date, e.notes, e.created_at,
		       c.name, c.color
		FROM expenses e
		JOIN categories c ON e.category_id = c.id`
	args := []any{}
	if categoryID != nil {
		query += " WHERE e.category_id = ?"
		args = append(args, *categoryID)
	}
	query += " ORDER BY e.date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e       core.Expense
			catID   sql.NullInt64
			date    string
			notes   sql.NullString
			created sql.NullTime
		)
		if err := rows.Scan(&e.ID, &catID, &e.Name, &e.Subcategory, &e.Amount.Cents,
			&date, &notes, &created, &e.CategoryName, &e.CategoryColor); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.CategoryID = catID.Int64
		e.Notes = notes.String
		e.CreatedAt = created.Time
		parsed, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", date, err)
		}
		e.Date = parsed
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// CreateExpense inserts an expense and returns the persisted row. Defaults
// for subcategory and date are the caller's responsibility.
func (s *Store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"INSERT INTO expenses (category_id, name, subcategory, amount_cents, date, notes) VALUES (?, ?, ?, ?, ?, ?) RETURNING "+expenseColumns,
		e.CategoryID, e.Name, e.Subcategory, e.Amount.Cents, e.Date.String(), nullString(e.Notes))
	created, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", created.ID,
		"name", created.Name,
		"amount_cents", created.Amount.Cents,
		"category_id", created.CategoryID)
	return created, nil
}

// UpdateExpense replaces every field of an existing expense. Returns
// core.ErrNotFound when the id does not exist.
func (s *Store) UpdateExpense(ctx context.Context, id int64, e core.Expense) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"UPDATE expenses SET category_id = ?, name = ?, subcategory = ?, amount_cents = ?, date = ?, notes = ? WHERE id = ? RETURNING "+expenseColumns,
		e.CategoryID, e.Name, e.Subcategory, e.Amount.Cents, e.Date.String(), nullString(e.Notes), id)
	updated, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	return updated, nil
}

// DeleteExpense removes a single expense. Returns core.ErrNotFound when the
// id does not exist.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete expense %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}
