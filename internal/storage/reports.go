package storage

import (
	"context"
	"fmt"

	"github.com/henryt56/expense-tracker/internal/core"
)

// MonthlyTotals groups all expenses by calendar month (YYYY-MM), ascending.
// Amounts are summed as integer cents, so the totals are exact.
func (s *Store) MonthlyTotals(ctx context.Context) ([]core.MonthlyTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', date) AS month, SUM(amount_cents) AS total
		FROM expenses
		GROUP BY month
		ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	totals := []core.MonthlyTotal{}
	for rows.Next() {
		var t core.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	return totals, nil
}

// CategoryTotals returns the all-time total per category, highest first.
// The left join keeps zero-expense categories in the result with total 0.
func (s *Store) CategoryTotals(ctx context.Context) ([]core.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.color, COALESCE(SUM(e.amount_cents), 0) AS total
		FROM categories c
		LEFT JOIN expenses e ON c.id = e.category_id
		GROUP BY c.id, c.name, c.color
		ORDER BY total DESC`)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	totals := []core.CategoryTotal{}
	for rows.Next() {
		var t core.CategoryTotal
		if err := rows.Scan(&t.CategoryID, &t.Name, &t.Color, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return totals, nil
}

// SubcategoryTotals returns the total per subcategory within one category,
// highest first.
func (s *Store) SubcategoryTotals(ctx context.Context, categoryID int64) ([]core.SubcategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.subcategory, COALESCE(SUM(e.amount_cents), 0) AS total
		FROM expenses e
		WHERE e.category_id = ?
		GROUP BY e.subcategory
		ORDER BY total DESC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("subcategory totals: %w", err)
	}
	defer rows.Close()

	totals := []core.SubcategoryTotal{}
	for rows.Next() {
		var t core.SubcategoryTotal
		if err := rows.Scan(&t.Subcategory, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan subcategory total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("subcategory totals: %w", err)
	}
	return totals, nil
}
