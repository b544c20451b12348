package services

import (
	"context"
	"strconv"

	"github.com/henryt56/expense-tracker/internal/core"
	"github.com/henryt56/expense-tracker/internal/log"
)

const (
	monthlyCacheKey  = "monthly"
	categoryCacheKey = "categories"
)

// MonthlyTotals returns total spend per YYYY-MM month, ascending.
func (t *Tracker) MonthlyTotals(ctx context.Context) ([]core.MonthlyTotal, error) {
	if totals, ok := t.monthlyCache.Get(monthlyCacheKey); ok {
		return totals, nil
	}
	totals, err := t.store.MonthlyTotals(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "Monthly totals failed", log.FieldError, err)
		return nil, err
	}
	t.monthlyCache.Set(monthlyCacheKey, totals)
	return totals, nil
}

// CategoryTotals returns total spend per category, descending, with
// zero-expense categories included at total 0.
func (t *Tracker) CategoryTotals(ctx context.Context) ([]core.CategoryTotal, error) {
	if totals, ok := t.categoryCache.Get(categoryCacheKey); ok {
		return totals, nil
	}
	totals, err := t.store.CategoryTotals(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "Category totals failed", log.FieldError, err)
		return nil, err
	}
	t.categoryCache.Set(categoryCacheKey, totals)
	return totals, nil
}

// SubcategoryTotals returns total spend per subcategory within one category,
// descending.
func (t *Tracker) SubcategoryTotals(ctx context.Context, categoryID int64) ([]core.SubcategoryTotal, error) {
	key := "subcategory:" + strconv.FormatInt(categoryID, 10)
	if totals, ok := t.subcatCache.Get(key); ok {
		return totals, nil
	}
	totals, err := t.store.SubcategoryTotals(ctx, categoryID)
	if err != nil {
		t.logger.ErrorContext(ctx, "Subcategory totals failed", log.FieldCategoryID, categoryID, log.FieldError, err)
		return nil, err
	}
	t.subcatCache.Set(key, totals)
	return totals, nil
}
