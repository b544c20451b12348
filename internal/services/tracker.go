// Package services implements the data-access service: one stateless
// operation per business action, all of them single parameterized statements
// against the store.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/henryt56/expense-tracker/internal/cache"
	"github.com/henryt56/expense-tracker/internal/core"
	"github.com/henryt56/expense-tracker/internal/log"
	"github.com/henryt56/expense-tracker/internal/storage"
)

// ErrInvalidInput tags validation failures so callers can report them
// separately from store failures.
var ErrInvalidInput = errors.New("invalid input")

const (
	reportCacheTTL     = time.Minute
	reportCacheCleanup = 5 * time.Minute
)

// Tracker exposes category CRUD, expense CRUD and the three reporting
// queries. It holds no per-call state; the only mutable pieces are the report
// caches, which are purged on every successful write.
type Tracker struct {
	store  *storage.Store
	logger *log.Logger

	monthlyCache  *cache.LRUCache[[]core.MonthlyTotal]
	categoryCache *cache.LRUCache[[]core.CategoryTotal]
	subcatCache   *cache.LRUCache[[]core.SubcategoryTotal]
	cacheManager  *cache.Manager
}

func NewTracker(store *storage.Store, logger *log.Logger) *Tracker {
	t := &Tracker{
		store:         store,
		logger:        logger.WithComponent(log.ComponentService),
		monthlyCache:  cache.NewLRUCache[[]core.MonthlyTotal](1, reportCacheTTL),
		categoryCache: cache.NewLRUCache[[]core.CategoryTotal](1, reportCacheTTL),
		subcatCache:   cache.NewLRUCache[[]core.SubcategoryTotal](50, reportCacheTTL),
		cacheManager:  cache.NewManager(),
	}
	t.cacheManager.Register(t.monthlyCache)
	t.cacheManager.Register(t.categoryCache)
	t.cacheManager.Register(t.subcatCache)
	t.cacheManager.StartCleanup(reportCacheCleanup)
	return t
}

// Close stops the cache cleanup routine and closes the store. Called exactly
// once at shutdown.
func (t *Tracker) Close() error {
	t.cacheManager.Stop()
	if err := t.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// invalidateReports drops every cached report. Any write can change any
// aggregate, so there is nothing finer-grained worth doing on tables this
// small.
func (t *Tracker) invalidateReports() {
	t.monthlyCache.Purge()
	t.categoryCache.Purge()
	t.subcatCache.Purge()
}

// ListCategories returns all categories ordered by name.
func (t *Tracker) ListCategories(ctx context.Context) ([]core.Category, error) {
	return t.store.ListCategories(ctx)
}

// AddCategory persists a new category and returns the stored row, id and
// created_at included. An empty color falls back to core.DefaultColor.
func (t *Tracker) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.Color == "" {
		c.Color = core.DefaultColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	created, err := t.store.CreateCategory(ctx, c)
	if err != nil {
		t.logger.ErrorContext(ctx, "Add category failed", log.FieldError, err)
		return core.Category{}, err
	}
	t.invalidateReports()
	return created, nil
}

// UpdateCategory fully replaces name, color and icon of the category.
func (t *Tracker) UpdateCategory(ctx context.Context, id int64, c core.Category) (core.Category, error) {
	if c.Color == "" {
		c.Color = core.DefaultColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	updated, err := t.store.UpdateCategory(ctx, id, c)
	if err != nil {
		t.logger.ErrorContext(ctx, "Update category failed", log.FieldCategoryID, id, log.FieldError, err)
		return core.Category{}, err
	}
	t.invalidateReports()
	return updated, nil
}

// DeleteCategory removes the category; the store cascades the delete to all
// of its expenses.
func (t *Tracker) DeleteCategory(ctx context.Context, id int64) error {
	if err := t.store.DeleteCategory(ctx, id); err != nil {
		t.logger.ErrorContext(ctx, "Delete category failed", log.FieldCategoryID, id, log.FieldError, err)
		return err
	}
	t.invalidateReports()
	return nil
}

// ListExpenses returns expenses newest first, joined with their category's
// name and color. A nil categoryID means all categories.
func (t *Tracker) ListExpenses(ctx context.Context, categoryID *int64) ([]core.Expense, error) {
	return t.store.ListExpenses(ctx, categoryID)
}

// AddExpense persists a new expense. Subcategory defaults to
// core.DefaultSubcategory and a zero date defaults to today.
func (t *Tracker) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = applyExpenseDefaults(e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	created, err := t.store.CreateExpense(ctx, e)
	if err != nil {
		t.logger.ErrorContext(ctx, "Add expense failed", log.FieldError, err)
		return core.Expense{}, err
	}
	t.invalidateReports()
	return created, nil
}

// UpdateExpense fully replaces every field of the expense.
func (t *Tracker) UpdateExpense(ctx context.Context, id int64, e core.Expense) (core.Expense, error) {
	e = applyExpenseDefaults(e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	updated, err := t.store.UpdateExpense(ctx, id, e)
	if err != nil {
		t.logger.ErrorContext(ctx, "Update expense failed", log.FieldExpenseID, id, log.FieldError, err)
		return core.Expense{}, err
	}
	t.invalidateReports()
	return updated, nil
}

// DeleteExpense removes a single expense.
func (t *Tracker) DeleteExpense(ctx context.Context, id int64) error {
	if err := t.store.DeleteExpense(ctx, id); err != nil {
		t.logger.ErrorContext(ctx, "Delete expense failed", log.FieldExpenseID, id, log.FieldError, err)
		return err
	}
	t.invalidateReports()
	return nil
}

func applyExpenseDefaults(e core.Expense) core.Expense {
	if e.Subcategory == "" {
		e.Subcategory = core.DefaultSubcategory
	}
	if e.Date.IsZero() {
		e.Date = core.Today()
	}
	return e
}
