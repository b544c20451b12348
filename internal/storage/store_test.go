package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/henryt56/expense-tracker/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Second startup against the same file must not fail or re-run schema.
	store, err = Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestCategoryCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateCategory(ctx, core.Category{Name: "Groceries", Color: "#00ff00"})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, "Groceries", created.Name)
	require.Equal(t, "#00ff00", created.Color)
	require.Empty(t, created.Icon)
	require.False(t, created.CreatedAt.IsZero())

	_, err = store.CreateCategory(ctx, core.Category{Name: "Auto", Color: "#112233", Icon: "car"})
	require.NoError(t, err)

	list, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by name ascending.
	require.Equal(t, "Auto", list[0].Name)
	require.Equal(t, "Groceries", list[1].Name)

	updated, err := store.UpdateCategory(ctx, created.ID, core.Category{Name: "Food", Color: "#ff0000", Icon: "cart"})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Food", updated.Name)
	require.Equal(t, "cart", updated.Icon)

	_, err = store.UpdateCategory(ctx, 999, core.Category{Name: "Ghost", Color: "#000000"})
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, store.DeleteCategory(ctx, created.ID))
	require.ErrorIs(t, store.DeleteCategory(ctx, created.ID), core.ErrNotFound)
}

func TestDuplicateCategoryNamesAllowed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, core.Category{Name: "Misc", Color: "#111111"})
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, core.Category{Name: "Misc", Color: "#222222"})
	require.NoError(t, err)

	list, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestExpenseCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, core.Category{Name: "Groceries", Color: "#00ff00"})
	require.NoError(t, err)

	created, err := store.CreateExpense(ctx, core.Expense{
		CategoryID:  cat.ID,
		Name:        "Milk",
		Subcategory: "Dairy",
		Amount:      core.Money{Cents: 350},
		Date:        core.NewDate(2024, 1, 5),
		Notes:       "2 liters",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, int64(350), created.Amount.Cents)
	require.Equal(t, "2024-01-05", created.Date.String())
	require.Equal(t, "2 liters", created.Notes)

	list, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Groceries", list[0].CategoryName)
	require.Equal(t, "#00ff00", list[0].CategoryColor)

	updated, err := store.UpdateExpense(ctx, created.ID, core.Expense{
		CategoryID:  cat.ID,
		Name:        "Oat milk",
		Subcategory: "Dairy",
		Amount:      core.Money{Cents: 420},
		Date:        core.NewDate(2024, 1, 6),
	})
	require.NoError(t, err)
	require.Equal(t, "Oat milk", updated.Name)
	require.Equal(t, int64(420), updated.Amount.Cents)
	require.Empty(t, updated.Notes)

	_, err = store.UpdateExpense(ctx, 999, updated)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, store.DeleteExpense(ctx, created.ID))
	require.ErrorIs(t, store.DeleteExpense(ctx, created.ID), core.ErrNotFound)
}

func TestListExpensesFilterAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, core.Category{Name: "Food", Color: "#111111"})
	require.NoError(t, err)
	auto, err := store.CreateCategory(ctx, core.Category{Name: "Auto", Color: "#222222"})
	require.NoError(t, err)

	for _, e := range []core.Expense{
		{CategoryID: food.ID, Name: "Old", Subcategory: "Misc", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 1)},
		{CategoryID: food.ID, Name: "New", Subcategory: "Misc", Amount: core.Money{Cents: 200}, Date: core.NewDate(2024, 3, 1)},
		{CategoryID: auto.ID, Name: "Fuel", Subcategory: "Misc", Amount: core.Money{Cents: 300}, Date: core.NewDate(2024, 2, 1)},
	} {
		_, err := store.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	all, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	require.Equal(t, "New", all[0].Name)
	require.Equal(t, "Fuel", all[1].Name)
	require.Equal(t, "Old", all[2].Name)

	onlyFood, err := store.ListExpenses(ctx, &food.ID)
	require.NoError(t, err)
	require.Len(t, onlyFood, 2)
	for _, e := range onlyFood {
		require.Equal(t, food.ID, e.CategoryID)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, core.Category{Name: "Food", Color: "#111111"})
	require.NoError(t, err)
	auto, err := store.CreateCategory(ctx, core.Category{Name: "Auto", Color: "#222222"})
	require.NoError(t, err)

	_, err = store.CreateExpense(ctx, core.Expense{CategoryID: food.ID, Name: "Milk", Subcategory: "Misc", Amount: core.Money{Cents: 350}, Date: core.NewDate(2024, 1, 5)})
	require.NoError(t, err)
	_, err = store.CreateExpense(ctx, core.Expense{CategoryID: auto.ID, Name: "Fuel", Subcategory: "Misc", Amount: core.Money{Cents: 6000}, Date: core.NewDate(2024, 1, 6)})
	require.NoError(t, err)

	require.NoError(t, store.DeleteCategory(ctx, food.ID))

	remaining, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, auto.ID, remaining[0].CategoryID)
}

func TestMonthlyTotals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, core.Category{Name: "Food", Color: "#111111"})
	require.NoError(t, err)

	// Same month in different years must be separate groups.
	for _, e := range []core.Expense{
		{CategoryID: cat.ID, Name: "a", Subcategory: "Misc", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 5)},
		{CategoryID: cat.ID, Name: "b", Subcategory: "Misc", Amount: core.Money{Cents: 250}, Date: core.NewDate(2024, 1, 20)},
		{CategoryID: cat.ID, Name: "c", Subcategory: "Misc", Amount: core.Money{Cents: 400}, Date: core.NewDate(2025, 1, 5)},
	} {
		_, err := store.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	totals, err := store.MonthlyTotals(ctx)
	require.NoError(t, err)
	require.Equal(t, []core.MonthlyTotal{
		{Month: "2024-01", Total: core.Money{Cents: 350}},
		{Month: "2025-01", Total: core.Money{Cents: 400}},
	}, totals)
}

func TestCategoryTotalsIncludeEmptyCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, core.Category{Name: "Food", Color: "#111111"})
	require.NoError(t, err)
	empty, err := store.CreateCategory(ctx, core.Category{Name: "Empty", Color: "#222222"})
	require.NoError(t, err)

	_, err = store.CreateExpense(ctx, core.Expense{CategoryID: food.ID, Name: "Milk", Subcategory: "Misc", Amount: core.Money{Cents: 350}, Date: core.NewDate(2024, 1, 5)})
	require.NoError(t, err)

	totals, err := store.CategoryTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	// Descending by total; the zero-expense category is present with 0.
	require.Equal(t, food.ID, totals[0].CategoryID)
	require.Equal(t, int64(350), totals[0].Total.Cents)
	require.Equal(t, empty.ID, totals[1].CategoryID)
	require.Equal(t, int64(0), totals[1].Total.Cents)
}

func TestSubcategoryTotals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, core.Category{Name: "Food", Color: "#111111"})
	require.NoError(t, err)
	auto, err := store.CreateCategory(ctx, core.Category{Name: "Auto", Color: "#222222"})
	require.NoError(t, err)

	for _, e := range []core.Expense{
		{CategoryID: food.ID, Name: "a", Subcategory: "Dairy", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 5)},
		{CategoryID: food.ID, Name: "b", Subcategory: "Dairy", Amount: core.Money{Cents: 150}, Date: core.NewDate(2024, 1, 6)},
		{CategoryID: food.ID, Name: "c", Subcategory: "Bakery", Amount: core.Money{Cents: 900}, Date: core.NewDate(2024, 1, 7)},
		{CategoryID: auto.ID, Name: "d", Subcategory: "Fuel", Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 1, 8)},
	} {
		_, err := store.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	totals, err := store.SubcategoryTotals(ctx, food.ID)
	require.NoError(t, err)
	require.Equal(t, []core.SubcategoryTotal{
		{Subcategory: "Bakery", Total: core.Money{Cents: 900}},
		{Subcategory: "Dairy", Total: core.Money{Cents: 250}},
	}, totals)
}

func TestNotFoundIsDistinguishable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.DeleteExpense(ctx, 42)
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrNotFound))
}
