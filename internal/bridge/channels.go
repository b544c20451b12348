package bridge

import (
	"context"
	"encoding/json"

	"github.com/henryt56/expense-tracker/internal/core"
)

// Channel names, one per data-access operation.
const (
	ChanGetCategories        = "get-categories"
	ChanAddCategory          = "add-category"
	ChanUpdateCategory       = "update-category"
	ChanDeleteCategory       = "delete-category"
	ChanGetExpenses          = "get-expenses"
	ChanAddExpense           = "add-expense"
	ChanUpdateExpense        = "update-expense"
	ChanDeleteExpense        = "delete-expense"
	ChanGetMonthlyTotals     = "get-monthly-totals"
	ChanGetCategoryTotals    = "get-category-totals"
	ChanGetSubcategoryTotals = "get-subcategory-totals"
)

// channelHandler executes one invocation: raw JSON payload in, result out.
type channelHandler func(ctx context.Context, payload []byte) (any, error)

// errBadPayload wraps JSON decode failures so the dispatcher can report them
// as bad_request rather than store errors.
type errBadPayload struct{ err error }

func (e errBadPayload) Error() string { return "decode payload: " + e.err.Error() }
func (e errBadPayload) Unwrap() error { return e.err }

func decode(payload []byte, into any) error {
	if err := json.Unmarshal(payload, into); err != nil {
		return errBadPayload{err: err}
	}
	return nil
}

type categoryPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (p categoryPayload) toCategory() core.Category {
	return core.Category{Name: p.Name, Color: p.Color, Icon: p.Icon}
}

type expensePayload struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"category_id"`
	Name        string     `json:"name"`
	Subcategory string     `json:"subcategory"`
	Amount      core.Money `json:"amount"`
	Date        core.Date  `json:"date"`
	Notes       string     `json:"notes"`
}

func (p expensePayload) toExpense() core.Expense {
	return core.Expense{
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Subcategory: p.Subcategory,
		Amount:      p.Amount,
		Date:        p.Date,
		Notes:       p.Notes,
	}
}

type idPayload struct {
	ID int64 `json:"id"`
}

type expenseFilterPayload struct {
	CategoryID *int64 `json:"category_id"`
}

type subcategoryPayload struct {
	CategoryID int64 `json:"category_id"`
}

// channels builds the dispatch table: every channel name maps 1:1 to one
// Tracker operation.
func (s *Server) channels() map[string]channelHandler {
	return map[string]channelHandler{
		ChanGetCategories: func(ctx context.Context, _ []byte) (any, error) {
			return s.tracker.ListCategories(ctx)
		},
		ChanAddCategory: func(ctx context.Context, payload []byte) (any, error) {
			var p categoryPayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			return s.tracker.AddCategory(ctx, p.toCategory())
		},
		ChanUpdateCategory: func(ctx context.Context, payload []byte) (any, error) {
			var p categoryPayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			return s.tracker.UpdateCategory(ctx, p.ID, p.toCategory())
		},
		ChanDeleteCategory: func(ctx context.Context, payload []byte) (any, error) {
			var p idPayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			if err := s.tracker.DeleteCategory(ctx, p.ID); err != nil {
				return nil, err
			}
			return true, nil
		},
		ChanGetExpenses: func(ctx context.Context, payload []byte) (any, error) {
			var p expenseFilterPayload
			if len(payload) > 0 {
				if err := decode(payload, &p); err != nil {
					return nil, err
				}
			}
			return s.tracker.ListExpenses(ctx, p.CategoryID)
		},
		ChanAddExpense: func(ctx context.Context, payload []byte) (any, error) {
			var p expensePayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			return s.tracker.AddExpense(ctx, p.toExpense())
		},
		ChanUpdateExpense: func(ctx context.Context, payload []byte) (any, error) {
			var p expensePayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			return s.tracker.UpdateExpense(ctx, p.ID, p.toExpense())
		},
		ChanDeleteExpense: func(ctx context.Context, payload []byte) (any, error) {
			var p idPayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			if err := s.tracker.DeleteExpense(ctx, p.ID); err != nil {
				return nil, err
			}
			return true, nil
		},
		ChanGetMonthlyTotals: func(ctx context.Context, _ []byte) (any, error) {
			return s.tracker.MonthlyTotals(ctx)
		},
		ChanGetCategoryTotals: func(ctx context.Context, _ []byte) (any, error) {
			return s.tracker.CategoryTotals(ctx)
		},
		ChanGetSubcategoryTotals: func(ctx context.Context, payload []byte) (any, error) {
			var p subcategoryPayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			return s.tracker.SubcategoryTotals(ctx, p.CategoryID)
		},
	}
}
