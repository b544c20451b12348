package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	// DefaultColor is applied to categories created without an explicit color.
	DefaultColor = "#3498db"

	// DefaultSubcategory is applied to expenses created without a subcategory.
	DefaultSubcategory = "Misc"

	dateLayout = "2006-01-02"
)

type (
	// Date is a calendar day without a time component.
	Date struct {
		time.Time
	}

	// Category is a user-defined grouping for expenses.
	Category struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Color     string    `json:"color"`
		Icon      string    `json:"icon"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Expense is a single recorded purchase. CategoryName and CategoryColor
	// are populated only by listing queries that join the categories table.
	Expense struct {
		ID          int64     `json:"id"`
		CategoryID  int64     `json:"category_id"`
		Name        string    `json:"name"`
		Subcategory string    `json:"subcategory"`
		Amount      Money     `json:"amount"`
		Date        Date      `json:"date"`
		Notes       string    `json:"notes"`
		CreatedAt   time.Time `json:"created_at"`

		CategoryName  string `json:"category_name,omitempty"`
		CategoryColor string `json:"category_color,omitempty"`
	}
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrMissingCategory = errors.New("missing category")
)

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// YearMonth returns the YYYY-MM prefix used for monthly grouping.
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a YYYY-MM-DD string; an empty string decodes to the
// zero Date so callers can substitute a default.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}

func (e Expense) Validate() error {
	if e.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if len(strings.TrimSpace(e.Name)) == 0 {
		return ErrEmptyName
	}
	if len(e.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	// A zero date is legal on input; the service substitutes today.
	return nil
}
