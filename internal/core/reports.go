package core

// MonthlyTotal is the spend for one YYYY-MM month.
type MonthlyTotal struct {
	Month string `json:"month"`
	Total Money  `json:"total"`
}

// CategoryTotal is the all-time spend for one category. Categories with no
// expenses report a zero total, not an absent row.
type CategoryTotal struct {
	CategoryID int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Total      Money  `json:"total"`
}

// SubcategoryTotal is the spend for one subcategory within a category.
type SubcategoryTotal struct {
	Subcategory string `json:"subcategory"`
	Total       Money  `json:"total"`
}
