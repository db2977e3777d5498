package models

import "time"

// Transaction direction for an expense record.
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Expense is a single recorded transaction. Dates are calendar dates in
// ISO form (YYYY-MM-DD); the ordering and range filters rely on that form
// sorting lexicographically.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Location    string    `json:"location,omitempty"`
	Mood        string    `json:"mood,omitempty"`
	ReceiptURL  string    `json:"receiptUrl,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExpenseFilter holds the recognized list-filter options. All set filters
// are ANDed; zero values impose no constraint. The owning-user constraint
// is not part of the filter; the store injects it unconditionally.
type ExpenseFilter struct {
	Category  string
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
	Tags      []string
	Search    string // case-insensitive substring on description
}
