package models

import "time"

// Budget recurrence periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Budget is a recurring spending target, optionally scoped to a category
// and a date window.
type Budget struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Amount    float64   `json:"amount"`
	Period    string    `json:"period"`
	Category  string    `json:"category,omitempty"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BudgetFilter narrows budget listings.
type BudgetFilter struct {
	Category   string
	ActiveOnly bool
}

// ValidPeriod reports whether p is a recognized recurrence period.
func ValidPeriod(p string) bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}
