package models

// CategoryTotal is an aggregated spend figure for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// MonthTotal is aggregated spend and income for one calendar month.
type MonthTotal struct {
	Month    string  `json:"month"` // YYYY-MM
	Expenses float64 `json:"expenses"`
	Income   float64 `json:"income"`
}

// BudgetStatus pairs a budget with the spend recorded against it.
type BudgetStatus struct {
	Budget   *Budget `json:"budget"`
	Spent    float64 `json:"spent"`
	Exceeded bool    `json:"exceeded"`
}

// SpendingSummary is the dashboard aggregation over a date window. It also
// feeds the AI prompt builders.
type SpendingSummary struct {
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	Currency      string          `json:"currency"`
	TotalExpenses float64         `json:"totalExpenses"`
	TotalIncome   float64         `json:"totalIncome"`
	Net           float64         `json:"net"`
	ByCategory    []CategoryTotal `json:"byCategory"`
	ByMonth       []MonthTotal    `json:"byMonth"`
	Budgets       []BudgetStatus  `json:"budgets"`
	Goals         []*Goal         `json:"goals"`
}

// ExpenseAnalysis is the AI categorization result for a single expense.
type ExpenseAnalysis struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}
