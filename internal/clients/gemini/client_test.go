package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchapp/finch/internal/models"
)

func TestParseExpenseAnalysis(t *testing.T) {
	analysis, err := parseExpenseAnalysis(`{"category": "Transport", "tags": ["commute", "train"]}`)
	require.NoError(t, err)
	assert.Equal(t, "Transport", analysis.Category)
	assert.Equal(t, []string{"commute", "train"}, analysis.Tags)
}

func TestParseExpenseAnalysis_CodeFenced(t *testing.T) {
	analysis, err := parseExpenseAnalysis("```json\n{\"category\": \"Health\", \"tags\": [\"pharmacy\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Health", analysis.Category)
}

func TestParseExpenseAnalysis_Invalid(t *testing.T) {
	_, err := parseExpenseAnalysis("I could not classify that transaction.")
	assert.Error(t, err)

	_, err = parseExpenseAnalysis(`{"tags": ["orphan"]}`)
	assert.Error(t, err)
}

func TestBuildExpenseAnalysisPrompt(t *testing.T) {
	prompt := buildExpenseAnalysisPrompt("Coffee at the corner shop", 4.80)
	assert.Contains(t, prompt, "Coffee at the corner shop")
	assert.Contains(t, prompt, "4.80")
	assert.Contains(t, prompt, "Food & Dining")
}

func TestBuildSummaryPrompt(t *testing.T) {
	summary := &models.SpendingSummary{
		StartDate:     "2026-08-01",
		EndDate:       "2026-08-31",
		Currency:      "USD",
		TotalExpenses: 1200,
		TotalIncome:   3000,
		Net:           1800,
		ByCategory: []models.CategoryTotal{
			{Category: "Housing", Total: 900, Count: 1},
		},
		Budgets: []models.BudgetStatus{
			{Budget: &models.Budget{Period: models.PeriodMonthly, Amount: 800}, Spent: 900, Exceeded: true},
		},
	}
	prompt := buildSummaryPrompt(summary)
	assert.Contains(t, prompt, "Housing")
	assert.Contains(t, prompt, "EXCEEDED")
	assert.Contains(t, prompt, "overall")
}
