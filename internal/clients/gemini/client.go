// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/interfaces"
	"github.com/finchapp/finch/internal/models"
)

const DefaultModel = "gemini-3-flash-preview"

// Client implements the AIClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// AnalyzeExpense asks the model to categorize a transaction from its
// description and amount. The model is instructed to answer with a small
// JSON object; anything unparseable is surfaced as an error so callers
// can fall back to a default category.
func (c *Client) AnalyzeExpense(ctx context.Context, description string, amount float64) (*models.ExpenseAnalysis, error) {
	prompt := buildExpenseAnalysisPrompt(description, amount)
	text, err := c.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	analysis, err := parseExpenseAnalysis(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense analysis: %w", err)
	}
	return analysis, nil
}

// GetFinancialAdvice generates actionable advice from a spending summary
func (c *Client) GetFinancialAdvice(ctx context.Context, summary *models.SpendingSummary) (string, error) {
	prompt := buildSummaryPrompt(summary) + `
Based on the data above, provide 3-5 pieces of specific, actionable financial advice.
Keep each point to one or two sentences. Do not restate the numbers back.`
	return c.GenerateContent(ctx, prompt)
}

// GenerateSpendingInsights generates a narrative analysis of spending patterns
func (c *Client) GenerateSpendingInsights(ctx context.Context, summary *models.SpendingSummary) (string, error) {
	prompt := buildSummaryPrompt(summary) + `
Based on the data above, describe the notable spending patterns, trends across months,
and any categories that stand out. Write a short narrative of 2-3 paragraphs.`
	return c.GenerateContent(ctx, prompt)
}

func buildExpenseAnalysisPrompt(description string, amount float64) string {
	categories := models.DefaultCategories()
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}

	return fmt.Sprintf(`Classify the following personal transaction.

Description: %s
Amount: %.2f

Pick the single best category from this list: %s.
Suggest up to 3 short lowercase tags.

Answer with ONLY a JSON object in this exact shape, no prose:
{"category": "...", "tags": ["...", "..."]}`,
		description, amount, strings.Join(names, ", "))
}

// parseExpenseAnalysis tolerates markdown code fences around the JSON,
// which the model emits despite instructions.
func parseExpenseAnalysis(text string) (*models.ExpenseAnalysis, error) {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var analysis models.ExpenseAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, err
	}
	if analysis.Category == "" {
		return nil, fmt.Errorf("empty category in response")
	}
	return &analysis, nil
}

func buildSummaryPrompt(summary *models.SpendingSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a personal finance assistant. Here is a spending summary for %s to %s (amounts in %s):

Total expenses: %.2f
Total income: %.2f
Net: %.2f
`,
		summary.StartDate, summary.EndDate, summary.Currency,
		summary.TotalExpenses, summary.TotalIncome, summary.Net)

	if len(summary.ByCategory) > 0 {
		sb.WriteString("\nSpending by category:\n")
		for _, ct := range summary.ByCategory {
			fmt.Fprintf(&sb, "- %s: %.2f (%d transactions)\n", ct.Category, ct.Total, ct.Count)
		}
	}

	if len(summary.ByMonth) > 0 {
		sb.WriteString("\nMonthly totals:\n")
		for _, mt := range summary.ByMonth {
			fmt.Fprintf(&sb, "- %s: expenses %.2f, income %.2f\n", mt.Month, mt.Expenses, mt.Income)
		}
	}

	if len(summary.Budgets) > 0 {
		sb.WriteString("\nBudgets:\n")
		for _, bs := range summary.Budgets {
			status := "within budget"
			if bs.Exceeded {
				status = "EXCEEDED"
			}
			label := bs.Budget.Category
			if label == "" {
				label = "overall"
			}
			fmt.Fprintf(&sb, "- %s (%s): %.2f spent of %.2f (%s)\n",
				label, bs.Budget.Period, bs.Spent, bs.Budget.Amount, status)
		}
	}

	if len(summary.Goals) > 0 {
		sb.WriteString("\nSavings goals:\n")
		for _, g := range summary.Goals {
			fmt.Fprintf(&sb, "- %s: %.2f of %.2f (%.0f%%)\n",
				g.Name, g.CurrentAmount, g.TargetAmount, g.Progress()*100)
		}
	}

	return sb.String()
}

// Ensure Client implements AIClient
var _ interfaces.AIClient = (*Client)(nil)
