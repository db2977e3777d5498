package interfaces

import (
	"context"

	"github.com/finchapp/finch/internal/models"
)

// AIClient generates spending insights and expense categorization. A nil
// client means AI features are unavailable; callers degrade gracefully.
type AIClient interface {
	AnalyzeExpense(ctx context.Context, description string, amount float64) (*models.ExpenseAnalysis, error)
	GetFinancialAdvice(ctx context.Context, summary *models.SpendingSummary) (string, error)
	GenerateSpendingInsights(ctx context.Context, summary *models.SpendingSummary) (string, error)
}

// CurrencyClient converts amounts between currencies via an external
// exchange-rate service.
type CurrencyClient interface {
	GetExchangeRate(ctx context.Context, from, to string) (float64, error)
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
	SupportedCurrencies(ctx context.Context) (map[string]string, error)
}

// EventPublisher fans notification events out to an external broker.
// Implementations must be safe to skip entirely (nil publisher).
type EventPublisher interface {
	PublishNotification(ctx context.Context, n *models.Notification) error
	Close() error
}
