// Package insights aggregates a user's financial records into spending
// summaries, budget status, and AI-generated narratives.
package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/interfaces"
	"github.com/finchapp/finch/internal/models"
)

// Service computes spending aggregations over the store. The AI client is
// optional; without it the summary endpoints still work and only the
// narrative endpoints report unavailability.
type Service struct {
	store  interfaces.Store
	ai     interfaces.AIClient
	logger *common.Logger
}

// NewService creates a new insights service
func NewService(store interfaces.Store, ai interfaces.AIClient, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		ai:     ai,
		logger: logger,
	}
}

// ErrAIUnavailable is returned by narrative methods when no AI client is
// configured.
var ErrAIUnavailable = fmt.Errorf("AI features are not configured")

// Summary builds the spending summary for [startDate, endDate]. Expenses,
// budgets, and goals are fetched concurrently; aggregation happens once
// all three arrive.
func (s *Service) Summary(ctx context.Context, userID, currency, startDate, endDate string) (*models.SpendingSummary, error) {
	var (
		expenses []*models.Expense
		budgets  []*models.Budget
		goals    []*models.Goal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, userID, models.ExpenseFilter{
			StartDate: startDate,
			EndDate:   endDate,
		})
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, userID, models.BudgetFilter{ActiveOnly: true})
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load summary data: %w", err)
	}

	summary := &models.SpendingSummary{
		StartDate: startDate,
		EndDate:   endDate,
		Currency:  currency,
		Goals:     goals,
	}

	byCategory := map[string]*models.CategoryTotal{}
	byMonth := map[string]*models.MonthTotal{}
	for _, e := range expenses {
		month := monthOf(e.Date)
		mt := byMonth[month]
		if mt == nil {
			mt = &models.MonthTotal{Month: month}
			byMonth[month] = mt
		}

		switch e.Type {
		case models.TypeIncome:
			summary.TotalIncome += e.Amount
			mt.Income += e.Amount
		default:
			summary.TotalExpenses += e.Amount
			mt.Expenses += e.Amount

			ct := byCategory[e.Category]
			if ct == nil {
				ct = &models.CategoryTotal{Category: e.Category}
				byCategory[e.Category] = ct
			}
			ct.Total += e.Amount
			ct.Count++
		}
	}
	summary.Net = summary.TotalIncome - summary.TotalExpenses

	for _, ct := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *ct)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Total > summary.ByCategory[j].Total
	})

	for _, mt := range byMonth {
		summary.ByMonth = append(summary.ByMonth, *mt)
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})

	for _, b := range budgets {
		spent := spentAgainst(b, expenses)
		summary.Budgets = append(summary.Budgets, models.BudgetStatus{
			Budget:   b,
			Spent:    spent,
			Exceeded: spent > b.Amount,
		})
	}

	return summary, nil
}

// spentAgainst totals the expenses that count toward a budget: matching
// category (or all when the budget is uncategorized) inside the budget's
// own date window when one is set.
func spentAgainst(b *models.Budget, expenses []*models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		if e.Type != models.TypeExpense {
			continue
		}
		if b.Category != "" && e.Category != b.Category {
			continue
		}
		if b.StartDate != "" && e.Date < b.StartDate {
			continue
		}
		if b.EndDate != "" && e.Date > b.EndDate {
			continue
		}
		total += e.Amount
	}
	return total
}

func monthOf(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

// Advice generates actionable financial advice over the given window.
func (s *Service) Advice(ctx context.Context, userID, currency, startDate, endDate string) (string, error) {
	if s.ai == nil {
		return "", ErrAIUnavailable
	}
	summary, err := s.Summary(ctx, userID, currency, startDate, endDate)
	if err != nil {
		return "", err
	}
	return s.ai.GetFinancialAdvice(ctx, summary)
}

// Narrative generates a prose description of spending patterns.
func (s *Service) Narrative(ctx context.Context, userID, currency, startDate, endDate string) (string, error) {
	if s.ai == nil {
		return "", ErrAIUnavailable
	}
	summary, err := s.Summary(ctx, userID, currency, startDate, endDate)
	if err != nil {
		return "", err
	}
	return s.ai.GenerateSpendingInsights(ctx, summary)
}

// Categorize asks the AI to classify an expense description. On any AI
// failure it falls back to the "Other" category so expense creation never
// blocks on the model.
func (s *Service) Categorize(ctx context.Context, description string, amount float64) *models.ExpenseAnalysis {
	fallback := &models.ExpenseAnalysis{Category: "Other"}
	if s.ai == nil || strings.TrimSpace(description) == "" {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	analysis, err := s.ai.AnalyzeExpense(ctx, description, amount)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Expense categorization failed, using fallback")
		return fallback
	}
	return analysis
}
