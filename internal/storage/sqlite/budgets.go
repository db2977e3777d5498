package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finchapp/finch/internal/models"
)

const budgetColumns = "id, user_id, amount, period, category, start_date, end_date, active, created_at, updated_at"

func scanBudget(scan func(dest ...any) error) (*models.Budget, error) {
	var b models.Budget
	err := scan(&b.ID, &b.UserID, &b.Amount, &b.Period, &b.Category,
		&b.StartDate, &b.EndDate, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBudget inserts a spending target owned by userID.
func (s *Store) CreateBudget(ctx context.Context, userID string, b *models.Budget) error {
	now := time.Now().UTC()
	b.UserID = userID
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, userID, b.Amount, b.Period, b.Category, b.StartDate, b.EndDate,
		b.Active, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// GetBudget retrieves a single owned budget.
func (s *Store) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns the owner's budgets matching every set filter,
// newest first.
func (s *Store) ListBudgets(ctx context.Context, userID string, filter models.BudgetFilter) ([]*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ?`
	args := []any{userID}

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.ActiveOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []*models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget replaces the mutable fields of an owned budget.
func (s *Store) UpdateBudget(ctx context.Context, userID string, b *models.Budget) error {
	b.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET amount = ?, period = ?, category = ?, start_date = ?,
		 end_date = ?, active = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		b.Amount, b.Period, b.Category, b.StartDate, b.EndDate, b.Active,
		b.UpdatedAt, b.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteBudget removes an owned budget.
func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
