package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finchapp/finch/internal/models"
)

const expenseColumns = "id, user_id, amount, type, description, category, date, location, mood, receipt_url, tags, created_at, updated_at"

func scanExpense(scan func(dest ...any) error) (*models.Expense, error) {
	var e models.Expense
	var tags string
	err := scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &e.Description, &e.Category,
		&e.Date, &e.Location, &e.Mood, &e.ReceiptURL, &tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode expense tags: %w", err)
	}
	return &e, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

// CreateExpense inserts a transaction record owned by userID.
func (s *Store) CreateExpense(ctx context.Context, userID string, e *models.Expense) error {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	e.UserID = userID
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, userID, e.Amount, e.Type, e.Description, e.Category, e.Date,
		e.Location, e.Mood, e.ReceiptURL, tags, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetExpense retrieves a single expense scoped to its owner. A row owned
// by another user is indistinguishable from a missing one.
func (s *Store) GetExpense(ctx context.Context, userID, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the owner's expenses matching every set filter,
// newest date first. Category, date range, and description search are
// pushed into SQL; the tags filter (match on any shared tag) is applied
// on the decoded rows because tags live as a JSON array in a single column.
func (s *Store) ListExpenses(ctx context.Context, userID string, filter models.ExpenseFilter) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.StartDate != "" {
		query += ` AND date >= ?`
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += ` AND date <= ?`
		args = append(args, filter.EndDate)
	}
	if filter.Search != "" {
		query += ` AND description LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if len(filter.Tags) > 0 && !hasAnyTag(e.Tags, filter.Tags) {
			continue
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense replaces the mutable fields of an owned expense.
func (s *Store) UpdateExpense(ctx context.Context, userID string, e *models.Expense) error {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}
	e.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, type = ?, description = ?, category = ?,
		 date = ?, location = ?, mood = ?, receipt_url = ?, tags = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		e.Amount, e.Type, e.Description, e.Category, e.Date, e.Location,
		e.Mood, e.ReceiptURL, tags, e.UpdatedAt, e.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteExpense removes an owned expense.
func (s *Store) DeleteExpense(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// hasAnyTag reports whether the expense's tag set shares at least one tag
// with the filter set.
func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
