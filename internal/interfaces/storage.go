// Package interfaces defines the store and client contracts for finch.
package interfaces

import (
	"context"

	"github.com/finchapp/finch/internal/models"
)

// Store is the Resource Access Layer contract. Every method that touches
// an owned entity takes the authenticated user id explicitly; the
// implementation injects the owning-user constraint into each query
// unconditionally. Update and delete re-check ownership at the data layer
// and return models.ErrNotFound for ids owned by another user.
type Store interface {
	UserStore
	ExpenseStore
	BudgetStore
	GoalStore
	CategoryStore
	NotificationStore

	// WipeUser deletes the user and all owned records across entity
	// types in a single transaction.
	WipeUser(ctx context.Context, userID string) error

	Close() error
}

// UserStore manages identity records (the credential store).
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// ExpenseStore manages expense records scoped to their owner.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, userID string, e *models.Expense) error
	GetExpense(ctx context.Context, userID, id string) (*models.Expense, error)
	ListExpenses(ctx context.Context, userID string, filter models.ExpenseFilter) ([]*models.Expense, error)
	UpdateExpense(ctx context.Context, userID string, e *models.Expense) error
	DeleteExpense(ctx context.Context, userID, id string) error
}

// BudgetStore manages budget records scoped to their owner.
type BudgetStore interface {
	CreateBudget(ctx context.Context, userID string, b *models.Budget) error
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string, filter models.BudgetFilter) ([]*models.Budget, error)
	UpdateBudget(ctx context.Context, userID string, b *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error
}

// GoalStore manages goal records scoped to their owner.
type GoalStore interface {
	CreateGoal(ctx context.Context, userID string, g *models.Goal) error
	GetGoal(ctx context.Context, userID, id string) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]*models.Goal, error)
	UpdateGoal(ctx context.Context, userID string, g *models.Goal) error
	DeleteGoal(ctx context.Context, userID, id string) error
}

// CategoryStore manages category records scoped to their owner.
type CategoryStore interface {
	CreateCategory(ctx context.Context, userID string, c *models.Category) error
	GetCategory(ctx context.Context, userID, id string) (*models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, userID string, c *models.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error
	SeedDefaultCategories(ctx context.Context, userID string) error
}

// NotificationStore manages notification records scoped to their owner.
type NotificationStore interface {
	CreateNotification(ctx context.Context, userID string, n *models.Notification) error
	GetNotification(ctx context.Context, userID, id string) (*models.Notification, error)
	ListNotifications(ctx context.Context, userID string, filter models.NotificationFilter) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int, error)
	DeleteNotification(ctx context.Context, userID, id string) error
}
