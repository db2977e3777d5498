package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(common.NewSilentLogger(), filepath.Join(t.TempDir(), "finch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *Store, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Currency: "USD",
	}
	u.PasswordHash = "$2a$10$placeholderplaceholderplaceholderplacehold"
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	newTestUser(t, store, "alice@example.com")

	dup := &models.User{ID: uuid.NewString(), Email: "Alice@Example.com", PasswordHash: "x"}
	err := store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	u := newTestUser(t, store, "Bob@Example.com")

	got, err := store.GetUserByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestGetUser_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetUser(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "carol@example.com")

	u.Currency = "EUR"
	u.Theme = "dark"
	require.NoError(t, store.UpdateUser(ctx, u))

	got, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "dark", got.Theme)
}

func TestExpenseCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "dave@example.com")

	e := &models.Expense{
		ID:          uuid.NewString(),
		Amount:      42.50,
		Type:        models.TypeExpense,
		Description: "Groceries at the market",
		Category:    "Food & Dining",
		Date:        "2026-08-15",
		Tags:        []string{"food", "weekly"},
	}
	require.NoError(t, store.CreateExpense(ctx, u.ID, e))

	got, err := store.GetExpense(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.50, got.Amount)
	assert.Equal(t, []string{"food", "weekly"}, got.Tags)

	got.Amount = 40.00
	got.Description = "Groceries"
	require.NoError(t, store.UpdateExpense(ctx, u.ID, got))

	got, err = store.GetExpense(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.00, got.Amount)

	require.NoError(t, store.DeleteExpense(ctx, u.ID, e.ID))
	_, err = store.GetExpense(ctx, u.ID, e.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListExpenses_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "erin@example.com")

	seed := []*models.Expense{
		{Amount: 10, Category: "Food & Dining", Date: "2026-08-01", Description: "Lunch downtown", Tags: []string{"food"}},
		{Amount: 20, Category: "Food & Dining", Date: "2026-08-10", Description: "Dinner", Tags: []string{"food", "date-night"}},
		{Amount: 30, Category: "Transport", Date: "2026-08-05", Description: "Train ticket", Tags: []string{"commute"}},
		{Amount: 40, Category: "Transport", Date: "2026-07-20", Description: "Bus pass"},
	}
	for _, e := range seed {
		e.ID = uuid.NewString()
		e.Type = models.TypeExpense
		require.NoError(t, store.CreateExpense(ctx, u.ID, e))
	}

	all, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	// Newest date first.
	assert.Equal(t, "2026-08-10", all[0].Date)
	assert.Equal(t, "2026-07-20", all[3].Date)

	byCategory, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{Category: "Transport"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	inAugust, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{
		StartDate: "2026-08-01", EndDate: "2026-08-31",
	})
	require.NoError(t, err)
	assert.Len(t, inAugust, 3)

	// Range bounds are inclusive.
	exact, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{
		StartDate: "2026-08-05", EndDate: "2026-08-05",
	})
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "Train ticket", exact[0].Description)

	bySearch, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{Search: "LUNCH"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Lunch downtown", bySearch[0].Description)

	// A filter tag set matches any expense sharing at least one tag.
	byTags, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{Tags: []string{"food", "date-night"}})
	require.NoError(t, err)
	require.Len(t, byTags, 2)
	assert.Equal(t, "Dinner", byTags[0].Description)
	assert.Equal(t, "Lunch downtown", byTags[1].Description)

	oneOverlap, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{Tags: []string{"food", "travel"}})
	require.NoError(t, err)
	require.Len(t, oneOverlap, 2)

	noOverlap, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{Tags: []string{"travel"}})
	require.NoError(t, err)
	assert.Empty(t, noOverlap)

	combined, err := store.ListExpenses(ctx, u.ID, models.ExpenseFilter{
		Category:  "Food & Dining",
		StartDate: "2026-08-05",
		Tags:      []string{"food"},
	})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "Dinner", combined[0].Description)
}

func TestTenantIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice@example.com")
	mallory := newTestUser(t, store, "mallory@example.com")

	e := &models.Expense{
		ID: uuid.NewString(), Amount: 99, Type: models.TypeExpense,
		Description: "Private purchase", Date: "2026-08-20",
	}
	require.NoError(t, store.CreateExpense(ctx, alice.ID, e))

	// Reads never cross tenants.
	_, err := store.GetExpense(ctx, mallory.ID, e.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	list, err := store.ListExpenses(ctx, mallory.ID, models.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// A cross-tenant update must fail and leave the row unchanged.
	stolen := *e
	stolen.Amount = 1
	err = store.UpdateExpense(ctx, mallory.ID, &stolen)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = store.DeleteExpense(ctx, mallory.ID, e.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := store.GetExpense(ctx, alice.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 99.0, got.Amount)
}

func TestBudgetCRUDAndFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "frank@example.com")

	active := &models.Budget{
		ID: uuid.NewString(), Amount: 500, Period: models.PeriodMonthly,
		Category: "Food & Dining", Active: true,
	}
	inactive := &models.Budget{
		ID: uuid.NewString(), Amount: 100, Period: models.PeriodWeekly, Active: false,
	}
	require.NoError(t, store.CreateBudget(ctx, u.ID, active))
	require.NoError(t, store.CreateBudget(ctx, u.ID, inactive))

	all, err := store.ListBudgets(ctx, u.ID, models.BudgetFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := store.ListBudgets(ctx, u.ID, models.BudgetFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)

	active.Amount = 600
	require.NoError(t, store.UpdateBudget(ctx, u.ID, active))
	got, err := store.GetBudget(ctx, u.ID, active.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, got.Amount)

	require.NoError(t, store.DeleteBudget(ctx, u.ID, inactive.ID))
	_, err = store.GetBudget(ctx, u.ID, inactive.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGoalCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "grace@example.com")

	g := &models.Goal{
		ID: uuid.NewString(), Name: "Emergency fund",
		TargetAmount: 1000, CurrentAmount: 250, Deadline: "2027-01-01",
	}
	require.NoError(t, store.CreateGoal(ctx, u.ID, g))

	g.CurrentAmount = 1000
	g.Completed = true
	require.NoError(t, store.UpdateGoal(ctx, u.ID, g))

	got, err := store.GetGoal(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, 1.0, got.Progress())

	goals, err := store.ListGoals(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	require.NoError(t, store.DeleteGoal(ctx, u.ID, g.ID))
	_, err = store.GetGoal(ctx, u.ID, g.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSeedDefaultCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "heidi@example.com")

	require.NoError(t, store.SeedDefaultCategories(ctx, u.ID))

	categories, err := store.ListCategories(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, categories, len(models.DefaultCategories()))
	for _, c := range categories {
		assert.True(t, c.IsDefault)
		assert.Equal(t, u.ID, c.UserID)
	}

	// The seed is per account.
	other := newTestUser(t, store, "ivan@example.com")
	empty, err := store.ListCategories(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCategoryCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "judy@example.com")

	c := &models.Category{ID: uuid.NewString(), Name: "Pets", Icon: "paw", Color: "#ffaa00"}
	require.NoError(t, store.CreateCategory(ctx, u.ID, c))

	c.Color = "#00aaff"
	require.NoError(t, store.UpdateCategory(ctx, u.ID, c))

	got, err := store.GetCategory(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "#00aaff", got.Color)
	assert.False(t, got.IsDefault)

	require.NoError(t, store.DeleteCategory(ctx, u.ID, c.ID))
	_, err = store.GetCategory(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNotifications(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, store, "kim@example.com")

	for i, typ := range []string{models.NotifyBudget, models.NotifyGoal, models.NotifyInfo} {
		n := &models.Notification{
			ID:      uuid.NewString(),
			Title:   "Notice",
			Message: "message",
			Type:    typ,
		}
		require.NoError(t, store.CreateNotification(ctx, u.ID, n), "seed %d", i)
	}

	all, err := store.ListNotifications(ctx, u.ID, models.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byType, err := store.ListNotifications(ctx, u.ID, models.NotificationFilter{Type: models.NotifyBudget})
	require.NoError(t, err)
	require.Len(t, byType, 1)

	require.NoError(t, store.MarkNotificationRead(ctx, u.ID, all[0].ID))

	unread, err := store.ListNotifications(ctx, u.ID, models.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	count, err := store.MarkAllNotificationsRead(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	unread, err = store.ListNotifications(ctx, u.ID, models.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, store.DeleteNotification(ctx, u.ID, all[0].ID))
	_, err = store.GetNotification(ctx, u.ID, all[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestWipeUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice@example.com")
	bob := newTestUser(t, store, "bob@example.com")

	require.NoError(t, store.SeedDefaultCategories(ctx, alice.ID))
	require.NoError(t, store.CreateExpense(ctx, alice.ID, &models.Expense{
		ID: uuid.NewString(), Amount: 10, Type: models.TypeExpense, Date: "2026-08-01",
	}))
	require.NoError(t, store.CreateBudget(ctx, alice.ID, &models.Budget{
		ID: uuid.NewString(), Amount: 100, Period: models.PeriodMonthly, Active: true,
	}))
	require.NoError(t, store.CreateGoal(ctx, alice.ID, &models.Goal{
		ID: uuid.NewString(), Name: "Trip", TargetAmount: 500,
	}))
	require.NoError(t, store.CreateNotification(ctx, alice.ID, &models.Notification{
		ID: uuid.NewString(), Title: "Hi", Type: models.NotifyInfo,
	}))

	keep := &models.Expense{ID: uuid.NewString(), Amount: 5, Type: models.TypeExpense, Date: "2026-08-02"}
	require.NoError(t, store.CreateExpense(ctx, bob.ID, keep))

	require.NoError(t, store.WipeUser(ctx, alice.ID))

	_, err := store.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	expenses, err := store.ListExpenses(ctx, alice.ID, models.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, expenses)
	categories, err := store.ListCategories(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, categories)

	// Another tenant's rows survive.
	got, err := store.GetExpense(ctx, bob.ID, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Amount)

	// Wiping twice reports not found.
	assert.ErrorIs(t, store.WipeUser(ctx, alice.ID), models.ErrNotFound)
}
