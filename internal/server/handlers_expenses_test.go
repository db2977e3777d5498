package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchapp/finch/internal/models"
)

func createExpense(t *testing.T, srv *Server, token string, body map[string]interface{}) *models.Expense {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/expenses", token, jsonBody(t, body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var e models.Expense
	decodeBody(t, rec, &e)
	return &e
}

func TestExpenseCreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	created := createExpense(t, srv, token, map[string]interface{}{
		"amount":      42.5,
		"description": "Weekly groceries",
		"category":    "Food & Dining",
		"date":        "2026-08-15",
		"tags":        []string{"food"},
	})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.TypeExpense, created.Type)

	rec := doRequest(t, srv, http.MethodGet, "/api/expenses/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Expense
	decodeBody(t, rec, &got)
	assert.Equal(t, 42.5, got.Amount)
	assert.Equal(t, []string{"food"}, got.Tags)
}

func TestExpenseCreate_Validation(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	for name, body := range map[string]map[string]interface{}{
		"zero amount":     {"amount": 0, "description": "x"},
		"negative amount": {"amount": -5, "description": "x"},
		"bad type":        {"amount": 5, "type": "transfer"},
		"bad date":        {"amount": 5, "date": "15/08/2026"},
	} {
		rec := doRequest(t, srv, http.MethodPost, "/api/expenses", token, jsonBody(t, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestExpenseCreate_AICategorization(t *testing.T) {
	srv := newTestServer(t, withAI(&fakeAI{category: "Transport", tags: []string{"commute"}}))
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	// No category supplied: the AI collaborator fills it.
	created := createExpense(t, srv, token, map[string]interface{}{
		"amount":      30.0,
		"description": "Monthly train pass",
	})
	assert.Equal(t, "Transport", created.Category)
	assert.Equal(t, []string{"commute"}, created.Tags)

	// A caller-supplied category wins over the AI.
	created = createExpense(t, srv, token, map[string]interface{}{
		"amount":      15.0,
		"description": "Train snack",
		"category":    "Food & Dining",
	})
	assert.Equal(t, "Food & Dining", created.Category)
}

func TestExpenseCreate_NoAIFallsBackToOther(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	created := createExpense(t, srv, token, map[string]interface{}{
		"amount":      9.0,
		"description": "Unclassifiable purchase",
	})
	assert.Equal(t, "Other", created.Category)
}

func TestExpenseList_Filters(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	createExpense(t, srv, token, map[string]interface{}{
		"amount": 10.0, "category": "Food & Dining", "date": "2026-08-01", "description": "Lunch",
	})
	createExpense(t, srv, token, map[string]interface{}{
		"amount": 20.0, "category": "Transport", "date": "2026-08-10", "description": "Train",
		"tags": []string{"commute"},
	})
	createExpense(t, srv, token, map[string]interface{}{
		"amount": 30.0, "category": "Transport", "date": "2026-07-01", "description": "Taxi home",
	})

	var list []*models.Expense

	rec := doRequest(t, srv, http.MethodGet, "/api/expenses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &list)
	assert.Len(t, list, 3)

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?category=Transport", token, nil)
	decodeBody(t, rec, &list)
	assert.Len(t, list, 2)

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?startDate=2026-08-01&endDate=2026-08-31", token, nil)
	decodeBody(t, rec, &list)
	assert.Len(t, list, 2)

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?search=taxi", token, nil)
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Taxi home", list[0].Description)

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?tags=commute", token, nil)
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Train", list[0].Description)

	// Multi-tag filters match on any shared tag.
	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?tags=commute,errand", token, nil)
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Train", list[0].Description)

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?category=Transport&startDate=2026-08-01", token, nil)
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Train", list[0].Description)
}

func TestExpensePatch(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	created := createExpense(t, srv, token, map[string]interface{}{
		"amount": 10.0, "description": "Lunch", "category": "Food & Dining", "date": "2026-08-01",
	})

	rec := doRequest(t, srv, http.MethodPatch, "/api/expenses/"+created.ID, token, jsonBody(t, map[string]interface{}{
		"amount": 12.5,
		"mood":   "happy",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Expense
	decodeBody(t, rec, &updated)
	assert.Equal(t, 12.5, updated.Amount)
	assert.Equal(t, "happy", updated.Mood)
	assert.Equal(t, "Lunch", updated.Description)
}

func TestExpenseDelete(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	created := createExpense(t, srv, token, map[string]interface{}{
		"amount": 10.0, "description": "Lunch", "category": "Food & Dining",
	})

	rec := doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpense_CrossTenant(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "alice@example.com", "pw123456")
	mallory := registerUser(t, srv, "mallory@example.com", "pw123456")

	created := createExpense(t, srv, alice, map[string]interface{}{
		"amount": 99.0, "description": "Private", "category": "Shopping", "date": "2026-08-01",
	})

	// Reads, updates, and deletes against another tenant's id all 404.
	rec := doRequest(t, srv, http.MethodGet, "/api/expenses/"+created.ID, mallory, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, srv, http.MethodPatch, "/api/expenses/"+created.ID, mallory, jsonBody(t, map[string]interface{}{
		"amount": 1.0,
	}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, mallory, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Mallory's listing never includes alice's rows.
	var list []*models.Expense
	rec = doRequest(t, srv, http.MethodGet, "/api/expenses", mallory, nil)
	decodeBody(t, rec, &list)
	assert.Empty(t, list)

	// Alice's row is untouched.
	rec = doRequest(t, srv, http.MethodGet, "/api/expenses/"+created.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Expense
	decodeBody(t, rec, &got)
	assert.Equal(t, 99.0, got.Amount)
}

func TestExpenseAnalyze(t *testing.T) {
	srv := newTestServer(t, withAI(&fakeAI{category: "Health", tags: []string{"pharmacy"}}))
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses/analyze", token, jsonBody(t, map[string]interface{}{
		"description": "Pharmacy purchase",
		"amount":      23.0,
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis models.ExpenseAnalysis
	decodeBody(t, rec, &analysis)
	assert.Equal(t, "Health", analysis.Category)
}

func TestExpenseAnalyze_NoAI(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses/analyze", token, jsonBody(t, map[string]interface{}{
		"description": "Pharmacy purchase",
	}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
