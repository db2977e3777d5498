package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchapp/finch/internal/models"
)

func TestInsightsSummary(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	createExpense(t, srv, token, map[string]interface{}{
		"amount": 100.0, "category": "Food & Dining", "date": "2026-08-05", "description": "Groceries",
	})
	createExpense(t, srv, token, map[string]interface{}{
		"amount": 3000.0, "type": "income", "category": "Salary", "date": "2026-08-01", "description": "Pay",
	})

	rec := doRequest(t, srv, http.MethodGet,
		"/api/insights/summary?startDate=2026-08-01&endDate=2026-08-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary models.SpendingSummary
	decodeBody(t, rec, &summary)
	assert.Equal(t, 100.0, summary.TotalExpenses)
	assert.Equal(t, 3000.0, summary.TotalIncome)
	assert.Equal(t, 2900.0, summary.Net)
	assert.Equal(t, "USD", summary.Currency)
	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, "Food & Dining", summary.ByCategory[0].Category)
}

func TestInsightsNarratives(t *testing.T) {
	srv := newTestServer(t, withAI(&fakeAI{category: "Other"}))
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doRequest(t, srv, http.MethodGet, "/api/insights/spending", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var spending map[string]string
	decodeBody(t, rec, &spending)
	assert.Equal(t, "fake insights", spending["insights"])

	rec = doRequest(t, srv, http.MethodGet, "/api/insights/advice", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var advice map[string]string
	decodeBody(t, rec, &advice)
	assert.Equal(t, "fake advice", advice["advice"])
}

func TestInsightsNarratives_NoAI(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	for _, path := range []string{"/api/insights/spending", "/api/insights/advice"} {
		rec := doRequest(t, srv, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestInsightsChart(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	createExpense(t, srv, token, map[string]interface{}{
		"amount": 100.0, "category": "Food & Dining", "date": "2026-08-05", "description": "Groceries",
	})

	rec := doRequest(t, srv, http.MethodGet,
		"/api/insights/chart?startDate=2026-08-01&endDate=2026-08-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestInsightsChart_NoData(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doRequest(t, srv, http.MethodGet, "/api/insights/chart", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCurrencyEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doRequest(t, srv, http.MethodGet, "/api/currency/rate?from=USD&to=EUR", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rate struct {
		Rate float64 `json:"rate"`
	}
	decodeBody(t, rec, &rate)
	assert.Equal(t, 0.9, rate.Rate)

	// from defaults to the caller's preferred currency (USD).
	rec = doRequest(t, srv, http.MethodGet, "/api/currency/convert?amount=100&to=EUR", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var conv struct {
		Result float64 `json:"result"`
	}
	decodeBody(t, rec, &conv)
	assert.InDelta(t, 90.0, conv.Result, 0.0001)

	rec = doRequest(t, srv, http.MethodGet, "/api/currency/currencies", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var currencies map[string]string
	decodeBody(t, rec, &currencies)
	assert.Contains(t, currencies, "EUR")
}

func TestCurrencyConvert_Validation(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doRequest(t, srv, http.MethodGet, "/api/currency/convert?amount=abc&to=EUR", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/currency/rate", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrency_UpstreamFailure(t *testing.T) {
	srv := newTestServer(t, withCurrency(&fakeCurrency{}))
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doRequest(t, srv, http.MethodGet, "/api/currency/rate?from=USD&to=EUR", token, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
