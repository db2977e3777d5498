package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finchapp/finch/internal/app"
	"github.com/finchapp/finch/internal/auth"
	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/interfaces"
	"github.com/finchapp/finch/internal/models"
	"github.com/finchapp/finch/internal/services/insights"
	"github.com/finchapp/finch/internal/storage/sqlite"
)

// fakeAI returns a fixed categorization so AI-dependent behavior is
// deterministic in tests.
type fakeAI struct {
	category string
	tags     []string
}

func (f *fakeAI) AnalyzeExpense(ctx context.Context, description string, amount float64) (*models.ExpenseAnalysis, error) {
	return &models.ExpenseAnalysis{Category: f.category, Tags: f.tags}, nil
}

func (f *fakeAI) GetFinancialAdvice(ctx context.Context, summary *models.SpendingSummary) (string, error) {
	return "fake advice", nil
}

func (f *fakeAI) GenerateSpendingInsights(ctx context.Context, summary *models.SpendingSummary) (string, error) {
	return "fake insights", nil
}

// fakeCurrency serves a static rate table.
type fakeCurrency struct {
	rates map[string]float64 // key "FROM/TO"
}

func (f *fakeCurrency) GetExchangeRate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}
	r, ok := f.rates[from+"/"+to]
	if !ok {
		return 0, fmt.Errorf("no rate for %s/%s", from, to)
	}
	return r, nil
}

func (f *fakeCurrency) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	r, err := f.GetExchangeRate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return amount * r, nil
}

func (f *fakeCurrency) SupportedCurrencies(ctx context.Context) (map[string]string, error) {
	return map[string]string{"USD": "United States Dollar", "EUR": "Euro"}, nil
}

type serverOption func(*app.App)

func withAI(ai interfaces.AIClient) serverOption {
	return func(a *app.App) {
		a.AIClient = ai
		a.Insights = insights.NewService(a.Store, ai, a.Logger)
	}
}

func withCurrency(c interfaces.CurrencyClient) serverOption {
	return func(a *app.App) {
		a.Currency = c
	}
}

// newTestServer builds a Server on a temp-dir SQLite store with no AI
// client and a static currency table by default.
func newTestServer(t *testing.T, opts ...serverOption) *Server {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewSilentLogger()

	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(dir, "finch.db")
	cfg.Upload.Dir = filepath.Join(dir, "uploads")
	cfg.Server.RateLimit = 0 // exercised explicitly in middleware tests
	cfg.Auth.JWTSecret = "test-secret"

	store, err := sqlite.New(logger, cfg.Storage.Path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	a := &app.App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Tokens:   auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.GetTokenExpiry()),
		Currency: &fakeCurrency{rates: map[string]float64{"USD/EUR": 0.9}},
	}
	a.Insights = insights.NewService(store, nil, logger)

	for _, opt := range opts {
		opt(a)
	}

	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

// doRequest runs a request through the full middleware chain.
func doRequest(t *testing.T, srv *Server, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// registerUser registers an account and returns its token.
func registerUser(t *testing.T, srv *Server, email, password string) string {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/register", "", jsonBody(t, map[string]string{
		"email":     email,
		"password":  password,
		"firstName": "Test",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
