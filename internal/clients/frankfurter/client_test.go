package frankfurter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
}

func TestGetExchangeRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "EUR", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"base":"USD","date":"2026-08-28","rates":{"EUR":0.92}}`))
	})

	r, err := client.GetExchangeRate(context.Background(), "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, 0.92, r)
}

func TestGetExchangeRate_SameCurrency(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for identical currencies")
	})

	r, err := client.GetExchangeRate(context.Background(), "USD", "usd")
	require.NoError(t, err)
	assert.Equal(t, 1.0, r)
}

func TestConvert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"EUR","date":"2026-08-28","rates":{"GBP":0.85}}`))
	})

	out, err := client.Convert(context.Background(), 200, "EUR", "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 170.0, out, 0.0001)
}

func TestSupportedCurrencies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/currencies", r.URL.Path)
		w.Write([]byte(`{"USD":"United States Dollar","EUR":"Euro"}`))
	})

	currencies, err := client.SupportedCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Euro", currencies["EUR"])
	assert.Len(t, currencies, 2)
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.GetExchangeRate(context.Background(), "USD", "XXX")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/latest", apiErr.Endpoint)
}
