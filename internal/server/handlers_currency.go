package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/finchapp/finch/internal/common"
)

// handleCurrencyRate handles GET /api/currency/rate?from=USD&to=EUR.
// from defaults to the caller's preferred currency.
func (s *Server) handleCurrencyRate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	from := strings.ToUpper(q.Get("from"))
	to := strings.ToUpper(q.Get("to"))
	if from == "" {
		if uc := common.UserContextFromContext(r.Context()); uc != nil {
			from = uc.Currency
		}
	}
	if from == "" || to == "" {
		WriteError(w, http.StatusBadRequest, "from and to currency codes are required")
		return
	}

	rate, err := s.app.Currency.GetExchangeRate(r.Context(), from, to)
	if err != nil {
		s.logger.Warn().Err(err).Str("from", from).Str("to", to).Msg("Exchange rate lookup failed")
		WriteError(w, http.StatusBadGateway, "Exchange rate lookup failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"from": from,
		"to":   to,
		"rate": rate,
	})
}

// handleCurrencyConvert handles GET /api/currency/convert?amount=10&from=USD&to=EUR.
func (s *Server) handleCurrencyConvert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	from := strings.ToUpper(q.Get("from"))
	to := strings.ToUpper(q.Get("to"))
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil || amount < 0 {
		WriteError(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}
	if from == "" {
		if uc := common.UserContextFromContext(r.Context()); uc != nil {
			from = uc.Currency
		}
	}
	if from == "" || to == "" {
		WriteError(w, http.StatusBadRequest, "from and to currency codes are required")
		return
	}

	converted, err := s.app.Currency.Convert(r.Context(), amount, from, to)
	if err != nil {
		s.logger.Warn().Err(err).Str("from", from).Str("to", to).Msg("Currency conversion failed")
		WriteError(w, http.StatusBadGateway, "Currency conversion failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"from":   from,
		"to":     to,
		"amount": amount,
		"result": converted,
	})
}

// handleCurrencyList handles GET /api/currency/currencies.
func (s *Server) handleCurrencyList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	currencies, err := s.app.Currency.SupportedCurrencies(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Currency list failed")
		WriteError(w, http.StatusBadGateway, "Currency list failed")
		return
	}

	WriteJSON(w, http.StatusOK, currencies)
}
