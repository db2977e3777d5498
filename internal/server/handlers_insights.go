package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/services/insights"
)

// insightsWindow resolves the startDate/endDate query parameters,
// defaulting to the trailing six months.
func insightsWindow(r *http.Request) (string, string) {
	q := r.URL.Query()
	start := q.Get("startDate")
	end := q.Get("endDate")
	if end == "" {
		end = time.Now().UTC().Format("2006-01-02")
	}
	if start == "" {
		start = time.Now().UTC().AddDate(0, -6, 0).Format("2006-01-02")
	}
	return start, end
}

// handleInsightsSummary handles GET /api/insights/summary.
func (s *Server) handleInsightsSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := common.UserContextFromContext(r.Context())
	start, end := insightsWindow(r)

	summary, err := s.app.Insights.Summary(r.Context(), uc.UserID, uc.Currency, start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("Insights summary failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handleInsightsSpending handles GET /api/insights/spending (AI narrative).
func (s *Server) handleInsightsSpending(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := common.UserContextFromContext(r.Context())
	start, end := insightsWindow(r)

	text, err := s.app.Insights.Narrative(r.Context(), uc.UserID, uc.Currency, start, end)
	if err != nil {
		s.writeInsightsError(w, err, "Insights narrative failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"insights": text})
}

// handleInsightsAdvice handles GET /api/insights/advice (AI advice).
func (s *Server) handleInsightsAdvice(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := common.UserContextFromContext(r.Context())
	start, end := insightsWindow(r)

	text, err := s.app.Insights.Advice(r.Context(), uc.UserID, uc.Currency, start, end)
	if err != nil {
		s.writeInsightsError(w, err, "Insights advice failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"advice": text})
}

func (s *Server) writeInsightsError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, insights.ErrAIUnavailable) {
		WriteError(w, http.StatusServiceUnavailable, "AI features are not configured")
		return
	}
	s.logger.Error().Err(err).Msg(logMsg)
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// handleInsightsChart handles GET /api/insights/chart, returning a PNG
// bar chart of category spend over the window.
func (s *Server) handleInsightsChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := common.UserContextFromContext(r.Context())
	start, end := insightsWindow(r)

	summary, err := s.app.Insights.Summary(r.Context(), uc.UserID, uc.Currency, start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("Insights chart aggregation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	png, err := insights.RenderSpendingChart(summary)
	if err != nil {
		WriteError(w, http.StatusNotFound, "No categorized spending in the selected period")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
