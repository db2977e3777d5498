package server

import (
	"net/http"
	"time"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux. Every route is
// registered exactly once.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/register", s.handleRegister)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/auth/user", s.requireAuth(s.handleAuthUser))

	// Expenses
	mux.HandleFunc("/api/expenses/analyze", s.requireAuth(s.handleExpenseAnalyze))
	mux.HandleFunc("/api/expenses/", s.requireAuth(s.handleExpenseByID))
	mux.HandleFunc("/api/expenses", s.requireAuth(s.handleExpenses))

	// Budgets
	mux.HandleFunc("/api/budgets/", s.requireAuth(s.handleBudgetByID))
	mux.HandleFunc("/api/budgets", s.requireAuth(s.handleBudgets))

	// Goals
	mux.HandleFunc("/api/goals/", s.requireAuth(s.handleGoalByID))
	mux.HandleFunc("/api/goals", s.requireAuth(s.handleGoals))

	// Categories
	mux.HandleFunc("/api/categories/", s.requireAuth(s.handleCategoryByID))
	mux.HandleFunc("/api/categories", s.requireAuth(s.handleCategories))

	// Notifications
	mux.HandleFunc("/api/notifications/read-all", s.requireAuth(s.handleNotificationsReadAll))
	mux.HandleFunc("/api/notifications/", s.requireAuth(s.routeNotifications))
	mux.HandleFunc("/api/notifications", s.requireAuth(s.handleNotifications))

	// Receipt uploads
	mux.HandleFunc("/api/upload", s.requireAuth(s.handleUpload))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.app.Config.Upload.Dir))))

	// Insights
	mux.HandleFunc("/api/insights/summary", s.requireAuth(s.handleInsightsSummary))
	mux.HandleFunc("/api/insights/spending", s.requireAuth(s.handleInsightsSpending))
	mux.HandleFunc("/api/insights/advice", s.requireAuth(s.handleInsightsAdvice))
	mux.HandleFunc("/api/insights/chart", s.requireAuth(s.handleInsightsChart))

	// Currency
	mux.HandleFunc("/api/currency/rate", s.requireAuth(s.handleCurrencyRate))
	mux.HandleFunc("/api/currency/convert", s.requireAuth(s.handleCurrencyConvert))
	mux.HandleFunc("/api/currency/currencies", s.requireAuth(s.handleCurrencyList))
}
