package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/models"
)

// expenseFilterFromQuery builds the list filter from query parameters.
// Unknown parameters are ignored.
func expenseFilterFromQuery(r *http.Request) models.ExpenseFilter {
	q := r.URL.Query()
	filter := models.ExpenseFilter{
		Category:  q.Get("category"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Search:    q.Get("search"),
	}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}
	return filter
}

// handleExpenses dispatches GET/POST /api/expenses.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleExpenseList(w, r)
	case http.MethodPost:
		s.handleExpenseCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	expenses, err := s.app.Store.ListExpenses(r.Context(), userID, expenseFilterFromQuery(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Expense list failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, expenses)
}

type expenseRequest struct {
	Amount      float64  `json:"amount"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Mood        string   `json:"mood"`
	ReceiptURL  string   `json:"receiptUrl"`
	Tags        []string `json:"tags"`
}

func validateExpenseRequest(req *expenseRequest) string {
	if req.Amount <= 0 {
		return "amount must be positive"
	}
	if req.Type == "" {
		req.Type = models.TypeExpense
	}
	if req.Type != models.TypeExpense && req.Type != models.TypeIncome {
		return "type must be expense or income"
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	return ""
}

func (s *Server) handleExpenseCreate(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	var req expenseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if msg := validateExpenseRequest(&req); msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	expense := &models.Expense{
		ID:          uuid.NewString(),
		Amount:      req.Amount,
		Type:        req.Type,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Date:        req.Date,
		Location:    req.Location,
		Mood:        req.Mood,
		ReceiptURL:  req.ReceiptURL,
		Tags:        req.Tags,
	}

	// Expenses arriving without a category are classified by the AI
	// collaborator; "Other" when it is unavailable or undecided.
	if expense.Category == "" && expense.Type == models.TypeExpense {
		analysis := s.app.Insights.Categorize(r.Context(), expense.Description, expense.Amount)
		expense.Category = analysis.Category
		if len(expense.Tags) == 0 {
			expense.Tags = analysis.Tags
		}
	}

	if err := s.app.Store.CreateExpense(r.Context(), userID, expense); err != nil {
		s.logger.Error().Err(err).Msg("Expense creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusCreated, expense)
}

// handleExpenseByID dispatches GET/PATCH/DELETE /api/expenses/{id}.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/expenses/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "expense id is required in path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleExpenseGet(w, r, id)
	case http.MethodPatch:
		s.handleExpensePatch(w, r, id)
	case http.MethodDelete:
		s.handleExpenseDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleExpenseGet(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	expense, err := s.app.Store.GetExpense(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Expense not found")
			return
		}
		s.logger.Error().Err(err).Msg("Expense lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, expense)
}

type expensePatchRequest struct {
	Amount      *float64  `json:"amount"`
	Type        *string   `json:"type"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Date        *string   `json:"date"`
	Location    *string   `json:"location"`
	Mood        *string   `json:"mood"`
	ReceiptURL  *string   `json:"receiptUrl"`
	Tags        *[]string `json:"tags"`
}

func (s *Server) handleExpensePatch(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	var req expensePatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	expense, err := s.app.Store.GetExpense(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Expense not found")
			return
		}
		s.logger.Error().Err(err).Msg("Expense lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			WriteError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		expense.Amount = *req.Amount
	}
	if req.Type != nil {
		if *req.Type != models.TypeExpense && *req.Type != models.TypeIncome {
			WriteError(w, http.StatusBadRequest, "type must be expense or income")
			return
		}
		expense.Type = *req.Type
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		expense.Category = strings.TrimSpace(*req.Category)
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		expense.Date = *req.Date
	}
	if req.Location != nil {
		expense.Location = *req.Location
	}
	if req.Mood != nil {
		expense.Mood = *req.Mood
	}
	if req.ReceiptURL != nil {
		expense.ReceiptURL = *req.ReceiptURL
	}
	if req.Tags != nil {
		expense.Tags = *req.Tags
	}

	if err := s.app.Store.UpdateExpense(r.Context(), userID, expense); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Expense not found")
			return
		}
		s.logger.Error().Err(err).Msg("Expense update failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, expense)
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	if err := s.app.Store.DeleteExpense(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Expense not found")
			return
		}
		s.logger.Error().Err(err).Msg("Expense delete failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type analyzeRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// handleExpenseAnalyze handles POST /api/expenses/analyze: a dry-run of
// the AI categorization without creating a record.
func (s *Server) handleExpenseAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if s.app.AIClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "AI features are not configured")
		return
	}

	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		WriteError(w, http.StatusBadRequest, "description is required")
		return
	}

	analysis, err := s.app.AIClient.AnalyzeExpense(r.Context(), req.Description, req.Amount)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Expense analysis failed")
		WriteError(w, http.StatusBadGateway, "Analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}
