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

// handleBudgets dispatches GET/POST /api/budgets.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleBudgetList(w, r)
	case http.MethodPost:
		s.handleBudgetCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleBudgetList(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	q := r.URL.Query()
	filter := models.BudgetFilter{
		Category:   q.Get("category"),
		ActiveOnly: q.Get("active") == "true",
	}

	budgets, err := s.app.Store.ListBudgets(r.Context(), userID, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Budget list failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, budgets)
}

type budgetRequest struct {
	Amount    float64 `json:"amount"`
	Period    string  `json:"period"`
	Category  string  `json:"category"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Active    *bool   `json:"active"`
}

func validateBudgetRequest(req *budgetRequest) string {
	if req.Amount <= 0 {
		return "amount must be positive"
	}
	if !models.ValidPeriod(req.Period) {
		return "period must be weekly, monthly, or yearly"
	}
	for _, d := range []string{req.StartDate, req.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "dates must be YYYY-MM-DD"
		}
	}
	if req.StartDate != "" && req.EndDate != "" && req.EndDate < req.StartDate {
		return "endDate must not precede startDate"
	}
	return ""
}

func (s *Server) handleBudgetCreate(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	var req budgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if msg := validateBudgetRequest(&req); msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	budget := &models.Budget{
		ID:        uuid.NewString(),
		Amount:    req.Amount,
		Period:    req.Period,
		Category:  strings.TrimSpace(req.Category),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Active:    true,
	}
	if req.Active != nil {
		budget.Active = *req.Active
	}

	if err := s.app.Store.CreateBudget(r.Context(), userID, budget); err != nil {
		s.logger.Error().Err(err).Msg("Budget creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusCreated, budget)
}

// handleBudgetByID dispatches GET/PATCH/DELETE /api/budgets/{id}.
func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/budgets/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "budget id is required in path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleBudgetGet(w, r, id)
	case http.MethodPatch:
		s.handleBudgetPatch(w, r, id)
	case http.MethodDelete:
		s.handleBudgetDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleBudgetGet(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	budget, err := s.app.Store.GetBudget(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Budget not found")
			return
		}
		s.logger.Error().Err(err).Msg("Budget lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, budget)
}

type budgetPatchRequest struct {
	Amount    *float64 `json:"amount"`
	Period    *string  `json:"period"`
	Category  *string  `json:"category"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	Active    *bool    `json:"active"`
}

func (s *Server) handleBudgetPatch(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	var req budgetPatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	budget, err := s.app.Store.GetBudget(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Budget not found")
			return
		}
		s.logger.Error().Err(err).Msg("Budget lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			WriteError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		budget.Amount = *req.Amount
	}
	if req.Period != nil {
		if !models.ValidPeriod(*req.Period) {
			WriteError(w, http.StatusBadRequest, "period must be weekly, monthly, or yearly")
			return
		}
		budget.Period = *req.Period
	}
	if req.Category != nil {
		budget.Category = strings.TrimSpace(*req.Category)
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = *req.EndDate
	}
	if req.Active != nil {
		budget.Active = *req.Active
	}

	if err := s.app.Store.UpdateBudget(r.Context(), userID, budget); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Budget not found")
			return
		}
		s.logger.Error().Err(err).Msg("Budget update failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, budget)
}

func (s *Server) handleBudgetDelete(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	if err := s.app.Store.DeleteBudget(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Budget not found")
			return
		}
		s.logger.Error().Err(err).Msg("Budget delete failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
