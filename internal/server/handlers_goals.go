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

// handleGoals dispatches GET/POST /api/goals.
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGoalList(w, r)
	case http.MethodPost:
		s.handleGoalCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// goalView augments the stored goal with its derived progress fraction.
type goalView struct {
	*models.Goal
	Progress float64 `json:"progress"`
}

func viewGoal(g *models.Goal) goalView {
	return goalView{Goal: g, Progress: g.Progress()}
}

func (s *Server) handleGoalList(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	goals, err := s.app.Store.ListGoals(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Goal list failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = viewGoal(g)
	}
	WriteJSON(w, http.StatusOK, views)
}

type goalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline"`
}

func (s *Server) handleGoalCreate(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	var req goalRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.TargetAmount <= 0 {
		WriteError(w, http.StatusBadRequest, "targetAmount must be positive")
		return
	}
	if req.Deadline != "" {
		if _, err := time.Parse("2006-01-02", req.Deadline); err != nil {
			WriteError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
	}

	goal := &models.Goal{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
	}

	if err := s.app.Store.CreateGoal(r.Context(), userID, goal); err != nil {
		s.logger.Error().Err(err).Msg("Goal creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusCreated, viewGoal(goal))
}

// handleGoalByID dispatches GET/PATCH/DELETE /api/goals/{id}.
func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/goals/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "goal id is required in path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGoalGet(w, r, id)
	case http.MethodPatch:
		s.handleGoalPatch(w, r, id)
	case http.MethodDelete:
		s.handleGoalDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleGoalGet(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	goal, err := s.app.Store.GetGoal(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Goal not found")
			return
		}
		s.logger.Error().Err(err).Msg("Goal lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, viewGoal(goal))
}

type goalPatchRequest struct {
	Name          *string  `json:"name"`
	TargetAmount  *float64 `json:"targetAmount"`
	CurrentAmount *float64 `json:"currentAmount"`
	Deadline      *string  `json:"deadline"`
	Completed     *bool    `json:"completed"`
}

func (s *Server) handleGoalPatch(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	var req goalPatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	goal, err := s.app.Store.GetGoal(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Goal not found")
			return
		}
		s.logger.Error().Err(err).Msg("Goal lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			WriteError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		goal.Name = strings.TrimSpace(*req.Name)
	}
	if req.TargetAmount != nil {
		if *req.TargetAmount <= 0 {
			WriteError(w, http.StatusBadRequest, "targetAmount must be positive")
			return
		}
		goal.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.Deadline != nil {
		goal.Deadline = *req.Deadline
	}
	if req.Completed != nil {
		goal.Completed = *req.Completed
	} else if goal.CurrentAmount >= goal.TargetAmount {
		goal.Completed = true
	}

	if err := s.app.Store.UpdateGoal(r.Context(), userID, goal); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Goal not found")
			return
		}
		s.logger.Error().Err(err).Msg("Goal update failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, viewGoal(goal))
}

func (s *Server) handleGoalDelete(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	if err := s.app.Store.DeleteGoal(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Goal not found")
			return
		}
		s.logger.Error().Err(err).Msg("Goal delete failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
