package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/models"
)

// handleCategories dispatches GET/POST /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleCategoryList(w, r)
	case http.MethodPost:
		s.handleCategoryCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	categories, err := s.app.Store.ListCategories(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Category list failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, categories)
}

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	var req categoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	category := &models.Category{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(req.Name),
		Icon:  req.Icon,
		Color: req.Color,
	}

	if err := s.app.Store.CreateCategory(r.Context(), userID, category); err != nil {
		s.logger.Error().Err(err).Msg("Category creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusCreated, category)
}

// handleCategoryByID dispatches GET/PATCH/DELETE /api/categories/{id}.
func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/categories/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "category id is required in path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleCategoryGet(w, r, id)
	case http.MethodPatch:
		s.handleCategoryPatch(w, r, id)
	case http.MethodDelete:
		s.handleCategoryDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleCategoryGet(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	category, err := s.app.Store.GetCategory(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
		s.logger.Error().Err(err).Msg("Category lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, category)
}

type categoryPatchRequest struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

func (s *Server) handleCategoryPatch(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	var req categoryPatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	category, err := s.app.Store.GetCategory(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
		s.logger.Error().Err(err).Msg("Category lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			WriteError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	if err := s.app.Store.UpdateCategory(r.Context(), userID, category); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
		s.logger.Error().Err(err).Msg("Category update failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, category)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	if err := s.app.Store.DeleteCategory(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
		s.logger.Error().Err(err).Msg("Category delete failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
