package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/finchapp/finch/internal/auth"
	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/models"
)

// invalidCredentials is deliberately identical for unknown email and
// wrong password so responses don't reveal which accounts exist.
const invalidCredentials = "Invalid email or password"

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

// handleRegister handles POST /api/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Password hashing failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Language:     "en",
		Currency:     "USD",
		Timezone:     "UTC",
		Theme:        "light",
	}

	if err := s.app.Store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			WriteError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		s.logger.Error().Err(err).Msg("User creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := s.app.Store.SeedDefaultCategories(r.Context(), user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Category seeding failed")
	}

	token, err := s.app.Tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token issue failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("User registered")
	WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user.Public()})
}

// handleLogin handles POST /api/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.app.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
		s.logger.Error().Err(err).Msg("User lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		WriteError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	token, err := s.app.Tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token issue failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user.Public()})
}

// handleAuthUser dispatches GET/PATCH/DELETE /api/auth/user.
func (s *Server) handleAuthUser(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleAuthUserGet(w, r)
	case http.MethodPatch:
		s.handleAuthUserPatch(w, r)
	case http.MethodDelete:
		s.handleAuthUserDelete(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleAuthUserGet(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	user, err := s.app.Store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error().Err(err).Msg("User lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, user.Public())
}

type userPatchRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Language  *string `json:"language"`
	Currency  *string `json:"currency"`
	Timezone  *string `json:"timezone"`
	Theme     *string `json:"theme"`
	Password  *string `json:"password"`
}

func (s *Server) handleAuthUserPatch(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	var req userPatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error().Err(err).Msg("User lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.Currency != nil {
		user.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Timezone != nil {
		user.Timezone = *req.Timezone
	}
	if req.Theme != nil {
		user.Theme = *req.Theme
	}
	if req.Password != nil {
		if *req.Password == "" {
			WriteError(w, http.StatusBadRequest, "password must not be empty")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Password hashing failed")
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		user.PasswordHash = hash
	}

	if err := s.app.Store.UpdateUser(r.Context(), user); err != nil {
		s.logger.Error().Err(err).Msg("User update failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, user.Public())
}

// handleAuthUserDelete wipes the account and every owned record.
func (s *Server) handleAuthUserDelete(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	if err := s.app.Store.WipeUser(r.Context(), userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error().Err(err).Msg("User wipe failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
