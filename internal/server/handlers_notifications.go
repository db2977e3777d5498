package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/models"
)

// handleNotifications dispatches GET/POST /api/notifications.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleNotificationList(w, r)
	case http.MethodPost:
		s.handleNotificationCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	q := r.URL.Query()
	filter := models.NotificationFilter{
		UnreadOnly: q.Get("unread") == "true",
		Type:       q.Get("type"),
	}

	notifications, err := s.app.Store.ListNotifications(r.Context(), userID, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Notification list failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, notifications)
}

type notificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) handleNotificationCreate(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	var req notificationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		WriteError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Type == "" {
		req.Type = models.NotifyInfo
	}

	notification := &models.Notification{
		ID:      uuid.NewString(),
		Title:   strings.TrimSpace(req.Title),
		Message: req.Message,
		Type:    req.Type,
	}

	if err := s.app.Store.CreateNotification(r.Context(), userID, notification); err != nil {
		s.logger.Error().Err(err).Msg("Notification creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if s.app.Events != nil {
		if err := s.app.Events.PublishNotification(r.Context(), notification); err != nil {
			s.logger.Warn().Err(err).Str("notification_id", notification.ID).Msg("Notification event publish failed")
		}
	}

	WriteJSON(w, http.StatusCreated, notification)
}

// routeNotifications dispatches /api/notifications/{id} and
// /api/notifications/{id}/read.
func (s *Server) routeNotifications(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/read") {
		id := PathParam(r, "/api/notifications/", "/read")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "notification id is required in path")
			return
		}
		s.handleNotificationRead(w, r, id)
		return
	}

	id := PathParam(r, "/api/notifications/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "notification id is required in path")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		s.handleNotificationDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodDelete)
	}
}

// handleNotificationRead handles POST /api/notifications/{id}/read.
func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	if err := s.app.Store.MarkNotificationRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Notification not found")
			return
		}
		s.logger.Error().Err(err).Msg("Notification read failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// handleNotificationsReadAll handles POST /api/notifications/read-all.
func (s *Server) handleNotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	count, err := s.app.Store.MarkAllNotificationsRead(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Notification read-all failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"updated": count})
}

func (s *Server) handleNotificationDelete(w http.ResponseWriter, r *http.Request, id string) {
	userID := common.ResolveUserID(r.Context())

	if err := s.app.Store.DeleteNotification(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Notification not found")
			return
		}
		s.logger.Error().Err(err).Msg("Notification delete failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
