package models

import "time"

// Notification types.
const (
	NotifyInfo   = "info"
	NotifyBudget = "budget"
	NotifyGoal   = "goal"
	NotifySystem = "system"
)

// Notification is a user-facing message with a read flag.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UnreadOnly bool
	Type       string
}
