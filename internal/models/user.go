package models

import "time"

// User is the identity record backing authentication and tenant scoping.
// PasswordHash never leaves the storage and auth layers; API responses use
// the Public projection.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Language     string    `json:"language"`
	Currency     string    `json:"currency"`
	Timezone     string    `json:"timezone"`
	Theme        string    `json:"theme"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the API projection of a user account.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Language  string    `json:"language"`
	Currency  string    `json:"currency"`
	Timezone  string    `json:"timezone"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the response-safe projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Language:  u.Language,
		Currency:  u.Currency,
		Timezone:  u.Timezone,
		Theme:     u.Theme,
		CreatedAt: u.CreatedAt,
	}
}
