package models

import "time"

// Category is a user-owned expense label with display metadata. The
// IsDefault subset is seeded at registration and behaves like any other
// category afterwards.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultCategories returns the seed set created for every new account.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food & Dining", Icon: "utensils", Color: "#e74c3c", IsDefault: true},
		{Name: "Transport", Icon: "car", Color: "#3498db", IsDefault: true},
		{Name: "Housing", Icon: "home", Color: "#9b59b6", IsDefault: true},
		{Name: "Entertainment", Icon: "film", Color: "#f39c12", IsDefault: true},
		{Name: "Shopping", Icon: "shopping-bag", Color: "#1abc9c", IsDefault: true},
		{Name: "Health", Icon: "heart", Color: "#e84393", IsDefault: true},
		{Name: "Utilities", Icon: "bolt", Color: "#34495e", IsDefault: true},
		{Name: "Salary", Icon: "wallet", Color: "#27ae60", IsDefault: true},
		{Name: "Other", Icon: "tag", Color: "#95a5a6", IsDefault: true},
	}
}
