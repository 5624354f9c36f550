// Package budgets manages monthly spending limits. A budget is identified
// by its natural key (user, category, month); writing to an existing key
// replaces the amount instead of creating a second row.
package budgets

import "time"

// Budget represents a spending limit for one category in one month.
type Budget struct {
	ID           int     `json:"id"`
	UserID       int     `json:"user_id"`
	CategoryID   int     `json:"category_id"`
	CategoryName string  `json:"category_name"`
	CategoryIcon *string `json:"category_icon,omitempty"`
	// Month is a calendar month in YYYY-MM form.
	Month     string    `json:"month" example:"2026-08"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
