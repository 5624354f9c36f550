// Package transactions manages money movements and the derived expense
// reports. A transaction belongs to exactly one user and one category.
package transactions

import "time"

// Transaction represents a single income or expense entry. CategoryName and
// CategoryType are joined in for convenience; clients should not have to
// issue a second request to label a row.
type Transaction struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CategoryType string    `json:"category_type"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
	Note         *string   `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DayTotal is one row of the weekly expense report. Every day of the week
// appears exactly once, with Total zero for days without expenses.
type DayTotal struct {
	Date    string  `json:"date" example:"2026-08-24"`
	DayName string  `json:"dayName" example:"Monday"`
	Total   float64 `json:"total" example:"125000"`
}

// CategoryTotal is one row of the monthly expense-by-category report.
type CategoryTotal struct {
	CategoryID   int     `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Total        float64 `json:"total"`
}
