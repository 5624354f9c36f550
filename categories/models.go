// Package categories manages income/expense categories. A category belongs
// to one user, or to no user at all, in which case it is a shared system
// category visible to everyone but read-only.
package categories

import "time"

// Category types. Every category is one or the other; the type constrains
// which reports and budgets the category participates in.
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Category represents a transaction category.
type Category struct {
	ID int `json:"id"`
	// UserID is nil for shared system categories.
	UserID    *int      `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidType reports whether t is a known category type.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
