package budgets

// UpsertBudgetRequest is the payload for creating or replacing a budget.
// Amount is a pointer so a missing field can be told apart from zero. An
// absent Month means the current calendar month, computed server-side.
type UpsertBudgetRequest struct {
	CategoryID int      `json:"categoryId" example:"3"`
	Amount     *float64 `json:"amount" example:"500000"`
	Month      *string  `json:"month,omitempty" example:"2026-08"`
}
