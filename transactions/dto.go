package transactions

// CreateTransactionRequest is the payload for recording a transaction.
// Amount is a pointer so a missing field can be told apart from zero.
type CreateTransactionRequest struct {
	Amount     *float64 `json:"amount" example:"45000"`
	Date       string   `json:"date" example:"2026-08-29"`
	Note       *string  `json:"note,omitempty" example:"lunch"`
	CategoryID int      `json:"categoryId" example:"3"`
}

// UpdateTransactionRequest carries a partial transaction update. Nil fields
// are left unchanged.
type UpdateTransactionRequest struct {
	Amount     *float64 `json:"amount,omitempty" example:"52000"`
	Date       *string  `json:"date,omitempty" example:"2026-08-28"`
	Note       *string  `json:"note,omitempty" example:"dinner"`
	CategoryID *int     `json:"categoryId,omitempty" example:"4"`
}
