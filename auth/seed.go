package auth

// defaultCategory describes one category seeded for every new user during
// registration.
type defaultCategory struct {
	Name string
	Type string
	Icon string
}

// defaultCategories is the fixed set created inside the registration
// transaction. Registration does not complete until all of them exist.
var defaultCategories = []defaultCategory{
	{Name: "Food & Drink", Type: "EXPENSE", Icon: "utensils"},
	{Name: "Transport", Type: "EXPENSE", Icon: "bus"},
	{Name: "Housing", Type: "EXPENSE", Icon: "home"},
	{Name: "Utilities", Type: "EXPENSE", Icon: "bolt"},
	{Name: "Shopping", Type: "EXPENSE", Icon: "shopping-bag"},
	{Name: "Entertainment", Type: "EXPENSE", Icon: "film"},
	{Name: "Health", Type: "EXPENSE", Icon: "heartbeat"},
	{Name: "Education", Type: "EXPENSE", Icon: "book"},
	{Name: "Other Expense", Type: "EXPENSE", Icon: "ellipsis-h"},
	{Name: "Salary", Type: "INCOME", Icon: "wallet"},
	{Name: "Bonus", Type: "INCOME", Icon: "gift"},
	{Name: "Gift", Type: "INCOME", Icon: "hand-holding-heart"},
	{Name: "Other Income", Type: "INCOME", Icon: "ellipsis-h"},
}
