package categories

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name string  `json:"name" example:"Groceries"`
	Type string  `json:"type" example:"EXPENSE"`
	Icon *string `json:"icon,omitempty" example:"shopping-cart"`
}

// UpdateCategoryRequest is the payload for updating a category. Nil fields
// are left unchanged; the type of a category cannot be changed once
// transactions may reference it.
type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty" example:"Groceries"`
	Icon *string `json:"icon,omitempty" example:"shopping-cart"`
}
