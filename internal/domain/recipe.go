package domain

import "time"

// Recipe is the subset of a stored recipe the kitchen assistant reads
type Recipe struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	IngredientsText string    `json:"ingredients"`
	Category        string    `json:"category,omitempty"`
	Difficulty      string    `json:"difficulty,omitempty"`
	Verified        bool      `json:"verifiedByChef"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RecipeFilter narrows a recipe listing
type RecipeFilter struct {
	VerifiedOnly bool
}

// Matches reports whether the recipe passes the filter
func (f RecipeFilter) Matches(r Recipe) bool {
	return !f.VerifiedOnly || r.Verified
}
