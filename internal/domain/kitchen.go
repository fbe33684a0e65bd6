package domain

// Coverage is the result of checking one recipe's ingredients against a pantry.
// MatchedCount + len(Missing) == TotalCount always holds; staples and lines
// that normalize to nothing are excluded from all three.
type Coverage struct {
	Missing      []string `json:"missing"`
	MatchedCount int      `json:"matchedCount"`
	TotalCount   int      `json:"totalCount"`
}

// Score returns MatchedCount/TotalCount, or 0 for an empty recipe
func (c Coverage) Score() float64 {
	if c.TotalCount == 0 {
		return 0
	}
	return float64(c.MatchedCount) / float64(c.TotalCount)
}

// ScaleRequest asks for a recipe's (or free text's) ingredients scaled by Factor
type ScaleRequest struct {
	RecipeID        int64
	IngredientsText string
	Factor          float64
	UseAI           bool
}

// ScaleResult holds original and scaled ingredient lines in input order
type ScaleResult struct {
	Factor        float64  `json:"factor"`
	OriginalItems []string `json:"original_items"`
	ScaledItems   []string `json:"scaled_items"`
	Pretty        string   `json:"pretty,omitempty"`
}

// SuggestRequest asks for recipes ranked by pantry coverage.
// Products takes precedence over ProductsText.
type SuggestRequest struct {
	Products     []string
	ProductsText string
	Limit        int
	VerifiedOnly bool
}

// RecipeSuggestion is one ranked recipe
type RecipeSuggestion struct {
	RecipeID     int64    `json:"recipe_id"`
	Title        string   `json:"title"`
	Category     string   `json:"category,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Score        float64  `json:"score"`
	MatchedCount int      `json:"matched_count"`
	TotalCount   int      `json:"total_count"`
	Missing      []string `json:"missing"`
}

// SuggestResult is the ranked, truncated suggestion list
type SuggestResult struct {
	Products []string           `json:"products"`
	Limit    int                `json:"limit"`
	Results  []RecipeSuggestion `json:"results"`
}

// WeeklyPlanRequest asks for a round-robin meal plan and shopping list.
// Pantry takes precedence over PantryText.
type WeeklyPlanRequest struct {
	Pantry       []string
	PantryText   string
	Days         int
	MealsPerDay  int
	VerifiedOnly bool
	UseAI        bool
}

// PlannedMeal is one day x meal slot
type PlannedMeal struct {
	Meal     string   `json:"meal"`
	RecipeID int64    `json:"recipe_id"`
	Title    string   `json:"title"`
	Missing  []string `json:"missing"`
	Score    float64  `json:"score"`
}

// PlanDay groups the meals of one calendar day
type PlanDay struct {
	Date  string        `json:"date"`
	Meals []PlannedMeal `json:"meals"`
}

// WeeklyPlan is the full plan payload
type WeeklyPlan struct {
	Pantry        []string  `json:"pantry"`
	Days          int       `json:"days"`
	MealsPerDay   int       `json:"meals_per_day"`
	Plan          []PlanDay `json:"plan"`
	ShoppingList  []string  `json:"shopping_list"`
	UsedRecipeIDs []int64   `json:"used_recipe_ids"`
	Pretty        string    `json:"pretty,omitempty"`
}

// EnhanceRequest is the payload handed to a TextEnhancer.
// When Plan is set the enhancer formats the plan; otherwise it formats Lines under Title.
type EnhanceRequest struct {
	Title string
	Lines []string
	Plan  *WeeklyPlan
}
