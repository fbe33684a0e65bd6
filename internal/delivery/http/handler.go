package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recipebook/backend/internal/domain"
	"github.com/recipebook/backend/internal/usecase"
	"github.com/rs/zerolog/log"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipes     domain.RecipeRepository
	scaling     *usecase.ScalingService
	suggestions *usecase.SuggestionService
	plans       *usecase.MealPlanService
}

// NewHandler creates a new HTTP handler. Any dependency may be nil; the
// matching endpoints then report that they are not configured.
func NewHandler(
	recipes domain.RecipeRepository,
	scaling *usecase.ScalingService,
	suggestions *usecase.SuggestionService,
	plans *usecase.MealPlanService,
) *Handler {
	return &Handler{
		recipes:     recipes,
		scaling:     scaling,
		suggestions: suggestions,
		plans:       plans,
	}
}

type scaleRequest struct {
	RecipeID        int64   `json:"recipe_id" binding:"omitempty,min=1"`
	IngredientsText string  `json:"ingredients_text"`
	Factor          float64 `json:"factor" binding:"required,gte=0.01,lte=100"`
	UseAI           bool    `json:"use_ai"`
}

type suggestRequest struct {
	Products     []string `json:"products"`
	ProductsText string   `json:"products_text"`
	Limit        int      `json:"limit" binding:"omitempty,min=1,max=30"`
	VerifiedOnly *bool    `json:"verified_only"`
}

type weeklyPlanRequest struct {
	Pantry       []string `json:"pantry"`
	PantryText   string   `json:"pantry_text"`
	Days         int      `json:"days" binding:"omitempty,min=1,max=14"`
	MealsPerDay  int      `json:"meals_per_day" binding:"omitempty,min=1,max=3"`
	VerifiedOnly *bool    `json:"verified_only"`
	UseAI        bool     `json:"use_ai"`
}

type createRecipeRequest struct {
	Title          string `json:"title" binding:"required"`
	Ingredients    string `json:"ingredients" binding:"required"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty"`
	VerifiedByChef bool   `json:"verified_by_chef"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipebook-backend",
		"version": "1.0.0",
	})
}

// ScaleIngredients handles portion scaling requests
func (h *Handler) ScaleIngredients(c *gin.Context) {
	if h.scaling == nil {
		notConfigured(c, "Scaling")
		return
	}

	var req scaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.scaling.Scale(c.Request.Context(), &domain.ScaleRequest{
		RecipeID:        req.RecipeID,
		IngredientsText: req.IngredientsText,
		Factor:          req.Factor,
		UseAI:           req.UseAI,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SuggestRecipes handles pantry-based recipe suggestion requests
func (h *Handler) SuggestRecipes(c *gin.Context) {
	if h.suggestions == nil {
		notConfigured(c, "Suggestions")
		return
	}

	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.suggestions.Suggest(c.Request.Context(), &domain.SuggestRequest{
		Products:     req.Products,
		ProductsText: req.ProductsText,
		Limit:        req.Limit,
		VerifiedOnly: boolOrDefault(req.VerifiedOnly, true),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// WeeklyPlan handles meal plan requests
func (h *Handler) WeeklyPlan(c *gin.Context) {
	if h.plans == nil {
		notConfigured(c, "Meal planning")
		return
	}

	var req weeklyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.plans.BuildWeeklyPlan(c.Request.Context(), &domain.WeeklyPlanRequest{
		Pantry:       req.Pantry,
		PantryText:   req.PantryText,
		Days:         req.Days,
		MealsPerDay:  req.MealsPerDay,
		VerifiedOnly: boolOrDefault(req.VerifiedOnly, true),
		UseAI:        req.UseAI,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListRecipes returns stored recipes, newest first.
// ?verified=true restricts the list to chef-verified recipes.
func (h *Handler) ListRecipes(c *gin.Context) {
	if h.recipes == nil {
		notConfigured(c, "Recipe store")
		return
	}

	verifiedOnly, _ := strconv.ParseBool(c.Query("verified"))
	recipes, err := h.recipes.List(c.Request.Context(), domain.RecipeFilter{VerifiedOnly: verifiedOnly})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": recipes, "count": len(recipes)})
}

// GetRecipe returns a single recipe
func (h *Handler) GetRecipe(c *gin.Context) {
	if h.recipes == nil {
		notConfigured(c, "Recipe store")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe id must be a positive integer"})
		return
	}

	recipe, err := h.recipes.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe stores a new recipe
func (h *Handler) CreateRecipe(c *gin.Context) {
	if h.recipes == nil {
		notConfigured(c, "Recipe store")
		return
	}

	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := &domain.Recipe{
		Title:           req.Title,
		IngredientsText: req.Ingredients,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		Verified:        req.VerifiedByChef,
	}
	if err := h.recipes.Create(c.Request.Context(), recipe); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found."})
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidFactor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoRecipes):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No recipes in database."})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("[HTTP] request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func notConfigured(c *gin.Context, feature string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": feature + " service not configured",
	})
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
