package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipebook/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// scaledItemsTitle heads the prettified scaled ingredient list
const scaledItemsTitle = "Масштабовані інгредієнти:"

// ScalingService scales a recipe's (or free text's) ingredient lines
type ScalingService struct {
	recipes  domain.RecipeRepository
	enhancer domain.TextEnhancer
}

// NewScalingService creates a scaling service. enhancer may be nil.
func NewScalingService(recipes domain.RecipeRepository, enhancer domain.TextEnhancer) *ScalingService {
	return &ScalingService{
		recipes:  recipes,
		enhancer: enhancer,
	}
}

// Scale splits the ingredient text into lines and scales every quantity by
// request.Factor. A stored recipe takes precedence over free text.
func (s *ScalingService) Scale(ctx context.Context, request *domain.ScaleRequest) (*domain.ScaleResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := ValidateFactor(request.Factor); err != nil {
		return nil, err
	}

	var text string
	switch {
	case request.RecipeID > 0:
		if s.recipes == nil {
			return nil, fmt.Errorf("%w: recipe store not configured", domain.ErrRecipeNotFound)
		}
		recipe, err := s.recipes.GetByID(ctx, request.RecipeID)
		if err != nil {
			return nil, err
		}
		text = recipe.IngredientsText
	case strings.TrimSpace(request.IngredientsText) != "":
		text = request.IngredientsText
	default:
		return nil, fmt.Errorf("%w: provide either recipe_id or ingredients_text", domain.ErrInvalidRequest)
	}

	original := SplitIngredientLines(text)
	result := &domain.ScaleResult{
		Factor:        request.Factor,
		OriginalItems: original,
		ScaledItems:   ScaleIngredientLines(original, request.Factor),
	}

	log.Debug().Msgf("[SCALE] %d lines scaled by %v", len(original), request.Factor)

	if request.UseAI {
		if pretty, ok := tryEnhance(ctx, s.enhancer, domain.EnhanceRequest{
			Title: scaledItemsTitle,
			Lines: result.ScaledItems,
		}); ok {
			result.Pretty = pretty
		}
	}

	return result, nil
}

// tryEnhance calls the optional enhancer once; a nil enhancer means no enhancement
func tryEnhance(ctx context.Context, enhancer domain.TextEnhancer, request domain.EnhanceRequest) (string, bool) {
	if enhancer == nil {
		return "", false
	}
	pretty, ok := enhancer.TryEnhance(ctx, request)
	if !ok || strings.TrimSpace(pretty) == "" {
		return "", false
	}
	return pretty, true
}
