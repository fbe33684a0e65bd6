package usecase

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/recipebook/backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SuggestionConfig holds configuration for the suggestion service
type SuggestionConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// SuggestionService ranks stored recipes by how much of them a pantry covers
type SuggestionService struct {
	recipes      domain.RecipeRepository
	matcher      *PantryMatcher
	defaultLimit int
	maxLimit     int
}

// NewSuggestionService creates a suggestion service with dependencies
func NewSuggestionService(
	recipes domain.RecipeRepository,
	matcher *PantryMatcher,
	config SuggestionConfig,
) *SuggestionService {
	if matcher == nil {
		matcher = defaultMatcher
	}

	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 30
	}

	return &SuggestionService{
		recipes:      recipes,
		matcher:      matcher,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Suggest scores every candidate recipe against the pantry and returns the
// best ones. Coverage is computed per recipe in parallel.
func (s *SuggestionService) Suggest(ctx context.Context, request *domain.SuggestRequest) (*domain.SuggestResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	if len(request.Products) == 0 && strings.TrimSpace(request.ProductsText) == "" {
		return nil, fmt.Errorf("%w: provide either products or products_text", domain.ErrInvalidRequest)
	}
	pantry := resolvePantry(request.Products, request.ProductsText)

	limit := request.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	recipes, err := s.recipes.List(ctx, domain.RecipeFilter{VerifiedOnly: request.VerifiedOnly})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	suggestions := make([]domain.RecipeSuggestion, len(recipes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range recipes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			suggestions[i] = s.score(recipes[i], pantry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	RankSuggestions(suggestions)
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	log.Debug().Msgf("[SUGGEST] ranked %d recipes against %d pantry items, returning %d",
		len(recipes), len(pantry), len(suggestions))

	return &domain.SuggestResult{
		Products: pantry,
		Limit:    limit,
		Results:  suggestions,
	}, nil
}

func (s *SuggestionService) score(recipe domain.Recipe, pantry []string) domain.RecipeSuggestion {
	coverage := s.matcher.Coverage(recipe.IngredientsText, pantry)
	return domain.RecipeSuggestion{
		RecipeID:     recipe.ID,
		Title:        recipe.Title,
		Category:     recipe.Category,
		Difficulty:   recipe.Difficulty,
		Score:        roundScore(coverage.Score()),
		MatchedCount: coverage.MatchedCount,
		TotalCount:   coverage.TotalCount,
		Missing:      coverage.Missing,
	}
}

// RankSuggestions sorts in place by score, then matched count, then total
// count, all descending. Equal entries keep their input order.
func RankSuggestions(suggestions []domain.RecipeSuggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.MatchedCount != b.MatchedCount {
			return a.MatchedCount > b.MatchedCount
		}
		return a.TotalCount > b.TotalCount
	})
}

// resolvePantry prefers the structured list and falls back to free text
func resolvePantry(items []string, text string) []string {
	if len(items) > 0 {
		return CleanPantryItems(items)
	}
	return SplitPantryList(text)
}

// roundScore rounds to 3 decimal places
func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
