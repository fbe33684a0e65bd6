package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/recipebook/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	defaultPlanDays    = 7
	defaultMealsPerDay = 2
	planDateLayout     = "2006-01-02"
)

// MealPlanService builds round-robin meal plans with a shopping list
type MealPlanService struct {
	recipes  domain.RecipeRepository
	matcher  *PantryMatcher
	enhancer domain.TextEnhancer
	now      func() time.Time
}

// NewMealPlanService creates a meal plan service. enhancer may be nil.
func NewMealPlanService(
	recipes domain.RecipeRepository,
	matcher *PantryMatcher,
	enhancer domain.TextEnhancer,
) *MealPlanService {
	if matcher == nil {
		matcher = defaultMatcher
	}
	return &MealPlanService{
		recipes:  recipes,
		matcher:  matcher,
		enhancer: enhancer,
		now:      time.Now,
	}
}

// BuildWeeklyPlan assigns recipes, newest first, to day x meal slots in
// rotation starting today and collects every missing ingredient into a
// deduplicated, case-insensitively sorted shopping list.
func (s *MealPlanService) BuildWeeklyPlan(ctx context.Context, request *domain.WeeklyPlanRequest) (*domain.WeeklyPlan, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if len(request.Pantry) == 0 && strings.TrimSpace(request.PantryText) == "" {
		return nil, fmt.Errorf("%w: provide either pantry or pantry_text", domain.ErrInvalidRequest)
	}

	days := request.Days
	if days <= 0 {
		days = defaultPlanDays
	}
	mealsPerDay := request.MealsPerDay
	if mealsPerDay <= 0 {
		mealsPerDay = defaultMealsPerDay
	}

	pantry := resolvePantry(request.Pantry, request.PantryText)

	recipes, err := s.candidateRecipes(ctx, request.VerifiedOnly)
	if err != nil {
		return nil, err
	}

	plan := &domain.WeeklyPlan{
		Pantry:        pantry,
		Days:          days,
		MealsPerDay:   mealsPerDay,
		Plan:          make([]domain.PlanDay, 0, days),
		UsedRecipeIDs: make([]int64, 0, days*mealsPerDay),
	}

	coverages := make(map[int]domain.Coverage, len(recipes))
	shopping := make(map[string]struct{})
	start := s.now()
	idx := 0

	for d := 0; d < days; d++ {
		day := domain.PlanDay{
			Date:  start.AddDate(0, 0, d).Format(planDateLayout),
			Meals: make([]domain.PlannedMeal, 0, mealsPerDay),
		}

		for m := 0; m < mealsPerDay; m++ {
			ri := idx % len(recipes)
			idx++
			recipe := recipes[ri]

			coverage, ok := coverages[ri]
			if !ok {
				coverage = s.matcher.Coverage(recipe.IngredientsText, pantry)
				coverages[ri] = coverage
			}
			for _, item := range coverage.Missing {
				shopping[strings.TrimSpace(item)] = struct{}{}
			}

			day.Meals = append(day.Meals, domain.PlannedMeal{
				Meal:     fmt.Sprintf("Meal %d", m+1),
				RecipeID: recipe.ID,
				Title:    recipe.Title,
				Missing:  coverage.Missing,
				Score:    roundScore(coverage.Score()),
			})
			plan.UsedRecipeIDs = append(plan.UsedRecipeIDs, recipe.ID)
		}

		plan.Plan = append(plan.Plan, day)
	}

	plan.ShoppingList = sortedShoppingList(shopping)

	log.Debug().Msgf("[PLAN] %d days x %d meals from %d recipes, %d items to buy",
		days, mealsPerDay, len(recipes), len(plan.ShoppingList))

	if request.UseAI {
		if pretty, ok := tryEnhance(ctx, s.enhancer, domain.EnhanceRequest{Plan: plan}); ok {
			plan.Pretty = pretty
		}
	}

	return plan, nil
}

// candidateRecipes falls back to all recipes when none are verified
func (s *MealPlanService) candidateRecipes(ctx context.Context, verifiedOnly bool) ([]domain.Recipe, error) {
	recipes, err := s.recipes.List(ctx, domain.RecipeFilter{VerifiedOnly: verifiedOnly})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	if len(recipes) == 0 && verifiedOnly {
		recipes, err = s.recipes.List(ctx, domain.RecipeFilter{})
		if err != nil {
			return nil, fmt.Errorf("list recipes: %w", err)
		}
	}

	if len(recipes) == 0 {
		return nil, domain.ErrNoRecipes
	}
	return recipes, nil
}

func sortedShoppingList(items map[string]struct{}) []string {
	list := make([]string, 0, len(items))
	for item := range items {
		list = append(list, item)
	}
	sort.Slice(list, func(i, j int) bool {
		li, lj := strings.ToLower(list[i]), strings.ToLower(list[j])
		if li != lj {
			return li < lj
		}
		return list[i] < list[j]
	})
	return list
}
