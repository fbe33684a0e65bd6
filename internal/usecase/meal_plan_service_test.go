package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recipebook/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanService(repo domain.RecipeRepository, enhancer domain.TextEnhancer) *MealPlanService {
	svc := NewMealPlanService(repo, nil, enhancer)
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 30, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func planFixtures() *MockRecipeRepository {
	return NewMockRecipeRepository(
		domain.Recipe{ID: 1, Title: "Omelette", IngredientsText: "3 eggs, 100 ml milk, Bacon", Verified: true},
		domain.Recipe{ID: 2, Title: "Salad", IngredientsText: "2 tomatoes\n1 cucumber\nbacon\nсіль", Verified: true},
		domain.Recipe{ID: 3, Title: "Draft", IngredientsText: "буряк", Verified: false},
	)
}

func TestMealPlanService_BuildWeeklyPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("round robin over verified recipes", func(t *testing.T) {
		svc := newTestPlanService(planFixtures(), nil)
		plan, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{
			Pantry:       []string{"eggs", "milk"},
			Days:         2,
			MealsPerDay:  2,
			VerifiedOnly: true,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, plan.Days)
		assert.Equal(t, 2, plan.MealsPerDay)
		assert.Equal(t, []int64{1, 2, 1, 2}, plan.UsedRecipeIDs)

		require.Len(t, plan.Plan, 2)
		assert.Equal(t, "2024-03-30", plan.Plan[0].Date)
		assert.Equal(t, "2024-03-31", plan.Plan[1].Date)

		meals := plan.Plan[1].Meals
		require.Len(t, meals, 2)
		assert.Equal(t, "Meal 1", meals[0].Meal)
		assert.Equal(t, "Meal 2", meals[1].Meal)
		assert.Equal(t, "Omelette", meals[0].Title)
		assert.Equal(t, []string{"Bacon"}, meals[0].Missing)
		assert.Equal(t, 0.667, meals[0].Score)
		assert.Equal(t, 0.0, meals[1].Score)
	})

	t.Run("shopping list deduplicated and sorted case insensitively", func(t *testing.T) {
		svc := newTestPlanService(planFixtures(), nil)
		plan, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{
			PantryText:   "eggs; milk",
			Days:         3,
			MealsPerDay:  1,
			VerifiedOnly: true,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"1 cucumber", "2 tomatoes", "Bacon", "bacon"}, plan.ShoppingList)
	})

	t.Run("defaults to a week of two meals", func(t *testing.T) {
		svc := newTestPlanService(planFixtures(), nil)
		plan, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{Pantry: []string{"eggs"}})
		require.NoError(t, err)

		assert.Equal(t, 7, plan.Days)
		assert.Equal(t, 2, plan.MealsPerDay)
		assert.Len(t, plan.Plan, 7)
		assert.Len(t, plan.UsedRecipeIDs, 14)
		assert.Equal(t, "2024-04-05", plan.Plan[6].Date)
		assert.Equal(t, []int64{1, 2, 3, 1}, plan.UsedRecipeIDs[:4])
	})

	t.Run("falls back to all recipes when none are verified", func(t *testing.T) {
		repo := NewMockRecipeRepository(
			domain.Recipe{ID: 5, Title: "Draft A", IngredientsText: "eggs"},
			domain.Recipe{ID: 4, Title: "Draft B", IngredientsText: "milk"},
		)
		svc := newTestPlanService(repo, nil)
		plan, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{
			Pantry:       []string{"eggs"},
			Days:         1,
			MealsPerDay:  3,
			VerifiedOnly: true,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 4, 5}, plan.UsedRecipeIDs)
		assert.Equal(t, 2, repo.listCalls)
		assert.Equal(t, []string{"milk"}, plan.ShoppingList)
	})

	t.Run("empty store", func(t *testing.T) {
		svc := newTestPlanService(NewMockRecipeRepository(), nil)
		_, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{Pantry: []string{"eggs"}, VerifiedOnly: true})
		assert.True(t, errors.Is(err, domain.ErrNoRecipes))
	})

	t.Run("requires pantry", func(t *testing.T) {
		svc := newTestPlanService(planFixtures(), nil)
		_, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{PantryText: " "})
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))

		_, err = svc.BuildWeeklyPlan(ctx, nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		repoErr := errors.New("connection reset")
		repo := planFixtures()
		repo.listError = repoErr

		svc := newTestPlanService(repo, nil)
		_, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{Pantry: []string{"eggs"}})
		assert.True(t, errors.Is(err, repoErr))
	})

	t.Run("enhancer receives the finished plan once", func(t *testing.T) {
		enhancer := &MockTextEnhancer{result: "Понеділок: омлет", ok: true}
		svc := newTestPlanService(planFixtures(), enhancer)
		plan, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{
			Pantry:      []string{"eggs"},
			Days:        1,
			MealsPerDay: 1,
			UseAI:       true,
		})
		require.NoError(t, err)

		assert.Equal(t, "Понеділок: омлет", plan.Pretty)
		require.Equal(t, 1, enhancer.calls())
		require.NotNil(t, enhancer.requests[0].Plan)
		assert.Equal(t, plan.UsedRecipeIDs, enhancer.requests[0].Plan.UsedRecipeIDs)
	})

	t.Run("enhancer failure keeps the plan", func(t *testing.T) {
		enhancer := &MockTextEnhancer{ok: false}
		svc := newTestPlanService(planFixtures(), enhancer)
		plan, err := svc.BuildWeeklyPlan(ctx, &domain.WeeklyPlanRequest{Pantry: []string{"eggs"}, Days: 1, UseAI: true})
		require.NoError(t, err)
		assert.Empty(t, plan.Pretty)
		assert.Len(t, plan.UsedRecipeIDs, 2)
	})
}

func TestSortedShoppingList(t *testing.T) {
	items := map[string]struct{}{"Яйця": {}, "bread": {}, "Apple": {}, "apple": {}, "борошно": {}}
	assert.Equal(t, []string{"Apple", "apple", "bread", "борошно", "Яйця"}, sortedShoppingList(items))
	assert.Equal(t, []string{}, sortedShoppingList(map[string]struct{}{}))
}
