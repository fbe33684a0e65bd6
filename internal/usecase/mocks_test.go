package usecase

import (
	"context"
	"sync"

	"github.com/recipebook/backend/internal/domain"
)

// MockRecipeRepository is a mock implementation of domain.RecipeRepository.
// Recipes are returned in slice order, which tests treat as newest first.
type MockRecipeRepository struct {
	recipes   []domain.Recipe
	listError error
	getError  error
	listCalls int
}

func NewMockRecipeRepository(recipes ...domain.Recipe) *MockRecipeRepository {
	return &MockRecipeRepository{recipes: recipes}
}

func (m *MockRecipeRepository) List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	m.listCalls++
	if m.listError != nil {
		return nil, m.listError
	}
	var out []domain.Recipe
	for _, r := range m.recipes {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, r := range m.recipes {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	recipe.ID = int64(len(m.recipes) + 1)
	m.recipes = append(m.recipes, *recipe)
	return nil
}

// MockTextEnhancer is a mock implementation of domain.TextEnhancer
type MockTextEnhancer struct {
	result   string
	ok       bool
	requests []domain.EnhanceRequest
	mutex    sync.Mutex
}

func (m *MockTextEnhancer) TryEnhance(ctx context.Context, request domain.EnhanceRequest) (string, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests = append(m.requests, request)
	return m.result, m.ok
}

func (m *MockTextEnhancer) calls() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.requests)
}
