package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/recipebook/backend/internal/domain"
)

// MemoryRecipeStore is a thread-safe in-memory recipe repository
type MemoryRecipeStore struct {
	data   map[int64]domain.Recipe
	nextID int64
	mutex  sync.RWMutex
}

// NewMemoryRecipeStore creates an empty in-memory store
func NewMemoryRecipeStore() *MemoryRecipeStore {
	return &MemoryRecipeStore{
		data: make(map[int64]domain.Recipe),
	}
}

// List returns the recipes passing filter, newest first
func (s *MemoryRecipeStore) List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	recipes := make([]domain.Recipe, 0, len(s.data))
	for _, r := range s.data {
		if filter.Matches(r) {
			recipes = append(recipes, r)
		}
	}
	sortNewestFirst(recipes)
	return recipes, nil
}

// GetByID retrieves a single recipe
func (s *MemoryRecipeStore) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	r, exists := s.data[id]
	if !exists {
		return nil, domain.ErrRecipeNotFound
	}
	return &r, nil
}

// Create stores a recipe and assigns its ID. CreatedAt defaults to now.
func (s *MemoryRecipeStore) Create(ctx context.Context, recipe *domain.Recipe) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextID++
	recipe.ID = s.nextID
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}
	s.data[recipe.ID] = *recipe
	return nil
}

// Size returns the number of stored recipes
func (s *MemoryRecipeStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// sortNewestFirst orders by CreatedAt descending, then ID descending
func sortNewestFirst(recipes []domain.Recipe) {
	sort.Slice(recipes, func(i, j int) bool {
		if !recipes[i].CreatedAt.Equal(recipes[j].CreatedAt) {
			return recipes[i].CreatedAt.After(recipes[j].CreatedAt)
		}
		return recipes[i].ID > recipes[j].ID
	})
}
