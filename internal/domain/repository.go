package domain

import "context"

// RecipeRepository defines the interface for recipe persistence.
// List returns recipes ordered by CreatedAt, newest first.
type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter) ([]Recipe, error)
	GetByID(ctx context.Context, id int64) (*Recipe, error)
	Create(ctx context.Context, recipe *Recipe) error
}

// TextEnhancer is an optional, best-effort formatter for kitchen output.
// TryEnhance reports false when no enhancement is available for any reason;
// it never returns an error to the caller.
type TextEnhancer interface {
	TryEnhance(ctx context.Context, request EnhanceRequest) (string, bool)
}
