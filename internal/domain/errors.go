package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidFactor is returned when a scale factor is not a positive finite number
	ErrInvalidFactor = errors.New("scale factor must be a positive finite number")

	// ErrRecipeNotFound is returned when a recipe does not exist in the store
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNoRecipes is returned when a weekly plan is requested from an empty store
	ErrNoRecipes = errors.New("no recipes in database")
)
