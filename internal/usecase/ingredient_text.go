package usecase

import (
	"regexp"
	"strings"
)

var (
	// Ingredient lines are separated by newlines or commas
	ingredientSeparatorRegex = regexp.MustCompile(`[\n,]+`)

	// Pantry lists also accept semicolons
	pantrySeparatorRegex = regexp.MustCompile(`[\n,;]+`)
)

// SplitIngredientLines splits raw ingredient text into trimmed, non-empty lines.
// Input order is preserved.
func SplitIngredientLines(text string) []string {
	return splitTrimmed(text, ingredientSeparatorRegex)
}

// SplitPantryList splits free-text pantry input into trimmed, non-empty items
func SplitPantryList(text string) []string {
	return splitTrimmed(text, pantrySeparatorRegex)
}

// CleanPantryItems trims a structured pantry list and drops blank entries
func CleanPantryItems(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

func splitTrimmed(text string, sep *regexp.Regexp) []string {
	parts := sep.Split(text, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
