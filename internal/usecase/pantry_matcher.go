package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/recipebook/backend/internal/domain"
)

// DefaultSimilarityThreshold is the minimum sequence-similarity ratio at which
// a pantry item counts as the same ingredient
const DefaultSimilarityThreshold = 0.86

// defaultStaples are assumed always on hand and never scored
var defaultStaples = []string{
	"сіль", "перець", "вода", "олія", "масло", "цукор",
	"salt", "pepper", "water", "oil", "sugar",
}

// defaultUnits are stripped as whole words before matching
var defaultUnits = []string{
	"г", "гр", "кг", "мл", "л", "шт", "ст.л", "ч.л", "стл", "чл",
	"g", "kg", "ml", "pcs",
	"tbsp", "tsp", "cup", "cups",
	"tablespoon", "tablespoons", "teaspoon", "teaspoons",
}

var (
	parenRemarkRegex   = regexp.MustCompile(`\(.*?\)`)
	quantityStripRegex = regexp.MustCompile(`\d+(?:[/.,-]\d+)*`)
	nonLetterRegex     = regexp.MustCompile(`[^a-zа-яіїєґ'\s-]`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)
	tokenSplitRegex    = regexp.MustCompile(`[\s-]+`)

	apostropheReplacer = strings.NewReplacer("’", "'", "ʼ", "'", "‘", "'", "`", "'")
)

// MatcherConfig holds configuration for the pantry matcher.
// Zero values fall back to the built-in defaults.
type MatcherConfig struct {
	SimilarityThreshold float64
	Staples             []string
	Units               []string
}

// PantryMatcher decides whether recipe ingredients are already in a pantry.
// It holds only immutable lookup tables and is safe for concurrent use.
type PantryMatcher struct {
	similarityThreshold float64
	staples             map[string]struct{}
	units               []string
}

// NewPantryMatcher creates a matcher with the given configuration
func NewPantryMatcher(config MatcherConfig) *PantryMatcher {
	threshold := config.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}

	staples := config.Staples
	if len(staples) == 0 {
		staples = defaultStaples
	}
	staplesSet := make(map[string]struct{}, len(staples))
	for _, s := range staples {
		staplesSet[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	units := config.Units
	if len(units) == 0 {
		units = defaultUnits
	}
	sorted := make([]string, len(units))
	copy(sorted, units)
	// Longest first so "ст.л" goes before "л"
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(sorted[i]), utf8.RuneCountInString(sorted[j])
		if li != lj {
			return li > lj
		}
		return sorted[i] < sorted[j]
	})

	return &PantryMatcher{
		similarityThreshold: threshold,
		staples:             staplesSet,
		units:               sorted,
	}
}

var defaultMatcher = NewPantryMatcher(MatcherConfig{})

// IsIngredientAvailable checks an ingredient against a pantry with the default matcher
func IsIngredientAvailable(ingredient string, pantry []string) bool {
	return defaultMatcher.IsAvailable(ingredient, pantry)
}

// ComputeRecipeCoverage computes recipe coverage with the default matcher
func ComputeRecipeCoverage(ingredientsText string, pantry []string) domain.Coverage {
	return defaultMatcher.Coverage(ingredientsText, pantry)
}

// Normalize reduces an ingredient or pantry label to lowercase letters,
// apostrophes, hyphens and single spaces. Parenthesized remarks, quantities
// and unit words are removed.
func (m *PantryMatcher) Normalize(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = apostropheReplacer.Replace(s)
	s = parenRemarkRegex.ReplaceAllString(s, " ")
	s = quantityStripRegex.ReplaceAllString(s, " ")
	for _, unit := range m.units {
		s = stripWholeWord(s, unit)
	}
	s = nonLetterRegex.ReplaceAllString(s, " ")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens returns the distinct non-staple words of text in first-seen order
func (m *PantryMatcher) Tokens(text string) []string {
	return m.tokensOfNormalized(m.Normalize(text))
}

func (m *PantryMatcher) tokensOfNormalized(normalized string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, t := range tokenSplitRegex.Split(normalized, -1) {
		if t == "" || seen[t] || m.IsStaple(t) {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	return tokens
}

// IsStaple reports whether a normalized label is an always-available staple
func (m *PantryMatcher) IsStaple(normalized string) bool {
	_, ok := m.staples[normalized]
	return ok
}

// Similarity returns the difflib sequence-matching ratio of a and b over runes
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// IsAvailable decides whether ingredient is covered by pantry.
// Stages, in order: staple, substring containment either way, sequence
// similarity, shared token. The first stage that fires wins.
func (m *PantryMatcher) IsAvailable(ingredient string, pantry []string) bool {
	return m.isAvailable(ingredient, m.Normalize(ingredient), m.preparePantry(pantry))
}

// Coverage checks every ingredient line of a recipe against the pantry.
// Empty and staple lines are skipped entirely; missing lines keep their
// original text and input order.
func (m *PantryMatcher) Coverage(ingredientsText string, pantry []string) domain.Coverage {
	coverage := domain.Coverage{Missing: []string{}}
	prepared := m.preparePantry(pantry)

	for _, item := range SplitIngredientLines(ingredientsText) {
		name := m.Normalize(item)
		if name == "" || m.IsStaple(name) {
			continue
		}

		coverage.TotalCount++
		if m.isAvailable(item, name, prepared) {
			coverage.MatchedCount++
		} else {
			coverage.Missing = append(coverage.Missing, item)
		}
	}

	return coverage
}

// preparedPantry caches normalized pantry labels; tokens are built on first use
type preparedPantry struct {
	normalized []string
	tokens     []map[string]struct{}
}

func (m *PantryMatcher) preparePantry(items []string) *preparedPantry {
	p := &preparedPantry{normalized: make([]string, len(items))}
	for i, item := range items {
		p.normalized[i] = m.Normalize(item)
	}
	return p
}

func (m *PantryMatcher) pantryTokens(p *preparedPantry) []map[string]struct{} {
	if p.tokens == nil {
		p.tokens = make([]map[string]struct{}, len(p.normalized))
		for i, n := range p.normalized {
			set := make(map[string]struct{})
			for _, t := range m.tokensOfNormalized(n) {
				set[t] = struct{}{}
			}
			p.tokens[i] = set
		}
	}
	return p.tokens
}

func (m *PantryMatcher) isAvailable(ingredient, normalized string, pantry *preparedPantry) bool {
	if normalized == "" {
		return false
	}
	if m.IsStaple(normalized) {
		return true
	}

	// Short pantry labels can match inside unrelated words; kept as-is for compatibility
	for _, pn := range pantry.normalized {
		if pn == "" {
			continue
		}
		if strings.Contains(normalized, pn) || strings.Contains(pn, normalized) {
			return true
		}
		if Similarity(normalized, pn) >= m.similarityThreshold {
			return true
		}
	}

	ingredientTokens := m.tokensOfNormalized(normalized)
	if len(ingredientTokens) == 0 {
		return false
	}
	for _, set := range m.pantryTokens(pantry) {
		for _, t := range ingredientTokens {
			if _, ok := set[t]; ok {
				return true
			}
		}
	}

	return false
}

// stripWholeWord replaces every occurrence of word that is not glued to
// another letter, digit or underscore with a space
func stripWholeWord(s, word string) string {
	if word == "" {
		return s
	}

	var b strings.Builder
	last, pos := 0, 0
	for pos < len(s) {
		i := strings.Index(s[pos:], word)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(word)
		if !wordRuneBefore(s, start) && !wordRuneAt(s, end) {
			b.WriteString(s[last:start])
			b.WriteByte(' ')
			last, pos = end, end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}
	b.WriteString(s[last:])
	return b.String()
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
