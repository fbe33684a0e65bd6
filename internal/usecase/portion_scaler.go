package usecase

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/recipebook/backend/internal/domain"
)

// Quantity grammar building blocks. Atom alternatives are ordered so the
// longest reading wins: mixed number, fraction, digit+glyph, glyph, decimal.
const (
	quantityDecimal  = `\d+(?:[.,]\d+)?`
	quantityFraction = `\d+\s*/\s*\d+`
	quantityGlyph    = `[½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`
	quantityAtom     = `(?:` + quantityDecimal + `\s+` + quantityFraction +
		`|` + quantityFraction +
		`|\d+\s*` + quantityGlyph +
		`|` + quantityGlyph +
		`|` + quantityDecimal + `)`

	// Dashes may touch the numbers; words need surrounding whitespace
	quantityRangeSep = `(?:\s*[-–—]\s*|\s+(?:to|до|по)\s+)`
)

var (
	quantityTokenRegex = regexp.MustCompile(
		`(?i)(?P<low>` + quantityAtom + `)` + quantityRangeSep + `(?P<high>` + quantityAtom + `)` +
			`|(?P<single>` + quantityAtom + `)`,
	)
	quantityLowGroup    = quantityTokenRegex.SubexpIndex("low")
	quantityHighGroup   = quantityTokenRegex.SubexpIndex("high")
	quantitySingleGroup = quantityTokenRegex.SubexpIndex("single")

	fractionSlashRegex = regexp.MustCompile(`\s*/\s*`)
)

var unicodeFractions = strings.NewReplacer(
	"½", " 1/2",
	"⅓", " 1/3",
	"⅔", " 2/3",
	"¼", " 1/4",
	"¾", " 3/4",
	"⅕", " 1/5",
	"⅖", " 2/5",
	"⅗", " 3/5",
	"⅘", " 4/5",
	"⅙", " 1/6",
	"⅚", " 5/6",
	"⅛", " 1/8",
	"⅜", " 3/8",
	"⅝", " 5/8",
	"⅞", " 7/8",
)

// Kitchen-friendly denominators, tried in order; earlier wins on equal error
var kitchenDenominators = []int{2, 3, 4, 5, 6, 8}

const (
	integerTolerance  = 1e-6
	fractionTolerance = 0.03
)

// quantityToken is one numeric occurrence in a line with its byte span
type quantityToken struct {
	start, end int
	low, high  float64
	isRange    bool
}

// ValidateFactor rejects non-positive and non-finite scale factors
func ValidateFactor(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return fmt.Errorf("%w: got %v", domain.ErrInvalidFactor, factor)
	}
	return nil
}

// ScaleIngredientLine multiplies every quantity in line by factor and
// re-renders it. Lines mentioning a temperature, and calls with an invalid
// factor, come back unchanged.
func ScaleIngredientLine(line string, factor float64) string {
	if ValidateFactor(factor) != nil || strings.ContainsAny(line, "°º") {
		return line
	}

	tokens := findQuantityTokens(line)

	// Replace right to left so earlier spans stay valid
	out := line
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		repl := FormatQuantity(t.low * factor)
		if t.isRange {
			repl += "-" + FormatQuantity(t.high*factor)
		}
		out = out[:t.start] + repl + out[t.end:]
	}
	return out
}

// ScaleIngredientLines scales each line independently, preserving order and length
func ScaleIngredientLines(lines []string, factor float64) []string {
	scaled := make([]string, len(lines))
	for i, line := range lines {
		scaled[i] = ScaleIngredientLine(line, factor)
	}
	return scaled
}

// findQuantityTokens scans line left to right. Matches never overlap.
// Spans whose text does not parse (e.g. a zero denominator) are skipped.
func findQuantityTokens(line string) []quantityToken {
	matches := quantityTokenRegex.FindAllStringSubmatchIndex(line, -1)
	tokens := make([]quantityToken, 0, len(matches))

	for _, m := range matches {
		t := quantityToken{start: m[0], end: m[1]}

		if lo := 2 * quantityLowGroup; m[lo] >= 0 {
			hi := 2 * quantityHighGroup
			low, err := ParseQuantity(line[m[lo]:m[lo+1]])
			if err != nil {
				continue
			}
			high, err := ParseQuantity(line[m[hi]:m[hi+1]])
			if err != nil {
				continue
			}
			t.low, t.high, t.isRange = low, high, true
		} else {
			s := 2 * quantitySingleGroup
			value, err := ParseQuantity(line[m[s]:m[s+1]])
			if err != nil {
				continue
			}
			t.low = value
		}

		tokens = append(tokens, t)
	}

	return tokens
}

// ParseQuantity parses a numeric atom: integer, decimal (dot or comma),
// fraction "N/M", mixed number "W N/M", or a unicode fraction glyph with an
// optional whole part. Fractions are summed exactly before conversion.
func ParseQuantity(text string) (float64, error) {
	token := unicodeFractions.Replace(text)
	token = strings.ReplaceAll(token, ",", ".")
	token = fractionSlashRegex.ReplaceAllString(token, "/")
	parts := strings.Fields(token)

	var sum *big.Rat
	switch {
	case len(parts) == 1:
		r, ok := parseRational(parts[0])
		if !ok {
			return 0, fmt.Errorf("malformed quantity %q", text)
		}
		sum = r
	case len(parts) == 2 && !strings.Contains(parts[0], "/") && strings.Contains(parts[1], "/"):
		whole, ok := parseRational(parts[0])
		if !ok {
			return 0, fmt.Errorf("malformed whole part in %q", text)
		}
		frac, ok := parseRational(parts[1])
		if !ok {
			return 0, fmt.Errorf("malformed fraction in %q", text)
		}
		sum = whole.Add(whole, frac)
	default:
		return 0, fmt.Errorf("malformed quantity %q", text)
	}

	value, _ := sum.Float64()
	return value, nil
}

func parseRational(s string) (*big.Rat, bool) {
	if num, den, isFrac := strings.Cut(s, "/"); isFrac {
		n, ok := new(big.Int).SetString(num, 10)
		if !ok {
			return nil, false
		}
		d, ok := new(big.Int).SetString(den, 10)
		if !ok || d.Sign() == 0 {
			return nil, false
		}
		return new(big.Rat).SetFrac(n, d), true
	}
	return new(big.Rat).SetString(s)
}

// FormatQuantity renders a scaled quantity the way a cook would write it.
// Near-integers print bare, values within 0.03 of a small-denominator
// fraction print as "N/M" or "W N/M", anything else as a trimmed 2-place
// decimal. Non-positive and non-finite values print as "0".
func FormatQuantity(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return "0"
	}

	rounded := math.RoundToEven(value)
	if math.Abs(value-rounded) < integerTolerance {
		return formatWhole(rounded)
	}

	whole := math.Floor(value)
	frac := value - whole

	bestNum, bestDen := 0, 0
	bestErr := math.Inf(1)
	for _, den := range kitchenDenominators {
		num := int(math.RoundToEven(frac * float64(den)))
		if num == 0 {
			continue
		}
		if err := math.Abs(frac - float64(num)/float64(den)); err < bestErr {
			bestErr = err
			bestNum, bestDen = num, den
		}
	}

	if bestDen != 0 && bestErr <= fractionTolerance {
		if bestNum >= bestDen {
			whole += float64(bestNum / bestDen)
			bestNum %= bestDen
		}
		switch {
		case whole > 0 && bestNum > 0:
			return fmt.Sprintf("%s %d/%d", formatWhole(whole), bestNum, bestDen)
		case whole > 0:
			return formatWhole(whole)
		default:
			return fmt.Sprintf("%d/%d", bestNum, bestDen)
		}
	}

	s := strconv.FormatFloat(value, 'f', 2, 64)
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}

func formatWhole(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
