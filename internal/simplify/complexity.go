package simplify

import (
	"math"
	"unicode/utf8"

	"LegalAnalyzer/internal/textproc"
)

const longWordRunes = 7

// ComplexityReduction is the drop, in percent, of the share of long words from original to
// simplified. It is clamped to 0..100.
func ComplexityReduction(original, simplified string) int {
	before := longWordRatio(original)
	if before == 0 {
		return 0
	}
	after := longWordRatio(simplified)
	pct := math.Round((before - after) / before * 100)
	return int(math.Max(0, math.Min(100, pct)))
}

func longWordRatio(text string) float64 {
	tokens := textproc.Tokens(text)
	if len(tokens) == 0 {
		return 0
	}
	long := 0
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= longWordRunes {
			long++
		}
	}
	return float64(long) / float64(len(tokens))
}
