// Package textproc holds the deterministic text utilities shared by the analysis pipeline:
// chunking, direct clause segmentation, similarity and key-phrase extraction.
package textproc

import (
	"regexp"
	"sort"
	"strings"
)

var (
	tokenExpr      = regexp.MustCompile(`[\p{L}\p{N}]+`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all also an and any are as at be because been
		before being below between both but by can could did do does doing down during each either few for from
		further had has have having he her here hers herself him himself his how i if in into is it its itself
		just may me might more most must my myself no nor not now of off on once only or other our ours ourselves
		out over own same shall she should so some such than that the their theirs them themselves then there
		these they this those through to too under until up upon very was we were what when where which while
		who whom why will with within without would you your yours yourself yourselves hereby herein hereof
		hereto hereunder thereof therein thereto whereas whereby party parties agreement`) {
		stopwords[w] = struct{}{}
	}
}

// Tokens splits text into lower-case alphanumeric tokens.
func Tokens(text string) []string {
	return tokenExpr.FindAllString(strings.ToLower(text), -1)
}

// Normalize lower-cases text and collapses whitespace runs.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(strings.ToLower(text), " "))
}

// CollapseSpaces collapses whitespace runs to a single space and trims the result.
func CollapseSpaces(text string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Jaccard returns |A∩B| / |A∪B| over the token sets of a and b.
// Two texts without tokens are maximally similar.
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range Tokens(text) {
		set[tok] = struct{}{}
	}
	return set
}

// IsStopword reports whether the lower-case token carries no meaning on its own.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// KeyPhrases returns up to n tokens ranked by frequency, skipping stopwords and tokens shorter
// than minLen runes. Ties keep the order of first appearance.
func KeyPhrases(text string, n, minLen int) []string {
	if n <= 0 {
		return nil
	}

	counts := map[string]int{}
	var order []string
	for _, tok := range Tokens(text) {
		if len([]rune(tok)) < minLen || IsStopword(tok) {
			continue
		}
		if _, ok := counts[tok]; !ok {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
