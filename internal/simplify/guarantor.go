package simplify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/textproc"
)

const (
	simpleTermsPrefix = "In simple terms: "
	plainlyPrefix     = "To put it plainly, "
	addendumPhrases   = 3
	keyPhraseMinLen   = 5
)

var commaBreakExpr = regexp.MustCompile(`\s*,\s*(\p{L})`)

// Guarantor is the last pass over every simplification. It only ever prefixes or appends;
// existing content is never rewritten.
type Guarantor struct {
	cfg config.SimplificationConfig
}

func NewGuarantor(cfg config.SimplificationConfig) Guarantor {
	return Guarantor{cfg: cfg}
}

// Finalize makes sure candidate differs from original and is not much shorter than it.
func (g Guarantor) Finalize(original, candidate, clauseType string) string {
	original = strings.TrimSpace(original)
	out := strings.TrimSpace(candidate)
	if out == "" {
		out = original
	}
	if original == "" {
		return out
	}

	if textproc.Normalize(out) == textproc.Normalize(original) {
		out = mechanicalRephrase(out)
	}
	if textproc.Normalize(out) == textproc.Normalize(original) {
		out = simpleTermsPrefix + out
	}
	if textproc.Jaccard(original, out) > g.cfg.PlainlyThreshold {
		out = plainlyPrefix + lowerFirst(out)
	}

	floor := max(g.cfg.MinWords, int(g.cfg.LengthFloorRatio*float64(textproc.WordCount(original))))
	if textproc.WordCount(out) < floor {
		if addendum := g.addendum(original, out, clauseType); addendum != "" {
			out = strings.TrimSpace(out) + " " + addendum
		}
	}
	return out
}

func (g Guarantor) addendum(original, current, clauseType string) string {
	present := map[string]struct{}{}
	for _, tok := range textproc.Tokens(current) {
		present[tok] = struct{}{}
	}

	var missing []string
	for _, phrase := range textproc.KeyPhrases(original, addendumPhrases, keyPhraseMinLen) {
		if _, ok := present[phrase]; !ok {
			missing = append(missing, phrase)
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("Key points: %s.", strings.Join(missing, ", ")))
	}
	if clauseType != "" && clauseType != domain.GeneralType {
		parts = append(parts, fmt.Sprintf("This clause is about %s.", strings.ToLower(clauseType)))
	}
	return strings.Join(parts, " ")
}

// mechanicalRephrase turns commas into sentence breaks and drops parenthetical asides.
func mechanicalRephrase(text string) string {
	out := parentheticalExpr.ReplaceAllString(text, "")
	out = commaBreakExpr.ReplaceAllStringFunc(out, func(m string) string {
		return ". " + capitalize(strings.TrimLeft(m, ", \t\n"))
	})
	return textproc.CollapseSpaces(out)
}

func lowerFirst(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return text
	}
	// Acronyms stay upper case.
	if first := fields[0]; utf8.RuneCountInString(first) > 1 && strings.ToUpper(first) == first {
		return text
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToLower(r)) + text[size:]
}
