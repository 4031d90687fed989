package simplify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"LegalAnalyzer/internal/textproc"
)

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

func phrases(pairs ...string) []substitution {
	subs := make([]substitution, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		expr := strings.ReplaceAll(regexp.QuoteMeta(pairs[i]), ` `, `\s+`)
		if isWordRune(firstRune(pairs[i])) {
			expr = `\b` + expr
		}
		if isWordRune(lastRune(pairs[i])) {
			expr += `\b`
		}
		subs = append(subs, substitution{
			pattern:     regexp.MustCompile(`(?i)` + expr),
			replacement: pairs[i+1],
		})
	}
	return subs
}

// Longer phrases come first so they win over the words they contain.
var jargon = phrases(
	"notwithstanding the foregoing", "despite the above",
	"for the avoidance of doubt", "to be clear",
	"in the event that", "if",
	"in the event of", "if there is",
	"including but not limited to", "including",
	"shall not", "will not",
	"shall be entitled to", "will have the right to",
	"is entitled to", "has the right to",
	"pursuant to", "according to",
	"in accordance with", "following",
	"with respect to", "about",
	"in lieu of", "instead of",
	"prior to", "before",
	"subsequent to", "after",
	"provided that", "as long as",
	"inter alia", "among other things",
	"mutatis mutandis", "with the necessary changes",
	"null and void", "invalid",
	"force majeure", "events outside anyone's control",
	"sole discretion", "own choice",
	"notwithstanding", "despite",
	"hereinafter", "from now on",
	"hereby", "by this document",
	"herein", "in this document",
	"thereof", "of it",
	"therein", "in it",
	"whereas", "since",
	"forthwith", "immediately",
	"aforementioned", "mentioned above",
	"aforesaid", "mentioned above",
	"commencement", "start",
	"commence", "start",
	"remuneration", "pay",
	"remit", "pay",
	"indemnify", "compensate",
	"utilize", "use",
	"endeavour", "try",
	"endeavor", "try",
	"deemed", "considered",
	"obligated", "required",
	"lessee", "tenant",
	"lessor", "landlord",
	"shall", "will",
)

var verbose = phrases(
	"including, without limitation,", "including",
	"without limitation", "",
	"in order to", "to",
	"any and all", "all",
	"each and every", "every",
	"by and between", "between",
	"in connection with", "related to",
	"for the purpose of", "for",
	"at such time as", "when",
	"on or before", "by",
	"from time to time", "",
	"the said", "the",
)

var (
	semicolonExpr     = regexp.MustCompile(`\s*;\s*(\p{L})`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([,.;:!?])`)
	missingSpaceExpr  = regexp.MustCompile(`(\p{Ll}{2,}[.!?])(\p{Lu})`)
	doublePunctExpr   = regexp.MustCompile(`([,.])[,.]+`)
	leadingCommaExpr  = regexp.MustCompile(`^[\s,;:]+`)
	parentheticalExpr = regexp.MustCompile(`\s*\([^()]*\)`)
)

// ApplyRules replaces legal jargon with plain phrases in one ordered pass and normalizes
// punctuation. The leading capital of a replaced phrase is kept.
func ApplyRules(text string) string {
	out := substitute(text, jargon)
	out = semicolonExpr.ReplaceAllStringFunc(out, func(m string) string {
		r, _ := utf8.DecodeLastRuneInString(m)
		return ". " + string(unicode.ToUpper(r))
	})
	return tidy(out)
}

// Rephrase is the second, more aggressive pass: it drops filler phrases and parenthetical
// cross references from an earlier candidate.
func Rephrase(text string) string {
	out := substitute(text, verbose)
	out = parentheticalExpr.ReplaceAllString(out, "")
	return tidy(out)
}

func substitute(text string, subs []substitution) string {
	for _, s := range subs {
		text = s.pattern.ReplaceAllStringFunc(text, func(match string) string {
			return matchCase(match, s.replacement)
		})
	}
	return text
}

func matchCase(match, replacement string) string {
	if replacement == "" {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(match)
	if !unicode.IsUpper(first) {
		return replacement
	}
	r, size := utf8.DecodeRuneInString(replacement)
	return string(unicode.ToUpper(r)) + replacement[size:]
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func tidy(text string) string {
	text = textproc.CollapseSpaces(text)
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = doublePunctExpr.ReplaceAllString(text, "$1")
	text = missingSpaceExpr.ReplaceAllString(text, "$1 $2")
	text = leadingCommaExpr.ReplaceAllString(text, "")
	return capitalize(strings.TrimSpace(text))
}

func capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}
