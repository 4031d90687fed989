package textproc

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinClauseChars is the shortest span still treated as a clause.
const MinClauseChars = 20

const longClauseChars = 200

var (
	lineMarkerExpr    = regexp.MustCompile(`(?m)^[ \t]*(?:\(?\d+(?:\.\d+)*[.)]|\([a-zA-Z]\)|[a-zA-Z][.)]|\([ivxIVX]+\))[ \t]+`)
	inlineMarkerExpr  = regexp.MustCompile(`\s\((?:[a-z]|[ivx]+|\d+)\)\s`)
	leadingMarkerExpr = regexp.MustCompile(`^(?:\(?\d+(?:\.\d+)*[.)]|\([a-zA-Z]\)|[a-zA-Z][.)]|\([ivxIVX]+\))\s+`)
	conjunctionExpr   = regexp.MustCompile(`,\s+(?:and|or)\s+\p{Lu}`)
	leadingJunkExpr   = regexp.MustCompile(`^[^\p{L}\p{N}("“]+`)
	trailingJunkExpr  = regexp.MustCompile(`[^\p{L}\p{N})"”]+$`)
)

var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "inc": {}, "ltd": {}, "co": {}, "corp": {}, "llc": {},
	"no": {}, "st": {}, "jr": {}, "sr": {}, "vs": {}, "etc": {}, "e.g": {}, "i.e": {}, "u.s": {},
	"art": {}, "sec": {}, "para": {}, "approx": {},
}

// SegmentDirect extracts candidate clauses from raw text without any model call.
// The result is deduplicated and ordered longest-first.
func SegmentDirect(text string) []string {
	seen := map[string]struct{}{}
	var clauses []string

	for _, block := range Paragraphs(text) {
		for _, piece := range splitMarkers(block) {
			for _, sentence := range splitSentences(piece) {
				sentence = CollapseSpaces(sentence)
				if utf8.RuneCountInString(sentence) < MinClauseChars {
					continue
				}
				for _, part := range splitLong(sentence) {
					clause := CleanClause(part)
					if utf8.RuneCountInString(clause) < MinClauseChars {
						continue
					}
					key := Normalize(clause)
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					clauses = append(clauses, clause)
				}
			}
		}
	}

	sort.SliceStable(clauses, func(i, j int) bool {
		return utf8.RuneCountInString(clauses[i]) > utf8.RuneCountInString(clauses[j])
	})
	return clauses
}

// MergeClauses returns primary followed by the clauses of extra that primary lacks.
// Clauses are compared on their normalized text.
func MergeClauses(primary, extra []string) []string {
	seen := make(map[string]struct{}, len(primary)+len(extra))
	out := make([]string, 0, len(primary)+len(extra))
	for _, list := range [][]string{primary, extra} {
		for _, clause := range list {
			key := Normalize(clause)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, clause)
		}
	}
	return out
}

// CleanClause trims list markers and stray punctuation and guarantees a terminal period.
func CleanClause(text string) string {
	text = strings.TrimSpace(text)
	text = leadingMarkerExpr.ReplaceAllString(text, "")
	text = leadingJunkExpr.ReplaceAllString(text, "")
	text = trailingJunkExpr.ReplaceAllString(text, "")
	text = CollapseSpaces(text)
	if text == "" {
		return ""
	}
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}

func splitMarkers(block string) []string {
	var cuts []int
	for _, loc := range lineMarkerExpr.FindAllStringIndex(block, -1) {
		cuts = append(cuts, loc[0])
	}
	for _, loc := range inlineMarkerExpr.FindAllStringIndex(block, -1) {
		cuts = append(cuts, loc[0]+1)
	}
	if len(cuts) == 0 {
		return []string{block}
	}
	sort.Ints(cuts)

	var out []string
	prev := 0
	for _, cut := range cuts {
		if cut > prev {
			out = append(out, block[prev:cut])
		}
		prev = cut
	}
	return append(out, block[prev:])
}

func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		// "parties.The" still ends a sentence; "U.S.Bank" does not.
		if j == i+1 && !lowerRun(runes[start:i], 2) {
			continue
		}
		if isAbbreviation(string(runes[start:i])) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// lowerRun reports whether the last n runes of rs are lowercase letters.
func lowerRun(rs []rune, n int) bool {
	if len(rs) < n {
		return false
	}
	for _, r := range rs[len(rs)-n:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func isAbbreviation(before string) bool {
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return false
	}
	word := strings.ToLower(strings.TrimLeft(fields[len(fields)-1], "(\"'“"))
	if utf8.RuneCountInString(word) == 1 && unicode.IsLetter([]rune(word)[0]) {
		return true
	}
	_, ok := abbreviations[word]
	return ok
}

func splitLong(sentence string) []string {
	if utf8.RuneCountInString(sentence) <= longClauseChars {
		return []string{sentence}
	}

	var parts []string
	for _, piece := range strings.Split(sentence, ";") {
		parts = append(parts, splitConjunctions(piece)...)
	}

	kept := parts[:0]
	for _, part := range parts {
		if utf8.RuneCountInString(strings.TrimSpace(part)) >= MinClauseChars {
			kept = append(kept, part)
		}
	}
	if len(kept) < 2 {
		return []string{sentence}
	}
	return kept
}

func splitConjunctions(text string) []string {
	matches := conjunctionExpr.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	var out []string
	prev := 0
	for _, m := range matches {
		_, capSize := utf8.DecodeLastRuneInString(text[m[0]:m[1]])
		out = append(out, text[prev:m[0]])
		prev = m[1] - capSize
	}
	return append(out, text[prev:])
}
