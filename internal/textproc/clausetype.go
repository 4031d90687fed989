package textproc

import (
	"regexp"
	"strings"

	"LegalAnalyzer/internal/domain"
)

type clauseCategory struct {
	name    string
	matcher *regexp.Regexp
}

func category(name string, keywords ...string) clauseCategory {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	// Keywords are word prefixes so stems like "terminat" match "termination".
	return clauseCategory{name: name, matcher: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)`)}
}

// Order matters: the first category with a matching keyword wins.
var clauseCategories = []clauseCategory{
	category("Definitions", "means", "defined as", "shall mean", "definition", "refers to"),
	category("Payment", "payment", "pay", "fee", "invoice", "price", "compensation", "salary", "rent"),
	category("Termination", "terminat", "cancel", "expir"),
	category("Confidentiality", "confidential", "non-disclosure", "proprietary", "trade secret"),
	category("Liability", "liabilit", "liable", "damages", "indemnif", "hold harmless"),
	category("Intellectual Property", "intellectual property", "copyright", "patent", "trademark", "licens"),
	category("Dispute Resolution", "arbitration", "dispute", "governing law", "jurisdiction", "court"),
	category("Obligations", "shall", "must", "agrees to", "obligat", "responsible for"),
}

// ClauseType assigns a category by keyword lookup, defaulting to domain.GeneralType.
func ClauseType(text string) string {
	for _, cat := range clauseCategories {
		if cat.matcher.MatchString(text) {
			return cat.name
		}
	}
	return domain.GeneralType
}
