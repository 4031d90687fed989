package simplify

import (
	"fmt"
	"strings"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/textproc"
)

const rewriteKeyTerms = 4

var categorySentences = map[string]string{
	"Definitions":           "This clause explains what certain words in the agreement mean.",
	"Payment":               "This clause sets out who has to pay and when.",
	"Termination":           "This clause explains how and when the agreement can end.",
	"Confidentiality":       "This clause requires certain information to be kept private.",
	"Liability":             "This clause limits or assigns responsibility for losses.",
	"Intellectual Property": "This clause says who owns the ideas and creative work involved.",
	"Dispute Resolution":    "This clause explains how disagreements will be settled.",
	"Obligations":           "This clause lists what a party has to do.",
	"Governing Law":         "This clause names the law that applies to the agreement.",
	"Indemnification":       "This clause says who pays if the other side suffers a loss.",
	"Warranties":            "This clause lists promises about facts or quality.",
}

// PlainLanguage builds a generic sentence for the clause category and highlights the clause's
// key terms. It declines (ok=false) when there is neither a category nor a key term to state.
func PlainLanguage(original, clauseType string) (string, bool) {
	terms := textproc.KeyPhrases(original, rewriteKeyTerms, keyPhraseMinLen)
	general := clauseType == "" || clauseType == domain.GeneralType
	if general && len(terms) == 0 {
		return "", false
	}

	sentence, ok := categorySentences[clauseType]
	if !ok {
		sentence = "This clause sets out general terms of the agreement."
		if !general {
			sentence = fmt.Sprintf("This clause deals with %s.", strings.ToLower(clauseType))
		}
	}
	if len(terms) == 0 {
		return sentence, true
	}

	bold := make([]string, len(terms))
	for i, t := range terms {
		bold[i] = "**" + t + "**"
	}
	return fmt.Sprintf("%s Key terms: %s.", sentence, strings.Join(bold, ", ")), true
}
