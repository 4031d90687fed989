package classify

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/ports"
)

var entityTypes = map[string]struct{}{
	"ORG":  {},
	"PER":  {},
	"LOC":  {},
	"DATE": {},
	"MISC": {},
}

// EntityExtractor runs NER on a clause and keeps the coarse entity types.
type EntityExtractor struct {
	gateway ports.ModelGateway
	model   string
}

func NewEntityExtractor(gateway ports.ModelGateway, model string) *EntityExtractor {
	return &EntityExtractor{gateway: gateway, model: model}
}

// Extract returns the filtered entities of one clause. Callers decide what a failure means;
// the pipeline skips that clause's contribution.
func (x *EntityExtractor) Extract(ctx context.Context, clause string) ([]domain.EntityTerm, error) {
	if x == nil || x.gateway == nil || x.model == "" {
		return nil, errors.New("entity extractor not configured")
	}

	resp, err := x.gateway.Entities(ctx, x.model, clause)
	if err != nil {
		return nil, err
	}
	return FilterEntities(resp.Entities), nil
}

// FilterEntities normalizes raw NER output: B-/I- prefixes are stripped from types, ## word
// piece markers are removed and words of two characters or fewer are dropped.
func FilterEntities(raw []domain.EntityTerm) []domain.EntityTerm {
	out := make([]domain.EntityTerm, 0, len(raw))
	for _, e := range raw {
		typ := strings.ToUpper(strings.TrimSpace(e.Type))
		typ = strings.TrimPrefix(strings.TrimPrefix(typ, "B-"), "I-")
		if _, ok := entityTypes[typ]; !ok {
			continue
		}

		word := strings.Join(strings.Fields(strings.ReplaceAll(e.Word, "##", "")), " ")
		word = strings.Trim(word, ".,;:()\"'")
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		out = append(out, domain.EntityTerm{Word: word, Type: typ, Score: e.Score})
	}
	return out
}
