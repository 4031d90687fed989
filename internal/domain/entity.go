package domain

import "strings"

// EntityTerm is a named entity found in clause text.
type EntityTerm struct {
	Word  string  `json:"word"`
	Type  string  `json:"type"`
	Score float64 `json:"score,omitempty"`
}

// EntitySet accumulates entity terms without duplicates, keeping first-seen order.
// Words are compared case-insensitively.
type EntitySet struct {
	seen  map[string]struct{}
	terms []EntityTerm
}

// NewEntitySet builds an empty set.
func NewEntitySet() *EntitySet {
	return &EntitySet{seen: map[string]struct{}{}}
}

// Add inserts the terms that are not present yet.
func (s *EntitySet) Add(terms ...EntityTerm) {
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	for _, term := range terms {
		key := strings.ToLower(strings.TrimSpace(term.Word))
		if key == "" {
			continue
		}
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.terms = append(s.terms, term)
	}
}

// Len reports the number of distinct terms.
func (s *EntitySet) Len() int {
	return len(s.terms)
}

// Terms returns a copy of the collected terms.
func (s *EntitySet) Terms() []EntityTerm {
	out := make([]EntityTerm, len(s.terms))
	copy(out, s.terms)
	return out
}

// Words returns the collected words in insertion order.
func (s *EntitySet) Words() []string {
	out := make([]string, 0, len(s.terms))
	for _, term := range s.terms {
		out = append(out, term.Word)
	}
	return out
}

// OfTypes returns the words whose type is one of types.
func (s *EntitySet) OfTypes(types ...string) []string {
	var out []string
	for _, term := range s.terms {
		for _, t := range types {
			if term.Type == t {
				out = append(out, term.Word)
				break
			}
		}
	}
	return out
}
