package extractor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"LegalAnalyzer/internal/domain"
)

// ErrEmptyDocument is returned when a document yields no text at all.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Strategy pulls text out of one family of document formats (PDF, DOCX, etc.).
type Strategy interface {
	Name() string
	Formats() []string
	Extract(ctx context.Context, doc domain.Document) (domain.ExtractedText, error)
}

// Registry keeps a mapping from format names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces the strategy for every format it handles.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	for _, format := range strategy.Formats() {
		r.strategies[format] = strategy
	}
}

// Resolve returns the strategy for a format or an error if it is absent.
func (r *Registry) Resolve(format string) (Strategy, error) {
	if strategy, ok := r.strategies[format]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("format %q is not supported", format)
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.strategies))
	for format := range r.strategies {
		out = append(out, format)
	}
	sort.Strings(out)
	return out
}
