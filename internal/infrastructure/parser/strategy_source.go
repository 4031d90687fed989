package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/extractor"
	"LegalAnalyzer/internal/ports"
	"LegalAnalyzer/internal/textproc"
)

const wordsPerPage = 500

// StrategySource implements TextExtractor via registered format strategies.
type StrategySource struct {
	registry *extractor.Registry
	logger   *slog.Logger
}

var _ ports.TextExtractor = (*StrategySource)(nil)

// NewStrategySource wires the registry into a TextExtractor.
func NewStrategySource(reg *extractor.Registry, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		logger:   log,
	}
}

// NewDefaultRegistry registers the PDF, DOCX and plain text strategies.
func NewDefaultRegistry() *extractor.Registry {
	reg := extractor.NewRegistry()
	reg.Register(NewPDFStrategy())
	reg.Register(NewDOCXStrategy())
	reg.Register(NewTextStrategy())
	return reg
}

// Extract resolves the strategy for the document format and normalizes its output.
func (s *StrategySource) Extract(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	if s.registry == nil {
		return domain.ExtractedText{}, fmt.Errorf("extractor registry is not configured")
	}

	format := doc.Format()
	s.debug("extract document", "name", doc.Name, "format", format, "bytes", len(doc.Data))

	strategy, err := s.registry.Resolve(format)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("document %s: %w", doc.Name, err)
	}

	out, err := strategy.Extract(ctx, doc)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("extract %s with %s: %w", doc.Name, strategy.Name(), err)
	}

	out.Text = strings.TrimSpace(strings.ToValidUTF8(out.Text, ""))
	if out.Text == "" {
		return domain.ExtractedText{}, fmt.Errorf("document %s: %w", doc.Name, extractor.ErrEmptyDocument)
	}
	if out.Pages <= 0 {
		out.Pages = max(1, (textproc.WordCount(out.Text)+wordsPerPage-1)/wordsPerPage)
	}

	s.debug("document extracted", "name", doc.Name, "pages", out.Pages, "chars", len(out.Text))
	return out, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
