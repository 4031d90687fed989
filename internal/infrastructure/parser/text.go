package parser

import (
	"context"
	"strings"

	"LegalAnalyzer/internal/domain"
)

// TextStrategy passes plain text and markdown through unchanged.
type TextStrategy struct{}

func NewTextStrategy() *TextStrategy {
	return &TextStrategy{}
}

func (*TextStrategy) Name() string { return "text" }

func (*TextStrategy) Formats() []string { return []string{"txt", "text", "md"} }

func (*TextStrategy) Extract(_ context.Context, doc domain.Document) (domain.ExtractedText, error) {
	text := strings.TrimPrefix(string(doc.Data), "\ufeff")
	return domain.ExtractedText{Text: strings.ReplaceAll(text, "\r\n", "\n")}, nil
}
