package ports

import (
	"context"

	"LegalAnalyzer/internal/domain"
)

// TextExtractor pulls plain text out of an uploaded document (PDF, DOCX, ...).
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.Document) (domain.ExtractedText, error)
}

// ModelGateway invokes hosted inference models and normalizes their responses.
type ModelGateway interface {
	Summarize(ctx context.Context, model, text string, params map[string]any) (domain.ModelResponse, error)
	Generate(ctx context.Context, model, prompt string, params map[string]any) (domain.ModelResponse, error)
	ZeroShot(ctx context.Context, model, text string, labels []string) (domain.ModelResponse, error)
	Entities(ctx context.Context, model, text string) (domain.ModelResponse, error)
}

// Paraphraser rewrites a clause in simple language with a generative model.
type Paraphraser interface {
	Paraphrase(ctx context.Context, text string) (string, error)
}

// ClauseLister asks a generative model to list the clauses found in a chunk of text.
type ClauseLister interface {
	ListClauses(ctx context.Context, chunk string) ([]string, error)
}

// AnalysisRepository archives finished analyses.
type AnalysisRepository interface {
	Save(ctx context.Context, result domain.AnalysisResult) error
	Get(ctx context.Context, id string) (domain.AnalysisResult, error)
}

// ProgressReporter receives pipeline progress. Implementations must be safe for concurrent use.
type ProgressReporter interface {
	Report(ctx context.Context, event domain.ProgressEvent)
}

// Analyzer runs the full document analysis.
type Analyzer interface {
	Analyze(ctx context.Context, doc domain.Document, reporter ProgressReporter) (domain.AnalysisResult, error)
}
