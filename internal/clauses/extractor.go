// Package clauses turns raw document text into the ordered clause list the pipeline works on.
package clauses

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/ports"
	"LegalAnalyzer/internal/textproc"
)

// ChunkFunc is called after each chunk has been sent to the clause lister.
type ChunkFunc func(index, total, found int)

// Options configure an Extractor. A nil Lister selects direct segmentation only.
type Options struct {
	Lister       ports.ClauseLister
	ChunkSize    int
	MaxClauses   int
	MinAIClauses int
	Logger       *slog.Logger
}

// Result is the clause list plus what went wrong while building it.
type Result struct {
	Clauses  []domain.Clause
	UsedAI   bool
	Warnings []string
}

type Extractor struct {
	lister       ports.ClauseLister
	chunkSize    int
	maxClauses   int
	minAIClauses int
	logger       *slog.Logger
}

func NewExtractor(opts Options) *Extractor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		lister:       opts.Lister,
		chunkSize:    opts.ChunkSize,
		maxClauses:   opts.MaxClauses,
		minAIClauses: opts.MinAIClauses,
		logger:       logger.With("component", "clauses"),
	}
}

// Extract segments text into typed clauses. The model listing is merged with direct
// segmentation when it fails or finds fewer than MinAIClauses clauses.
func (x *Extractor) Extract(ctx context.Context, text string, onChunk ChunkFunc) Result {
	var res Result

	var list []string
	if x.lister == nil {
		list = textproc.SegmentDirect(text)
	} else {
		ai, failed := x.listWithModel(ctx, text, onChunk, &res)
		res.UsedAI = len(ai) > 0
		if failed > 0 || len(ai) < x.minAIClauses {
			x.logger.Debug("merging direct segmentation", "ai_clauses", len(ai), "failed_chunks", failed)
			list = textproc.MergeClauses(ai, textproc.SegmentDirect(text))
		} else {
			list = ai
		}
	}

	if x.maxClauses > 0 && len(list) > x.maxClauses {
		res.Warnings = append(res.Warnings, fmt.Sprintf("clause list truncated from %d to %d", len(list), x.maxClauses))
		list = list[:x.maxClauses]
	}

	res.Clauses = make([]domain.Clause, len(list))
	for i, clause := range list {
		res.Clauses[i] = domain.Clause{Index: i, Text: clause, Type: textproc.ClauseType(clause)}
	}
	return res
}

func (x *Extractor) listWithModel(ctx context.Context, text string, onChunk ChunkFunc, res *Result) ([]string, int) {
	chunks := textproc.Chunk(text, x.chunkSize)

	var (
		found  []string
		failed int
	)
	for i, chunk := range chunks {
		items, err := x.lister.ListClauses(ctx, chunk)
		if err != nil {
			failed++
			x.logger.Warn("clause listing failed", "chunk", i+1, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("clause listing failed for chunk %d: %v", i+1, err))
			items = nil
		}

		kept := 0
		for _, item := range items {
			clause := textproc.CleanClause(item)
			if utf8.RuneCountInString(clause) < textproc.MinClauseChars {
				continue
			}
			found = append(found, clause)
			kept++
		}
		if onChunk != nil {
			onChunk(i+1, len(chunks), kept)
		}
	}
	return textproc.MergeClauses(found, nil), failed
}
