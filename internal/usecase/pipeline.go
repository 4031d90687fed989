package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"LegalAnalyzer/internal/classify"
	"LegalAnalyzer/internal/clauses"
	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/infrastructure/metrics"
	"LegalAnalyzer/internal/ports"
	"LegalAnalyzer/internal/progress"
	"LegalAnalyzer/internal/simplify"
	"LegalAnalyzer/internal/textproc"
)

// ErrExtraction marks the only fatal failure: the document text could not be obtained.
var ErrExtraction = errors.New("text extraction failed")

const maxMainParties = 5

// PipelineDeps wires all collaborators into the analysis pipeline.
// Only Extractor is required; a missing stage degrades to its fallback values.
type PipelineDeps struct {
	Extractor  ports.TextExtractor
	Clauses    *clauses.Extractor
	Simplifier *simplify.Engine
	Classifier *classify.Classifier
	Entities   *classify.EntityExtractor
	Repository ports.AnalysisRepository
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Config     config.PipelineConfig
}

// Pipeline implements the document analysis workflow.
type Pipeline struct {
	extractor  ports.TextExtractor
	clauses    *clauses.Extractor
	simplifier *simplify.Engine
	classifier *classify.Classifier
	entities   *classify.EntityExtractor
	repository ports.AnalysisRepository
	metrics    *metrics.Metrics
	logger     *slog.Logger
	cfg        config.PipelineConfig
	now        func() time.Time
}

var _ ports.Analyzer = (*Pipeline)(nil)

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := deps.Config
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.KeyClauses <= 0 {
		cfg.KeyClauses = config.Default().Pipeline.KeyClauses
	}

	segmenter := deps.Clauses
	if segmenter == nil {
		segmenter = clauses.NewExtractor(clauses.Options{MaxClauses: cfg.MaxClauses, Logger: logger})
	}
	simplifier := deps.Simplifier
	if simplifier == nil {
		simplifier = simplify.NewEngine(simplify.Options{Metrics: deps.Metrics, Logger: logger})
	}

	return &Pipeline{
		extractor:  deps.Extractor,
		clauses:    segmenter,
		simplifier: simplifier,
		classifier: deps.Classifier,
		entities:   deps.Entities,
		repository: deps.Repository,
		metrics:    deps.Metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// run carries the per-analysis state. Nothing in it is shared between analyses.
type run struct {
	reporter ports.ProgressReporter
	warnings []string
}

func (r *run) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// Analyze runs extraction, segmentation, simplification, classification, document
// classification and entity extraction in that order. Only a failed text extraction is
// returned as an error; everything else degrades into Warnings.
func (p *Pipeline) Analyze(ctx context.Context, doc domain.Document, reporter ports.ProgressReporter) (domain.AnalysisResult, error) {
	r := &run{reporter: progress.Synchronized(reporter)}
	started := p.now()
	log := p.logger.With("document", doc.Name)

	p.stage(ctx, r, domain.StageExtraction, domain.StatusLoading, "Extracting text")
	extracted, err := p.extract(ctx, doc)
	if err != nil {
		log.Error("text extraction failed", "error", err)
		p.metrics.ObserveAnalysis("failed")
		return domain.AnalysisResult{}, err
	}
	p.stage(ctx, r, domain.StageExtraction, domain.StatusCompleted, "Text extracted")

	p.stage(ctx, r, domain.StageSegmentation, domain.StatusLoading, "Identifying clauses")
	segmented := p.clauses.Extract(ctx, extracted.Text, func(index, total, found int) {
		r.reporter.Report(ctx, domain.ProgressEvent{
			Step:    domain.StageSegmentation,
			Index:   index,
			Total:   total,
			Message: fmt.Sprintf("Processed chunk %d of %d", index, total),
			Result:  found,
		})
	})
	r.warnings = append(r.warnings, segmented.Warnings...)
	clauseList := segmented.Clauses
	if len(clauseList) == 0 {
		r.warn("no clauses found in document")
	}
	p.stage(ctx, r, domain.StageSegmentation, domain.StatusCompleted, fmt.Sprintf("Found %d clauses", len(clauseList)))

	simplified := p.simplify(ctx, r, clauseList)
	labels := p.classify(ctx, r, simplified)

	docLabel, confidence := p.classifyDocument(ctx, r, extracted.Text)
	terms := p.extractEntities(ctx, r, simplified)

	result := p.assemble(doc, extracted, clauseList, simplified, labels, docLabel, confidence, terms)
	result.CreatedAt = started.UTC()
	result.Warnings = r.warnings

	if p.repository != nil {
		if err := p.repository.Save(ctx, result); err != nil {
			log.Warn("archive analysis failed", "id", result.ID, "error", err)
			r.warn("analysis could not be archived: %v", err)
			result.Warnings = r.warnings
		}
	}

	outcome := "ok"
	if len(result.Warnings) > 0 {
		outcome = "degraded"
	}
	p.metrics.ObserveAnalysis(outcome)
	log.Info("analysis finished",
		"id", result.ID,
		"clauses", len(clauseList),
		"warnings", len(result.Warnings),
		"elapsed", time.Since(started))
	return result, nil
}

func (p *Pipeline) extract(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	if p.extractor == nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: no text extractor configured", ErrExtraction)
	}
	out, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return out, nil
}

func (p *Pipeline) simplify(ctx context.Context, r *run, list []domain.Clause) []domain.SimplificationResult {
	p.stage(ctx, r, domain.StageSimplification, domain.StatusLoading, "Simplifying clauses")

	out := make([]domain.SimplificationResult, len(list))
	p.forEach(len(list), func(i int) {
		clause := list[i]
		// The AI budget is tied to the clause position, not to completion order.
		useAI := i < p.cfg.MaxAISimplifyClauses
		outcome := p.simplifier.Simplify(ctx, clause.Text, useAI, clause.Type)
		out[i] = domain.SimplificationResult{
			Original:            clause.Text,
			Simplified:          outcome.Text,
			ComplexityReduction: outcome.ComplexityReduction,
			Tier:                outcome.Tier,
		}
		r.reporter.Report(ctx, domain.ProgressEvent{
			Step:    domain.StageSimplification,
			Index:   i + 1,
			Total:   len(list),
			Message: fmt.Sprintf("Simplified clause %d of %d", i+1, len(list)),
			Result:  out[i],
		})
	})

	p.stage(ctx, r, domain.StageSimplification, domain.StatusCompleted, "Clauses simplified")
	return out
}

func (p *Pipeline) classify(ctx context.Context, r *run, simplified []domain.SimplificationResult) []string {
	p.stage(ctx, r, domain.StageClassification, domain.StatusLoading, "Classifying clauses")
	if p.classifier == nil && len(simplified) > 0 {
		r.warn("clause classifier unavailable; all clauses labelled %s", domain.GeneralType)
	}

	labels := make([]string, len(simplified))
	p.forEach(len(simplified), func(i int) {
		labels[i] = p.classifier.Classify(ctx, simplified[i].Simplified)
		r.reporter.Report(ctx, domain.ProgressEvent{
			Step:    domain.StageClassification,
			Index:   i + 1,
			Total:   len(simplified),
			Message: fmt.Sprintf("Classified clause %d of %d", i+1, len(simplified)),
			Result:  domain.ClauseClassification{Clause: simplified[i].Original, Label: labels[i]},
		})
	})

	p.stage(ctx, r, domain.StageClassification, domain.StatusCompleted, "Clauses classified")
	return labels
}

func (p *Pipeline) classifyDocument(ctx context.Context, r *run, text string) (string, float64) {
	p.stage(ctx, r, domain.StageDocumentClassification, domain.StatusLoading, "Classifying document")
	label, confidence, err := p.classifier.ClassifyDocument(ctx, text)
	if err != nil {
		p.logger.Warn("document classification failed", "error", err)
		r.warn("document classification unavailable: %v", err)
	}
	p.stage(ctx, r, domain.StageDocumentClassification, domain.StatusCompleted, "Document classified as "+label)
	return label, confidence
}

func (p *Pipeline) extractEntities(ctx context.Context, r *run, simplified []domain.SimplificationResult) *domain.EntitySet {
	p.stage(ctx, r, domain.StageEntities, domain.StatusLoading, "Extracting legal terms")
	set := domain.NewEntitySet()

	if p.entities == nil {
		if len(simplified) > 0 {
			r.warn("entity extraction unavailable")
		}
		p.stage(ctx, r, domain.StageEntities, domain.StatusCompleted, "Legal terms skipped")
		return set
	}

	found := make([][]domain.EntityTerm, len(simplified))
	failed := make([]bool, len(simplified))
	p.forEach(len(simplified), func(i int) {
		terms, err := p.entities.Extract(ctx, simplified[i].Simplified)
		if err != nil {
			p.logger.Debug("entity extraction failed", "clause", i, "error", err)
			failed[i] = true
		}
		found[i] = terms
		r.reporter.Report(ctx, domain.ProgressEvent{
			Step:    domain.StageEntities,
			Index:   i + 1,
			Total:   len(simplified),
			Message: fmt.Sprintf("Scanned clause %d of %d", i+1, len(simplified)),
			Result:  terms,
		})
	})

	failures := 0
	for i := range found {
		if failed[i] {
			failures++
			continue
		}
		set.Add(found[i]...)
	}
	if failures > 0 {
		r.warn("entity extraction failed for %d of %d clauses", failures, len(simplified))
	}

	p.stage(ctx, r, domain.StageEntities, domain.StatusCompleted, fmt.Sprintf("Found %d legal terms", set.Len()))
	return set
}

// forEach runs fn for every index with at most cfg.Concurrency calls in flight.
// Workers write only to their own index.
func (p *Pipeline) forEach(n int, fn func(i int)) {
	if p.cfg.Concurrency <= 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i := range n {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) assemble(
	doc domain.Document,
	extracted domain.ExtractedText,
	list []domain.Clause,
	simplified []domain.SimplificationResult,
	labels []string,
	docLabel string,
	confidence float64,
	terms *domain.EntitySet,
) domain.AnalysisResult {
	raw := make([]string, len(list))
	plain := make([]string, len(list))
	classifications := make([]domain.ClauseClassification, len(list))
	for i, clause := range list {
		raw[i] = clause.Text
		plain[i] = simplified[i].Simplified
		classifications[i] = domain.ClauseClassification{Clause: clause.Text, Label: labels[i]}
	}

	parties := terms.OfTypes("ORG", "PER")
	if len(parties) > maxMainParties {
		parties = parties[:maxMainParties]
	}

	return domain.AnalysisResult{
		ID:           uuid.NewString(),
		DocumentName: doc.Name,
		DocumentInfo: domain.DocumentInfo{
			Pages:     extracted.Pages,
			WordCount: textproc.WordCount(extracted.Text),
			CharCount: utf8.RuneCountInString(extracted.Text),
			SizeBytes: len(doc.Data),
		},
		Classification: domain.DocumentClassification{
			PrimaryClassification: docLabel,
			ConfidenceScore:       confidence,
		},
		Clauses: domain.ClauseSummary{
			TotalFound:      len(list),
			Classifications: classifications,
		},
		Summary: domain.Summary{
			DocumentType: docLabel,
			KeyClauses:   keyClauses(list, simplified, labels, p.cfg.KeyClauses),
			MainParties:  nonNil(parties),
		},
		LegalTerms:        nonNil(terms.Words()),
		RawClauses:        raw,
		SimplifiedClauses: plain,
		Simplifications:   simplified,
	}
}

// keyClauses prefers clauses with a specific label, then longer clauses.
func keyClauses(list []domain.Clause, simplified []domain.SimplificationResult, labels []string, n int) []domain.KeyClause {
	order := make([]int, len(list))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ga, gb := labels[order[a]] == domain.GeneralType, labels[order[b]] == domain.GeneralType
		if ga != gb {
			return !ga
		}
		return utf8.RuneCountInString(list[order[a]].Text) > utf8.RuneCountInString(list[order[b]].Text)
	})
	if len(order) > n {
		order = order[:n]
	}

	out := make([]domain.KeyClause, 0, len(order))
	for _, i := range order {
		out = append(out, domain.KeyClause{
			ID:         i + 1,
			Type:       labels[i],
			Original:   list[i].Text,
			Simplified: simplified[i].Simplified,
		})
	}
	return out
}

func (p *Pipeline) stage(ctx context.Context, r *run, step domain.Stage, status domain.StageStatus, message string) {
	r.reporter.Report(ctx, domain.ProgressEvent{Step: step, Status: status, Message: message})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
