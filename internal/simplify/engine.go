// Package simplify rewrites legal clauses in plain language through an ordered list of
// strategies and a final difference guarantee.
package simplify

import (
	"context"
	"log/slog"
	"strings"

	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/infrastructure/metrics"
	"LegalAnalyzer/internal/ports"
	"LegalAnalyzer/internal/textproc"
)

const (
	TierSummarizer          = "summarizer"
	TierSecondarySummarizer = "secondary-summarizer"
	TierParaphraser         = "paraphraser"
	TierRules               = "rules"
	TierRephrase            = "rephrase"
	TierPlainLanguage       = "plain-language"
	// TierGuarantor means no strategy was accepted and only the guarantor changed the text.
	TierGuarantor = "guarantor"
	// TierNone is reported for empty input, which is returned untouched.
	TierNone = "none"
)

// Attempt is what a strategy sees: the clause, the last rule-based candidate and the clause type.
type Attempt struct {
	Original   string
	Previous   string
	ClauseType string
}

// Strategy is one tier of the fallback chain. Run returns "" to decline.
type Strategy struct {
	Name string
	// AI strategies are skipped when the caller disables model calls.
	AI bool
	// Unconditional results bypass the acceptance gate.
	Unconditional bool
	Run           func(ctx context.Context, in Attempt) (string, error)
}

// Outcome is the final simplification of one clause.
type Outcome struct {
	Text                string
	Tier                string
	ComplexityReduction int
}

// Options wires the model backed tiers. Missing backends drop their tiers.
type Options struct {
	Gateway         ports.ModelGateway
	SummarizerModel string
	SecondaryModel  string
	Paraphraser     ports.Paraphraser
	Config          config.SimplificationConfig
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
}

// Engine runs the strategy list with a uniform acceptance gate.
type Engine struct {
	strategies []Strategy
	guarantor  Guarantor
	cfg        config.SimplificationConfig
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewEngine(opts Options) *Engine {
	cfg := opts.Config
	if cfg == (config.SimplificationConfig{}) {
		cfg = config.Default().Simplification
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		guarantor: NewGuarantor(cfg),
		cfg:       cfg,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "simplify"),
	}

	if opts.Gateway != nil && opts.SummarizerModel != "" {
		e.strategies = append(e.strategies, summarizer(TierSummarizer, opts.Gateway, opts.SummarizerModel))
	}
	if opts.Gateway != nil && opts.SecondaryModel != "" {
		e.strategies = append(e.strategies, summarizer(TierSecondarySummarizer, opts.Gateway, opts.SecondaryModel))
	}
	if opts.Paraphraser != nil {
		p := opts.Paraphraser
		e.strategies = append(e.strategies, Strategy{
			Name: TierParaphraser,
			AI:   true,
			Run: func(ctx context.Context, in Attempt) (string, error) {
				return p.Paraphrase(ctx, in.Original)
			},
		})
	}

	e.strategies = append(e.strategies,
		Strategy{
			Name: TierRules,
			Run: func(_ context.Context, in Attempt) (string, error) {
				return ApplyRules(in.Original), nil
			},
		},
		Strategy{
			Name: TierRephrase,
			Run: func(_ context.Context, in Attempt) (string, error) {
				return Rephrase(in.Previous), nil
			},
		},
		Strategy{
			Name:          TierPlainLanguage,
			Unconditional: true,
			Run: func(_ context.Context, in Attempt) (string, error) {
				text, _ := PlainLanguage(in.Original, in.ClauseType)
				return text, nil
			},
		},
	)
	return e
}

// Tiers lists the strategy names in the order they are tried.
func (e *Engine) Tiers() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name
	}
	return names
}

// Simplify never fails: when every strategy declines, the guarantor still returns text that
// differs from the clause.
func (e *Engine) Simplify(ctx context.Context, text string, useAI bool, clauseType string) Outcome {
	original := strings.TrimSpace(text)
	if original == "" {
		return Outcome{Text: text, Tier: TierNone}
	}

	in := Attempt{Original: original, Previous: original, ClauseType: clauseType}
	candidate, tier := original, TierGuarantor

	for _, s := range e.strategies {
		if s.AI && !useAI {
			continue
		}

		out, err := s.Run(ctx, in)
		if err != nil {
			e.logger.Debug("strategy failed", "tier", s.Name, "error", err)
			continue
		}
		out = strings.TrimSpace(out)
		if out == "" {
			continue
		}
		if !s.AI {
			in.Previous = out
			candidate = out
		}

		if s.Unconditional || e.Acceptable(original, out) {
			candidate, tier = out, s.Name
			break
		}
		e.logger.Debug("candidate rejected", "tier", s.Name)
	}

	final := e.guarantor.Finalize(original, candidate, clauseType)
	e.metrics.ObserveSimplification(tier)
	return Outcome{
		Text:                final,
		Tier:                tier,
		ComplexityReduction: ComplexityReduction(original, final),
	}
}

// Acceptable reports whether candidate is a real simplification of original: non-empty,
// different after normalization and below the token similarity threshold.
func (e *Engine) Acceptable(original, candidate string) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	if textproc.Normalize(candidate) == textproc.Normalize(original) {
		return false
	}
	threshold := e.cfg.LongThreshold
	if len(textproc.Tokens(original)) < e.cfg.ShortTokenLimit {
		threshold = e.cfg.ShortThreshold
	}
	return textproc.Jaccard(original, candidate) < threshold
}

func summarizer(name string, gateway ports.ModelGateway, model string) Strategy {
	return Strategy{
		Name: name,
		AI:   true,
		Run: func(ctx context.Context, in Attempt) (string, error) {
			resp, err := gateway.Summarize(ctx, model, in.Original, summaryParams(in.Original))
			if err != nil {
				return "", err
			}
			return resp.Text, nil
		},
	}
}

// summaryParams keeps the summary roughly as long as the clause so short clauses are not padded.
func summaryParams(text string) map[string]any {
	words := textproc.WordCount(text)
	maxLen := min(max(words+words/2, 30), 200)
	minLen := min(max(words/3, 5), maxLen-1)
	return map[string]any{
		"max_length": maxLen,
		"min_length": minLen,
		"do_sample":  false,
	}
}
