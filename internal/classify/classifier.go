// Package classify labels clauses and documents with a zero-shot model and collects named
// entities. Model failures never escape: callers get the fallback label or no entities.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/ports"
	"LegalAnalyzer/internal/textproc"
)

// ClauseLabels is the candidate set for clause classification.
var ClauseLabels = []string{
	"Confidentiality",
	"Liability",
	"Termination",
	"Payment",
	"Intellectual Property",
	"Dispute Resolution",
	"Governing Law",
	"Indemnification",
	"Warranties",
	"Obligations",
	"Definitions",
	domain.GeneralType,
}

// DocumentLabels is the candidate set for whole-document classification.
var DocumentLabels = []string{
	"Employment Contract",
	"Non-Disclosure Agreement",
	"Lease Agreement",
	"Service Agreement",
	"Sales Contract",
	"Partnership Agreement",
	"Loan Agreement",
	"Terms of Service",
	"Other",
}

// UnknownDocument is reported when the document cannot be classified.
const UnknownDocument = "Other"

var errNoLabels = errors.New("model returned no labels")

// Classifier runs zero-shot classification through the model gateway.
type Classifier struct {
	gateway   ports.ModelGateway
	model     string
	chunkSize int
	logger    *slog.Logger
}

func NewClassifier(gateway ports.ModelGateway, model string, chunkSize int, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		gateway:   gateway,
		model:     model,
		chunkSize: chunkSize,
		logger:    logger.With("component", "classifier"),
	}
}

// Classify always returns a member of ClauseLabels; any failure yields General.
func (c *Classifier) Classify(ctx context.Context, clause string) string {
	if c == nil || c.gateway == nil || c.model == "" {
		return domain.GeneralType
	}

	label, _, err := c.zeroShot(ctx, clause, ClauseLabels)
	if err != nil {
		c.logger.Debug("clause classification failed", "error", err)
		return domain.GeneralType
	}
	if !slices.Contains(ClauseLabels, label) {
		return domain.GeneralType
	}
	return label
}

// ClassifyDocument labels the document from its first chunk.
func (c *Classifier) ClassifyDocument(ctx context.Context, text string) (string, float64, error) {
	if c == nil || c.gateway == nil || c.model == "" {
		return UnknownDocument, 0, errors.New("document classifier not configured")
	}

	chunks := textproc.Chunk(text, c.chunkSize)
	if len(chunks) == 0 {
		return UnknownDocument, 0, errors.New("document has no text")
	}

	label, score, err := c.zeroShot(ctx, chunks[0], DocumentLabels)
	if err != nil {
		return UnknownDocument, 0, fmt.Errorf("classify document: %w", err)
	}
	if !slices.Contains(DocumentLabels, label) {
		return UnknownDocument, score, nil
	}
	return label, score, nil
}

func (c *Classifier) zeroShot(ctx context.Context, text string, labels []string) (string, float64, error) {
	resp, err := c.gateway.ZeroShot(ctx, c.model, text, labels)
	if err != nil {
		return "", 0, err
	}
	top, ok := resp.TopLabel()
	if !ok {
		return "", 0, errNoLabels
	}
	return top.Label, top.Score, nil
}
