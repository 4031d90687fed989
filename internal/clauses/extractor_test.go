package clauses

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LegalAnalyzer/internal/logging"
)

const lease = "The Tenant shall pay rent on the first day of each month. The Landlord shall maintain the roof in good repair.\n\n" +
	"Either party may terminate this lease with thirty days notice."

type listerFunc func(ctx context.Context, chunk string) ([]string, error)

func (f listerFunc) ListClauses(ctx context.Context, chunk string) ([]string, error) {
	return f(ctx, chunk)
}

func texts(res Result) []string {
	out := make([]string, len(res.Clauses))
	for i, c := range res.Clauses {
		out[i] = c.Text
	}
	return out
}

func TestExtractDirectIsLongestFirst(t *testing.T) {
	t.Parallel()

	x := NewExtractor(Options{MaxClauses: 60, Logger: logging.Discard()})
	res := x.Extract(context.Background(), lease, nil)

	require.Len(t, res.Clauses, 3)
	assert.Equal(t, []string{
		"Either party may terminate this lease with thirty days notice.",
		"The Tenant shall pay rent on the first day of each month.",
		"The Landlord shall maintain the roof in good repair.",
	}, texts(res))
	assert.Equal(t, "Termination", res.Clauses[0].Type)
	assert.Equal(t, "Payment", res.Clauses[1].Type)
	assert.Equal(t, "Obligations", res.Clauses[2].Type)
	for i, c := range res.Clauses {
		assert.Equal(t, i, c.Index)
	}
	assert.False(t, res.UsedAI)
	assert.Empty(t, res.Warnings)
}

func TestExtractUsesModelListing(t *testing.T) {
	t.Parallel()

	var chunks []int
	lister := listerFunc(func(_ context.Context, chunk string) ([]string, error) {
		return []string{
			"1. The Tenant shall pay rent on the first day of each month",
			"2. The Landlord shall maintain the roof in good repair",
			"3. Either party may terminate this lease with thirty days notice",
			"4. Short one",
		}, nil
	})
	x := NewExtractor(Options{Lister: lister, ChunkSize: 1500, MaxClauses: 60, MinAIClauses: 3, Logger: logging.Discard()})

	res := x.Extract(context.Background(), lease, func(index, total, found int) {
		chunks = append(chunks, index, total, found)
	})

	assert.True(t, res.UsedAI)
	assert.Equal(t, []string{
		"The Tenant shall pay rent on the first day of each month.",
		"The Landlord shall maintain the roof in good repair.",
		"Either party may terminate this lease with thirty days notice.",
	}, texts(res))
	assert.Equal(t, []int{1, 1, 3}, chunks)
}

func TestExtractMergesWhenModelUnderProduces(t *testing.T) {
	t.Parallel()

	lister := listerFunc(func(context.Context, string) ([]string, error) {
		return []string{"The Landlord shall maintain the roof in good repair."}, nil
	})
	x := NewExtractor(Options{Lister: lister, MaxClauses: 60, MinAIClauses: 3, Logger: logging.Discard()})

	res := x.Extract(context.Background(), lease, nil)
	assert.Equal(t, []string{
		"The Landlord shall maintain the roof in good repair.",
		"Either party may terminate this lease with thirty days notice.",
		"The Tenant shall pay rent on the first day of each month.",
	}, texts(res))
}

func TestExtractFallsBackWhenModelFails(t *testing.T) {
	t.Parallel()

	lister := listerFunc(func(context.Context, string) ([]string, error) {
		return nil, errors.New("quota exceeded")
	})
	x := NewExtractor(Options{Lister: lister, MaxClauses: 60, MinAIClauses: 3, Logger: logging.Discard()})

	res := x.Extract(context.Background(), lease, nil)
	assert.Len(t, res.Clauses, 3)
	assert.False(t, res.UsedAI)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "quota exceeded")
}

func TestExtractCapsClauseCount(t *testing.T) {
	t.Parallel()

	x := NewExtractor(Options{MaxClauses: 2, Logger: logging.Discard()})
	res := x.Extract(context.Background(), lease, nil)

	assert.Len(t, res.Clauses, 2)
	assert.Equal(t, []string{"clause list truncated from 3 to 2"}, res.Warnings)
}
