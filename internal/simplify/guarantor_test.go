package simplify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/domain"
)

func TestFinalize(t *testing.T) {
	t.Parallel()

	g := NewGuarantor(config.Default().Simplification)

	tests := []struct {
		name       string
		original   string
		candidate  string
		clauseType string
		want       string
	}{
		{
			name:       "identical short text gets prefix",
			original:   "Pay rent.",
			candidate:  "Pay rent.",
			clauseType: domain.GeneralType,
			want:       "In simple terms: Pay rent.",
		},
		{
			name:       "commas become sentences and similar text is marked plainly",
			original:   "The tenant pays rent, the landlord fixes the roof.",
			candidate:  "The tenant pays rent, the landlord fixes the roof.",
			clauseType: domain.GeneralType,
			want:       "To put it plainly, the tenant pays rent. The landlord fixes the roof.",
		},
		{
			name:       "parentheticals are dropped",
			original:   "Notice (in writing) is required.",
			candidate:  "notice (in writing) is required.",
			clauseType: domain.GeneralType,
			want:       "notice is required. Key points: writing.",
		},
		{
			name:       "short candidate gets key points and category",
			original:   "The Supplier shall deliver the Goods to the Purchaser within thirty days of the Purchaser's written order.",
			candidate:  "Deliver within 30 days.",
			clauseType: "Obligations",
			want:       "Deliver within 30 days. Key points: purchaser, supplier. This clause is about obligations.",
		},
		{
			name:       "empty candidate falls back to original",
			original:   "Fees are due monthly in advance.",
			candidate:  "   ",
			clauseType: domain.GeneralType,
			want:       "In simple terms: Fees are due monthly in advance.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, g.Finalize(tt.original, tt.candidate, tt.clauseType))
		})
	}
}

func TestFinalizeOnlyAppends(t *testing.T) {
	t.Parallel()

	g := NewGuarantor(config.Default().Simplification)
	candidate := "The supplier must deliver quickly."
	out := g.Finalize("The Supplier shall forthwith deliver the Goods.", candidate, "Obligations")

	assert.True(t, strings.HasPrefix(out, candidate))
}

func TestRules(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"The Tenant will pay the fee before the start date. The Landlord will not object.",
		ApplyRules("The Lessee shall remit the fee prior to the commencement date; the Lessor shall not object."))
	assert.Equal(t,
		"Including all costs related to the lease.",
		Rephrase("including, without limitation, any and all costs in connection with the lease (as defined below)."))
	assert.Equal(t, "Hereunder stays.", ApplyRules("Hereunder stays."))
}

func TestPlainLanguageDeclinesWithoutContent(t *testing.T) {
	t.Parallel()

	_, ok := PlainLanguage("Pay rent.", domain.GeneralType)
	assert.False(t, ok)

	text, ok := PlainLanguage("Pay rent.", "Payment")
	assert.True(t, ok)
	assert.Equal(t, "This clause sets out who has to pay and when.", text)
}
