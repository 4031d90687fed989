package huggingface

import (
	"context"
	"strings"

	"LegalAnalyzer/internal/ports"
)

const paraphrasePrefix = "Paraphrase this legal clause in simple English: "

// Paraphraser drives a text2text model (flan-t5 style) through the gateway.
type Paraphraser struct {
	client *Client
	model  string
}

var _ ports.Paraphraser = (*Paraphraser)(nil)

func NewParaphraser(client *Client, model string) *Paraphraser {
	return &Paraphraser{client: client, model: model}
}

func (p *Paraphraser) Paraphrase(ctx context.Context, text string) (string, error) {
	resp, err := p.client.Generate(ctx, p.model, paraphrasePrefix+text, map[string]any{
		"max_new_tokens": 256,
		"do_sample":      false,
	})
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(resp.Text)
	return strings.TrimSpace(strings.TrimPrefix(out, strings.TrimSpace(paraphrasePrefix))), nil
}
