package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/ports"
)

// contentGenerator is the slice of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient paraphrases clauses and lists clauses with a Gemini model.
type GeminiClient struct {
	models contentGenerator
	model  string
}

var (
	_ ports.Paraphraser  = (*GeminiClient)(nil)
	_ ports.ClauseLister = (*GeminiClient)(nil)
)

// NewGeminiClient builds a client for the Gemini API.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiClient{models: client.Models, model: model}, nil
}

// Paraphrase rewrites text in plain language.
func (c *GeminiClient) Paraphrase(ctx context.Context, text string) (string, error) {
	out, err := c.generate(ctx, fmt.Sprintf(paraphrasePrompt, text), 0.2)
	if err != nil {
		return "", err
	}
	return cleanAnswer(out), nil
}

// ListClauses asks the model to split chunk into clauses.
func (c *GeminiClient) ListClauses(ctx context.Context, chunk string) ([]string, error) {
	out, err := c.generate(ctx, fmt.Sprintf(listClausesPrompt, chunk), 0)
	if err != nil {
		return nil, err
	}
	return parseClauseList(out), nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini returned no response")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned empty text")
	}
	return text, nil
}
