package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/ports"
)

// ChatClient implements the generative ports on top of an OpenAI-compatible chat completions API.
type ChatClient struct {
	endpoint     string
	model        string
	systemPrompt string
	http         *resty.Client
}

var (
	_ ports.Paraphraser  = (*ChatClient)(nil)
	_ ports.ClauseLister = (*ChatClient)(nil)
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewChatClient builds a client from configuration.
func NewChatClient(cfg config.ChatConfig) (*ChatClient, error) {
	if cfg.APIKey == "" || cfg.Endpoint == "" || cfg.Model == "" {
		return nil, errors.New("chat client misconfigured")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &ChatClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		http: resty.New().
			SetTimeout(timeout).
			SetAuthToken(cfg.APIKey).
			SetHeader("Content-Type", "application/json"),
	}, nil
}

// Paraphrase rewrites text in plain language.
func (c *ChatClient) Paraphrase(ctx context.Context, text string) (string, error) {
	out, err := c.complete(ctx, fmt.Sprintf(paraphrasePrompt, text), 0.2)
	if err != nil {
		return "", err
	}
	return cleanAnswer(out), nil
}

// ListClauses asks the model to split chunk into clauses.
func (c *ChatClient) ListClauses(ctx context.Context, chunk string) ([]string, error) {
	out, err := c.complete(ctx, fmt.Sprintf(listClausesPrompt, chunk), 0)
	if err != nil {
		return nil, err
	}
	return parseClauseList(out), nil
}

func (c *ChatClient) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c == nil {
		return "", errors.New("chat client is nil")
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: safePrompt(c.systemPrompt)},
				{Role: "user", Content: prompt},
			},
			Temperature: temperature,
		}).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("chat error %s: %s", resp.Status(), strings.TrimSpace(string(truncate(resp.Body(), 1024))))
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("chat completion returned no content")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a helpful assistant that explains legal text in plain English."
	}
	return prompt
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
