package huggingface

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sethvargo/go-retry"

	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/infrastructure/metrics"
	"LegalAnalyzer/internal/ports"
)

const (
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffMax  = 5 * time.Second
	defaultCallTimeout = 30 * time.Second
)

// Payload is the JSON body understood by the hosted inference API.
type Payload struct {
	Inputs     any            `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

// InvokeOptions control a single Invoke call.
type InvokeOptions struct {
	// Retries is the number of extra attempts after a retryable failure.
	Retries int
	// WaitForColdStart asks the backend to block until the model is loaded.
	WaitForColdStart bool
}

// Client is the model gateway for Hugging Face style inference endpoints.
type Client struct {
	http        *resty.Client
	defaults    InvokeOptions
	callTimeout time.Duration
	backoffBase time.Duration
	backoffMax  time.Duration
	cache       *lru.Cache[string, []byte]
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

var _ ports.ModelGateway = (*Client)(nil)

// NewClient builds a gateway from configuration. A zero CacheSize disables response caching.
func NewClient(cfg config.HuggingFaceConfig, m *metrics.Metrics, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("huggingface: api token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
			SetAuthToken(cfg.APIToken).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		defaults:    InvokeOptions{Retries: cfg.Retries, WaitForColdStart: cfg.WaitForColdStart},
		callTimeout: orDefault(cfg.Timeout, defaultCallTimeout),
		backoffBase: orDefault(cfg.BackoffBase, defaultBackoffBase),
		backoffMax:  orDefault(cfg.BackoffMax, defaultBackoffMax),
		metrics:     m,
		logger:      logger,
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, []byte](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("huggingface: response cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Invoke posts payload to the named model and returns the raw JSON body.
// Failures are always *ModelError. Retryable failures are retried with capped exponential
// backoff; terminal ones (not found, bad input, auth) return after the first attempt.
func (c *Client) Invoke(ctx context.Context, model string, payload Payload, opts InvokeOptions) ([]byte, error) {
	if opts.WaitForColdStart {
		options := make(map[string]any, len(payload.Options)+1)
		for k, v := range payload.Options {
			options[k] = v
		}
		options["wait_for_model"] = true
		payload.Options = options
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ModelError{Model: model, Kind: KindBadInput, Message: "marshal payload", Err: err}
	}

	key := cacheKey(model, body)
	if c.cache != nil {
		if raw, ok := c.cache.Get(key); ok {
			return raw, nil
		}
	}

	backoff := retry.WithMaxRetries(uint64(max(opts.Retries, 0)),
		retry.WithCappedDuration(c.backoffMax, retry.NewExponential(c.backoffBase)))

	var raw []byte
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		out, callErr := c.post(ctx, model, body)
		if callErr == nil {
			raw = out
			return nil
		}
		if ctx.Err() == nil && callErr.Retryable() {
			c.logger.Debug("model call failed, retrying", "model", model, "attempt", attempt, "error", callErr)
			return retry.RetryableError(callErr)
		}
		return callErr
	})
	if err != nil {
		var me *ModelError
		if errors.As(err, &me) {
			return nil, me
		}
		return nil, transportError(model, err)
	}

	if c.cache != nil {
		c.cache.Add(key, raw)
	}
	return raw, nil
}

func (c *Client) post(ctx context.Context, model string, body []byte) ([]byte, *ModelError) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.R().
		SetContext(callCtx).
		SetBody(body).
		Post("/models/" + model)
	if err != nil {
		c.metrics.ObserveModelCall(model, "transport_error", time.Since(start))
		return nil, transportError(model, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		me := statusError(model, resp.StatusCode(), resp.Body())
		c.metrics.ObserveModelCall(model, string(me.Kind), time.Since(start))
		return nil, me
	}

	raw := resp.Body()
	if !json.Valid(raw) {
		c.metrics.ObserveModelCall(model, string(KindDecode), time.Since(start))
		return nil, &ModelError{Model: model, Status: resp.StatusCode(), Kind: KindDecode, Message: "response is not valid JSON"}
	}

	c.metrics.ObserveModelCall(model, "ok", time.Since(start))
	return raw, nil
}

// Summarize runs a summarization model. params typically bound max_length/min_length.
func (c *Client) Summarize(ctx context.Context, model, text string, params map[string]any) (domain.ModelResponse, error) {
	raw, err := c.Invoke(ctx, model, Payload{Inputs: text, Parameters: params}, c.defaults)
	if err != nil {
		return domain.ModelResponse{}, err
	}
	return decodeAs(model, raw, decodeText)
}

// Generate runs a text2text or text-generation model on prompt.
func (c *Client) Generate(ctx context.Context, model, prompt string, params map[string]any) (domain.ModelResponse, error) {
	raw, err := c.Invoke(ctx, model, Payload{Inputs: prompt, Parameters: params}, c.defaults)
	if err != nil {
		return domain.ModelResponse{}, err
	}
	return decodeAs(model, raw, decodeText)
}

// ZeroShot classifies text against candidate labels.
func (c *Client) ZeroShot(ctx context.Context, model, text string, labels []string) (domain.ModelResponse, error) {
	payload := Payload{
		Inputs: text,
		Parameters: map[string]any{
			"candidate_labels": labels,
			"multi_label":      false,
		},
	}
	raw, err := c.Invoke(ctx, model, payload, c.defaults)
	if err != nil {
		return domain.ModelResponse{}, err
	}
	return decodeAs(model, raw, decodeLabels)
}

// Entities runs a token-classification (NER) model with grouped entities.
func (c *Client) Entities(ctx context.Context, model, text string) (domain.ModelResponse, error) {
	payload := Payload{
		Inputs:     text,
		Parameters: map[string]any{"aggregation_strategy": "simple"},
	}
	raw, err := c.Invoke(ctx, model, payload, c.defaults)
	if err != nil {
		return domain.ModelResponse{}, err
	}
	return decodeAs(model, raw, decodeEntities)
}

func decodeAs(model string, raw []byte, decode func([]byte) (domain.ModelResponse, error)) (domain.ModelResponse, error) {
	resp, err := decode(raw)
	if err != nil {
		return domain.ModelResponse{}, &ModelError{Model: model, Kind: KindDecode, Message: err.Error(), Err: err}
	}
	return resp, nil
}

func cacheKey(model string, body []byte) string {
	sum := sha256.Sum256(body)
	return model + ":" + hex.EncodeToString(sum[:])
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
