package huggingface

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/infrastructure/metrics"
	"LegalAnalyzer/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*config.HuggingFaceConfig)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.HuggingFaceConfig{
		BaseURL:     srv.URL,
		APIToken:    "hf_test",
		Retries:     2,
		Timeout:     2 * time.Second,
		BackoffBase: time.Millisecond,
		BackoffMax:  5 * time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	c, err := NewClient(cfg, metrics.New(), logging.Discard())
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.HuggingFaceConfig{BaseURL: "http://localhost"}, nil, nil)
	assert.Error(t, err)
}

func TestSummarizeSendsAuthAndOptions(t *testing.T) {
	t.Parallel()

	var got Payload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/facebook/bart-large-cnn", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`[{"summary_text":"The tenant pays rent."}]`))
	}, func(cfg *config.HuggingFaceConfig) { cfg.WaitForColdStart = true })

	resp, err := c.Summarize(context.Background(), "facebook/bart-large-cnn", "The Lessee shall pay rent.", map[string]any{"max_length": 60})
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseText, resp.Kind)
	assert.Equal(t, "The tenant pays rent.", resp.Text)

	assert.Equal(t, "The Lessee shall pay rent.", got.Inputs)
	assert.Equal(t, true, got.Options["wait_for_model"])
	assert.EqualValues(t, 60, got.Parameters["max_length"])
}

func TestNotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Model missing/model does not exist"}`))
	}, nil)

	_, err := c.Generate(context.Background(), "missing/model", "x", nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualValues(t, 1, hits.Load())
}

func TestBadInputIsNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"index out of range in self"}`))
	}, nil)

	_, err := c.Summarize(context.Background(), "facebook/bart-large-cnn", "x", nil)
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, KindBadInput, me.Kind)
	assert.False(t, me.Retryable())
	assert.EqualValues(t, 1, hits.Load())
}

func TestUnavailableIsRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20}`))
			return
		}
		_, _ = w.Write([]byte(`[{"generated_text":"You must pay rent."}]`))
	}, nil)

	resp, err := c.Generate(context.Background(), "google/flan-t5-large", "simplify", nil)
	require.NoError(t, err)
	assert.Equal(t, "You must pay rent.", resp.Text)
	assert.EqualValues(t, 3, hits.Load())
}

func TestRetriesAreBounded(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, func(cfg *config.HuggingFaceConfig) { cfg.Retries = 1 })

	_, err := c.Generate(context.Background(), "google/flan-t5-large", "x", nil)
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, KindRateLimited, me.Kind)
	assert.EqualValues(t, 2, hits.Load())
}

func TestInvalidJSONIsDecodeError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}, func(cfg *config.HuggingFaceConfig) { cfg.Retries = 0 })

	_, err := c.Summarize(context.Background(), "facebook/bart-large-cnn", "x", nil)
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, KindDecode, me.Kind)
}

func TestZeroShotShapes(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"object":  `{"sequence":"x","labels":["Payment","General"],"scores":[0.8,0.2]}`,
		"wrapped": `[{"sequence":"x","labels":["General","Payment"],"scores":[0.2,0.8]}]`,
		"pairs":   `[{"label":"General","score":0.2},{"label":"Payment","score":0.8}]`,
		"nested":  `[[{"label":"Payment","score":0.8},{"label":"General","score":0.2}]]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var p Payload
				require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
				assert.ElementsMatch(t, []any{"Payment", "General"}, p.Parameters["candidate_labels"])
				_, _ = w.Write([]byte(body))
			}, nil)

			resp, err := c.ZeroShot(context.Background(), "facebook/bart-large-mnli", "x", []string{"Payment", "General"})
			require.NoError(t, err)
			top, ok := resp.TopLabel()
			require.True(t, ok)
			assert.Equal(t, "Payment", top.Label)
			assert.InDelta(t, 0.8, top.Score, 1e-9)
		})
	}
}

func TestEntitiesGroupsAndFallsBack(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"entity_group":"ORG","word":"Acme Corp","score":0.99},
			{"entity":"B-PER","word":"John","score":0.95}
		]`))
	}, nil)

	resp, err := c.Entities(context.Background(), "dslim/bert-base-NER", "Acme Corp hires John.")
	require.NoError(t, err)
	require.Len(t, resp.Entities, 2)
	assert.Equal(t, "ORG", resp.Entities[0].Type)
	assert.Equal(t, "Acme Corp", resp.Entities[0].Word)
	assert.Equal(t, "B-PER", resp.Entities[1].Type)
}

func TestResponsesAreCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"summary_text":"short"}]`))
	}, func(cfg *config.HuggingFaceConfig) { cfg.CacheSize = 8 })

	for range 3 {
		resp, err := c.Summarize(context.Background(), "facebook/bart-large-cnn", "same text", nil)
		require.NoError(t, err)
		assert.Equal(t, "short", resp.Text)
	}
	assert.EqualValues(t, 1, hits.Load())

	_, err := c.Summarize(context.Background(), "facebook/bart-large-cnn", "other text", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestCancelledContextStopsRetrying(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *config.HuggingFaceConfig) { cfg.Retries = 5 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "google/flan-t5-large", "x", nil)
	require.Error(t, err)
	assert.LessOrEqual(t, hits.Load(), int32(1))
}

func TestParaphraserStripsEchoedPrompt(t *testing.T) {
	t.Parallel()

	var got Payload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/google/flan-t5-large", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`[{"generated_text":"Paraphrase this legal clause in simple English: The tenant pays rent monthly."}]`))
	}, nil)

	out, err := NewParaphraser(c, "google/flan-t5-large").Paraphrase(context.Background(), "The Lessee shall remit rent monthly.")
	require.NoError(t, err)
	assert.Equal(t, "The tenant pays rent monthly.", out)
	assert.Equal(t, paraphrasePrefix+"The Lessee shall remit rent monthly.", got.Inputs)
	assert.Equal(t, false, got.Parameters["do_sample"])
}

func TestPerCallTimeoutIsRetried(t *testing.T) {
	t.Parallel()

	stall := func(r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
	}
	shortTimeout := func(cfg *config.HuggingFaceConfig) { cfg.Timeout = 20 * time.Millisecond }

	t.Run("recovers on next attempt", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				stall(r)
				return
			}
			_, _ = w.Write([]byte(`[{"generated_text":"ok"}]`))
		}, shortTimeout)

		resp, err := c.Generate(context.Background(), "google/flan-t5-large", "x", nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text)
		assert.EqualValues(t, 2, hits.Load())
	})

	t.Run("every attempt stalls", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			stall(r)
		}, shortTimeout)

		_, err := c.Generate(context.Background(), "google/flan-t5-large", "x", nil)
		var me *ModelError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, KindTimeout, me.Kind)
		assert.EqualValues(t, 3, hits.Load())
	})
}
