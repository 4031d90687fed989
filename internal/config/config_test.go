package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, logLevelEnv, huggingFaceKeyEnv, huggingFaceTokenEnv, geminiKeyEnv,
		perplexityKeyEnv, maxAISimplifyEnv, databaseDSNEnv, httpAddrEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 20, cfg.Pipeline.MaxAISimplifyClauses)
	assert.Equal(t, 1, cfg.Pipeline.Concurrency)
	assert.Equal(t, 0.97, cfg.Simplification.ShortThreshold)
	assert.Equal(t, 0.92, cfg.Simplification.LongThreshold)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "legalai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
huggingface:
  summarizerModel: custom/summarizer
  timeout: 5s
pipeline:
  concurrency: 12
  chunkSize: 800
simplification:
  shortThreshold: 1.5
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(huggingFaceKeyEnv, "hf-key")
	t.Setenv(maxAISimplifyEnv, "3")
	t.Setenv(databaseDSNEnv, "postgres://localhost/legal")

	cfg := Load()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "custom/summarizer", cfg.HuggingFace.SummarizerModel)
	assert.Equal(t, "facebook/bart-large-mnli", cfg.HuggingFace.ClassifierModel)
	assert.Equal(t, 5*time.Second, cfg.HuggingFace.Timeout)
	assert.Equal(t, "hf-key", cfg.HuggingFace.APIToken)
	assert.Equal(t, 3, cfg.Pipeline.MaxAISimplifyClauses)
	assert.Equal(t, 800, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 5, cfg.Pipeline.Concurrency)
	assert.Equal(t, 0.97, cfg.Simplification.ShortThreshold)
	assert.Equal(t, "postgres://localhost/legal", cfg.Database.DSN)
}

func TestLoadIgnoresBadInput(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [not, a, map"), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(maxAISimplifyEnv, "many")

	cfg := Load()
	assert.Equal(t, Default().Pipeline, cfg.Pipeline)

	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(maxAISimplifyEnv, "-4")
	assert.Equal(t, 0, Load().Pipeline.MaxAISimplifyClauses)
}

func TestLoadResetsOutOfRangeSimplificationKnobs(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "legalai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
simplification:
  shortTokenLimit: 0
  lengthFloorRatio: 1.4
  minWords: -3
  plainlyThreshold: 0
`), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	def := Default().Simplification
	assert.Equal(t, def.ShortTokenLimit, cfg.Simplification.ShortTokenLimit)
	assert.Equal(t, def.LengthFloorRatio, cfg.Simplification.LengthFloorRatio)
	assert.Equal(t, def.MinWords, cfg.Simplification.MinWords)
	assert.Equal(t, 0.9, cfg.Simplification.PlainlyThreshold)
}

func TestHuggingFaceKeyWinsOverLegacyToken(t *testing.T) {
	clearEnv(t)
	t.Setenv(huggingFaceTokenEnv, "legacy")
	t.Setenv(huggingFaceKeyEnv, "current")

	assert.Equal(t, "current", Load().HuggingFace.APIToken)
}
