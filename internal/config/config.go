package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "LEGALAI_CONFIG"
	logLevelEnv         = "LOG_LEVEL"
	huggingFaceKeyEnv   = "HUGGINGFACE_API_KEY"
	huggingFaceTokenEnv = "HF_API_TOKEN"
	geminiKeyEnv        = "GEMINI_API_KEY"
	perplexityKeyEnv    = "PERPLEXITY_API_KEY"
	maxAISimplifyEnv    = "MAX_AI_SIMPLIFY_CLAUSES"
	databaseDSNEnv      = "DATABASE_DSN"
	httpAddrEnv         = "HTTP_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging        LoggingConfig        `yaml:"logging"`
	HuggingFace    HuggingFaceConfig    `yaml:"huggingface"`
	Gemini         GeminiConfig         `yaml:"gemini"`
	Chat           ChatConfig           `yaml:"chat"`
	Pipeline       PipelineConfig       `yaml:"pipeline"`
	Simplification SimplificationConfig `yaml:"simplification"`
	Database       DatabaseConfig       `yaml:"database"`
	Server         ServerConfig         `yaml:"server"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HuggingFaceConfig describes the hosted inference endpoints used by the model gateway.
type HuggingFaceConfig struct {
	BaseURL                  string        `yaml:"baseUrl"`
	APIToken                 string        `yaml:"apiToken"`
	SummarizerModel          string        `yaml:"summarizerModel"`
	SecondarySummarizerModel string        `yaml:"secondarySummarizerModel"`
	ParaphraseModel          string        `yaml:"paraphraseModel"`
	ClassifierModel          string        `yaml:"classifierModel"`
	NERModel                 string        `yaml:"nerModel"`
	Retries                  int           `yaml:"retries"`
	WaitForColdStart         bool          `yaml:"waitForColdStart"`
	Timeout                  time.Duration `yaml:"timeout"`
	BackoffBase              time.Duration `yaml:"backoffBase"`
	BackoffMax               time.Duration `yaml:"backoffMax"`
	CacheSize                int           `yaml:"cacheSize"`
}

// GeminiConfig wires the Google generative model used for paraphrasing and clause listing.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// ChatConfig defines an OpenAI-compatible chat endpoint (Perplexity by default).
type ChatConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	Timeout      time.Duration `yaml:"timeout"`
}

// PipelineConfig bounds the work done per analysed document.
type PipelineConfig struct {
	MaxAISimplifyClauses int    `yaml:"maxAISimplifyClauses"`
	ChunkSize            int    `yaml:"chunkSize"`
	MaxClauses           int    `yaml:"maxClauses"`
	MinAIClauses         int    `yaml:"minAIClauses"`
	Concurrency          int    `yaml:"concurrency"`
	KeyClauses           int    `yaml:"keyClauses"`
	Paraphraser          string `yaml:"paraphraser"`
}

// SimplificationConfig keeps the acceptance-gate heuristics tunable.
type SimplificationConfig struct {
	ShortThreshold   float64 `yaml:"shortThreshold"`
	LongThreshold    float64 `yaml:"longThreshold"`
	ShortTokenLimit  int     `yaml:"shortTokenLimit"`
	LengthFloorRatio float64 `yaml:"lengthFloorRatio"`
	MinWords         int     `yaml:"minWords"`
	PlainlyThreshold float64 `yaml:"plainlyThreshold"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN disables the archive.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"maxUploadSize"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// Fields missing from the file keep their defaults.
func Load() Config {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := Default()
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.sanitize()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(huggingFaceTokenEnv); v != "" {
		c.HuggingFace.APIToken = v
	}
	if v := os.Getenv(huggingFaceKeyEnv); v != "" {
		c.HuggingFace.APIToken = v
	}

	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(perplexityKeyEnv); v != "" {
		c.Chat.APIKey = v
	}

	if v := os.Getenv(maxAISimplifyEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.MaxAISimplifyClauses = n
		} else {
			log.Printf("config: %s=%q is not an integer, keeping %d", maxAISimplifyEnv, v, c.Pipeline.MaxAISimplifyClauses)
		}
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) sanitize() {
	def := Default()

	if c.Pipeline.MaxAISimplifyClauses < 0 {
		c.Pipeline.MaxAISimplifyClauses = 0
	}
	if c.Pipeline.ChunkSize <= 0 {
		c.Pipeline.ChunkSize = def.Pipeline.ChunkSize
	}
	if c.Pipeline.MaxClauses <= 0 {
		c.Pipeline.MaxClauses = def.Pipeline.MaxClauses
	}
	if c.Pipeline.Concurrency <= 0 {
		c.Pipeline.Concurrency = 1
	}
	if c.Pipeline.Concurrency > 5 {
		log.Printf("config: concurrency %d capped at 5", c.Pipeline.Concurrency)
		c.Pipeline.Concurrency = 5
	}
	if c.Pipeline.KeyClauses <= 0 {
		c.Pipeline.KeyClauses = def.Pipeline.KeyClauses
	}
	if c.HuggingFace.Retries < 0 {
		c.HuggingFace.Retries = 0
	}
	if c.HuggingFace.Timeout <= 0 {
		c.HuggingFace.Timeout = def.HuggingFace.Timeout
	}
	if c.Simplification.ShortThreshold <= 0 || c.Simplification.ShortThreshold > 1 {
		c.Simplification.ShortThreshold = def.Simplification.ShortThreshold
	}
	if c.Simplification.LongThreshold <= 0 || c.Simplification.LongThreshold > 1 {
		c.Simplification.LongThreshold = def.Simplification.LongThreshold
	}
	if c.Simplification.ShortTokenLimit <= 0 {
		c.Simplification.ShortTokenLimit = def.Simplification.ShortTokenLimit
	}
	if c.Simplification.LengthFloorRatio <= 0 || c.Simplification.LengthFloorRatio > 1 {
		c.Simplification.LengthFloorRatio = def.Simplification.LengthFloorRatio
	}
	if c.Simplification.MinWords <= 0 {
		c.Simplification.MinWords = def.Simplification.MinWords
	}
	if c.Simplification.PlainlyThreshold <= 0 || c.Simplification.PlainlyThreshold > 1 {
		c.Simplification.PlainlyThreshold = def.Simplification.PlainlyThreshold
	}
}

// Default returns the built-in configuration used before the file and environment are applied.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HuggingFace: HuggingFaceConfig{
			BaseURL:                  "https://api-inference.huggingface.co",
			SummarizerModel:          "facebook/bart-large-cnn",
			SecondarySummarizerModel: "sshleifer/distilbart-cnn-12-6",
			ParaphraseModel:          "google/flan-t5-large",
			ClassifierModel:          "facebook/bart-large-mnli",
			NERModel:                 "dslim/bert-base-NER",
			Retries:                  2,
			WaitForColdStart:         true,
			Timeout:                  30 * time.Second,
			BackoffBase:              500 * time.Millisecond,
			BackoffMax:               5 * time.Second,
			CacheSize:                512,
		},
		Gemini: GeminiConfig{Model: "gemini-2.0-flash"},
		Chat: ChatConfig{
			Endpoint:     "https://api.perplexity.ai/chat/completions",
			Model:        "sonar",
			SystemPrompt: "You rewrite legal text in plain English without changing its meaning.",
			Timeout:      30 * time.Second,
		},
		Pipeline: PipelineConfig{
			MaxAISimplifyClauses: 20,
			ChunkSize:            1500,
			MaxClauses:           60,
			MinAIClauses:         3,
			Concurrency:          1,
			KeyClauses:           5,
			Paraphraser:          "auto",
		},
		Simplification: SimplificationConfig{
			ShortThreshold:   0.97,
			LongThreshold:    0.92,
			ShortTokenLimit:  20,
			LengthFloorRatio: 0.6,
			MinWords:         25,
			PlainlyThreshold: 0.9,
		},
		Server: ServerConfig{Addr: ":8080", MaxUploadSize: 20 << 20},
	}
}
