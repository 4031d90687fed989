package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"LegalAnalyzer/internal/classify"
	"LegalAnalyzer/internal/clauses"
	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/infrastructure/httpapi"
	"LegalAnalyzer/internal/infrastructure/huggingface"
	"LegalAnalyzer/internal/infrastructure/llm"
	"LegalAnalyzer/internal/infrastructure/metrics"
	"LegalAnalyzer/internal/infrastructure/parser"
	"LegalAnalyzer/internal/infrastructure/storage"
	"LegalAnalyzer/internal/logging"
	"LegalAnalyzer/internal/ports"
	"LegalAnalyzer/internal/simplify"
	"LegalAnalyzer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	pipeline   *usecase.Pipeline
	repository ports.AnalysisRepository
	pool       *pgxpool.Pool
}

// backends are the optional generative model clients.
type backends struct {
	gemini *llm.GeminiClient
	chat   *llm.ChatClient
	hf     *huggingface.Client
}

// New builds the application. Missing credentials disable the model backed stages instead of
// failing; only an unreachable database configured by DSN is fatal.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	m := metrics.New()

	var b backends
	if cfg.HuggingFace.APIToken != "" {
		client, err := huggingface.NewClient(cfg.HuggingFace, m, baseLogger)
		if err != nil {
			return nil, fmt.Errorf("huggingface client: %w", err)
		}
		b.hf = client
	} else {
		baseLogger.Warn("no Hugging Face token configured; summarization, classification and entity extraction disabled")
	}
	if cfg.Gemini.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			baseLogger.Warn("gemini client disabled", "error", err)
		} else {
			b.gemini = client
		}
	}
	if cfg.Chat.APIKey != "" {
		client, err := llm.NewChatClient(cfg.Chat)
		if err != nil {
			baseLogger.Warn("chat client disabled", "error", err)
		} else {
			b.chat = client
		}
	}

	// A nil *huggingface.Client must not leak into the interface as a non-nil gateway.
	var gateway ports.ModelGateway
	if b.hf != nil {
		gateway = b.hf
	}

	engine := simplify.NewEngine(simplify.Options{
		Gateway:         gateway,
		SummarizerModel: cfg.HuggingFace.SummarizerModel,
		SecondaryModel:  cfg.HuggingFace.SecondarySummarizerModel,
		Paraphraser:     b.paraphraser(cfg, baseLogger),
		Config:          cfg.Simplification,
		Metrics:         m,
		Logger:          baseLogger,
	})
	baseLogger.Info("simplification tiers", "tiers", strings.Join(engine.Tiers(), ","))

	segmenter := clauses.NewExtractor(clauses.Options{
		Lister:       b.lister(),
		ChunkSize:    cfg.Pipeline.ChunkSize,
		MaxClauses:   cfg.Pipeline.MaxClauses,
		MinAIClauses: cfg.Pipeline.MinAIClauses,
		Logger:       baseLogger,
	})

	var (
		classifier *classify.Classifier
		entities   *classify.EntityExtractor
	)
	if gateway != nil {
		classifier = classify.NewClassifier(gateway, cfg.HuggingFace.ClassifierModel, cfg.Pipeline.ChunkSize, baseLogger)
		entities = classify.NewEntityExtractor(gateway, cfg.HuggingFace.NERModel)
	}

	a := &Application{cfg: cfg, logger: baseLogger, metrics: m}
	if cfg.Database.DSN != "" {
		if err := a.openArchive(ctx); err != nil {
			return nil, err
		}
	}

	source := parser.NewStrategySource(parser.NewDefaultRegistry(), baseLogger.With("component", "source"))
	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Extractor:  source,
		Clauses:    segmenter,
		Simplifier: engine,
		Classifier: classifier,
		Entities:   entities,
		Repository: a.repository,
		Metrics:    m,
		Logger:     baseLogger.With("component", "pipeline"),
		Config:     cfg.Pipeline,
	})
	return a, nil
}

func (a *Application) openArchive(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, a.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	repo := storage.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return err
	}
	a.pool = pool
	a.repository = repo
	return nil
}

// paraphraser picks the generative backend named by pipeline.paraphraser.
// "auto" prefers Gemini, then the chat endpoint, then the Hugging Face text2text model.
func (b backends) paraphraser(cfg config.Config, logger *slog.Logger) ports.Paraphraser {
	hf := func() ports.Paraphraser {
		if b.hf == nil || cfg.HuggingFace.ParaphraseModel == "" {
			return nil
		}
		return huggingface.NewParaphraser(b.hf, cfg.HuggingFace.ParaphraseModel)
	}

	switch strings.ToLower(cfg.Pipeline.Paraphraser) {
	case "none", "off":
		return nil
	case "gemini":
		if b.gemini != nil {
			return b.gemini
		}
	case "chat", "perplexity":
		if b.chat != nil {
			return b.chat
		}
	case "huggingface", "hf":
		if p := hf(); p != nil {
			return p
		}
	default:
		switch {
		case b.gemini != nil:
			return b.gemini
		case b.chat != nil:
			return b.chat
		}
		return hf()
	}
	logger.Warn("requested paraphraser is not configured", "paraphraser", cfg.Pipeline.Paraphraser)
	return nil
}

func (b backends) lister() ports.ClauseLister {
	switch {
	case b.gemini != nil:
		return b.gemini
	case b.chat != nil:
		return b.chat
	}
	return nil
}

// Analyzer exposes the pipeline.
func (a *Application) Analyzer() ports.Analyzer {
	return a.pipeline
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	srv := httpapi.NewServer(httpapi.Options{
		Analyzer:      a.pipeline,
		Archive:       a.repository,
		Metrics:       a.metrics,
		Logger:        a.logger,
		MaxUploadSize: a.cfg.Server.MaxUploadSize,
	})
	return srv.Run(ctx, a.cfg.Server.Addr)
}

// Close releases the database pool.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
