// Package httpapi exposes the analysis pipeline over HTTP. Uploads can be answered with a
// single JSON document or streamed as Server-Sent Events while the pipeline runs.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/infrastructure/metrics"
	"LegalAnalyzer/internal/infrastructure/storage"
	"LegalAnalyzer/internal/ports"
	"LegalAnalyzer/internal/progress"
	"LegalAnalyzer/internal/usecase"
)

const (
	uploadField      = "file"
	defaultListLimit = 20
	maxListLimit     = 100
	shutdownTimeout  = 10 * time.Second
)

// Lister is implemented by archives that can enumerate recent analyses.
type Lister interface {
	List(ctx context.Context, limit uint64) ([]storage.AnalysisSummary, error)
}

// Options wire the HTTP server. Archive and Metrics are optional.
type Options struct {
	Analyzer      ports.Analyzer
	Archive       ports.AnalysisRepository
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	MaxUploadSize int64
}

type Server struct {
	analyzer  ports.Analyzer
	archive   ports.AnalysisRepository
	metrics   *metrics.Metrics
	logger    *slog.Logger
	maxUpload int64
	engine    *gin.Engine
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		analyzer:  opts.Analyzer,
		archive:   opts.Archive,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "http"),
		maxUpload: opts.MaxUploadSize,
		engine:    gin.New(),
	}
	s.routes()
	return s
}

// Handler returns the root handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.requestLogger())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.engine.Group("/api")
	api.POST("/analyze", s.analyze)
	api.GET("/analyses", s.listAnalyses)
	api.GET("/analyses/:id", s.getAnalysis)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP())
	}
}

func (s *Server) analyze(c *gin.Context) {
	if s.analyzer == nil {
		respondError(c, http.StatusServiceUnavailable, "analyzer not configured")
		return
	}
	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	}

	doc, status, err := readUpload(c)
	if err != nil {
		respondError(c, status, err.Error())
		return
	}

	if wantsStream(c) {
		s.streamAnalysis(c, doc)
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), doc, nil)
	if err != nil {
		s.logger.Warn("analysis failed", "document", doc.Name, "error", err)
		respondError(c, analysisStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) streamAnalysis(c *gin.Context, doc domain.Document) {
	ctx := c.Request.Context()
	events := make(chan domain.ProgressEvent, 16)

	type outcome struct {
		result domain.AnalysisResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.analyzer.Analyze(ctx, doc, progress.Channel(events))
		done <- outcome{result: result, err: err}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(io.Writer) bool {
		select {
		case event := <-events:
			c.SSEvent("progress", event)
			return true
		case out := <-done:
			// Every event was queued before Analyze returned.
			for drained := false; !drained; {
				select {
				case event := <-events:
					c.SSEvent("progress", event)
				default:
					drained = true
				}
			}
			if out.err != nil {
				s.logger.Warn("analysis failed", "document", doc.Name, "error", out.err)
				c.SSEvent("error", gin.H{"error": out.err.Error(), "status": analysisStatus(out.err)})
				return false
			}
			c.SSEvent("result", out.result)
			return false
		case <-ctx.Done():
			return false
		}
	})
}

func (s *Server) getAnalysis(c *gin.Context) {
	if s.archive == nil {
		respondError(c, http.StatusNotFound, "analysis archive disabled")
		return
	}

	result, err := s.archive.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("load analysis failed", "id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, "cannot load analysis")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listAnalyses(c *gin.Context) {
	lister, ok := s.archive.(Lister)
	if !ok {
		respondError(c, http.StatusNotFound, "analysis archive disabled")
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	list, err := lister.List(c.Request.Context(), uint64(limit))
	if err != nil {
		s.logger.Error("list analyses failed", "error", err)
		respondError(c, http.StatusInternalServerError, "cannot list analyses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": list})
}

func readUpload(c *gin.Context) (domain.Document, int, error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return domain.Document{}, http.StatusRequestEntityTooLarge, errors.New("upload too large")
		}
		return domain.Document{}, http.StatusBadRequest, errors.New(`multipart field "file" is required`)
	}

	f, err := header.Open()
	if err != nil {
		return domain.Document{}, http.StatusBadRequest, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Document{}, http.StatusBadRequest, err
	}
	return domain.Document{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, http.StatusOK, nil
}

func wantsStream(c *gin.Context) bool {
	if v := c.Query("stream"); v != "" {
		on, _ := strconv.ParseBool(v)
		return on
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

func analysisStatus(err error) int {
	if errors.Is(err, usecase.ErrExtraction) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
