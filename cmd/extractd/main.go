package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KeyCoreSH/extractbrowser/internal/classify"
	"github.com/KeyCoreSH/extractbrowser/internal/common"
	"github.com/KeyCoreSH/extractbrowser/internal/contract"
	"github.com/KeyCoreSH/extractbrowser/internal/export"
	"github.com/KeyCoreSH/extractbrowser/internal/extract"
	"github.com/KeyCoreSH/extractbrowser/internal/llm/openai"
	"github.com/KeyCoreSH/extractbrowser/internal/ocr"
	"github.com/KeyCoreSH/extractbrowser/internal/pdf"
	"github.com/KeyCoreSH/extractbrowser/internal/pipeline"
	"github.com/KeyCoreSH/extractbrowser/internal/repository"
	"github.com/KeyCoreSH/extractbrowser/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("opening extraction log", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	proc := buildProcessor(cfg, logger)
	srv := server.New(proc, store, export.NewService(store, logger), cfg.Server.MaxUploadBytes, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}

func buildProcessor(cfg *common.Config, logger *slog.Logger) *pipeline.Processor {
	extractor := pdf.NewExtractor(pdf.Config{
		Pdftotext: cfg.PDF.Pdftotext,
		Pdftoppm:  cfg.PDF.Pdftoppm,
		DPI:       cfg.PDF.DPI,
		MaxPages:  cfg.PDF.MaxPages,
	}, logger)

	engine := ocr.NewClient(ocr.Config{
		BaseURL:  cfg.OCR.BaseURL,
		APIKey:   cfg.OCR.APIKey,
		Language: cfg.OCR.Language,
		Timeout:  cfg.OCR.Timeout,
	}, logger)

	model := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	return pipeline.NewProcessor(
		extractor,
		engine,
		extract.NewAnalyzer(cfg.Pipeline.MinTrustedChars),
		classify.NewClassifier(cfg.Pipeline.MinKeywordScore, logger),
		contract.NewRegistry(),
		pipeline.NewStructureStage(model, cfg.Pipeline.StructureAttempts, logger),
		pipeline.NewScorer(cfg.Pipeline.FallbackPenalty, cfg.Pipeline.ModelConfFloor, cfg.Pipeline.ModelConfPenalty),
		logger,
	)
}
