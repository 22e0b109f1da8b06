// One-shot CLI: process a single document and print the response
// envelope to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/KeyCoreSH/extractbrowser/internal/classify"
	"github.com/KeyCoreSH/extractbrowser/internal/common"
	"github.com/KeyCoreSH/extractbrowser/internal/contract"
	"github.com/KeyCoreSH/extractbrowser/internal/extract"
	"github.com/KeyCoreSH/extractbrowser/internal/llm/openai"
	"github.com/KeyCoreSH/extractbrowser/internal/ocr"
	"github.com/KeyCoreSH/extractbrowser/internal/pdf"
	"github.com/KeyCoreSH/extractbrowser/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: extract <file> [document_type]")
		os.Exit(2)
	}
	path := os.Args[1]
	hint := ""
	if len(os.Args) >= 3 {
		hint = os.Args[2]
	}

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
		os.Exit(1)
	}

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

	proc := pipeline.NewProcessor(
		extractor,
		engine,
		extract.NewAnalyzer(cfg.Pipeline.MinTrustedChars),
		classify.NewClassifier(cfg.Pipeline.MinKeywordScore, logger),
		contract.NewRegistry(),
		pipeline.NewStructureStage(model, cfg.Pipeline.StructureAttempts, logger),
		pipeline.NewScorer(cfg.Pipeline.FallbackPenalty, cfg.Pipeline.ModelConfFloor, cfg.Pipeline.ModelConfPenalty),
		logger,
	)

	result := proc.Process(context.Background(), pipeline.Document{
		Bytes:     raw,
		Filename:  filepath.Base(path),
		MediaType: mime.TypeByExtension(filepath.Ext(path)),
		TypeHint:  hint,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Envelope()); err != nil {
		fmt.Fprintf(os.Stderr, "encoding envelope: %v\n", err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}
