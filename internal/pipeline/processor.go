package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KeyCoreSH/extractbrowser/constants"
	"github.com/KeyCoreSH/extractbrowser/internal/classify"
	"github.com/KeyCoreSH/extractbrowser/internal/contract"
	"github.com/KeyCoreSH/extractbrowser/internal/extract"
	"github.com/KeyCoreSH/extractbrowser/internal/ocr"
	"github.com/KeyCoreSH/extractbrowser/internal/pdf"
)

// Document is one input to the pipeline.
type Document struct {
	Bytes    []byte
	Filename string
	// MediaType is the declared content type, e.g. "application/pdf".
	MediaType string
	// TypeHint optionally names the expected document type.
	TypeHint string
}

// PDFExtractor is the native-text and rendering surface the pipeline
// needs from the PDF layer.
type PDFExtractor interface {
	PageTexts(ctx context.Context, doc []byte) ([]string, error)
	RenderPage(ctx context.Context, doc []byte, page int) ([]byte, error)
}

// Extraction is the outcome of the text-gathering phase.
type Extraction struct {
	Text string
	// Source is "native" or "ocr".
	Source string
	// Degraded is set when OCR failed and untrusted native text was used
	// instead.
	Degraded bool
	Pages    int
	Verdict  extract.Verdict
}

// Processor runs the full document pipeline: extraction strategy,
// text gathering, classification, structuring and scoring.
type Processor struct {
	pdf        PDFExtractor
	ocr        ocr.Engine
	analyzer   *extract.Analyzer
	classifier *classify.Classifier
	registry   *contract.Registry
	structure  *StructureStage
	scorer     *Scorer
	log        *slog.Logger
}

func NewProcessor(
	extractor PDFExtractor,
	engine ocr.Engine,
	analyzer *extract.Analyzer,
	classifier *classify.Classifier,
	registry *contract.Registry,
	structure *StructureStage,
	scorer *Scorer,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		pdf:        extractor,
		ocr:        engine,
		analyzer:   analyzer,
		classifier: classifier,
		registry:   registry,
		structure:  structure,
		scorer:     scorer,
		log:        logger,
	}
}

// Process runs one document through the pipeline. It always returns a
// Result; failures are encoded in it rather than returned as errors.
func (p *Processor) Process(ctx context.Context, doc Document) Result {
	start := time.Now()
	reqID := uuid.New().String()
	log := p.log.With("req_id", reqID, "filename", doc.Filename)

	log.Info("pipeline.process.start",
		"media_type", doc.MediaType, "size_bytes", len(doc.Bytes), "hint", doc.TypeHint)

	format := p.resolveFormat(doc)
	if format == "" {
		log.Warn("pipeline.process.unsupported", "media_type", doc.MediaType)
		return failed(reqID, "Formato de arquivo não suportado", time.Since(start))
	}

	ext, err := p.extractText(ctx, log, doc, format)
	if err != nil {
		log.Error("pipeline.process.extraction_failed", "error", err)
		return failed(reqID, "Não foi possível extrair texto do documento", time.Since(start))
	}

	hint := doc.TypeHint
	if hint == "" {
		hint = hintFromFilename(doc.Filename)
	}
	docType := p.classifier.Classify(ext.Text, hint)

	c := p.registry.Lookup(docType)
	outcome := p.structure.Run(ctx, ext.Text, c)

	result := Result{
		Success:      true,
		Message:      "Documento processado com sucesso",
		DocumentType: docType,
		ReqID:        reqID,
		Source:       ext.Source,
		Degraded:     ext.Degraded,
	}
	if outcome.Success {
		meta := ExtractionMeta{Source: ext.Source, DegradedFallback: ext.Degraded}
		conf := p.scorer.Score(outcome.Record, c, meta, outcome.ModelConfidence)
		result.Structured = StageResult{Success: true, Data: outcome.Record, Confidence: conf}
	} else {
		result.Message = "Documento processado; estruturação não produziu dados válidos"
		result.Structured = StageResult{Success: false, Data: map[string]any{}, Confidence: 0}
	}
	result.Elapsed = time.Since(start)

	log.Info("pipeline.process.done",
		"doc_type", docType.WireLabel(),
		"source", ext.Source,
		"degraded", ext.Degraded,
		"structured", outcome.Success,
		"confidence", result.Structured.Confidence,
		"elapsed_ms", result.Elapsed.Milliseconds())
	return result
}

func (p *Processor) resolveFormat(doc Document) string {
	if f := constants.MapMediaTypeToFormat(doc.MediaType); f != "" {
		return f
	}
	if i := strings.LastIndex(doc.Filename, "."); i >= 0 {
		return constants.MapExtToFormat(doc.Filename[i:])
	}
	return ""
}

// extractText gathers the document text, routing between native
// extraction and OCR per the trust verdict.
func (p *Processor) extractText(ctx context.Context, log *slog.Logger, doc Document, format string) (Extraction, error) {
	if format == constants.IMAGE {
		page, err := p.ocr.Recognize(ctx, doc.Bytes)
		if err != nil {
			return Extraction{}, fmt.Errorf("ocr image: %w", err)
		}
		if strings.TrimSpace(page.Text) == "" {
			return Extraction{}, fmt.Errorf("ocr image: empty text")
		}
		return Extraction{Text: page.Text, Source: "ocr", Pages: 1}, nil
	}

	if err := pdf.Validate(doc.Bytes); err != nil {
		return Extraction{}, err
	}

	pages, err := p.pdf.PageTexts(ctx, doc.Bytes)
	if err != nil {
		// Native extraction can fail on scanned or damaged files; the
		// strategy rule then routes everything to OCR.
		log.Warn("pipeline.native.failed", "error", err)
		pages = nil
	}
	verdict := p.analyzer.Analyze(pages)
	native := joinPages(pages)

	log.Info("pipeline.strategy",
		"route", string(verdict.Route), "reason", string(verdict.Reason), "pages", len(pages))

	if verdict.Route == extract.UseNative {
		return Extraction{Text: native, Source: "native", Pages: len(pages), Verdict: verdict}, nil
	}

	ocrText, ocrErr := p.ocrPages(ctx, log, doc.Bytes, len(pages))
	if ocrErr == nil {
		return Extraction{Text: ocrText, Source: "ocr", Pages: len(pages), Verdict: verdict}, nil
	}

	// OCR failed. Untrusted native text is still better than nothing,
	// but the scorer must know it was a fallback.
	log.Warn("pipeline.ocr.fallback", "error", ocrErr)
	if strings.TrimSpace(native) == "" {
		return Extraction{}, fmt.Errorf("ocr failed and no native text: %w", ocrErr)
	}
	return Extraction{Text: native, Source: "native", Degraded: true, Pages: len(pages), Verdict: verdict}, nil
}

// ocrPages renders and recognizes every page. Any page failing fails
// the whole OCR pass.
func (p *Processor) ocrPages(ctx context.Context, log *slog.Logger, doc []byte, pageCount int) (string, error) {
	if pageCount < 1 {
		pageCount = 1
	}
	texts := make([]string, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		png, err := p.pdf.RenderPage(ctx, doc, n)
		if err != nil {
			return "", fmt.Errorf("render page %d: %w", n, err)
		}
		page, err := p.ocr.Recognize(ctx, png)
		if err != nil {
			return "", fmt.Errorf("ocr page %d: %w", n, err)
		}
		log.Info("pipeline.ocr.page", "page", n, "chars", len(page.Text), "ocr_confidence", page.Confidence)
		texts = append(texts, page.Text)
	}
	return joinPages(texts), nil
}

// joinPages concatenates page texts with page markers so downstream
// prompts keep page boundaries visible.
func joinPages(pages []string) string {
	if len(pages) == 0 {
		return ""
	}
	if len(pages) == 1 {
		return pages[0]
	}
	var b strings.Builder
	for i, text := range pages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "=== PÁGINA %d ===\n", i+1)
		b.WriteString(text)
	}
	return b.String()
}

// hintFromFilename derives a classification hint from common naming
// conventions when the caller supplied none.
func hintFromFilename(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "cnh"):
		return "cnh"
	case strings.Contains(n, "cnpj"):
		return "cnpj"
	case strings.Contains(n, "antt"):
		return "antt"
	case strings.Contains(n, "crlv") || strings.Contains(n, "crv"):
		return "crlv"
	case strings.Contains(n, "energia"):
		return "conta_energia"
	}
	return ""
}
