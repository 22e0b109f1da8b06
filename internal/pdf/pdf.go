// Package pdf extracts the native text layer of a PDF and rasterizes pages
// for OCR. Both operations shell out to poppler tools through a Runner so
// tests can substitute deterministic stubs.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config for the PDF extractor.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	DPI       int    // rasterization DPI, default 400 so small print (plates, CPF digits) stays legible
	MaxPages  int    // 0 = no limit
}

// Extractor pulls native page text and renders page bitmaps.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 400
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewExtractorWithRunner is used by tests to stub the poppler binaries.
func NewExtractorWithRunner(cfg Config, r Runner, logger *slog.Logger) *Extractor {
	e := NewExtractor(cfg, logger)
	e.runner = r
	return e
}

// Validate performs the cheap sanity checks the upload boundary relies on.
func Validate(doc []byte) error {
	if len(doc) < 100 {
		return fmt.Errorf("file too small to be a PDF (%d bytes)", len(doc))
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		return fmt.Errorf("missing %%PDF header")
	}
	return nil
}

// PageTexts extracts the native text layer, one entry per page, without
// rendering anything. Pages beyond MaxPages are dropped.
func (e *Extractor) PageTexts(ctx context.Context, doc []byte) ([]string, error) {
	path, cleanup, err := writeTemp(doc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}

	// pdftotext separates pages with \f and appends a trailing one.
	pages := strings.Split(string(out), "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}

	e.logger.Debug("native text extracted", "pages", len(pages), "bytes", len(out))
	return pages, nil
}

// RenderPage rasterizes a single page (1-based) to PNG at the configured DPI.
func (e *Extractor) RenderPage(ctx context.Context, doc []byte, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number: %d", page)
	}
	path, cleanup, err := writeTemp(doc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tmpDir, err := os.MkdirTemp("", "eb-ppm-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", fmt.Sprintf("%d", page), "-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// pdftoppm zero-pads page numbers depending on the page count.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no image for page %d", page)
	}
	img, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	e.logger.Debug("page rendered", "page", page, "dpi", e.cfg.DPI, "bytes", len(img))
	return img, nil
}

func writeTemp(doc []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "eb-doc-*.pdf")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(doc); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
