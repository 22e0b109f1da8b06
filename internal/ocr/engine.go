// Package ocr wraps the remote OCR collaborator. The pipeline only sees the
// Engine interface; the HTTP client below is the production implementation.
package ocr

import "context"

// PageText is the result of recognizing a single rendered page.
type PageText struct {
	Text       string
	Confidence float32 // 0 when the service does not report one
}

// Engine converts a rendered page bitmap into recognized text.
// Implementations must honor ctx cancellation; a timeout surfaces as an error.
type Engine interface {
	Recognize(ctx context.Context, pagePNG []byte) (PageText, error)
}
