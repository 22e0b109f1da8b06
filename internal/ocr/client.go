package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config for the OCR REST client.
type Config struct {
	BaseURL  string
	APIKey   string
	Language string        // default "por"
	Timeout  time.Duration // http client timeout, default 30s
}

// Client calls a text-recognition REST service. The wire contract is a JSON
// POST of the base64 page image; the service answers with the recognized
// lines and an optional confidence.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Language == "" {
		cfg.Language = "por"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type recognizeRequest struct {
	ImageBase64 string `json:"image_base64"`
	MediaType   string `json:"media_type"`
	Language    string `json:"language"`
}

type recognizeResponse struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Recognize implements Engine.
func (c *Client) Recognize(ctx context.Context, pagePNG []byte) (PageText, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("ocr.recognize.start",
		"req_id", rid,
		"image_bytes", len(pagePNG),
		"language", c.cfg.Language,
	)

	body, err := json.Marshal(recognizeRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(pagePNG),
		MediaType:   "image/png",
		Language:    c.cfg.Language,
	})
	if err != nil {
		return PageText{}, fmt.Errorf("encode ocr request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/recognize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return PageText{}, fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("ocr.recognize.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return PageText{}, fmt.Errorf("ocr http error: %w", err)
	}
	defer func(b io.ReadCloser) {
		if cerr := b.Close(); cerr != nil {
			c.logger.Warn("ocr response body close error", "req_id", rid, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("ocr.recognize.bad_status",
			"req_id", rid, "status", resp.StatusCode,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return PageText{}, fmt.Errorf("ocr status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}

	var out recognizeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return PageText{}, fmt.Errorf("decode ocr response: %w", err)
	}
	if out.Error != "" {
		return PageText{}, fmt.Errorf("ocr service error: %s", out.Error)
	}

	c.logger.Info("ocr.recognize.ok",
		"req_id", rid,
		"text_len", len(out.Text),
		"confidence", out.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return PageText{Text: out.Text, Confidence: out.Confidence}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
