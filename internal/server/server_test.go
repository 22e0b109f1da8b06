package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/KeyCoreSH/extractbrowser/internal/classify"
	"github.com/KeyCoreSH/extractbrowser/internal/contract"
	"github.com/KeyCoreSH/extractbrowser/internal/export"
	"github.com/KeyCoreSH/extractbrowser/internal/extract"
	"github.com/KeyCoreSH/extractbrowser/internal/llm"
	"github.com/KeyCoreSH/extractbrowser/internal/ocr"
	"github.com/KeyCoreSH/extractbrowser/internal/pipeline"
	"github.com/KeyCoreSH/extractbrowser/internal/repository"
)

const cnhText = "CARTEIRA NACIONAL DE HABILITAÇÃO\nNome: MARIA DA SILVA CPF: 123.456.789-00 Categoria: AB\nDETRAN-SP primeira habilitação 10/01/2010"

type fakePDF struct{ pages []string }

func (f *fakePDF) PageTexts(ctx context.Context, doc []byte) ([]string, error) {
	return f.pages, nil
}

func (f *fakePDF) RenderPage(ctx context.Context, doc []byte, page int) ([]byte, error) {
	return []byte("png"), nil
}

type fakeOCR struct{ text string }

func (f *fakeOCR) Recognize(ctx context.Context, pagePNG []byte) (ocr.PageText, error) {
	return ocr.PageText{Text: f.text, Confidence: 0.9}, nil
}

type fakeLLM struct{ reply string }

func (f *fakeLLM) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return f.reply, nil
}

func testServer(t *testing.T) (*Server, *repository.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := repository.Open(filepath.Join(t.TempDir(), "log.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	proc := pipeline.NewProcessor(
		&fakePDF{pages: []string{cnhText}},
		&fakeOCR{text: cnhText},
		extract.NewAnalyzer(50),
		classify.NewClassifier(2, logger),
		contract.NewRegistry(),
		pipeline.NewStructureStage(&fakeLLM{reply: `{"nome":"MARIA DA SILVA","cpf":"123.456.789-00","categoria":"AB"}`}, 2, logger),
		pipeline.NewScorer(0.75, 0.5, 0.9),
		logger,
	)
	return New(proc, store, export.NewService(store, logger), 1<<20, logger), store
}

func fakePDFBytes() []byte {
	return append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 200)...)
}

func multipartBody(t *testing.T, filename, mediaType, docType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {mediaType},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if docType != "" {
		if err := w.WriteField("document_type", docType); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestUpload_Multipart(t *testing.T) {
	srv, store := testServer(t)
	router := srv.Router()

	body, contentType := multipartBody(t, "cnh.pdf", "application/pdf", "", fakePDFBytes())
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var env pipeline.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success {
		t.Fatalf("success = false, message %q", env.Message)
	}
	if env.Data.DocumentType != "CNH" {
		t.Errorf("document_type = %q, want CNH", env.Data.DocumentType)
	}
	if !env.Data.Structured.Success || env.Data.Structured.Confidence != 1.0 {
		t.Errorf("structured = %+v", env.Data.Structured)
	}

	entries, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Filename != "cnh.pdf" {
		t.Errorf("log entries = %+v, want one for cnh.pdf", entries)
	}
}

func TestUpload_JSONBody(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	payload, _ := json.Marshal(map[string]string{
		"filename":       "doc.pdf",
		"content_base64": base64.StdEncoding.EncodeToString(fakePDFBytes()),
		"media_type":     "application/pdf",
		"document_type":  "cnh",
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var env pipeline.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.DocumentType != "CNH" {
		t.Errorf("document_type = %q", env.Data.DocumentType)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("document_type", "cnh")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var env pipeline.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad request still answers the envelope shape: %v", err)
	}
	if env.Success {
		t.Error("success = true for bad request")
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
}

func TestExportXLSX(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	// Seed one processed document through the real handler.
	body, contentType := multipartBody(t, "cnh.pdf", "application/pdf", "", fakePDFBytes())
	up := httptest.NewRequest(http.MethodPost, "/upload", body)
	up.Header.Set("Content-Type", contentType)
	router.ServeHTTP(httptest.NewRecorder(), up)

	req := httptest.NewRequest(http.MethodGet, "/export.xlsx", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty workbook body")
	}
}

func TestExportXLSX_InvalidLimit(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/export.xlsx?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
