// Package server exposes the pipeline over a thin HTTP surface:
// document upload, health and extraction-log export.
package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KeyCoreSH/extractbrowser/internal/export"
	"github.com/KeyCoreSH/extractbrowser/internal/pipeline"
	"github.com/KeyCoreSH/extractbrowser/internal/repository"
)

type Server struct {
	processor      *pipeline.Processor
	store          *repository.Store
	exporter       *export.Service
	maxUploadBytes int64
	logger         *slog.Logger
}

func New(processor *pipeline.Processor, store *repository.Store, exporter *export.Service, maxUploadBytes int64, logger *slog.Logger) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		processor:      processor,
		store:          store,
		exporter:       exporter,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/upload", s.handleUpload)
	r.Get("/healthz", s.handleHealth)
	r.Get("/export.xlsx", s.handleExport)
	return r
}

// uploadJSON is the non-multipart upload body.
type uploadJSON struct {
	Filename      string `json:"filename"`
	ContentBase64 string `json:"content_base64"`
	MediaType     string `json:"media_type"`
	DocumentType  string `json:"document_type"`
}

// handleUpload accepts a document as multipart form data (fields "file"
// and optional "document_type") or as a JSON body with base64 content.
// Processing outcomes, failures included, answer 200 with the envelope;
// only malformed requests answer 400.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	doc, err := s.readDocument(r)
	if err != nil {
		s.logger.Warn("server.upload.bad_request", "error", err)
		writeJSON(w, http.StatusBadRequest, pipeline.Result{
			Message:    fmt.Sprintf("Requisição inválida: %v", err),
			Structured: pipeline.StageResult{Data: map[string]any{}},
		}.Envelope())
		return
	}

	result := s.processor.Process(r.Context(), doc)
	s.recordLog(r, doc, result)
	writeJSON(w, http.StatusOK, result.Envelope())
}

func (s *Server) readDocument(r *http.Request) (pipeline.Document, error) {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "application/json") {
		var body uploadJSON
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return pipeline.Document{}, fmt.Errorf("decode body: %w", err)
		}
		raw, err := base64.StdEncoding.DecodeString(body.ContentBase64)
		if err != nil {
			return pipeline.Document{}, fmt.Errorf("decode content_base64: %w", err)
		}
		if len(raw) == 0 {
			return pipeline.Document{}, fmt.Errorf("empty document content")
		}
		return pipeline.Document{
			Bytes:     raw,
			Filename:  body.Filename,
			MediaType: body.MediaType,
			TypeHint:  body.DocumentType,
		}, nil
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return pipeline.Document{}, fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("read file: %w", err)
	}
	return pipeline.Document{
		Bytes:     raw,
		Filename:  header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		TypeHint:  r.FormValue("document_type"),
	}, nil
}

func (s *Server) recordLog(r *http.Request, doc pipeline.Document, result pipeline.Result) {
	if s.store == nil {
		return
	}
	_, err := s.store.Record(r.Context(), repository.LogEntry{
		ReqID:        result.ReqID,
		Filename:     doc.Filename,
		DocumentType: result.DocumentType.WireLabel(),
		Source:       result.Source,
		Degraded:     result.Degraded,
		Status:       repository.StatusFor(result.Success, result.Structured.Success),
		Confidence:   result.Structured.Confidence,
		ElapsedMS:    result.Elapsed.Milliseconds(),
	})
	if err != nil {
		s.logger.Error("server.upload.log_failed", "req_id", result.ReqID, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if s.store != nil {
		counts, err := s.store.CountByStatus(r.Context())
		if err != nil {
			s.logger.Error("server.health.counts_failed", "error", err)
		} else {
			resp["extractions"] = counts
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	raw, err := s.exporter.ExportLogXLSX(r.Context(), limit)
	if err != nil {
		s.logger.Error("server.export.failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="extraction_log.xlsx"`)
	_, _ = w.Write(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
