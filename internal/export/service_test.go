package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KeyCoreSH/extractbrowser/constants"
	"github.com/KeyCoreSH/extractbrowser/internal/repository"
)

func testService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := repository.Open(filepath.Join(t.TempDir(), "log.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store, logger), store
}

func TestExportLogXLSX(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	seed := []repository.LogEntry{
		{ReqID: "r1", Filename: "cnh.pdf", DocumentType: "CNH", Source: "native",
			Status: constants.LogStatusSuccess, Confidence: 1.0, ElapsedMS: 812},
		{ReqID: "r2", Filename: "scan.pdf", DocumentType: "CNPJ", Source: "ocr", Degraded: true,
			Status: constants.LogStatusSuccess, Confidence: 0.75, ElapsedMS: 4210},
	}
	for _, e := range seed {
		if _, err := store.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	raw, err := svc.ExportLogXLSX(ctx, 0)
	if err != nil {
		t.Fatalf("ExportLogXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Extractions")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][1] != "Request ID" {
		t.Errorf("header = %v", rows[0])
	}
	// Newest entry first.
	if rows[1][1] != "r2" || rows[2][1] != "r1" {
		t.Errorf("order = %q then %q, want r2 then r1", rows[1][1], rows[2][1])
	}
	if rows[1][3] != "CNPJ" {
		t.Errorf("document type = %q", rows[1][3])
	}
}

func TestExportLogXLSX_Empty(t *testing.T) {
	svc, _ := testService(t)

	raw, err := svc.ExportLogXLSX(context.Background(), 10)
	if err != nil {
		t.Fatalf("ExportLogXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Extractions")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
