package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/KeyCoreSH/extractbrowser/constants"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.db")
	s, err := Open(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entries := []LogEntry{
		{ReqID: "r1", Filename: "cnh.pdf", DocumentType: "CNH", Source: "native",
			Status: constants.LogStatusSuccess, Confidence: 1.0, ElapsedMS: 812},
		{ReqID: "r2", Filename: "scan.pdf", DocumentType: "CNPJ", Source: "ocr", Degraded: true,
			Status: constants.LogStatusSuccess, Confidence: 0.75, ElapsedMS: 4210},
		{ReqID: "r3", Filename: "broken.pdf", DocumentType: "UNKNOWN", Source: "native",
			Status: constants.LogStatusFailed, Confidence: 0, ElapsedMS: 95},
	}
	for _, e := range entries {
		if _, err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s) error = %v", e.ReqID, err)
		}
	}

	got, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Newest first.
	if got[0].ReqID != "r3" || got[2].ReqID != "r1" {
		t.Errorf("order = [%s %s %s], want newest first", got[0].ReqID, got[1].ReqID, got[2].ReqID)
	}
	if !got[1].Degraded {
		t.Error("degraded flag lost on round trip")
	}
	if got[1].Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", got[1].Confidence)
	}
	if got[0].Status != constants.LogStatusFailed {
		t.Errorf("status = %s, want FAILED", got[0].Status)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestStore_ListLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Record(ctx, LogEntry{ReqID: "r", DocumentType: "CNH", Source: "native",
			Status: constants.LogStatusSuccess}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestStore_CountByStatus(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, status := range []constants.LogStatus{
		constants.LogStatusSuccess, constants.LogStatusSuccess, constants.LogStatusDegraded,
	} {
		if _, err := s.Record(ctx, LogEntry{ReqID: "r", DocumentType: "CNH", Source: "native",
			Status: status}); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := s.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts["SUCCESS"] != 2 || counts["DEGRADED"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestStore_PreservesExplicitTimestamp(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if _, err := s.Record(ctx, LogEntry{ReqID: "r", DocumentType: "CNH", Source: "native",
		Status: constants.LogStatusSuccess, CreatedAt: when}); err != nil {
		t.Fatal(err)
	}
	got, err := s.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].CreatedAt.Equal(when) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, when)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		outer, structured bool
		want              constants.LogStatus
	}{
		{true, true, constants.LogStatusSuccess},
		{true, false, constants.LogStatusDegraded},
		{false, false, constants.LogStatusFailed},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.outer, tt.structured); got != tt.want {
			t.Errorf("StatusFor(%v, %v) = %s, want %s", tt.outer, tt.structured, got, tt.want)
		}
	}
}
