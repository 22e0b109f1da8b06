package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KeyCoreSH/extractbrowser/internal/repository"
)

// Service is a tiny façade over the extraction log that produces XLSX bytes.
type Service struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewService(store *repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportLogXLSX returns an XLSX workbook (as bytes) with the most recent
// extraction-log entries, newest first. limit <= 0 exports the default page.
func (s *Service) ExportLogXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	entries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query extraction log: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Processed At",
		"Request ID",
		"Filename",
		"Document Type",
		"Text Source",
		"Degraded",
		"Status",
		"Confidence",
		"Elapsed (ms)",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, e.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		write(2, e.ReqID)
		write(3, e.Filename)
		write(4, e.DocumentType)
		write(5, e.Source)
		write(6, e.Degraded)
		write(7, string(e.Status))
		write(8, e.Confidence)
		write(9, e.ElapsedMS)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 38) // request id
	_ = f.SetColWidth(sheet, "C", "C", 32) // filename
	_ = f.SetColWidth(sheet, "D", "D", 18) // document type
	_ = f.SetColWidth(sheet, "E", "G", 12)
	_ = f.SetColWidth(sheet, "H", "I", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
