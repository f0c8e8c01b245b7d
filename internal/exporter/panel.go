package exporter

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"amqcli/internal/config"
	"amqcli/internal/errors"

	"amqcli/pkg/contracts/domain"
)

// panelSheetName is the sheet holding panel data in XLSX artifacts
const panelSheetName = "Processed Data"

// PanelWriter exports normalized panels as CSV and XLSX artifacts.
// Missing cells render as empty fields, never as zeros.
type PanelWriter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

// NewPanelWriter creates a panel writer. A nil logger falls back to
// slog.Default().
func NewPanelWriter(paths *config.Paths, logger *slog.Logger) *PanelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PanelWriter{paths: paths, csv: NewCSVWriter(paths), logger: logger}
}

// panelHeaders returns the CSV/XLSX header row: the date label followed
// by the panel's columns.
func panelHeaders(panel *domain.Panel) []string {
	headers := make([]string, 0, len(panel.Columns)+1)
	headers = append(headers, config.DateHeaderLabel)
	return append(headers, panel.Columns...)
}

// WriteCSV streams the panel to a CSV file. Large panels write row by
// row rather than materializing the whole record set.
func (w *PanelWriter) WriteCSV(path string, panel *domain.Panel) error {
	stream, err := w.csv.CreateStreamWriter(path, panelHeaders(panel))
	if err != nil {
		return err
	}

	for i := range panel.Cells {
		record := make([]string, 0, len(panel.Columns)+1)
		record = append(record, panel.Dates[i].Format(dateFormat))
		for _, v := range panel.Cells[i] {
			record = append(record, formatCell(v))
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write panel row %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close panel CSV: %w", err)
	}

	w.logger.Info("panel CSV written",
		slog.String("path", path),
		slog.Int("rows", panel.NumRows()),
		slog.Int("columns", panel.NumColumns()))
	return nil
}

// WriteXLSX writes the panel as a workbook for human viewing. Missing
// cells stay blank.
func (w *PanelWriter) WriteXLSX(path string, panel *domain.Panel) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), panelSheetName); err != nil {
		return fmt.Errorf("failed to name panel sheet: %w", err)
	}

	for j, h := range panelHeaders(panel) {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(panelSheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i := range panel.Cells {
		dateCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address date cell: %w", err)
		}
		if err := f.SetCellValue(panelSheetName, dateCell, panel.Dates[i].Format(dateFormat)); err != nil {
			return fmt.Errorf("failed to write date cell: %w", err)
		}
		for j, v := range panel.Cells[i] {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return fmt.Errorf("failed to address value cell: %w", err)
			}
			if err := f.SetCellValue(panelSheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write value cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save panel workbook", err)
	}

	w.logger.Info("panel workbook written",
		slog.String("path", path),
		slog.Int("rows", panel.NumRows()),
		slog.Int("columns", panel.NumColumns()))
	return nil
}
