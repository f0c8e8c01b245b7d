package operations

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"amqcli/internal/config"
	"amqcli/internal/dataprocessing"
	"amqcli/internal/taxonomy"
)

// Repairer rebuilds a structurally damaged workbook into the canonical
// layout the ingestion contract expects. Whatever header cells the
// source carried are discarded entirely; the rebuilt header row comes
// purely from taxonomy registry order, with Column_N placeholders once
// tickers run out. The data body is carried over untouched.
type Repairer struct {
	tax    *taxonomy.Taxonomy
	logger *slog.Logger
}

// NewRepairer creates a workbook repairer. A nil taxonomy falls back to
// the built-in default, a nil logger to slog.Default().
func NewRepairer(tax *taxonomy.Taxonomy, logger *slog.Logger) *Repairer {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repairer{tax: tax, logger: logger}
}

// Repair reads the data body of the workbook at src and writes a
// rebuilt workbook to dst: header cells at row offset 3, observations
// from row offset 7, rows between left blank. The source file is never
// modified. The output sheet keeps the source sheet's name so a re-run
// with the same sheet selection finds it.
func (r *Repairer) Repair(src, sheet, dst string) error {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return NewRepairError(fmt.Errorf("cannot open workbook %s: %w", src, err))
	}
	defer f.Close()

	sheetName := sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return NewRepairError(fmt.Errorf("cannot read sheet %q of %s: %w", sheetName, src, err))
	}

	body, width := dataBody(rows)
	if len(body) == 0 || width <= 1 {
		return NewRepairError(fmt.Errorf("workbook %s has no data body to rebuild from", src))
	}

	headers := dataprocessing.SynthesizeHeaders(r.tax, width)

	out := excelize.NewFile()
	defer out.Close()
	if err := out.SetSheetName(out.GetSheetName(0), sheetName); err != nil {
		return NewRepairError(fmt.Errorf("cannot name output sheet %q: %w", sheetName, err))
	}

	if err := writeRow(out, sheetName, config.HeaderRowOffset, headers); err != nil {
		return NewRepairError(err)
	}
	for i, row := range body {
		if err := writeRow(out, sheetName, config.DataRowOffset+i, row); err != nil {
			return NewRepairError(err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return NewRepairError(fmt.Errorf("cannot create directory for %s: %w", dst, err))
	}
	if err := out.SaveAs(dst); err != nil {
		return NewRepairError(fmt.Errorf("cannot save repaired workbook %s: %w", dst, err))
	}

	r.logger.Info("workbook rebuilt",
		slog.String("source", src),
		slog.String("repaired", dst),
		slog.Int("rows", len(body)),
		slog.Int("columns", width))
	return nil
}

// dataBody collects the non-blank rows from the data offset on and the
// widest row's column count. Rows above the data offset are damaged by
// definition here, so they contribute nothing.
func dataBody(rows [][]string) ([][]string, int) {
	var body [][]string
	var width int
	if len(rows) <= config.DataRowOffset {
		return nil, 0
	}
	for _, row := range rows[config.DataRowOffset:] {
		if rowIsBlank(row) {
			continue
		}
		body = append(body, row)
		if len(row) > width {
			width = len(row)
		}
	}
	return body, width
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// writeRow writes the cells as one sheet row at the given zero-based
// row offset. Cells stay strings; the ingestion reader coerces them.
func writeRow(f *excelize.File, sheet string, rowOffset int, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowOffset+1)
	if err != nil {
		return fmt.Errorf("cannot address row %d: %w", rowOffset, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("cannot write row %d: %w", rowOffset, err)
	}
	return nil
}

// IsRepairedWorkbook reports whether the path names a repaired
// workbook artifact. The runner refuses to repair one of these again,
// which is what bounds the retry to a single repaired pass.
func IsRepairedWorkbook(path string) bool {
	return strings.HasPrefix(filepath.Base(path), config.RepairedFilePrefix)
}
