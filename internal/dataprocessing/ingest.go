package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"amqcli/internal/config"
	"amqcli/internal/taxonomy"
	"amqcli/pkg/contracts/domain"
)

// Reader ingests fixed-layout price workbooks. The layout contract is
// non-negotiable: header cells at row offset 3, observations from row
// offset 7, first column the date index (config constants). Anything
// else is a structural failure, not a format to auto-detect.
type Reader struct {
	tax    *taxonomy.Taxonomy
	logger *slog.Logger
}

// NewReader creates a workbook reader. A nil taxonomy falls back to the
// built-in default, a nil logger to slog.Default().
func NewReader(tax *taxonomy.Taxonomy, logger *slog.Logger) *Reader {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{tax: tax, logger: logger}
}

// IngestReport records every decision header resolution made, so the
// run manifest can explain how the panel's columns got their names.
type IngestReport struct {
	Sheet               string   `json:"sheet"`
	RawHeaders          []string `json:"raw_headers"`
	ResolvedHeaders     []string `json:"resolved_headers"`
	HeadersSynthesized  bool     `json:"headers_synthesized"`
	HeaderAdjustment    string   `json:"header_adjustment,omitempty"`
	MissingTickers      []string `json:"missing_tickers,omitempty"`
	StructurallySuspect bool     `json:"structurally_suspect"`
	DataRows            int      `json:"data_rows"`
	DataColumns         int      `json:"data_columns"`
}

// Header adjustment outcomes recorded in the IngestReport
const (
	HeaderAdjustmentPadded    = "padded"
	HeaderAdjustmentTruncated = "truncated"
)

// Read loads the workbook at path and resolves its headers against the
// taxonomy. The returned RawPanel keeps every cell as a string; nothing
// is coerced here. Errors are typed: StructuralError and
// EmptyPanelError are candidates for the repair path.
func (r *Reader) Read(path, sheet string) (*domain.RawPanel, *IngestReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, &StructuralError{Path: path, Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	sheetName := sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, &StructuralError{Path: path, Reason: fmt.Sprintf("cannot read sheet %q", sheetName), Err: err}
	}

	if len(rows) <= config.HeaderRowOffset {
		return nil, nil, &StructuralError{
			Path:   path,
			Reason: fmt.Sprintf("sheet %q has %d rows, header row expected at offset %d", sheetName, len(rows), config.HeaderRowOffset),
		}
	}

	report := &IngestReport{Sheet: sheetName}
	report.RawHeaders = append([]string(nil), rows[config.HeaderRowOffset]...)

	// Collect the data body, skipping rows with no content at all.
	// Sparse sheets come back from excelize with ragged row widths, so
	// the body width is the widest data row.
	var dataRows [][]string
	var width int
	if len(rows) > config.DataRowOffset {
		for _, row := range rows[config.DataRowOffset:] {
			if isBlankRow(row) {
				continue
			}
			dataRows = append(dataRows, row)
			if len(row) > width {
				width = len(row)
			}
		}
	}
	if len(dataRows) == 0 || width <= 1 {
		return nil, report, &EmptyPanelError{Path: path}
	}

	cleaned := CleanHeaders(report.RawHeaders)
	report.MissingTickers = r.missingTickers(cleaned)
	report.StructurallySuspect = len(report.MissingTickers) > 0
	if report.StructurallySuspect {
		r.logger.Warn("expected tickers missing from probed headers",
			slog.String("file", path),
			slog.Int("missing", len(report.MissingTickers)))
	}

	headers := cleaned
	if !HeadersLookSane(cleaned) {
		headers = SynthesizeHeaders(r.tax, width)
		report.HeadersSynthesized = true
		r.logger.Warn("probed headers unusable, synthesizing from taxonomy order",
			slog.String("file", path),
			slog.Any("probed", cleaned))
	}

	headers, adjustment := alignHeaderCount(headers, width)
	if adjustment != "" {
		report.HeaderAdjustment = adjustment
		r.logger.Warn("header count mismatch reconciled",
			slog.String("file", path),
			slog.String("adjustment", adjustment),
			slog.Int("data_columns", width))
	}
	report.ResolvedHeaders = headers

	panel := &domain.RawPanel{
		Columns: headers[config.DateColumnIndex+1:],
		Index:   make([]string, len(dataRows)),
		Rows:    make([][]string, len(dataRows)),
	}
	for i, row := range dataRows {
		padded := make([]string, width)
		copy(padded, row)
		panel.Index[i] = padded[config.DateColumnIndex]
		panel.Rows[i] = padded[config.DateColumnIndex+1:]
	}

	report.DataRows = len(panel.Rows)
	report.DataColumns = len(panel.Columns)

	r.logger.Info("workbook ingested",
		slog.String("file", path),
		slog.String("sheet", sheetName),
		slog.Int("rows", report.DataRows),
		slog.Int("columns", report.DataColumns),
		slog.Bool("synthesized", report.HeadersSynthesized))

	return panel, report, nil
}

// CleanHeaders normalizes probed header cells: a blank or placeholder
// first cell becomes the date label, other blanks become Column_N,
// Bloomberg #N/A artifacts become NA_Column_N. N is the 1-based column
// position. Non-placeholder cells pass through untouched, whitespace
// included, because downstream classification is exact-match.
func CleanHeaders(raw []string) []string {
	cleaned := make([]string, len(raw))
	for i, cell := range raw {
		switch {
		case isPlaceholderHeader(cell):
			if i == config.DateColumnIndex {
				cleaned[i] = config.DateHeaderLabel
			} else {
				cleaned[i] = fmt.Sprintf("Column_%d", i+1)
			}
		case strings.Contains(cell, "#N/A"):
			cleaned[i] = fmt.Sprintf("NA_Column_%d", i+1)
		default:
			cleaned[i] = cell
		}
	}
	return cleaned
}

// HeadersLookSane is the header acceptance predicate. Cleaned headers
// are usable verbatim when every condition holds:
//
//  1. at least one header cell exists
//  2. the first cell resolved to the date label
//  3. no cell is a field-placeholder artifact ("Last Price" or
//     "PX_LAST" style rows picked up in place of ticker names)
//
// Anything else forces taxonomy-driven header synthesis.
func HeadersLookSane(headers []string) bool {
	if len(headers) == 0 {
		return false
	}
	if headers[config.DateColumnIndex] != config.DateHeaderLabel {
		return false
	}
	for _, h := range headers {
		if isFieldPlaceholder(h) {
			return false
		}
	}
	return true
}

// SynthesizeHeaders builds a header list purely from the taxonomy: the
// date label first, then registered tickers in registry order, then
// Column_N placeholders once tickers run out. width is the data body's
// column count including the date column. A nil taxonomy falls back to
// the built-in default. The workbook repairer uses the same function so
// repaired headers and synthesized headers can never drift apart.
func SynthesizeHeaders(tax *taxonomy.Taxonomy, width int) []string {
	if tax == nil {
		tax = taxonomy.Default()
	}
	tickers := tax.Tickers()
	headers := make([]string, 0, width)
	headers = append(headers, config.DateHeaderLabel)
	for i := 1; i < width; i++ {
		if i-1 < len(tickers) {
			headers = append(headers, tickers[i-1])
		} else {
			headers = append(headers, fmt.Sprintf("Column_%d", i+1))
		}
	}
	return headers
}

// alignHeaderCount reconciles the header list against the data body
// width, padding with placeholders or truncating. A count mismatch is
// the common-case failure this ingestion tolerates, so it never fails.
func alignHeaderCount(headers []string, width int) ([]string, string) {
	switch {
	case len(headers) < width:
		padded := append([]string(nil), headers...)
		for i := len(headers); i < width; i++ {
			padded = append(padded, fmt.Sprintf("Column_%d", i+1))
		}
		return padded, HeaderAdjustmentPadded
	case len(headers) > width:
		return append([]string(nil), headers[:width]...), HeaderAdjustmentTruncated
	default:
		return headers, ""
	}
}

// missingTickers returns registered tickers absent from the candidate
// headers, in registry order.
func (r *Reader) missingTickers(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, ticker := range r.tax.Tickers() {
		if !present[ticker] {
			missing = append(missing, ticker)
		}
	}
	return missing
}

// isPlaceholderHeader reports whether a probed cell carries no usable
// name: empty, whitespace, or a pandas-style Unnamed artifact left by
// earlier tooling.
func isPlaceholderHeader(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	return trimmed == "" || strings.Contains(trimmed, "Unnamed")
}

// isFieldPlaceholder reports whether a cell is a Bloomberg field label
// that leaked into the header row instead of a ticker name.
func isFieldPlaceholder(cell string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(cell))
	return trimmed == "last price" || trimmed == "px_last"
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
