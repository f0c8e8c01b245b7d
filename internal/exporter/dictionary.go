package exporter

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"amqcli/internal/config"
	"amqcli/internal/errors"

	"amqcli/pkg/contracts/domain"
)

const (
	dictionarySheetName   = "Asset Dictionary"
	metadataSheetName     = "Metadata"
	classSummarySheetName = "Asset Class Summary"
)

// DictionaryWriter exports the data dictionary as a CSV for interchange
// and a workbook for human viewing. The workbook carries the dictionary
// sheet plus metadata and asset-class-summary sheets.
type DictionaryWriter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewDictionaryWriter creates a dictionary writer. A nil logger falls
// back to slog.Default().
func NewDictionaryWriter(paths *config.Paths, logger *slog.Logger) *DictionaryWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DictionaryWriter{csv: NewCSVWriter(paths), logger: logger}
}

// dictionaryHeaders is the artifact header row. Percent columns carry
// values already scaled by 100.
func dictionaryHeaders() []string {
	return []string{
		"Ticker", "Asset Class", "Description", "Currency", "Risk Bucket",
		"Data Type", "Start Date", "End Date", "Data Points",
		"Missing Values (%)",
		"Price Mean", "Price Std Dev", "Price Min", "Price Max", "Price Last",
		"Daily Return Mean (%)", "Daily Return Std Dev (%)",
		"Daily Return Min (%)", "Daily Return Max (%)",
		"Daily Return Skewness", "Annualized Volatility (%)",
	}
}

// dictionaryRow renders one entry. The CSV keeps raw asset-class
// identifiers for machine consumers; the workbook shows display names.
func dictionaryRow(e domain.DataDictionaryEntry, displayNames bool) []interface{} {
	class := string(e.AssetClass)
	if displayNames {
		class = displayAssetClass(e.AssetClass)
	}
	row := []interface{}{
		e.Column, class, e.Description, e.Currency, string(e.RiskBucket),
		e.DataType, formatDate(e.StartDate), formatDate(e.EndDate),
		e.NonNullCount, round(e.MissingPct, 2),
	}
	if e.NonNullCount == 0 {
		row = append(row, naValue, naValue, naValue, naValue, naValue)
	} else {
		row = append(row,
			statValue(e.Price.Mean, 1), statValue(e.Price.Std, 1),
			statValue(e.Price.Min, 1), statValue(e.Price.Max, 1),
			statValue(e.Price.Last, 1))
	}
	if r := e.DailyReturn; r.Count == 0 {
		row = append(row, naValue, naValue, naValue, naValue, naValue, naValue)
	} else {
		row = append(row,
			statValue(r.Mean, 100), statValue(r.Std, 100),
			statValue(r.Min, 100), statValue(r.Max, 100),
			statValue(r.Skewness, 1), statValue(r.AnnualizedVol, 100))
	}
	return row
}

// WriteCSV writes the dictionary entries as a flat CSV
func (w *DictionaryWriter) WriteCSV(path string, dict *domain.DataDictionary) error {
	records := make([][]string, 0, len(dict.Entries))
	for _, e := range dict.Entries {
		records = append(records, csvRecord(dictionaryRow(e, false)))
	}

	if err := w.csv.WriteSimpleCSV(path, dictionaryHeaders(), records); err != nil {
		return fmt.Errorf("failed to write dictionary CSV: %w", err)
	}

	w.logger.Info("data dictionary CSV written",
		slog.String("path", path),
		slog.Int("entries", len(dict.Entries)))
	return nil
}

// WriteXLSX writes the three-sheet dictionary workbook
func (w *DictionaryWriter) WriteXLSX(path string, dict *domain.DataDictionary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), dictionarySheetName); err != nil {
		return fmt.Errorf("failed to name dictionary sheet: %w", err)
	}

	rows := [][]interface{}{anyRow(dictionaryHeaders())}
	for _, e := range dict.Entries {
		rows = append(rows, dictionaryRow(e, true))
	}
	if err := writeSheet(f, dictionarySheetName, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(metadataSheetName); err != nil {
		return fmt.Errorf("failed to create metadata sheet: %w", err)
	}
	if err := writeSheet(f, metadataSheetName, metadataRows(dict)); err != nil {
		return err
	}

	if _, err := f.NewSheet(classSummarySheetName); err != nil {
		return fmt.Errorf("failed to create class summary sheet: %w", err)
	}
	summary := [][]interface{}{{"Asset Class", "Count"}}
	for _, c := range classSummary(dict.Entries) {
		summary = append(summary, []interface{}{c.name, c.count})
	}
	if err := writeSheet(f, classSummarySheetName, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save dictionary workbook", err)
	}

	w.logger.Info("data dictionary workbook written",
		slog.String("path", path),
		slog.Int("entries", len(dict.Entries)))
	return nil
}

// metadataRows builds the provenance sheet content
func metadataRows(dict *domain.DataDictionary) [][]interface{} {
	return [][]interface{}{
		{"Property", "Value"},
		{"Creation Date", dict.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Source File", dict.SourceFile},
		{"Number of Assets", dict.ColumnCount},
		{"Number of Trading Days", dict.RowCount},
		{"Date Range", coverageRange(dict.Entries)},
		{"Price Data Frequency", "Daily (Business Days)"},
		{"Data Processing Steps", "Cleaned, Reindexed to Business Days, Forward-Filled"},
	}
}

type classCount struct {
	name  string
	count int
}

// classSummary tallies entries per display asset class, ordered by
// count descending with ties broken by first appearance.
func classSummary(entries []domain.DataDictionaryEntry) []classCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		name := displayAssetClass(e.AssetClass)
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	summary := make([]classCount, 0, len(order))
	for _, name := range order {
		summary = append(summary, classCount{name: name, count: counts[name]})
	}
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].count > summary[j].count
	})
	return summary
}

// coverageRange reports the union coverage window across all entries
func coverageRange(entries []domain.DataDictionaryEntry) string {
	var start, end *time.Time
	for i := range entries {
		e := entries[i]
		if e.StartDate != nil && (start == nil || e.StartDate.Before(*start)) {
			start = e.StartDate
		}
		if e.EndDate != nil && (end == nil || e.EndDate.After(*end)) {
			end = e.EndDate
		}
	}
	if start == nil || end == nil {
		return naValue
	}
	return start.Format(dateFormat) + " to " + end.Format(dateFormat)
}

// writeSheet writes rows starting at A1, one SetSheetRow call per row
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
