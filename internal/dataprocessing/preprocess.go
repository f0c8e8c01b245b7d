package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"amqcli/pkg/contracts/domain"
)

// Preprocessor turns a RawPanel into a NormalizedPanel: date index
// coercion, reindexing onto a contiguous business-day calendar, and
// per-column forward-fill. The calendar invariant afterwards: strictly
// increasing business days, no duplicates.
type Preprocessor struct {
	logger *slog.Logger
}

// NewPreprocessor creates a preprocessor. A nil logger falls back to
// slog.Default().
func NewPreprocessor(logger *slog.Logger) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preprocessor{logger: logger}
}

// Preprocess coerces the raw index to dates, parses every value cell,
// and normalizes the result onto the business-day calendar. Any
// uncoercible index entry is a DateCoercionError: a panel with a broken
// calendar is never valid, so this is fatal rather than repaired.
func (p *Preprocessor) Preprocess(raw *domain.RawPanel) (*domain.Panel, *domain.MissingnessReport, error) {
	if raw.IsEmpty() {
		return nil, nil, &EmptyPanelError{}
	}

	type datedRow struct {
		date time.Time
		row  []string
	}
	rows := make([]datedRow, len(raw.Index))
	for i, cell := range raw.Index {
		date, err := ParseDate(cell)
		if err != nil {
			return nil, nil, &DateCoercionError{Value: cell, Row: i, Err: err}
		}
		rows[i] = datedRow{date: date, row: raw.Rows[i]}
	}

	// Out-of-order extracts are tolerated and sorted; exact duplicate
	// dates are not, because no strictly increasing calendar can hold
	// them both.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	for i := 1; i < len(rows); i++ {
		if rows[i].date.Equal(rows[i-1].date) {
			return nil, nil, &DateCoercionError{
				Value: rows[i].date.Format("2006-01-02"),
				Row:   i,
				Err:   fmt.Errorf("duplicate date in index"),
			}
		}
	}

	observed := &domain.Panel{
		Dates:   make([]time.Time, len(rows)),
		Columns: append([]string(nil), raw.Columns...),
		Cells:   make([][]float64, len(rows)),
	}
	for i, dr := range rows {
		observed.Dates[i] = dr.date
		cells := make([]float64, len(raw.Columns))
		for j := range cells {
			if j < len(dr.row) {
				cells[j] = ParseCell(dr.row[j])
			} else {
				cells[j] = math.NaN()
			}
		}
		observed.Cells[i] = cells
	}

	return p.Normalize(observed)
}

// Normalize reindexes a panel onto the contiguous business-day calendar
// spanning its observed range and forward-fills gaps per column.
// Observations on non-business days are dropped, matching a plain
// business-day resample. Normalize is idempotent: running it on its own
// output returns an equal panel and an equal report.
func (p *Preprocessor) Normalize(panel *domain.Panel) (*domain.Panel, *domain.MissingnessReport, error) {
	if panel.IsEmpty() {
		return nil, nil, &EmptyPanelError{}
	}

	minDate, maxDate := panel.Dates[0], panel.Dates[0]
	byDate := make(map[time.Time][]float64, len(panel.Dates))
	var droppedWeekend int
	for i, d := range panel.Dates {
		day := midnightUTC(d)
		if !IsBusinessDay(day) {
			droppedWeekend++
			continue
		}
		if day.Before(minDate) {
			minDate = day
		}
		if day.After(maxDate) {
			maxDate = day
		}
		byDate[day] = panel.Cells[i]
	}
	if len(byDate) == 0 {
		return nil, nil, &EmptyPanelError{}
	}
	if droppedWeekend > 0 {
		p.logger.Debug("dropped non-business-day observations",
			slog.Int("count", droppedWeekend))
	}

	calendar := BusinessDayRange(midnightUTC(minDate), midnightUTC(maxDate))
	normalized := domain.NewPanel(calendar, append([]string(nil), panel.Columns...))
	for i, day := range calendar {
		if row, ok := byDate[day]; ok {
			for j := range normalized.Columns {
				if j < len(row) {
					normalized.Cells[i][j] = row[j]
				}
			}
		}
	}

	forwardFill(normalized)
	report := Missingness(normalized)
	if report.HasResidualGaps() {
		p.logger.Warn("missing values remain after forward fill",
			slog.Int("missing", report.MissingCells),
			slog.Int("total", report.TotalCells))
	}

	p.logger.Info("panel normalized",
		slog.Int("calendar_days", len(calendar)),
		slog.Int("columns", normalized.NumColumns()),
		slog.Time("start", calendar[0]),
		slog.Time("end", calendar[len(calendar)-1]))

	return normalized, report, nil
}

// forwardFill replaces each missing cell with the last prior
// observation in its column. Leading gaps have nothing to fill from and
// stay missing; they are reported, never hidden.
func forwardFill(panel *domain.Panel) {
	for j := range panel.Columns {
		last := math.NaN()
		for i := range panel.Cells {
			if math.IsNaN(panel.Cells[i][j]) {
				panel.Cells[i][j] = last
			} else {
				last = panel.Cells[i][j]
			}
		}
	}
}

// Missingness builds the residual-gap report for a panel. It is always
// produced, even when nothing is missing.
func Missingness(panel *domain.Panel) *domain.MissingnessReport {
	report := &domain.MissingnessReport{
		TotalCells: panel.NumRows() * panel.NumColumns(),
		Columns:    make([]domain.ColumnMissingness, len(panel.Columns)),
	}
	for j, col := range panel.Columns {
		var missing int
		for i := range panel.Cells {
			if math.IsNaN(panel.Cells[i][j]) {
				missing++
			}
		}
		pct := 0.0
		if panel.NumRows() > 0 {
			pct = 100 * float64(missing) / float64(panel.NumRows())
		}
		report.Columns[j] = domain.ColumnMissingness{
			Column:     col,
			NonNull:    panel.NumRows() - missing,
			Missing:    missing,
			MissingPct: pct,
		}
		report.MissingCells += missing
	}
	return report
}

// IsBusinessDay reports whether a date falls on Monday through Friday.
// Exchange holidays are not modeled; gaps they leave are forward-filled
// like any other.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDayRange returns every business day from start through end
// inclusive, in ascending order.
func BusinessDayRange(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dateLayouts are tried in order when coercing index cells. The vendor
// extract usually formats dates as mm/dd or ISO strings; serial numbers
// show up when the date format was stripped from the cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"02-Jan-06",
	"2-Jan-06",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006/01/02",
	"20060102",
}

// excelEpoch is day zero of the 1900 date system used by workbook
// serial numbers.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate coerces an index cell to a date. Layout strings are tried
// first, then workbook serial numbers. The result is normalized to
// midnight UTC; intraday components are discarded.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return midnightUTC(t), nil
		}
	}

	// Serial day counts: plausible range covers 1900 through the parse
	// horizon, keeping small integers (row numbers, junk) out.
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if serial >= 61 && serial < 219512 {
			days := int(serial)
			return excelEpoch.AddDate(0, 0, days), nil
		}
		return time.Time{}, fmt.Errorf("numeric value %s is not a plausible date serial", trimmed)
	}

	return time.Time{}, fmt.Errorf("unrecognized date format %q", trimmed)
}

// missingTokens are cell values treated as absent observations, the
// usual spreadsheet and Bloomberg NA spellings.
var missingTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"N/A":      true,
	"NA":       true,
	"n/a":      true,
	"NaN":      true,
	"nan":      true,
	"NULL":     true,
	"null":     true,
	"None":     true,
}

// ParseCell parses a value cell to float64. Missing tokens and
// unparseable junk become NaN; they are counted as missing, never
// dropped. Thousands separators are accepted.
func ParseCell(value string) float64 {
	trimmed := strings.TrimSpace(value)
	if missingTokens[trimmed] {
		return math.NaN()
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}
