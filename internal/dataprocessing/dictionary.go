package dataprocessing

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"amqcli/internal/taxonomy"
	"amqcli/pkg/contracts/domain"
)

// tradingDaysPerYear annualizes daily volatility
const tradingDaysPerYear = 252

// DictionaryBuilder produces the per-column audit of a normalized
// panel. Completeness guarantee: one entry per input column, always. A
// column whose values resist inspection gets a defensive default entry
// instead of aborting the build.
type DictionaryBuilder struct {
	classifier *taxonomy.Classifier
	logger     *slog.Logger
}

// NewDictionaryBuilder creates a dictionary builder. A nil classifier
// falls back to one over the default taxonomy, a nil logger to
// slog.Default().
func NewDictionaryBuilder(classifier *taxonomy.Classifier, logger *slog.Logger) *DictionaryBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = taxonomy.NewClassifier(nil, logger)
	}
	return &DictionaryBuilder{classifier: classifier, logger: logger}
}

// Build creates the data dictionary for a panel. dailyReturns may be
// nil, in which case return statistics stay zero. sourceFile is
// recorded for provenance.
func (b *DictionaryBuilder) Build(panel *domain.Panel, dailyReturns *domain.Panel, sourceFile string) *domain.DataDictionary {
	dict := &domain.DataDictionary{
		GeneratedAt: time.Now().UTC(),
		SourceFile:  sourceFile,
		RowCount:    panel.NumRows(),
		ColumnCount: panel.NumColumns(),
		Entries:     make([]domain.DataDictionaryEntry, 0, panel.NumColumns()),
	}

	var defaulted int
	for _, column := range panel.Columns {
		entry, ok := b.buildEntry(panel, dailyReturns, column)
		if !ok {
			defaulted++
		}
		dict.Entries = append(dict.Entries, entry)
	}

	if defaulted > 0 {
		b.logger.Warn("dictionary entries fell back to defensive defaults",
			slog.Int("count", defaulted))
	}
	b.logger.Info("data dictionary built",
		slog.Int("entries", len(dict.Entries)),
		slog.Int("rows", dict.RowCount))

	return dict
}

// buildEntry inspects one column. The boolean is false when the column
// resisted inspection and the defensive default was substituted.
func (b *DictionaryBuilder) buildEntry(panel, dailyReturns *domain.Panel, column string) (domain.DataDictionaryEntry, bool) {
	values, ok := panel.Column(column)
	if !ok {
		return defaultEntry(column), false
	}

	record := b.classifier.Classify(column)
	entry := domain.DataDictionaryEntry{
		Column:      column,
		AssetClass:  record.AssetClass,
		Description: record.Description,
		Currency:    record.Currency,
		RiskBucket:  record.RiskBucket,
	}

	valid := dropNaN(values)
	entry.NonNullCount = len(valid)
	if len(values) > 0 {
		entry.MissingPct = 100 * float64(len(values)-len(valid)) / float64(len(values))
	}
	// Cells are coerced floats by the time the dictionary runs, so the
	// type is fixed; "Unknown" is reserved for inspection failures.
	entry.DataType = "float64"
	if len(valid) == 0 {
		// All-missing column: classified but nothing to measure
		b.logger.Debug("column has no observations", slog.String("column", column))
		return entry, true
	}

	if first, last, found := validRange(values); found {
		start, end := panel.Dates[first], panel.Dates[last]
		entry.StartDate = &start
		entry.EndDate = &end
	}

	entry.Price = domain.SeriesStats{
		Mean: stat.Mean(valid, nil),
		Std:  stat.StdDev(valid, nil),
		Min:  minOf(valid),
		Max:  maxOf(valid),
		Last: values[len(values)-1],
	}

	if dailyReturns != nil {
		if returns, ok := dailyReturns.Column(column); ok {
			if validReturns := dropNaN(returns); len(validReturns) > 0 {
				std := stat.StdDev(validReturns, nil)
				entry.DailyReturn = domain.ReturnStats{
					Count:         len(validReturns),
					Mean:          stat.Mean(validReturns, nil),
					Std:           std,
					Min:           minOf(validReturns),
					Max:           maxOf(validReturns),
					Skewness:      stat.Skew(validReturns, nil),
					AnnualizedVol: std * math.Sqrt(tradingDaysPerYear),
				}
			}
		}
	}

	return entry, true
}

// defaultEntry is the defensive fallback: unknown classification, zero
// counts, no statistics.
func defaultEntry(column string) domain.DataDictionaryEntry {
	return domain.DataDictionaryEntry{
		Column:     column,
		AssetClass: domain.AssetClassUnknown,
		Currency:   "Unknown",
		DataType:   "Unknown",
	}
}

func dropNaN(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}

// validRange returns the first and last indices holding non-missing
// values
func validRange(values []float64) (int, int, bool) {
	first, last := -1, -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last, first >= 0
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
