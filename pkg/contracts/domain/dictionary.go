package domain

import (
	"time"
)

// DataDictionaryEntry documents a single panel column for downstream
// consumers. An entry exists for every column even when inspection of
// that column failed; failed entries carry the Unknown classification
// and zero-valued statistics.
type DataDictionaryEntry struct {
	Column       string     `json:"column"`
	AssetClass   AssetClass `json:"asset_class"`
	Description  string     `json:"description"`
	Currency     string     `json:"currency"`
	RiskBucket   RiskBucket `json:"risk_bucket"`
	DataType     string     `json:"data_type"`
	NonNullCount int        `json:"non_null_count"`
	MissingPct   float64    `json:"missing_pct"`

	// Coverage window of non-missing observations; nil when the column is
	// entirely empty.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Price       SeriesStats `json:"price"`
	DailyReturn ReturnStats `json:"daily_return"`
}

// SeriesStats summarizes the level of a price or yield series
type SeriesStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Last float64 `json:"last"`
}

// ReturnStats summarizes the daily return distribution of a series.
// Count is the number of return observations behind the statistics; a
// zero Count means the series had no measurable returns and the other
// fields are meaningless.
type ReturnStats struct {
	Count         int     `json:"count"`
	Mean          float64 `json:"mean"`
	Std           float64 `json:"std"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Skewness      float64 `json:"skewness"`
	AnnualizedVol float64 `json:"annualized_vol"`
}

// DataDictionary is the full set of per-column entries plus run-level
// metadata for the dictionary artifact.
type DataDictionary struct {
	Entries     []DataDictionaryEntry `json:"entries"`
	GeneratedAt time.Time             `json:"generated_at"`
	SourceFile  string                `json:"source_file"`
	RowCount    int                   `json:"row_count"`
	ColumnCount int                   `json:"column_count"`
}

// EntryFor returns the entry for the named column, or false if absent
func (d *DataDictionary) EntryFor(column string) (DataDictionaryEntry, bool) {
	for _, e := range d.Entries {
		if e.Column == column {
			return e, true
		}
	}
	return DataDictionaryEntry{}, false
}
