package taxonomy

import (
	"log/slog"

	"amqcli/pkg/contracts/domain"
)

// Classifier resolves column names to taxonomy records. Lookup is exact
// and case-sensitive: "EPHE US Index" and "EPHE Index" are different
// instruments, so no fuzzy matching is allowed.
type Classifier struct {
	tax    *Taxonomy
	index  map[string]domain.TickerRecord
	logger *slog.Logger
}

// NewClassifier builds a classifier over the given taxonomy. A nil
// taxonomy falls back to the built-in default, a nil logger to
// slog.Default(). Building the index is deterministic and idempotent.
func NewClassifier(tax *Taxonomy, logger *slog.Logger) *Classifier {
	if tax == nil {
		tax = Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	index := make(map[string]domain.TickerRecord, tax.Len())
	for _, g := range tax.groups {
		for _, ticker := range g.Tickers {
			index[ticker] = domain.TickerRecord{
				Ticker:      ticker,
				AssetClass:  g.Class,
				Description: g.Description,
				Currency:    g.Currency,
				Comment:     g.Comment,
				RiskBucket:  g.RiskBucket,
			}
		}
	}

	return &Classifier{tax: tax, index: index, logger: logger}
}

// Taxonomy returns the taxonomy this classifier was built over
func (c *Classifier) Taxonomy() *Taxonomy {
	return c.tax
}

// Classify returns the taxonomy record for a column name. Unknown names
// yield a sentinel record with AssetClassUnknown; Classify never fails,
// so every column always gets an answer.
func (c *Classifier) Classify(ticker string) domain.TickerRecord {
	if record, ok := c.index[ticker]; ok {
		return record
	}
	return domain.TickerRecord{
		Ticker:      ticker,
		AssetClass:  domain.AssetClassUnknown,
		Description: "Unclassified series",
		Currency:    "Unknown",
		RiskBucket:  "",
	}
}

// PartitionColumns splits column names by asset class. The returned map
// is keyed by class, column order within each class follows the input
// order, and names matching no taxonomy entry come back in the second
// return value. Unclassified columns are logged as a warning, never an
// error.
func (c *Classifier) PartitionColumns(columns []string) (map[domain.AssetClass][]string, []string) {
	byClass := make(map[domain.AssetClass][]string)
	var unclassified []string

	for _, col := range columns {
		record := c.Classify(col)
		if !record.IsClassified() {
			unclassified = append(unclassified, col)
			continue
		}
		byClass[record.AssetClass] = append(byClass[record.AssetClass], col)
	}

	if len(unclassified) > 0 {
		c.logger.Warn("columns matched no taxonomy entry",
			slog.Int("count", len(unclassified)),
			slog.Any("columns", unclassified))
	}

	return byClass, unclassified
}
