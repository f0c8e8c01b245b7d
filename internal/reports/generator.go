// Package reports renders the taxonomy deliverables: LaTeX tables for
// the asset-class mapping and risk budget, the full mapping document,
// and Markdown tables for README embedding. Every renderer is a pure
// function of the taxonomy, so a fixed registry always produces the
// same bytes.
package reports

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"amqcli/internal/config"
	"amqcli/internal/taxonomy"

	"amqcli/pkg/contracts/domain"
)

// Generator renders taxonomy report artifacts
type Generator struct {
	tax    *taxonomy.Taxonomy
	logger *slog.Logger
}

// NewGenerator creates a report generator. A nil taxonomy falls back to
// the built-in default, a nil logger to slog.Default().
func NewGenerator(tax *taxonomy.Taxonomy, logger *slog.Logger) *Generator {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{tax: tax, logger: logger}
}

// WriteAll renders every report artifact to its well-known path and
// returns the written paths in order.
func (g *Generator) WriteAll(paths *config.Paths) ([]string, error) {
	outputs := []struct {
		path    string
		content string
	}{
		{paths.AssetClassesTex, g.AssetClassesTable()},
		{paths.RiskBudgetTex, g.RiskBudgetTable()},
		{paths.TaxonomyReport, g.TaxonomyReport()},
		{paths.TaxonomyMarkdown, g.TaxonomyMarkdown()},
	}

	written := make([]string, 0, len(outputs))
	for _, out := range outputs {
		if err := os.MkdirAll(filepath.Dir(out.path), 0755); err != nil {
			return written, fmt.Errorf("cannot create report directory for %s: %w", out.path, err)
		}
		if err := os.WriteFile(out.path, []byte(out.content), 0644); err != nil {
			return written, fmt.Errorf("cannot write report %s: %w", out.path, err)
		}
		written = append(written, out.path)
	}

	g.logger.Info("taxonomy reports written",
		slog.Int("count", len(written)),
		slog.String("latex_dir", paths.LatexDir),
		slog.String("tables_dir", paths.TablesDir))
	return written, nil
}

// bucketOrder returns the risk buckets in presentation order: the
// canonical four first, then anything else alphabetically so custom
// budgets still render deterministically.
func bucketOrder(budget domain.RiskBudget) []domain.RiskBucket {
	canonical := []domain.RiskBucket{
		domain.RiskBucketEquities,
		domain.RiskBucketRates,
		domain.RiskBucketFX,
		domain.RiskBucketCommodities,
	}

	var order []domain.RiskBucket
	seen := make(map[domain.RiskBucket]bool)
	for _, b := range canonical {
		if _, ok := budget[b]; ok {
			order = append(order, b)
			seen[b] = true
		}
	}

	var extra []domain.RiskBucket
	for b := range budget {
		if !seen[b] {
			extra = append(extra, b)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(order, extra...)
}

// tickerRange abbreviates a group's tickers to "FIRST ... LAST" using
// the first whitespace-separated token of each, the house style for
// mapping tables.
func tickerRange(g taxonomy.ClassGroup, ellipsis string) string {
	first := strings.Fields(g.Tickers[0])[0]
	if len(g.Tickers) == 1 {
		return first
	}
	last := strings.Fields(g.Tickers[len(g.Tickers)-1])[0]
	return first + " " + ellipsis + " " + last
}

// capitalize uppercases the first letter and lowercases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// displayClass turns a class enum value into its display form, for
// example "emerging_asia_equity" into "Emerging Asia Equity".
func displayClass(class domain.AssetClass) string {
	words := strings.Split(string(class), "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
