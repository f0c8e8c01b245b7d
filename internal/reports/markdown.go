package reports

import (
	"fmt"
	"strings"
)

// escapeMarkdown keeps cell text from breaking table structure
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// TaxonomyMarkdown renders the asset-class mapping and risk budget as
// Markdown tables, ready for README embedding.
func (g *Generator) TaxonomyMarkdown() string {
	var b strings.Builder
	b.WriteString("# Asset Taxonomy\n")
	b.WriteString("\n")
	b.WriteString("## Asset Class Mapping\n")
	b.WriteString("\n")
	b.WriteString("| Ticker Range | Asset Class | Currency | Comment |\n")
	b.WriteString("|-------------|------------|----------|--------|\n")

	for _, group := range g.tax.Groups() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			tickerRange(group, "..."),
			escapeMarkdown(group.Description),
			escapeMarkdown(group.Currency),
			escapeMarkdown(group.Comment))
	}

	b.WriteString("\n")
	b.WriteString("## Risk Budget\n")
	b.WriteString("\n")
	b.WriteString("| Risk Bucket | Allocation (%) |\n")
	b.WriteString("|------------|----------------|\n")

	budget := g.tax.Budget()
	for _, bucket := range bucketOrder(budget) {
		fmt.Fprintf(&b, "| %s | %.1f%% |\n", capitalize(string(bucket)), budget[bucket]*100)
	}

	return b.String()
}
