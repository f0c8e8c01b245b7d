package reports

import (
	"fmt"
	"strings"
)

// latexEscaper covers the special characters that appear in registry
// metadata. Replacement happens in a single pass, so the inserted
// backslashes are never re-escaped.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

func escapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

// AssetClassesTable renders the asset-class mapping as a standalone
// LaTeX table. One row per class group, tickers abbreviated to their
// first/last range.
func (g *Generator) AssetClassesTable() string {
	var b strings.Builder
	b.WriteString("\\begin{table}[h!]\n")
	b.WriteString("\\centering\n")
	b.WriteString("\\caption{Asset Class Mapping for Asian Markets}\n")
	b.WriteString("\\label{tab:asset_class_mapping}\n")
	b.WriteString("\\begin{tabularx}{\\textwidth}{|l|X|l|X|}\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\textbf{Ticker Range} & \\textbf{Asset Class} & \\textbf{Currency} & \\textbf{Comment} \\\\\n")
	b.WriteString("\\hline\n")

	for _, group := range g.tax.Groups() {
		fmt.Fprintf(&b, "%s & %s & %s & %s \\\\\n\\hline\n",
			tickerRange(group, "\\ldots"),
			escapeLatex(group.Description),
			escapeLatex(group.Currency),
			escapeLatex(group.Comment))
	}

	b.WriteString("\\end{tabularx}\n")
	b.WriteString("\\end{table}\n")
	return b.String()
}

// RiskBudgetTable renders the portfolio risk budget as a standalone
// LaTeX table, buckets in canonical order.
func (g *Generator) RiskBudgetTable() string {
	var b strings.Builder
	b.WriteString("\\begin{table}[h!]\n")
	b.WriteString("\\centering\n")
	b.WriteString("\\caption{Risk Budget Allocation}\n")
	b.WriteString("\\label{tab:risk_budget}\n")
	b.WriteString("\\begin{tabular}{|l|c|}\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\textbf{Risk Bucket} & \\textbf{Allocation (\\%)} \\\\\n")
	b.WriteString("\\hline\n")

	budget := g.tax.Budget()
	for _, bucket := range bucketOrder(budget) {
		fmt.Fprintf(&b, "%s & %.1f\\%% \\\\\n\\hline\n",
			capitalize(string(bucket)), budget[bucket]*100)
	}

	b.WriteString("\\end{tabular}\n")
	b.WriteString("\\end{table}\n")
	return b.String()
}

// TaxonomyReport renders the full asset-class mapping document: both
// tables plus a generated description section per class group.
func (g *Generator) TaxonomyReport() string {
	groups := g.tax.Groups()

	var b strings.Builder
	b.WriteString("\\documentclass{article}\n")
	b.WriteString("\\usepackage[margin=1in]{geometry}\n")
	b.WriteString("\\usepackage{tabularx}\n")
	b.WriteString("\\usepackage{booktabs}\n")
	b.WriteString("\\usepackage{color}\n")
	b.WriteString("\\usepackage{graphicx}\n")
	b.WriteString("\n")
	b.WriteString("\\title{Asset Class Mapping for Asian Market Quant Project}\n")
	b.WriteString("\\author{Asian Market Quant Team}\n")
	b.WriteString("\\date{\\today}\n")
	b.WriteString("\n")
	b.WriteString("\\begin{document}\n")
	b.WriteString("\n")
	b.WriteString("\\maketitle\n")
	b.WriteString("\n")
	b.WriteString("\\section{Asset Class Mapping}\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "This document outlines the asset class categorization for our cross-asset Asian\nmarkets project. The tickers are categorized into %d asset classes for systematic\nanalysis and risk budgeting.\n", len(groups))
	b.WriteString("\n")
	b.WriteString(g.AssetClassesTable())
	b.WriteString("\n")
	b.WriteString("\\section{Risk Budgeting Framework}\n")
	b.WriteString("\n")
	b.WriteString("Based on the asset class mapping, the following risk budget allocation drives\nportfolio construction and the hierarchical risk parity (HRP) overlay. The\nallocation below comes from the instrument registry and is authoritative for\npipeline artifacts; figures quoted in earlier drafts are superseded by this\ntable.\n")
	b.WriteString("\n")
	b.WriteString(g.RiskBudgetTable())
	b.WriteString("\n")
	b.WriteString("\\section{Asset Class Descriptions}\n")

	for _, group := range groups {
		b.WriteString("\n")
		fmt.Fprintf(&b, "\\subsection{%s}\n", escapeLatex(displayClass(group.Class)))
		fmt.Fprintf(&b, "%s. %s.\n", escapeLatex(group.Description), escapeLatex(group.Comment))
		fmt.Fprintf(&b, "Instruments (%d): %s.\n", len(group.Tickers), escapeLatex(strings.Join(group.Tickers, ", ")))
		fmt.Fprintf(&b, "Currency: %s. Risk bucket: %s.\n", escapeLatex(group.Currency), capitalize(string(group.RiskBucket)))
	}

	b.WriteString("\n")
	b.WriteString("\\section{Next Steps}\n")
	b.WriteString("\n")
	b.WriteString("With the asset class mapping complete, the project proceeds to:\n")
	b.WriteString("\n")
	b.WriteString("\\begin{enumerate}\n")
	b.WriteString("    \\item Currency normalization through the panel transform hook\n")
	b.WriteString("    \\item Exploratory analysis of correlations and regime changes\n")
	b.WriteString("    \\item Signal prototypes for each asset class\n")
	b.WriteString("    \\item Hierarchical risk parity within the risk budget framework\n")
	b.WriteString("\\end{enumerate}\n")
	b.WriteString("\n")
	b.WriteString("\\end{document}\n")
	return b.String()
}
