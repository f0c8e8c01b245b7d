package reports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyMarkdown(t *testing.T) {
	md := NewGenerator(nil, nil).TaxonomyMarkdown()

	assert.True(t, strings.HasPrefix(md, "# Asset Taxonomy\n"))
	assert.Contains(t, md, "## Asset Class Mapping")
	assert.Contains(t, md, "| Ticker Range | Asset Class | Currency | Comment |")
	assert.Contains(t, md, "|-------------|------------|----------|--------|")

	assert.Contains(t, md, "| MXAP ... FMETF | Emerging-Asia equity indices & ETF | Mostly USD | Regional beta + macro sensitivity |")
	assert.Contains(t, md, "| SPX ... NKY | Developed-market equity benchmarks | USD / JPY | Good stress-test proxies |")

	assert.Contains(t, md, "## Risk Budget")
	assert.Contains(t, md, "| Equities | 60.0% |")
	assert.Contains(t, md, "| Rates | 20.0% |")
	assert.Contains(t, md, "| Fx | 10.0% |")
	assert.Contains(t, md, "| Commodities | 10.0% |")
}

func TestTaxonomyMarkdownRowCount(t *testing.T) {
	md := NewGenerator(nil, nil).TaxonomyMarkdown()

	var mappingRows int
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "| ") && strings.Contains(line, " ... ") {
			mappingRows++
		}
	}
	require.Equal(t, 5, mappingRows, "one mapping row per class group")
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "a\\|b", escapeMarkdown("a|b"))
	assert.Equal(t, "plain", escapeMarkdown("plain"))
}
