package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amqcli/pkg/contracts/domain"
)

func TestDictionaryOneEntryPerColumn(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 10))
	panel := domain.NewPanel(dates, []string{"SPX Index", "MYSTERY", "EMPTYCOL"})
	for i := range panel.Cells {
		panel.Cells[i][0] = 100 + float64(2*i)
		panel.Cells[i][1] = 50
		// EMPTYCOL stays NaN throughout
	}

	builder := NewDictionaryBuilder(nil, nil)
	dict := builder.Build(panel, nil, "panel.xlsx")

	require.Len(t, dict.Entries, 3, "one entry per column, always")
	assert.Equal(t, 3, dict.RowCount)
	assert.Equal(t, 3, dict.ColumnCount)
	assert.Equal(t, "panel.xlsx", dict.SourceFile)
	assert.False(t, dict.GeneratedAt.IsZero())

	spx, ok := dict.EntryFor("SPX Index")
	require.True(t, ok)
	assert.Equal(t, domain.AssetClassDevelopedEquity, spx.AssetClass)
	assert.Equal(t, domain.RiskBucketEquities, spx.RiskBucket)
	assert.Equal(t, "float64", spx.DataType)
	assert.Equal(t, 3, spx.NonNullCount)
	assert.Equal(t, 0.0, spx.MissingPct)

	mystery, ok := dict.EntryFor("MYSTERY")
	require.True(t, ok)
	assert.Equal(t, domain.AssetClassUnknown, mystery.AssetClass)
	assert.Equal(t, "Unknown", mystery.Currency)
	assert.Equal(t, 3, mystery.NonNullCount)

	empty, ok := dict.EntryFor("EMPTYCOL")
	require.True(t, ok)
	assert.Equal(t, 0, empty.NonNullCount)
	assert.Equal(t, 100.0, empty.MissingPct)
	assert.Nil(t, empty.StartDate)
	assert.Nil(t, empty.EndDate)
	assert.Equal(t, 0.0, empty.Price.Mean, "no observations, no statistics")
}

func TestDictionaryPriceStats(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 10))
	panel := domain.NewPanel(dates, []string{"SPX Index"})
	panel.Cells[0][0] = 100
	panel.Cells[1][0] = 102
	panel.Cells[2][0] = 104

	builder := NewDictionaryBuilder(nil, nil)
	dict := builder.Build(panel, nil, "panel.xlsx")

	entry, ok := dict.EntryFor("SPX Index")
	require.True(t, ok)

	assert.InDelta(t, 102.0, entry.Price.Mean, 1e-9)
	assert.InDelta(t, 2.0, entry.Price.Std, 1e-9, "sample standard deviation")
	assert.Equal(t, 100.0, entry.Price.Min)
	assert.Equal(t, 104.0, entry.Price.Max)
	assert.Equal(t, 104.0, entry.Price.Last)

	require.NotNil(t, entry.StartDate)
	require.NotNil(t, entry.EndDate)
	assert.Equal(t, dates[0], *entry.StartDate)
	assert.Equal(t, dates[2], *entry.EndDate)
}

func TestDictionaryObservedRangeSkipsLeadingGap(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 11))
	panel := domain.NewPanel(dates, []string{"GOLDS Index"})
	panel.Cells[2][0] = 2000
	panel.Cells[3][0] = 2004

	builder := NewDictionaryBuilder(nil, nil)
	dict := builder.Build(panel, nil, "panel.xlsx")

	entry, ok := dict.EntryFor("GOLDS Index")
	require.True(t, ok)
	assert.Equal(t, dates[2], *entry.StartDate)
	assert.Equal(t, dates[3], *entry.EndDate)
	assert.Equal(t, 2, entry.NonNullCount)
	assert.InDelta(t, 50.0, entry.MissingPct, 1e-9)
}

func TestDictionaryReturnStats(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 11))
	panel := domain.NewPanel(dates, []string{"SPX Index"})
	for i := range panel.Cells {
		panel.Cells[i][0] = 100 + float64(i)
	}

	returnDates := dates[1:]
	returns := domain.NewPanel(returnDates, []string{"SPX Index"})
	returns.Cells[0][0] = 0.01
	returns.Cells[1][0] = 0.02
	returns.Cells[2][0] = 0.03

	builder := NewDictionaryBuilder(nil, nil)
	dict := builder.Build(panel, returns, "panel.xlsx")

	entry, ok := dict.EntryFor("SPX Index")
	require.True(t, ok)

	assert.Equal(t, 3, entry.DailyReturn.Count)
	assert.InDelta(t, 0.02, entry.DailyReturn.Mean, 1e-12)
	assert.InDelta(t, 0.01, entry.DailyReturn.Std, 1e-12)
	assert.Equal(t, 0.01, entry.DailyReturn.Min)
	assert.Equal(t, 0.03, entry.DailyReturn.Max)
	assert.InDelta(t, 0.0, entry.DailyReturn.Skewness, 1e-9, "symmetric sample")
	assert.InDelta(t, 0.01*math.Sqrt(252), entry.DailyReturn.AnnualizedVol, 1e-12)
}

func TestDictionaryWithoutReturnsPanel(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 9))
	panel := domain.NewPanel(dates, []string{"SPX Index"})
	panel.Cells[0][0] = 100
	panel.Cells[1][0] = 101

	builder := NewDictionaryBuilder(nil, nil)
	dict := builder.Build(panel, nil, "panel.xlsx")

	entry, ok := dict.EntryFor("SPX Index")
	require.True(t, ok)
	assert.Equal(t, domain.ReturnStats{}, entry.DailyReturn)
}
