package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amqcli/pkg/contracts/domain"
)

func TestDailyReturns(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 10))
	panel := domain.NewPanel(dates, []string{"SPX Index"})
	panel.Cells[0][0] = 100
	panel.Cells[1][0] = 102
	panel.Cells[2][0] = 96.9

	returns := DailyReturns(panel)

	require.Equal(t, 2, returns.NumRows(), "first row has no prior observation")
	assert.Equal(t, dates[1:], returns.Dates)
	values, _ := returns.Column("SPX Index")
	assert.InDelta(t, 0.02, values[0], 1e-12)
	assert.InDelta(t, -0.05, values[1], 1e-12)
}

func TestDailyReturnsDropRowsWithLeadingGaps(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 11))
	panel := domain.NewPanel(dates, []string{"SPX Index", "GOLDS Index"})
	// GOLDS starts two days late, as after a forward fill with a
	// leading gap
	panel.Cells[0][0] = 100
	panel.Cells[1][0] = 101
	panel.Cells[2][0] = 102
	panel.Cells[3][0] = 103
	panel.Cells[2][1] = 2000
	panel.Cells[3][1] = 2010

	returns := DailyReturns(panel)

	// Only the final row has a valid return for every column
	require.Equal(t, 1, returns.NumRows())
	assert.Equal(t, dates[3], returns.Dates[0])
	gold, _ := returns.Column("GOLDS Index")
	assert.InDelta(t, 0.005, gold[0], 1e-12)
}

func TestDailyReturnsFlatSeriesIsZero(t *testing.T) {
	dates := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 10))
	panel := domain.NewPanel(dates, []string{"SPX Index"})
	for i := range panel.Cells {
		panel.Cells[i][0] = 100
	}

	returns := DailyReturns(panel)
	values, _ := returns.Column("SPX Index")
	for _, v := range values {
		assert.Equal(t, 0.0, v, "forward-filled holidays yield zero returns")
	}
}

func TestMonthlyReturns(t *testing.T) {
	// Span three months; the last observation of each month drives the
	// return.
	var dates []time.Time
	dates = append(dates, BusinessDayRange(day(2024, time.January, 29), day(2024, time.January, 31))...)
	dates = append(dates, BusinessDayRange(day(2024, time.February, 27), day(2024, time.February, 29))...)
	dates = append(dates, BusinessDayRange(day(2024, time.March, 27), day(2024, time.March, 29))...)

	panel := domain.NewPanel(dates, []string{"SPX Index"})
	for i := range panel.Cells {
		panel.Cells[i][0] = 100 + float64(i)
	}
	// Last observations: Jan 31 -> 102, Feb 29 -> 105, Mar 29 -> 108

	returns := MonthlyReturns(panel)

	require.Equal(t, 2, returns.NumRows())
	assert.Equal(t, day(2024, time.February, 29), returns.Dates[0])
	assert.Equal(t, day(2024, time.March, 31), returns.Dates[1], "labels are calendar month ends")

	values, _ := returns.Column("SPX Index")
	assert.InDelta(t, (105.0-102.0)/102.0, values[0], 1e-12)
	assert.InDelta(t, (108.0-105.0)/105.0, values[1], 1e-12)
}

func TestMonthlyReturnsSkipsAllMissingMonths(t *testing.T) {
	var dates []time.Time
	dates = append(dates, day(2024, time.January, 31))
	dates = append(dates, day(2024, time.February, 29))
	dates = append(dates, day(2024, time.March, 29))

	panel := domain.NewPanel(dates, []string{"SPX Index"})
	panel.Cells[0][0] = 100
	// February has no observation at all
	panel.Cells[2][0] = 110

	returns := MonthlyReturns(panel)

	// February's last observation is missing, so both the Feb and Mar
	// returns have a NaN side and drop out.
	assert.Equal(t, 0, returns.NumRows())
}

func TestReturnsOnEmptyPanel(t *testing.T) {
	empty := &domain.Panel{Columns: []string{"SPX Index"}}

	daily := DailyReturns(empty)
	assert.Equal(t, 0, daily.NumRows())
	assert.Equal(t, []string{"SPX Index"}, daily.Columns)

	monthly := MonthlyReturns(empty)
	assert.Equal(t, 0, monthly.NumRows())
}

func TestPctChange(t *testing.T) {
	assert.InDelta(t, 0.5, pctChange(2, 3), 1e-12)
	assert.InDelta(t, -0.5, pctChange(2, 1), 1e-12)
	assert.True(t, math.IsNaN(pctChange(math.NaN(), 1)))
	assert.True(t, math.IsNaN(pctChange(1, math.NaN())))
	assert.True(t, math.IsInf(pctChange(0, 1), 1), "zero base follows IEEE division")
}
