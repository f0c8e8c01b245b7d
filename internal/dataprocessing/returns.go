package dataprocessing

import (
	"math"
	"time"

	"amqcli/pkg/contracts/domain"
)

// DailyReturns computes per-column percentage change between
// consecutive calendar rows. Rows containing any missing return are
// dropped, so the result starts once every column has two valid
// observations. Pure function of the input panel.
func DailyReturns(panel *domain.Panel) *domain.Panel {
	if panel.IsEmpty() {
		return &domain.Panel{Columns: append([]string(nil), panel.Columns...)}
	}

	returns := &domain.Panel{Columns: append([]string(nil), panel.Columns...)}
	for i := 1; i < panel.NumRows(); i++ {
		row := make([]float64, panel.NumColumns())
		valid := true
		for j := range row {
			row[j] = pctChange(panel.Cells[i-1][j], panel.Cells[i][j])
			if math.IsNaN(row[j]) {
				valid = false
			}
		}
		if !valid {
			continue
		}
		returns.Dates = append(returns.Dates, panel.Dates[i])
		returns.Cells = append(returns.Cells, row)
	}
	return returns
}

// MonthlyReturns resamples to the last valid observation per calendar
// month, labeled with the month-end date, then computes percentage
// change month over month. Rows with any missing return are dropped.
func MonthlyReturns(panel *domain.Panel) *domain.Panel {
	if panel.IsEmpty() {
		return &domain.Panel{Columns: append([]string(nil), panel.Columns...)}
	}

	type monthGroup struct {
		label time.Time
		last  []float64
	}
	var months []monthGroup
	byMonth := make(map[time.Time]int)
	for i, d := range panel.Dates {
		label := monthEnd(d)
		idx, ok := byMonth[label]
		if !ok {
			idx = len(months)
			byMonth[label] = idx
			last := make([]float64, panel.NumColumns())
			for j := range last {
				last[j] = math.NaN()
			}
			months = append(months, monthGroup{label: label, last: last})
		}
		for j, v := range panel.Cells[i] {
			if !math.IsNaN(v) {
				months[idx].last[j] = v
			}
		}
	}

	returns := &domain.Panel{Columns: append([]string(nil), panel.Columns...)}
	for i := 1; i < len(months); i++ {
		row := make([]float64, panel.NumColumns())
		valid := true
		for j := range row {
			row[j] = pctChange(months[i-1].last[j], months[i].last[j])
			if math.IsNaN(row[j]) {
				valid = false
			}
		}
		if !valid {
			continue
		}
		returns.Dates = append(returns.Dates, months[i].label)
		returns.Cells = append(returns.Cells, row)
	}
	return returns
}

// pctChange returns the fractional change from prev to curr. Either
// side missing yields NaN; a zero base follows IEEE division.
func pctChange(prev, curr float64) float64 {
	if math.IsNaN(prev) || math.IsNaN(curr) {
		return math.NaN()
	}
	return curr/prev - 1
}

// monthEnd returns the last calendar day of t's month
func monthEnd(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
