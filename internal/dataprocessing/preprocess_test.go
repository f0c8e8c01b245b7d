package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amqcli/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{"iso", "2024-01-15", day(2024, time.January, 15), true},
		{"iso with time", "2024-01-15 00:00:00", day(2024, time.January, 15), true},
		{"us slash", "01/15/2024", day(2024, time.January, 15), true},
		{"us slash short", "1/15/24", day(2024, time.January, 15), true},
		{"month name", "15-Jan-24", day(2024, time.January, 15), true},
		{"compact", "20240115", day(2024, time.January, 15), true},
		{"excel serial", "45306", day(2024, time.January, 15), true},
		{"padded", "  2024-01-15  ", day(2024, time.January, 15), true},
		{"empty", "", time.Time{}, false},
		{"junk", "not-a-date", time.Time{}, false},
		{"implausible serial", "7", time.Time{}, false},
		{"price-like number", "4742.83", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if !tt.want.IsZero() {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
		isNaN bool
	}{
		{"plain", "123.45", 123.45, false},
		{"negative", "-0.5", -0.5, false},
		{"thousands separators", "1,234,567.89", 1234567.89, false},
		{"padded", " 42 ", 42, false},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"bloomberg na", "#N/A", 0, true},
		{"bloomberg na na", "#N/A N/A", 0, true},
		{"plain na", "N/A", 0, true},
		{"lowercase nan", "nan", 0, true},
		{"null", "NULL", 0, true},
		{"junk", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCell(tt.value)
			if tt.isNaN {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBusinessDayRange(t *testing.T) {
	// Mon 2024-01-08 through Mon 2024-01-15: weekend 13th/14th excluded
	days := BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 15))

	require.Len(t, days, 6)
	assert.Equal(t, day(2024, time.January, 8), days[0])
	assert.Equal(t, day(2024, time.January, 12), days[4])
	assert.Equal(t, day(2024, time.January, 15), days[5])
	for _, d := range days {
		assert.True(t, IsBusinessDay(d))
	}
}

func TestPreprocessGapFill(t *testing.T) {
	// Ten business days with three interior gaps in one column: after
	// normalization the calendar is contiguous and forward fill leaves
	// zero missing cells.
	raw := &domain.RawPanel{
		Columns: []string{"SPX Index", "GOLDS Index"},
		Index: []string{
			"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12",
			"2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18", "2024-01-19",
		},
		Rows: [][]string{
			{"100", "2000"},
			{"101", ""},
			{"102", "2002"},
			{"103", "#N/A"},
			{"104", "2004"},
			{"105", "2005"},
			{"106", ""},
			{"107", "2007"},
			{"108", "2008"},
			{"109", "2009"},
		},
	}

	pre := NewPreprocessor(nil)
	panel, report, err := pre.Preprocess(raw)
	require.NoError(t, err)

	require.Equal(t, 10, panel.NumRows())
	for i := 1; i < panel.NumRows(); i++ {
		assert.True(t, panel.Dates[i].After(panel.Dates[i-1]), "dates strictly increasing")
	}
	for _, d := range panel.Dates {
		assert.True(t, IsBusinessDay(d))
	}

	assert.Equal(t, 0, report.MissingCells)
	assert.False(t, report.HasResidualGaps())

	gold, ok := panel.Column("GOLDS Index")
	require.True(t, ok)
	assert.Equal(t, 2000.0, gold[1], "gap filled from prior observation")
	assert.Equal(t, 2002.0, gold[3])
	assert.Equal(t, 2005.0, gold[6])
}

func TestPreprocessCalendarInsertsMissingDays(t *testing.T) {
	// Wed 2024-01-10 absent from the input: the calendar still contains
	// it, forward-filled from Tuesday.
	raw := &domain.RawPanel{
		Columns: []string{"SPX Index"},
		Index:   []string{"2024-01-09", "2024-01-11"},
		Rows:    [][]string{{"101"}, {"103"}},
	}

	pre := NewPreprocessor(nil)
	panel, _, err := pre.Preprocess(raw)
	require.NoError(t, err)

	require.Equal(t, 3, panel.NumRows())
	assert.Equal(t, day(2024, time.January, 10), panel.Dates[1])
	values, _ := panel.Column("SPX Index")
	assert.Equal(t, []float64{101, 101, 103}, values)
}

func TestPreprocessLeadingGapReported(t *testing.T) {
	raw := &domain.RawPanel{
		Columns: []string{"SPX Index", "GOLDS Index"},
		Index:   []string{"2024-01-08", "2024-01-09", "2024-01-10"},
		Rows: [][]string{
			{"100", ""},
			{"101", ""},
			{"102", "2002"},
		},
	}

	pre := NewPreprocessor(nil)
	panel, report, err := pre.Preprocess(raw)
	require.NoError(t, err)

	gold, _ := panel.Column("GOLDS Index")
	assert.True(t, math.IsNaN(gold[0]), "no prior observation to fill from")
	assert.True(t, math.IsNaN(gold[1]))
	assert.Equal(t, 2002.0, gold[2])

	assert.Equal(t, 2, report.MissingCells)
	require.Len(t, report.Columns, 2)
	assert.Equal(t, 0, report.Columns[0].Missing)
	assert.Equal(t, 2, report.Columns[1].Missing)
	assert.InDelta(t, 100.0*2/3, report.Columns[1].MissingPct, 1e-9)
}

func TestPreprocessWeekendObservationsDropped(t *testing.T) {
	raw := &domain.RawPanel{
		Columns: []string{"SPX Index"},
		// Saturday the 13th between two weekday observations
		Index: []string{"2024-01-12", "2024-01-13", "2024-01-15"},
		Rows:  [][]string{{"104"}, {"999"}, {"105"}},
	}

	pre := NewPreprocessor(nil)
	panel, _, err := pre.Preprocess(raw)
	require.NoError(t, err)

	require.Equal(t, 2, panel.NumRows())
	values, _ := panel.Column("SPX Index")
	assert.Equal(t, []float64{104, 105}, values)
}

func TestPreprocessSortsOutOfOrderDates(t *testing.T) {
	raw := &domain.RawPanel{
		Columns: []string{"SPX Index"},
		Index:   []string{"2024-01-10", "2024-01-08", "2024-01-09"},
		Rows:    [][]string{{"102"}, {"100"}, {"101"}},
	}

	pre := NewPreprocessor(nil)
	panel, _, err := pre.Preprocess(raw)
	require.NoError(t, err)

	values, _ := panel.Column("SPX Index")
	assert.Equal(t, []float64{100, 101, 102}, values)
}

func TestPreprocessDateCoercionFailures(t *testing.T) {
	tests := []struct {
		name  string
		index []string
	}{
		{"unparseable cell", []string{"2024-01-08", "garbage"}},
		{"duplicate dates", []string{"2024-01-08", "2024-01-08"}},
		{"empty cell", []string{"2024-01-08", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawPanel{
				Columns: []string{"SPX Index"},
				Index:   tt.index,
				Rows:    make([][]string, len(tt.index)),
			}
			for i := range raw.Rows {
				raw.Rows[i] = []string{"100"}
			}

			pre := NewPreprocessor(nil)
			_, _, err := pre.Preprocess(raw)

			var cerr *DateCoercionError
			require.ErrorAs(t, err, &cerr)
		})
	}
}

func TestPreprocessEmptyPanel(t *testing.T) {
	pre := NewPreprocessor(nil)
	_, _, err := pre.Preprocess(&domain.RawPanel{})

	var empty *EmptyPanelError
	require.ErrorAs(t, err, &empty)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := &domain.RawPanel{
		Columns: []string{"SPX Index", "GOLDS Index"},
		Index:   []string{"2024-01-08", "2024-01-10", "2024-01-15"},
		Rows: [][]string{
			{"100", ""},
			{"", "2002"},
			{"105", "2005"},
		},
	}

	pre := NewPreprocessor(nil)
	once, reportOnce, err := pre.Preprocess(raw)
	require.NoError(t, err)

	twice, reportTwice, err := pre.Normalize(once)
	require.NoError(t, err)

	require.Equal(t, once.Dates, twice.Dates)
	require.Equal(t, once.Columns, twice.Columns)
	for i := range once.Cells {
		for j := range once.Cells[i] {
			a, b := once.Cells[i][j], twice.Cells[i][j]
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b), "cell %d,%d", i, j)
			} else {
				assert.Equal(t, a, b, "cell %d,%d", i, j)
			}
		}
	}
	assert.Equal(t, reportOnce, reportTwice)
}

func TestMissingnessAlwaysProduced(t *testing.T) {
	panel := domain.NewPanel(
		BusinessDayRange(day(2024, time.January, 8), day(2024, time.January, 9)),
		[]string{"SPX Index"})
	panel.Cells[0][0] = 100
	panel.Cells[1][0] = 101

	report := Missingness(panel)
	assert.Equal(t, 2, report.TotalCells)
	assert.Equal(t, 0, report.MissingCells)
	require.Len(t, report.Columns, 1)
	assert.Equal(t, 2, report.Columns[0].NonNull)
	assert.Equal(t, 0.0, report.Columns[0].MissingPct)
}
