package dataprocessing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"amqcli/internal/config"
	"amqcli/internal/taxonomy"
)

// writeWorkbook builds a fixture workbook honoring the layout contract:
// headers at row offset 3, data body at offset 7.
func writeWorkbook(t *testing.T, path string, headers []string, dataRows [][]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for j, h := range headers {
		cell, err := excelize.CoordinatesToCellName(j+1, config.HeaderRowOffset+1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for i, row := range dataRows {
		for j, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, config.DataRowOffset+i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadSaneHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.xlsx")
	writeWorkbook(t, path,
		[]string{"Date", "SPX Index", "GOLDS Index"},
		[][]string{
			{"2024-01-02", "4742.83", "2064.40"},
			{"2024-01-03", "4704.81", "2041.50"},
		})

	reader := NewReader(nil, nil)
	panel, report, err := reader.Read(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"SPX Index", "GOLDS Index"}, panel.Columns)
	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, panel.Index)
	require.Len(t, panel.Rows, 2)
	assert.Equal(t, []string{"4742.83", "2064.40"}, panel.Rows[0])

	assert.False(t, report.HeadersSynthesized)
	assert.Empty(t, report.HeaderAdjustment)
	assert.Equal(t, 2, report.DataRows)
	assert.Equal(t, 2, report.DataColumns)
	// Most registered tickers are absent from this small sheet
	assert.True(t, report.StructurallySuspect)
	assert.Contains(t, report.MissingTickers, "NKY Index")
	assert.NotContains(t, report.MissingTickers, "SPX Index")
}

func TestReadBlankFirstHeader(t *testing.T) {
	// Blank first cell resolves to the date label; the rest pass
	// through, classified or not.
	path := filepath.Join(t.TempDir(), "panel.xlsx")
	writeWorkbook(t, path,
		[]string{"", "SPX Index", "BADHEADER"},
		[][]string{
			{"2024-01-02", "4742.83", "1.0"},
			{"2024-01-03", "4704.81", "2.0"},
		})

	reader := NewReader(nil, nil)
	panel, report, err := reader.Read(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "SPX Index", "BADHEADER"}, report.ResolvedHeaders)
	assert.False(t, report.HeadersSynthesized)
	assert.Equal(t, []string{"SPX Index", "BADHEADER"}, panel.Columns)

	classifier := taxonomy.NewClassifier(nil, nil)
	assert.True(t, classifier.Classify("SPX Index").IsClassified())
	_, unclassified := classifier.PartitionColumns(panel.Columns)
	assert.Equal(t, []string{"BADHEADER"}, unclassified)
}

func TestReadPlaceholderHeadersSynthesized(t *testing.T) {
	// A "Last Price" row in place of tickers forces synthesis from the
	// taxonomy's registry order.
	path := filepath.Join(t.TempDir(), "panel.xlsx")
	writeWorkbook(t, path,
		[]string{"Date", "Last Price", "Last Price"},
		[][]string{
			{"2024-01-02", "100.0", "200.0"},
			{"2024-01-03", "101.0", "201.0"},
		})

	reader := NewReader(nil, nil)
	panel, report, err := reader.Read(path, "")
	require.NoError(t, err)

	assert.True(t, report.HeadersSynthesized)
	assert.Equal(t, []string{"MXAP Index", "MXAPJ Index"}, panel.Columns)
	assert.Equal(t, []string{"Date", "MXAP Index", "MXAPJ Index"}, report.ResolvedHeaders)
}

func TestReadNAHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.xlsx")
	writeWorkbook(t, path,
		[]string{"Date", "#N/A Invalid Security", "GOLDS Index"},
		[][]string{
			{"2024-01-02", "1.0", "2064.40"},
		})

	reader := NewReader(nil, nil)
	panel, report, err := reader.Read(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"NA_Column_2", "GOLDS Index"}, panel.Columns)
	assert.False(t, report.HeadersSynthesized)
}

func TestReadHeaderCountMismatch(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		dataRow    []string
		adjustment string
		resolved   []string
	}{
		{
			name:       "fewer headers than data columns",
			headers:    []string{"Date", "SPX Index"},
			dataRow:    []string{"2024-01-02", "4742.83", "9.9"},
			adjustment: HeaderAdjustmentPadded,
			resolved:   []string{"Date", "SPX Index", "Column_3"},
		},
		{
			name:       "more headers than data columns",
			headers:    []string{"Date", "SPX Index", "GOLDS Index", "NKY Index"},
			dataRow:    []string{"2024-01-02", "4742.83"},
			adjustment: HeaderAdjustmentTruncated,
			resolved:   []string{"Date", "SPX Index"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "panel.xlsx")
			writeWorkbook(t, path, tt.headers, [][]string{tt.dataRow})

			reader := NewReader(nil, nil)
			_, report, err := reader.Read(path, "")
			require.NoError(t, err)

			assert.Equal(t, tt.adjustment, report.HeaderAdjustment)
			assert.Equal(t, tt.resolved, report.ResolvedHeaders)
		})
	}
}

func TestReadStructuralFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		reader := NewReader(nil, nil)
		_, _, err := reader.Read(filepath.Join(t.TempDir(), "absent.xlsx"), "")

		var serr *StructuralError
		require.ErrorAs(t, err, &serr)
		assert.Contains(t, serr.Reason, "cannot open")
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "panel.xlsx")
		writeWorkbook(t, path, []string{"Date", "SPX Index"}, [][]string{{"2024-01-02", "1.0"}})

		reader := NewReader(nil, nil)
		_, _, err := reader.Read(path, "NoSuchSheet")

		var serr *StructuralError
		require.ErrorAs(t, err, &serr)
	})

	t.Run("no header row at offset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "panel.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SetCellValue(f.GetSheetName(0), "A1", "just a title"))
		require.NoError(t, f.SaveAs(path))
		f.Close()

		reader := NewReader(nil, nil)
		_, _, err := reader.Read(path, "")

		var serr *StructuralError
		require.ErrorAs(t, err, &serr)
		assert.Contains(t, serr.Reason, "header row")
	})

	t.Run("headers but no data body", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "panel.xlsx")
		writeWorkbook(t, path, []string{"Date", "SPX Index"}, nil)

		reader := NewReader(nil, nil)
		_, _, err := reader.Read(path, "")

		var empty *EmptyPanelError
		require.ErrorAs(t, err, &empty)
	})
}

func TestCleanHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "blank first cell becomes date label",
			raw:  []string{"", "SPX Index"},
			want: []string{"Date", "SPX Index"},
		},
		{
			name: "whitespace first cell becomes date label",
			raw:  []string{"   ", "SPX Index"},
			want: []string{"Date", "SPX Index"},
		},
		{
			name: "unnamed artifact becomes date label",
			raw:  []string{"Unnamed: 0", "SPX Index"},
			want: []string{"Date", "SPX Index"},
		},
		{
			name: "blank middle cell gets positional name",
			raw:  []string{"Date", "", "GOLDS Index"},
			want: []string{"Date", "Column_2", "GOLDS Index"},
		},
		{
			name: "bloomberg NA artifact",
			raw:  []string{"Date", "#N/A Invalid Security", "#N/A"},
			want: []string{"Date", "NA_Column_2", "NA_Column_3"},
		},
		{
			name: "clean headers pass through untouched",
			raw:  []string{"Date", "SPX Index", " NKY Index"},
			want: []string{"Date", "SPX Index", " NKY Index"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHeaders(tt.raw))
		})
	}
}

func TestHeadersLookSane(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    bool
	}{
		{"date first and tickers", []string{"Date", "SPX Index"}, true},
		{"empty list", nil, false},
		{"first cell not the date label", []string{"Timestamp", "SPX Index"}, false},
		{"last price placeholder present", []string{"Date", "Last Price"}, false},
		{"px_last placeholder present", []string{"Date", "PX_LAST"}, false},
		{"placeholder detection is case insensitive", []string{"Date", "LAST PRICE"}, false},
		{"unknown tickers are still sane", []string{"Date", "WHATEVER Index"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HeadersLookSane(tt.headers))
		})
	}
}

func TestSynthesizeHeaders(t *testing.T) {
	t.Run("width within ticker count", func(t *testing.T) {
		headers := SynthesizeHeaders(nil, 4)
		assert.Equal(t, []string{"Date", "MXAP Index", "MXAPJ Index", "MXAS Index"}, headers)
	})

	t.Run("overflow past registry", func(t *testing.T) {
		headers := SynthesizeHeaders(nil, 28)
		require.Len(t, headers, 28)
		assert.Equal(t, "Date", headers[0])
		assert.Equal(t, "GTUSDPH5Y Corp", headers[25], "last registered ticker")
		assert.Equal(t, "Column_27", headers[26])
		assert.Equal(t, "Column_28", headers[27])
	})
}

func TestAlignHeaderCount(t *testing.T) {
	headers := []string{"Date", "SPX Index"}

	padded, adj := alignHeaderCount(headers, 4)
	assert.Equal(t, HeaderAdjustmentPadded, adj)
	assert.Equal(t, []string{"Date", "SPX Index", "Column_3", "Column_4"}, padded)

	truncated, adj := alignHeaderCount(headers, 1)
	assert.Equal(t, HeaderAdjustmentTruncated, adj)
	assert.Equal(t, []string{"Date"}, truncated)

	same, adj := alignHeaderCount(headers, 2)
	assert.Empty(t, adj)
	assert.Equal(t, headers, same)
}

func TestReadNumericCellFormatting(t *testing.T) {
	// Numeric cells written as typed values come back as formatted
	// strings; ingestion must keep them verbatim for preprocessing.
	path := filepath.Join(t.TempDir(), "panel.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", config.HeaderRowOffset+1), "Date"))
	require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("B%d", config.HeaderRowOffset+1), "SPX Index"))
	require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", config.DataRowOffset+1), "2024-01-02"))
	require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("B%d", config.DataRowOffset+1), 4742.83))
	require.NoError(t, f.SaveAs(path))
	f.Close()

	reader := NewReader(nil, nil)
	panel, _, err := reader.Read(path, "")
	require.NoError(t, err)
	require.Len(t, panel.Rows, 1)
	assert.InDelta(t, 4742.83, ParseCell(panel.Rows[0][0]), 1e-9)
}
