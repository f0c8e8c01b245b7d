package exporter

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amqcli/pkg/contracts/domain"
)

// assertCellsEqual compares cell grids treating NaN as equal to NaN
func assertCellsEqual(t *testing.T, expected, actual [][]float64) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.Len(t, actual[i], len(expected[i]))
		for j := range expected[i] {
			if math.IsNaN(expected[i][j]) {
				assert.True(t, math.IsNaN(actual[i][j]), "cell (%d,%d) should be NaN", i, j)
			} else {
				assert.Equal(t, expected[i][j], actual[i][j], "cell (%d,%d)", i, j)
			}
		}
	}
}

func TestPanelMsgpackRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.msgpack")
	panel := testPanel()

	require.NoError(t, WritePanelMsgpack(path, panel))

	loaded, err := ReadPanelMsgpack(path)
	require.NoError(t, err)

	assert.Equal(t, panel.Columns, loaded.Columns)
	require.Len(t, loaded.Dates, len(panel.Dates))
	for i, d := range panel.Dates {
		assert.True(t, d.Equal(loaded.Dates[i]), "date %d", i)
		assert.Equal(t, time.UTC, loaded.Dates[i].Location())
	}
	assertCellsEqual(t, panel.Cells, loaded.Cells)
}

func TestPanelMsgpackRoundTripEmptyPanel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.msgpack")
	panel := domain.NewPanel(nil, []string{"SPX Index"})

	require.NoError(t, WritePanelMsgpack(path, panel))

	loaded, err := ReadPanelMsgpack(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPX Index"}, loaded.Columns)
	assert.Empty(t, loaded.Dates)
	assert.Empty(t, loaded.Cells)
}

func TestReadPanelMsgpackMissingFile(t *testing.T) {
	_, err := ReadPanelMsgpack(filepath.Join(t.TempDir(), "absent.msgpack"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read panel msgpack")
}

func TestReadPanelMsgpackCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0644))

	_, err := ReadPanelMsgpack(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal panel msgpack")
}
