package domain

import (
	"math"
	"time"
)

// RawPanel holds sheet data exactly as read from the workbook: the date
// index and every value cell kept as strings. Nothing is coerced at this
// stage so that structural problems surface before numeric ones.
type RawPanel struct {
	Index   []string   `json:"index"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// IsEmpty reports whether the panel carries no usable observations
func (p *RawPanel) IsEmpty() bool {
	return p == nil || len(p.Rows) == 0 || len(p.Columns) == 0
}

// Panel is a normalized time-series panel: one row per business day, one
// column per instrument, cells in row-major order. Missing observations
// are NaN, never zero.
type Panel struct {
	Dates   []time.Time `json:"dates"`
	Columns []string    `json:"columns"`
	Cells   [][]float64 `json:"cells"`
}

// NewPanel allocates a panel of the given shape with every cell set to NaN
func NewPanel(dates []time.Time, columns []string) *Panel {
	cells := make([][]float64, len(dates))
	for i := range cells {
		row := make([]float64, len(columns))
		for j := range row {
			row[j] = math.NaN()
		}
		cells[i] = row
	}
	return &Panel{Dates: dates, Columns: columns, Cells: cells}
}

// NumRows returns the number of date rows
func (p *Panel) NumRows() int {
	if p == nil {
		return 0
	}
	return len(p.Dates)
}

// NumColumns returns the number of instrument columns
func (p *Panel) NumColumns() int {
	if p == nil {
		return 0
	}
	return len(p.Columns)
}

// ColumnIndex returns the position of the named column, or -1 if absent
func (p *Panel) ColumnIndex(name string) int {
	for j, col := range p.Columns {
		if col == name {
			return j
		}
	}
	return -1
}

// Column returns a copy of the named column's values in date order
func (p *Panel) Column(name string) ([]float64, bool) {
	j := p.ColumnIndex(name)
	if j < 0 {
		return nil, false
	}
	values := make([]float64, len(p.Cells))
	for i, row := range p.Cells {
		values[i] = row[j]
	}
	return values, true
}

// Clone returns a deep copy of the panel
func (p *Panel) Clone() *Panel {
	if p == nil {
		return nil
	}
	clone := &Panel{
		Dates:   make([]time.Time, len(p.Dates)),
		Columns: make([]string, len(p.Columns)),
		Cells:   make([][]float64, len(p.Cells)),
	}
	copy(clone.Dates, p.Dates)
	copy(clone.Columns, p.Columns)
	for i, row := range p.Cells {
		clone.Cells[i] = make([]float64, len(row))
		copy(clone.Cells[i], row)
	}
	return clone
}

// IsEmpty reports whether the panel carries no observations
func (p *Panel) IsEmpty() bool {
	return p == nil || len(p.Dates) == 0 || len(p.Columns) == 0
}

// SelectColumns returns a sub-panel restricted to the named columns,
// preserving both row order and the given column order. Unknown names
// are skipped.
func (p *Panel) SelectColumns(names []string) *Panel {
	var indices []int
	var kept []string
	for _, name := range names {
		if j := p.ColumnIndex(name); j >= 0 {
			indices = append(indices, j)
			kept = append(kept, name)
		}
	}

	sub := &Panel{
		Dates:   make([]time.Time, len(p.Dates)),
		Columns: kept,
		Cells:   make([][]float64, len(p.Cells)),
	}
	copy(sub.Dates, p.Dates)
	for i, row := range p.Cells {
		subRow := make([]float64, len(indices))
		for k, j := range indices {
			subRow[k] = row[j]
		}
		sub.Cells[i] = subRow
	}
	return sub
}

// MissingnessReport summarizes residual gaps in a panel after filling
type MissingnessReport struct {
	TotalCells   int                  `json:"total_cells"`
	MissingCells int                  `json:"missing_cells"`
	Columns      []ColumnMissingness  `json:"columns"`
}

// ColumnMissingness gives per-column residual gap counts
type ColumnMissingness struct {
	Column     string  `json:"column"`
	NonNull    int     `json:"non_null"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
}

// HasResidualGaps reports whether any cell is still missing
func (r MissingnessReport) HasResidualGaps() bool {
	return r.MissingCells > 0
}

// ClassifiedPartition groups a panel's columns by asset class. Order
// follows the taxonomy's class order; column order within each class
// follows the source panel. Columns matching no taxonomy entry appear
// only in Unclassified.
type ClassifiedPartition struct {
	Order        []AssetClass          `json:"order"`
	Panels       map[AssetClass]*Panel `json:"-"`
	Unclassified []string              `json:"unclassified,omitempty"`
}

// ClassifiedColumns returns the total number of columns across all classes
func (p *ClassifiedPartition) ClassifiedColumns() int {
	var n int
	for _, panel := range p.Panels {
		n += panel.NumColumns()
	}
	return n
}
