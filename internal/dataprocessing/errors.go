package dataprocessing

import "fmt"

// StructuralError reports that a workbook's layout violates the
// fixed-offset contract: the file cannot be opened, the sheet is
// missing, or the header/body rows are not where the layout says they
// are. Structural errors are recoverable once via the repair path.
type StructuralError struct {
	Path   string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structural ingestion failure for %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("structural ingestion failure for %s: %s", e.Path, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// EmptyPanelError reports that ingestion succeeded structurally but
// produced a frame with no usable observations. Treated like a
// structural failure by the repair path.
type EmptyPanelError struct {
	Path string
}

func (e *EmptyPanelError) Error() string {
	return fmt.Sprintf("workbook %s produced an empty panel", e.Path)
}

// DateCoercionError reports an index cell that cannot be interpreted as
// a date. Fatal for the run: a panel with a broken calendar is never
// valid, and rebuilding headers cannot fix its dates, so the repair
// path does not retry these.
type DateCoercionError struct {
	Value string
	Row   int
	Err   error
}

func (e *DateCoercionError) Error() string {
	return fmt.Sprintf("cannot coerce index value %q at data row %d to a date", e.Value, e.Row)
}

func (e *DateCoercionError) Unwrap() error {
	return e.Err
}
