package dataset

// #region imports
import (
	"fmt"
)

// #endregion

// #region errors

// DataError reports a missing or misaligned column or index in a frame.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string {
	return "data error: " + e.Msg
}

func dataErrorf(format string, args ...any) *DataError {
	return &DataError{Msg: fmt.Sprintf(format, args...)}
}

// #endregion

// #region frame

// Frame is a column-labeled table of float64 values. Column order is fixed at
// construction; the search never mutates a frame after it is built.
type Frame struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// New builds a frame from ordered column names and their values.
// All columns must have equal length.
func New(names []string, cols map[string][]float64) (*Frame, error) {
	if len(names) == 0 {
		return nil, dataErrorf("frame needs at least one column")
	}
	rows := -1
	for _, name := range names {
		vals, ok := cols[name]
		if !ok {
			return nil, dataErrorf("column %q declared but not provided", name)
		}
		if rows == -1 {
			rows = len(vals)
		} else if len(vals) != rows {
			return nil, dataErrorf("column %q has %d rows, want %d", name, len(vals), rows)
		}
	}
	copied := make(map[string][]float64, len(names))
	for _, name := range names {
		c := make([]float64, rows)
		copy(c, cols[name])
		copied[name] = c
	}
	return &Frame{
		names: append([]string(nil), names...),
		cols:  copied,
		rows:  rows,
	}, nil
}

// #endregion

// #region accessors

// Columns returns the column names in declaration order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	return f.rows
}

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the values of one column.
func (f *Frame) Column(name string) ([]float64, error) {
	vals, ok := f.cols[name]
	if !ok {
		return nil, dataErrorf("column %q not in frame", name)
	}
	out := make([]float64, len(vals))
	copy(out, vals)
	return out, nil
}

// #endregion

// #region subsetting

// Select returns a new frame containing the given rows, in the given order.
func (f *Frame) Select(indices []int) (*Frame, error) {
	for _, i := range indices {
		if i < 0 || i >= f.rows {
			return nil, dataErrorf("row index %d out of range [0,%d)", i, f.rows)
		}
	}
	cols := make(map[string][]float64, len(f.names))
	for _, name := range f.names {
		src := f.cols[name]
		dst := make([]float64, len(indices))
		for j, i := range indices {
			dst[j] = src[i]
		}
		cols[name] = dst
	}
	return &Frame{
		names: append([]string(nil), f.names...),
		cols:  cols,
		rows:  len(indices),
	}, nil
}

// Drop returns a new frame without the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	skip := make(map[string]bool, len(names))
	for _, name := range names {
		if !f.Has(name) {
			return nil, dataErrorf("dropped column %q not in frame", name)
		}
		skip[name] = true
	}
	var kept []string
	for _, name := range f.names {
		if !skip[name] {
			kept = append(kept, name)
		}
	}
	if len(kept) == 0 {
		return nil, dataErrorf("no columns left after drop")
	}
	cols := make(map[string][]float64, len(kept))
	for _, name := range kept {
		cols[name] = f.cols[name]
	}
	return New(kept, cols)
}

// Matrix returns a row-major feature matrix over all columns except the
// excluded ones. Column order follows declaration order.
func (f *Frame) Matrix(exclude ...string) ([][]float64, error) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		if !f.Has(name) {
			return nil, dataErrorf("excluded column %q not in frame", name)
		}
		skip[name] = true
	}
	var kept []string
	for _, name := range f.names {
		if !skip[name] {
			kept = append(kept, name)
		}
	}
	if len(kept) == 0 {
		return nil, dataErrorf("no feature columns left after exclusions")
	}
	out := make([][]float64, f.rows)
	for i := range out {
		row := make([]float64, len(kept))
		for j, name := range kept {
			row[j] = f.cols[name][i]
		}
		out[i] = row
	}
	return out, nil
}

// #endregion
