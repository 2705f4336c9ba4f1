package datatable

import (
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Frame is a table of named columns sharing the same number of rows.
type Frame struct {
	names   []string
	columns []Column
	nrows   int
}

// NewFrame creates a frame from columns. The frame takes ownership of the
// column handles. When names is nil the columns are named C0, C1, ...
func NewFrame(names []string, columns ...Column) (*Frame, error) {
	if names == nil {
		names = make([]string, len(columns))
		for i := range names {
			names[i] = "C" + strconv.Itoa(i)
		}
	}
	if len(names) != len(columns) {
		return nil, fmt.Errorf("frame of %d columns cannot have %d names", len(columns), len(names))
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		seen[name] = struct{}{}
	}

	nrows := 0
	for i, c := range columns {
		if c.IsZero() {
			return nil, fmt.Errorf("column %q is empty", names[i])
		}
		if i == 0 {
			nrows = c.NRows()
		} else if c.NRows() != nrows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", names[i], c.NRows(), nrows)
		}
	}

	return &Frame{
		names:   append([]string(nil), names...),
		columns: append([]Column(nil), columns...),
		nrows:   nrows,
	}, nil
}

func (f *Frame) NRows() int          { return f.nrows }
func (f *Frame) NCols() int          { return len(f.columns) }
func (f *Frame) Names() []string     { return f.names }
func (f *Frame) Column(i int) Column { return f.columns[i] }

// ColumnByName returns the column named name.
func (f *Frame) ColumnByName(name string) (Column, bool) {
	for i, n := range f.names {
		if n == name {
			return f.columns[i], true
		}
	}
	return Column{}, false
}

// Clone returns a frame sharing the columns of f.
func (f *Frame) Clone() *Frame {
	columns := make([]Column, len(f.columns))
	for i, c := range f.columns {
		columns[i] = c.Clone()
	}
	return &Frame{names: f.names, columns: columns, nrows: f.nrows}
}

// ApplyRowIndex returns a new frame holding the rows of f selected by ri.
func (f *Frame) ApplyRowIndex(ri RowIndex) *Frame {
	out := f.Clone()
	for i := range out.columns {
		out.columns[i].ApplyRowIndex(ri)
	}
	out.nrows = ri.Size(f.nrows)
	return out
}

// Select resolves the row selector value against f and returns the frame of
// the selected rows.
func (f *Frame) Select(value any, options ...Option) (*Frame, error) {
	ri, err := ResolveSelector(value, f, options...)
	if err != nil {
		return nil, err
	}
	return f.ApplyRowIndex(ri), nil
}

// Materialize materializes every column of f, concurrently when the
// configured parallelism allows it. Columns which do not allow parallel
// access may share state with each other, for example two views of one
// compressed column, so they are materialized one after the other.
func (f *Frame) Materialize(toMemory bool, options ...Option) error {
	config, err := newConfig(options...)
	if err != nil {
		return err
	}

	materialize := func(i int) error {
		if err := f.columns[i].materialize(toMemory, config); err != nil {
			return fmt.Errorf("column %q: %w", f.names[i], err)
		}
		return nil
	}

	var group errgroup.Group
	group.SetLimit(config.Parallelism)

	var serial []int
	for i := range f.columns {
		if !f.columns[i].AllowParallelAccess() {
			serial = append(serial, i)
			continue
		}
		i := i
		group.Go(func() error { return materialize(i) })
	}
	if len(serial) > 0 {
		group.Go(func() error {
			for _, i := range serial {
				if err := materialize(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return group.Wait()
}

// Release releases the columns of f.
func (f *Frame) Release() {
	for i := range f.columns {
		f.columns[i].Release()
	}
}
