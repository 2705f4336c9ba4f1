package datatable

import (
	"github.com/go-kit/log"
)

// Workframe is the context of a single row selection: the frame rows are
// selected from, and the row index accumulated by the selectors applied so
// far. A Workframe must not be shared by concurrent resolutions.
type Workframe struct {
	frame    *Frame
	nrows    int
	rowindex RowIndex
	logger   log.Logger
}

// NewWorkframe returns a workframe selecting all the rows of frame.
func NewWorkframe(frame *Frame, logger log.Logger) *Workframe {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	wf := &Workframe{frame: frame, logger: logger}
	if frame != nil {
		wf.nrows = frame.NRows()
	}
	return wf
}

func (wf *Workframe) Frame() *Frame      { return wf.frame }
func (wf *Workframe) NRows() int         { return wf.nrows }
func (wf *Workframe) RowIndex() RowIndex { return wf.rowindex }
func (wf *Workframe) Logger() log.Logger { return wf.logger }

// ApplyRowIndex narrows the selection of wf to the rows selected by ri among
// those currently selected.
func (wf *Workframe) ApplyRowIndex(ri RowIndex) {
	wf.rowindex = wf.rowindex.Compose(ri)
}
