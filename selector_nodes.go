package datatable

import (
	"io"
	"strings"
)

type allRowsNode struct{}

func (allRowsNode) Kind() SelectorKind             { return AllRowsSelector }
func (allRowsNode) PostInitCheck(*Workframe) error { return nil }
func (allRowsNode) Execute(*Workframe) error       { return nil }

// oneRowNode selects a single row, negative rows counting from the end of
// the frame.
type oneRowNode struct {
	irow int64
}

func (n *oneRowNode) Kind() SelectorKind { return OneRowSelector }

func (n *oneRowNode) PostInitCheck(wf *Workframe) error {
	nrows := int64(wf.nrows)
	if n.irow < -nrows || n.irow >= nrows {
		return errorValue(OneRowSelector, n.irow, wf.nrows,
			"Row `%d` is invalid for a frame with %s", n.irow, pluralRows(nrows))
	}
	if n.irow < 0 {
		n.irow += nrows
	}
	return nil
}

func (n *oneRowNode) Execute(wf *Workframe) error {
	wf.ApplyRowIndex(NewArithmeticRowIndex(int(n.irow), 1, 1))
	return nil
}

// sliceNode selects rows with the semantics of Python slices: bounds are
// clipped to the rows of the frame.
type sliceNode struct {
	slice  Slice
	bounds sliceBounds
}

func newSliceNode(s Slice, b sliceBounds) (*sliceNode, error) {
	if b.isRepeat() && !b.validRepeat() {
		return nil, errorValue(SliceSelector, s, -1,
			"Invalid %s: when step is 0, both start and stop must be present, and stop must be non-negative", s)
	}
	return &sliceNode{slice: s, bounds: b}, nil
}

func (n *sliceNode) Kind() SelectorKind             { return SliceSelector }
func (n *sliceNode) PostInitCheck(*Workframe) error { return nil }

func (n *sliceNode) Execute(wf *Workframe) error {
	nrows := int64(wf.nrows)
	if n.bounds.isRepeat() {
		start := n.bounds.start
		if start < 0 {
			start += nrows
		}
		if start < 0 || start >= nrows || n.bounds.stop == 0 {
			wf.ApplyRowIndex(NewArithmeticRowIndex(0, 0, 1))
		} else {
			wf.ApplyRowIndex(NewArithmeticRowIndex(int(start), int(n.bounds.stop), 0))
		}
		return nil
	}
	start, count, step := normalizeSlice(nrows, n.bounds)
	wf.ApplyRowIndex(NewArithmeticRowIndex(int(start), int(count), int(step)))
	return nil
}

// rangeNode selects rows with the semantics of Python ranges: every row of
// the range must exist in the frame.
type rangeNode struct {
	r Range
}

func newRangeNode(r Range) (*rangeNode, error) {
	if r.Step == 0 {
		return nil, errorValue(RangeSelector, r, -1, "%s cannot have a zero step", r)
	}
	return &rangeNode{r: r}, nil
}

func (n *rangeNode) Kind() SelectorKind             { return RangeSelector }
func (n *rangeNode) PostInitCheck(*Workframe) error { return nil }

func (n *rangeNode) Execute(wf *Workframe) error {
	start, count, step, ok := normalizeRange(int64(wf.nrows), n.r)
	if !ok {
		return errorValue(RangeSelector, n.r, wf.nrows,
			"%s cannot be applied to a Frame with %s", n.r, pluralRows(int64(wf.nrows)))
	}
	wf.ApplyRowIndex(NewArithmeticRowIndex(int(start), int(count), int(step)))
	return nil
}

// exprNode selects the rows for which a boolean expression is true.
type exprNode struct {
	expr FilterExpr
}

func newExprNode(expr FilterExpr) *exprNode { return &exprNode{expr: expr} }

func (n *exprNode) Kind() SelectorKind             { return ExprSelector }
func (n *exprNode) PostInitCheck(*Workframe) error { return nil }

func (n *exprNode) Execute(wf *Workframe) error {
	if c, ok := n.expr.(io.Closer); ok {
		defer c.Close()
	}

	t, err := n.expr.Resolve(wf)
	if err != nil {
		return err
	}
	if t != Bool {
		return errorType(ExprSelector, n.expr,
			"Filter expression must be of `%s` type, instead it was of type %s", Bool, t)
	}

	col, err := n.expr.EvaluateEager(wf)
	if err != nil {
		return err
	}
	defer col.Release()

	if col.NRows() != wf.nrows {
		return errorValue(ExprSelector, n.expr, wf.nrows,
			"Filter expression produced %s, but applied to a Frame with %s",
			pluralRows(int64(col.NRows())), pluralRows(int64(wf.nrows)))
	}

	ri, err := RowIndexFromColumn(col)
	if err != nil {
		return err
	}
	wf.ApplyRowIndex(ri)
	return nil
}

// frameNode selects rows with a single-column frame, used either as a
// boolean mask or as a list of row numbers where -1 produces a missing row.
type frameNode struct {
	frame *Frame
	// owned is true when the frame was created for the node, in which case
	// it is released after execution.
	owned bool
}

func newFrameNode(f *Frame) (*frameNode, error) {
	if f == nil {
		return nil, errorType(FrameSelector, f, "A nil Frame cannot be used as `i` selector")
	}
	if f.NCols() != 1 {
		return nil, errorValue(FrameSelector, f, f.NRows(),
			"Only a single-column Frame may be used as `i` selector, instead got a Frame with %d columns", f.NCols())
	}
	if t := f.Column(0).Type(); t != Bool && !t.IsInteger() {
		return nil, errorType(FrameSelector, f,
			"A Frame which is used as an `i` selector should be either boolean or integer, instead got `%s`", t)
	}
	return &frameNode{frame: f}, nil
}

func (n *frameNode) Kind() SelectorKind { return FrameSelector }

func (n *frameNode) PostInitCheck(wf *Workframe) error {
	col := n.frame.Column(0)
	nrows := wf.nrows

	if col.Type() == Bool {
		if col.NRows() != nrows {
			n.release()
			return errorValue(FrameSelector, n.frame, nrows,
				"A boolean column used as `i` selector has %s, but applied to a Frame with %s",
				pluralRows(int64(col.NRows())), pluralRows(int64(nrows)))
		}
		return nil
	}

	stats := col.Stats()
	if !stats.HasMinMax {
		return nil
	}
	if stats.MinInt < NARow {
		n.release()
		return errorValue(FrameSelector, n.frame, nrows,
			"An integer column used as an `i` selector contains invalid negative indices: %d", stats.MinInt)
	}
	if stats.MaxInt >= int64(nrows) {
		n.release()
		return errorValue(FrameSelector, n.frame, nrows,
			"An integer column used as an `i` selector contains index %d which is not valid for a Frame with %s",
			stats.MaxInt, pluralRows(int64(nrows)))
	}
	return nil
}

func (n *frameNode) Execute(wf *Workframe) error {
	defer n.release()
	ri, err := RowIndexFromColumn(n.frame.Column(0))
	if err != nil {
		return err
	}
	wf.ApplyRowIndex(ri)
	return nil
}

func (n *frameNode) release() {
	if n.owned {
		n.frame.Release()
		n.owned = false
	}
}

// newArrayNode converts a numeric array to a single-column frame. Arrays of
// two dimensions where one of them is 1 are flattened first.
func newArrayNode(a NumericArray) (*frameNode, error) {
	shape := a.Shape()
	if len(shape) == 2 && (shape[0] == 1 || shape[1] == 1) {
		flat, err := a.Reshape(shape[0] * shape[1])
		if err != nil {
			return nil, err
		}
		a, shape = flat, flat.Shape()
	}
	if len(shape) != 1 {
		return nil, errorValue(FrameSelector, a, -1,
			"Only a single-dimensional array is allowed as `i` selector, got array of shape %s", formatShape(shape))
	}

	dtype := a.DType()
	if !strings.HasPrefix(dtype, "bool") && !strings.HasPrefix(dtype, "int") {
		return nil, errorType(FrameSelector, a,
			"Either a boolean or an integer array expected for an `i` selector, got array of dtype `%s`", dtype)
	}

	f, err := a.ToFrame()
	if err != nil {
		return nil, err
	}
	n, err := newFrameNode(f)
	if err != nil {
		f.Release()
		return nil, err
	}
	n.owned = true
	return n, nil
}
