package datatable

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-kit/log/level"
)

// SelectorKind identifies the nodes built from row selector values.
type SelectorKind int

const (
	AllRowsSelector SelectorKind = iota
	OneRowSelector
	SliceSelector
	RangeSelector
	ExprSelector
	FrameSelector
	MultiSliceSelector
	UnknownSelector
)

func (k SelectorKind) String() string {
	switch k {
	case AllRowsSelector:
		return "allrows"
	case OneRowSelector:
		return "onerow"
	case SliceSelector:
		return "slice"
	case RangeSelector:
		return "range"
	case ExprSelector:
		return "expr"
	case FrameSelector:
		return "frame"
	case MultiSliceSelector:
		return "multislice"
	default:
		return "unknown"
	}
}

// SelectorNode is the resolved form of a row selector value.
//
// Nodes are created by NewSelector, which only validates the shape of the
// value. PostInitCheck then validates the node against the number of rows of
// the frame, and Execute narrows the selection of the workframe. A node is
// executed at most once.
type SelectorNode interface {
	Kind() SelectorKind
	PostInitCheck(wf *Workframe) error
	Execute(wf *Workframe) error
}

// FilterExpr is implemented by boolean expressions that can be used to select
// rows. Resolve returns the storage type of the values the expression
// produces, EvaluateEager computes them against the rows of the workframe.
//
// Passing an expression to NewSelector transfers its ownership to the node;
// expressions that implement io.Closer are closed after execution.
type FilterExpr interface {
	Resolve(wf *Workframe) (SType, error)
	EvaluateEager(wf *Workframe) (Column, error)
}

// Iterable is implemented by values that should be treated as lists of row
// selectors. Go slices and arrays are iterable without implementing it.
type Iterable interface {
	Items() []any
}

// NewSelector builds the selector node for value. The value may be:
//
//   - a Slice, which selects all rows when it is trivial (like ":")
//   - a FilterExpr evaluating to a boolean column
//   - a *Frame of a single boolean or integer column
//   - a Go integer, selecting one row
//   - nil or Ellipsis, selecting all rows
//   - a NumericArray of booleans or integers
//   - a Range
//   - a Go slice or array, or an Iterable, holding integers, slices and
//     ranges
//
// The order of the list is the order in which shapes are tested.
func NewSelector(value any) (SelectorNode, error) {
	for _, shape := range selectorShapes {
		if shape.match(value) {
			return shape.build(value)
		}
	}
	return nil, &SelectorError{
		Kind:     UnsupportedSelector,
		Selector: UnknownSelector,
		Value:    value,
		NRows:    -1,
		Reason:   fmt.Sprintf("value of type %T cannot be used as an `i` selector", value),
	}
}

// selectorShapes lists the shapes of selector values in priority order. The
// first shape matching a value builds its node.
var selectorShapes = [...]struct {
	match func(any) bool
	build func(any) (SelectorNode, error)
}{
	{isType[Slice], buildSliceNode},
	{isType[FilterExpr], func(v any) (SelectorNode, error) { return newExprNode(v.(FilterExpr)), nil }},
	{isType[*Frame], func(v any) (SelectorNode, error) { return newFrameNode(v.(*Frame)) }},
	{isInteger, buildOneRowNode},
	{isAllRows, func(any) (SelectorNode, error) { return allRowsNode{}, nil }},
	{isType[NumericArray], func(v any) (SelectorNode, error) { return newArrayNode(v.(NumericArray)) }},
	{isType[Range], func(v any) (SelectorNode, error) { return newRangeNode(v.(Range)) }},
	{isIterable, buildMultiSliceNode},
	{isType[bool], func(v any) (SelectorNode, error) {
		return nil, errorType(UnknownSelector, v, "Boolean value cannot be used as an `i` expression")
	}},
}

func isType[T any](value any) bool {
	_, ok := value.(T)
	return ok
}

func isInteger(value any) bool {
	if _, isBool := value.(bool); isBool {
		return false
	}
	_, isInt, _ := toInt64(value)
	return isInt
}

func isAllRows(value any) bool { return value == nil || value == Ellipsis }

func isIterable(value any) bool {
	if _, ok := value.(Iterable); ok {
		return true
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

func buildSliceNode(value any) (SelectorNode, error) {
	s := value.(Slice)
	if s.isTrivial() {
		return allRowsNode{}, nil
	}
	b, numeric := s.bounds()
	if !numeric {
		return nil, errorType(SliceSelector, value, "%s is not integer-valued", s)
	}
	return newSliceNode(s, b)
}

func buildMultiSliceNode(value any) (SelectorNode, error) {
	items, _ := iterate(value)
	return newMultiSliceNode(items)
}

func buildOneRowNode(value any) (SelectorNode, error) {
	i, _, inRange := toInt64(value)
	if !inRange {
		return nil, errorValue(OneRowSelector, value, -1, "Row `%v` is too large to be used as `i` selector", value)
	}
	return &oneRowNode{irow: i}, nil
}

// iterate returns the items of Go slices, arrays and Iterable values.
func iterate(value any) ([]any, bool) {
	switch v := value.(type) {
	case Iterable:
		return v.Items(), true
	case []any:
		return v, true
	case []int:
		items := make([]any, len(v))
		for i, x := range v {
			items[i] = x
		}
		return items, true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	default:
		return nil, false
	}
}

// ResolveSelector builds the row index selecting the rows of frame designated
// by value. See NewSelector for the list of values accepted as selectors.
//
// Errors caused by the selector are of type *SelectorError and match ErrType,
// ErrValue or ErrUnsupportedSelector.
func ResolveSelector(value any, frame *Frame, options ...Option) (RowIndex, error) {
	config, err := newConfig(options...)
	if err != nil {
		return RowIndex{}, err
	}

	wf := NewWorkframe(frame, config.Logger)
	kind, err := resolve(value, wf)
	if err != nil {
		metrics.selectorErrors.WithLabelValues(errorLabel(err)).Inc()
		level.Debug(wf.logger).Log(
			"msg", "row selector rejected",
			"selector", kind,
			"nrows", wf.nrows,
			"err", err,
		)
		return RowIndex{}, err
	}

	ri := wf.RowIndex()
	metrics.selectorsResolved.WithLabelValues(kind.String()).Inc()
	level.Debug(wf.logger).Log(
		"msg", "row selector resolved",
		"selector", kind,
		"nrows", wf.nrows,
		"rows", ri.Size(wf.nrows),
		"rowindex", ri.Kind(),
	)
	return ri, nil
}

func resolve(value any, wf *Workframe) (SelectorKind, error) {
	node, err := NewSelector(value)
	if err != nil {
		return selectorKindOf(err), err
	}
	if err := node.PostInitCheck(wf); err != nil {
		return node.Kind(), err
	}
	return node.Kind(), node.Execute(wf)
}

func selectorKindOf(err error) SelectorKind {
	var e *SelectorError
	if errors.As(err, &e) {
		return e.Selector
	}
	return UnknownSelector
}

func errorLabel(err error) string {
	var e *SelectorError
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return "other"
}
