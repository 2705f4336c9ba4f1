package datatable

import "math"

type multiSliceItemKind uint8

const (
	multiSliceInt multiSliceItemKind = iota
	multiSliceSlice
	multiSliceRange
)

type multiSliceItem struct {
	kind  multiSliceItemKind
	start int64
	step  int64
	// count is the number of rows of range items, known at construction.
	count int64
	// bounds of slice items, resolved against the frame on execution.
	bounds sliceBounds
}

// multiSliceNode selects the concatenation of the rows designated by a list
// of integers, slices and ranges.
type multiSliceNode struct {
	items []multiSliceItem
	// minRows is the smallest number of rows of a frame for which all the
	// integers and ranges of the list are valid.
	minRows uint64
}

func newMultiSliceNode(values []any) (*multiSliceNode, error) {
	n := &multiSliceNode{items: make([]multiSliceItem, 0, len(values))}

	for i, v := range values {
		switch x := v.(type) {
		case Slice:
			b, numeric := x.bounds()
			if !numeric {
				return nil, errorType(MultiSliceSelector, x, "Only integer-valued slices are allowed")
			}
			if b.isRepeat() {
				if !b.validRepeat() {
					return nil, errorValue(MultiSliceSelector, x, -1,
						"Invalid %s: when step is 0, both start and stop must be present, and stop must be non-negative", x)
				}
				if b.stop > 0 {
					n.require(b.start)
				}
			}
			n.items = append(n.items, multiSliceItem{kind: multiSliceSlice, bounds: b})

		case Range:
			if x.Step == 0 {
				return nil, errorValue(MultiSliceSelector, x, -1, "%s cannot have a zero step", x)
			}
			count := x.count()
			if count == 0 {
				continue
			}
			last := x.Start + int64(count-1)*x.Step
			if (x.Start >= 0) != (last >= 0) {
				return nil, errorValue(MultiSliceSelector, x, -1, "Invalid wrap-around %s for an `i` selector", x)
			}
			n.require(x.Start)
			n.require(last)
			n.items = append(n.items, multiSliceItem{kind: multiSliceRange, start: x.Start, step: x.Step, count: x.Len()})

		default:
			value, isInt, inRange := toInt64(v)
			if _, isBool := v.(bool); isBool || !isInt {
				return nil, errorType(MultiSliceSelector, v, "Invalid item %v at index %d in the `i` selector list", v, i)
			}
			if !inRange {
				return nil, errorValue(MultiSliceSelector, v, -1, "Item %v at index %d in the `i` selector list is too large", v, i)
			}
			n.require(value)
			n.items = append(n.items, multiSliceItem{kind: multiSliceInt, start: value})
		}
	}
	return n, nil
}

// require records that row must exist in the frame, negative rows counting
// from the end.
func (n *multiSliceNode) require(row int64) {
	need := -uint64(row)
	if row >= 0 {
		need = uint64(row) + 1
	}
	n.minRows = max(n.minRows, need)
}

func (n *multiSliceNode) Kind() SelectorKind { return MultiSliceSelector }

func (n *multiSliceNode) PostInitCheck(wf *Workframe) error {
	if wf.nrows > math.MaxInt32 {
		return errorValue(MultiSliceSelector, n.minRows, wf.nrows,
			"A list `i` selector cannot be applied to a Frame with %s", pluralRows(int64(wf.nrows)))
	}
	if uint64(wf.nrows) < n.minRows {
		return errorValue(MultiSliceSelector, n.minRows, wf.nrows,
			"`i` selector is valid for a Frame with at least %s", pluralRows(n.minRows))
	}
	return nil
}

func (n *multiSliceNode) Execute(wf *Workframe) error {
	nrows := int64(wf.nrows)
	total := int64(0)

	items := append([]multiSliceItem(nil), n.items...)
	for k := range items {
		item := &items[k]
		switch item.kind {
		case multiSliceInt:
			if item.start < 0 {
				item.start += nrows
			}
			item.count = 1

		case multiSliceRange:
			if item.start < 0 {
				item.start += nrows
			}

		case multiSliceSlice:
			b := item.bounds
			if b.isRepeat() {
				item.start, item.step, item.count = b.start, 0, b.stop
				if item.start < 0 {
					item.start += nrows
				}
				break
			}
			item.start, item.count, item.step = normalizeSlice(nrows, b)
		}
		if item.count > math.MaxInt32-total {
			return errorValue(MultiSliceSelector, item.count, wf.nrows,
				"`i` selector produces more than %d rows", math.MaxInt32)
		}
		total += item.count
	}

	indices := make([]int32, 0, total)
	for _, item := range items {
		for j := int64(0); j < item.count; j++ {
			indices = append(indices, int32(item.start+j*item.step))
		}
	}
	wf.ApplyRowIndex(NewArrayRowIndex(indices))
	return nil
}
