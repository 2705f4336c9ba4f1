package datatable

import (
	"fmt"
)

// Rbind concatenates the rows of columns into a new column. The type of the
// result is the smallest storage type able to hold the values of every input
// (see commonType); void columns contribute missing values.
func Rbind(columns ...Column) (Column, error) {
	return rbind(columns, currentConfig())
}

func rbind(columns []Column, config *Config) (Column, error) {
	nrows := 0
	stype := Void
	for _, c := range columns {
		nrows += c.NRows()
		stype = commonType(stype, c.Type())
	}
	impl, err := rbindImpl(columns, nrows, nrows == 0, stype, config)
	if err != nil {
		return Column{}, err
	}
	return NewColumn(impl), nil
}

// rbindImpl concatenates columns holding nrows rows in total into a column of
// type stype. When isEmpty is true the columns contribute no rows and only
// the type of the result matters.
func rbindImpl(columns []Column, nrows int, isEmpty bool, stype SType, config *Config) (ColumnImpl, error) {
	if isEmpty || stype == Void {
		return buildColumn(stype, nrows, func(int) (Column, int, bool) { return Column{}, 0, false }, config)
	}

	parts := make([]Column, len(columns))
	defer func() {
		for i := range parts {
			parts[i].Release()
		}
	}()

	for i, c := range columns {
		parts[i] = c.Clone()
		if err := parts[i].CastReplace(stype); err != nil {
			return nil, fmt.Errorf("concatenating column %d: %w", i, err)
		}
	}

	if stype.IsFixedWidth() {
		return concatFixed(parts, nrows, stype, config)
	}

	k, offset := 0, 0
	return buildColumn(stype, nrows, func(i int) (Column, int, bool) {
		for i-offset >= parts[k].NRows() {
			offset += parts[k].NRows()
			k++
		}
		return parts[k], i - offset, true
	}, config)
}

func concatFixed(parts []Column, nrows int, stype SType, config *Config) (ColumnImpl, error) {
	size := stype.ElemSize()
	buf := newBufferOf[uint64]((nrows*size + 7) / 8)
	data := buf.Bytes()[:nrows*size]

	offset := 0
	for i := range parts {
		if err := parts[i].materialize(true, config); err != nil {
			return nil, err
		}
		offset += copy(data[offset:], parts[i].DataReadonly(0))
	}
	return newFixedColumn(stype, nrows, buf), nil
}
