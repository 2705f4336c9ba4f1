package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/segmentio/datatable-go"
)

// readCSV loads the records of r into a frame. The first record holds the
// column names. The type of each column is the narrowest of bool, int32,
// int64, float64 and string able to represent all of its cells; empty cells
// are missing values.
func readCSV(r io.Reader, comma rune) (*datatable.Frame, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.ReuseRecord = false

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header record")
	}

	names, rows := records[0], records[1:]
	columns := make([]datatable.Column, len(names))
	for j := range names {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cells[i] = row[j]
		}
		if columns[j], err = inferColumn(cells); err != nil {
			release(columns)
			return nil, fmt.Errorf("column %q: %w", names[j], err)
		}
	}

	f, err := datatable.NewFrame(names, columns...)
	if err != nil {
		release(columns)
		return nil, err
	}
	return f, nil
}

func release(columns []datatable.Column) {
	for i := range columns {
		columns[i].Release()
	}
}

type cellKind int

const (
	boolCell cellKind = iota
	int32Cell
	int64Cell
	floatCell
	stringCell
)

func kindOf(cell string) cellKind {
	switch cell {
	case "True", "False", "true", "false":
		return boolCell
	}
	if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
		if v > math.MinInt32 && v <= math.MaxInt32 {
			return int32Cell
		}
		if v != math.MinInt64 {
			return int64Cell
		}
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return floatCell
	}
	return stringCell
}

func inferColumn(cells []string) (datatable.Column, error) {
	kind, seen := boolCell, false
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		k := kindOf(cell)
		switch {
		case !seen:
			kind, seen = k, true
		case k == boolCell && kind != boolCell, k != boolCell && kind == boolCell:
			kind = stringCell
		default:
			kind = max(kind, k)
		}
	}

	switch {
	case !seen:
		return datatable.NewVoidColumn(len(cells)), nil
	case kind == boolCell:
		values := make([]int8, len(cells))
		for i, cell := range cells {
			switch cell {
			case "":
				values[i] = datatable.NABool
			case "True", "true":
				values[i] = 1
			}
		}
		return convertColumn(datatable.NewInt8Column(values), datatable.Bool)
	case kind == int32Cell:
		values := make([]int32, len(cells))
		for i, cell := range cells {
			v, err := strconv.ParseInt(cell, 10, 32)
			if err != nil {
				v = int64(datatable.NAInt32)
			}
			values[i] = int32(v)
		}
		return datatable.NewInt32Column(values), nil
	case kind == int64Cell:
		values := make([]int64, len(cells))
		for i, cell := range cells {
			v, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				v = datatable.NAInt64
			}
			values[i] = v
		}
		return datatable.NewInt64Column(values), nil
	case kind == floatCell:
		values := make([]float64, len(cells))
		for i, cell := range cells {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				v = datatable.NAFloat64
			}
			values[i] = v
		}
		return datatable.NewFloat64Column(values), nil
	default:
		values := make([]any, len(cells))
		for i, cell := range cells {
			if cell != "" {
				values[i] = cell
			}
		}
		return convertColumn(datatable.NewObjectColumn(values), datatable.Str32)
	}
}

func convertColumn(c datatable.Column, t datatable.SType) (datatable.Column, error) {
	if err := c.CastReplace(t); err != nil {
		c.Release()
		return datatable.Column{}, err
	}
	if err := c.Materialize(true); err != nil {
		c.Release()
		return datatable.Column{}, err
	}
	return c, nil
}
