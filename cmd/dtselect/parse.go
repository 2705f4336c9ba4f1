package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/segmentio/datatable-go"
)

// parseSelector converts the command line form of a row selector to the
// value accepted by datatable.ResolveSelector:
//
//	""  ":"  "..."  "None"   all rows
//	"5"  "-1"                a single row
//	"2:10:3"  "::-1"         a slice, any bound may be omitted
//	"range(1, 8, 2)"         a range
//	"[0, 2:4, range(9,7,-1)]" a list of the above
//	"@name"                  the column name of f, as a boolean mask or
//	                         a list of row numbers
//
// The returned release function must be called once the selector is no
// longer used.
func parseSelector(s string, f *datatable.Frame) (value any, release func(), err error) {
	release = func() {}
	s = strings.TrimSpace(s)

	switch {
	case s == "" || s == ":":
		return datatable.Slice{}, release, nil
	case s == "...":
		return datatable.Ellipsis, release, nil
	case s == "None":
		return nil, release, nil
	case strings.HasPrefix(s, "@"):
		name := s[1:]
		c, ok := f.ColumnByName(name)
		if !ok {
			return nil, release, fmt.Errorf("no column named %q", name)
		}
		sel, err := datatable.NewFrame([]string{name}, c.Clone())
		if err != nil {
			return nil, release, err
		}
		return sel, sel.Release, nil
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		var items []any
		for _, item := range splitList(s[1 : len(s)-1]) {
			v, err := parseItem(item)
			if err != nil {
				return nil, release, err
			}
			items = append(items, v)
		}
		if items == nil {
			items = []any{}
		}
		return items, release, nil
	default:
		value, err = parseItem(s)
		return value, release, err
	}
}

func parseItem(s string) (any, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "range(") && strings.HasSuffix(s, ")") {
		return parseRange(s[len("range(") : len(s)-1])
	}
	if strings.Contains(s, ":") {
		return parseSlice(s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid selector item %q", s)
	}
	return v, nil
}

func parseRange(s string) (datatable.Range, error) {
	parts := strings.Split(s, ",")
	args := make([]int64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return datatable.Range{}, fmt.Errorf("invalid range argument %q", part)
		}
		args[i] = v
	}

	switch len(args) {
	case 1:
		return datatable.Range{Stop: args[0], Step: 1}, nil
	case 2:
		return datatable.Range{Start: args[0], Stop: args[1], Step: 1}, nil
	case 3:
		return datatable.Range{Start: args[0], Stop: args[1], Step: args[2]}, nil
	default:
		return datatable.Range{}, fmt.Errorf("range expects 1 to 3 arguments, got %d", len(args))
	}
}

func parseSlice(s string) (datatable.Slice, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return datatable.Slice{}, fmt.Errorf("invalid slice %q", s)
	}

	bounds := make([]any, 3)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "None" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return datatable.Slice{}, fmt.Errorf("invalid slice bound %q", part)
		}
		bounds[i] = v
	}
	return datatable.Slice{Start: bounds[0], Stop: bounds[1], Step: bounds[2]}, nil
}

// splitList splits s at the commas which are not enclosed in parentheses.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var items []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	return append(items, s[start:])
}
