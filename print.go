package datatable

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Print writes the rows of f to w as a table.
func Print(w io.Writer, f *Frame) error {
	return PrintRows(w, f, -1)
}

// PrintRows writes at most maxRows rows of f to w as a table, all of them
// when maxRows is negative. Missing values are printed as NA. When rows are
// omitted, a footer gives the number of rows of the frame.
func PrintRows(w io.Writer, f *Frame, maxRows int) error {
	pw := &printWriter{writer: w}
	nrows := f.NRows()
	if maxRows < 0 || maxRows > nrows {
		maxRows = nrows
	}

	table := tablewriter.NewWriter(pw)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	table.SetHeader(f.Names())

	for i := 0; i < maxRows; i++ {
		row := make([]string, f.NCols())
		for j := range row {
			row[j] = formatCell(f.Column(j), i)
		}
		table.Append(row)
	}
	table.Render()

	if maxRows < nrows {
		fmt.Fprintf(pw, "[%d rows x %d columns]\n", nrows, f.NCols())
	}
	return pw.err
}

// Print writes at most maxRows rows of f to w, see PrintRows.
func (f *Frame) Print(w io.Writer, maxRows int) error { return PrintRows(w, f, maxRows) }

func formatCell(c Column, i int) string {
	if v, ok := c.asString(i); ok {
		return v
	}
	return "NA"
}

// PrintSchema writes the names and storage types of the columns of f to w,
// one per line. List columns are followed by the type of their elements.
func PrintSchema(w io.Writer, f *Frame) error {
	return PrintSchemaIndent(w, f, "\t", "\n")
}

// PrintSchemaIndent is like PrintSchema but uses pattern to indent nested
// types and newline to separate the lines.
func PrintSchemaIndent(w io.Writer, f *Frame, pattern, newline string) error {
	pw := &printWriter{writer: w}
	fmt.Fprintf(pw, "frame [%d rows] {", f.NRows())

	if f.NCols() > 0 {
		pi := &printIndent{
			pattern: pattern,
			newline: newline,
			repeat:  1,
		}

		pi.writeNewLine(pw)

		for j, name := range f.Names() {
			printWithIndent(pw, name, f.Column(j), pi)
			pi.writeNewLine(pw)
		}
	}

	pw.WriteString("}")
	return pw.err
}

func printWithIndent(w io.StringWriter, name string, c Column, indent *printIndent) {
	indent.writeTo(w)
	w.WriteString(c.Type().String())

	if c.IsVirtual() {
		w.WriteString(" virtual")
	}

	if name != "" {
		w.WriteString(" ")
		w.WriteString(name)
	}

	if c.Type() != Arr32 {
		w.WriteString(";")
		return
	}

	w.WriteString(" {")
	indent.writeNewLine(w)
	indent.push()

	if c.NumChildren() > 0 {
		printWithIndent(w, "", c.Child(0), indent)
		indent.writeNewLine(w)
	}

	indent.pop()
	indent.writeTo(w)
	w.WriteString("}")
}

type printIndent struct {
	pattern string
	newline string
	repeat  int
}

func (i *printIndent) push() {
	i.repeat++
}

func (i *printIndent) pop() {
	i.repeat--
}

func (i *printIndent) writeTo(w io.StringWriter) {
	if i.pattern != "" {
		for n := i.repeat; n > 0; n-- {
			w.WriteString(i.pattern)
		}
	}
}

func (i *printIndent) writeNewLine(w io.StringWriter) {
	if i.newline != "" {
		w.WriteString(i.newline)
	}
}

// printWriter retains the first error returned by the underlying writer.
type printWriter struct {
	writer io.Writer
	err    error
}

func (w *printWriter) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.writer.Write(b)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *printWriter) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := io.WriteString(w.writer, s)
	if err != nil {
		w.err = err
	}
	return n, err
}

var (
	_ io.StringWriter = (*printWriter)(nil)
)
