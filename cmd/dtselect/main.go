// Command dtselect loads a CSV file into a frame and prints the rows chosen
// by a row selector.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/segmentio/datatable-go"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dtselect file.csv [selector]",
		Short: "Print the rows of a CSV file chosen by a row selector",
		Long: `Print the rows of a CSV file chosen by a row selector.

The selector is one of ":" (all rows), a row number such as "3" or "-1",
a slice "start:stop:step", "range(start, stop, step)", "@column" to use a
boolean or integer column of the file, or a list of rows, slices and ranges
such as "[0, 5:8, range(3, 0, -1)]".`,
		Args:          cobra.RangeArgs(1, 2),
		RunE:          runSelect,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.String("delimiter", ",", "field delimiter of the CSV file")
	flags.String("compress", "", fmt.Sprintf("compress fixed-width columns with the codec (one of %v)", datatable.CodecNames()))
	flags.String("materialize", "", `materialize the selected rows: "memory" or "persistent"`)
	flags.String("buffer-dir", "", "directory of the buffers of persistent columns (default: the temporary directory)")
	flags.Int("max-rows", 20, "maximum number of rows to print, negative to print all")
	flags.Bool("schema", false, "print the schema of the selected frame")
	flags.BoolP("verbose", "v", false, "log debug events to stderr")
	return cmd
}

type selectAction struct {
	cmd    *cobra.Command
	logger log.Logger
}

func (a *selectAction) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *selectAction) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *selectAction) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func newSelectAction(cmd *cobra.Command) *selectAction {
	a := &selectAction{cmd: cmd}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
	if a.getBool("verbose") {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	a.logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return a
}

func runSelect(cmd *cobra.Command, args []string) error {
	a := newSelectAction(cmd)
	err := a.run(args)
	if err != nil {
		level.Error(a.logger).Log("msg", "dtselect failed", "err", err)
	}
	return err
}

func (a *selectAction) run(args []string) error {
	delimiter := []rune(a.getString("delimiter"))
	if len(delimiter) != 1 {
		return fmt.Errorf("the delimiter must be a single character")
	}

	f, err := a.load(args[0], delimiter[0])
	if err != nil {
		return err
	}
	defer f.Release()

	if name := a.getString("compress"); name != "" {
		if f, err = compressFrame(f, name); err != nil {
			return err
		}
		defer f.Release()
	}

	selector := ":"
	if len(args) > 1 {
		selector = args[1]
	}
	value, release, err := parseSelector(selector, f)
	if err != nil {
		return err
	}
	defer release()

	options := []datatable.Option{datatable.Logger(a.logger)}
	if dir := a.getString("buffer-dir"); dir != "" {
		options = append(options, datatable.PersistentBuffers(datatable.NewFileBufferPool(dir, "dtselect-*")))
	}

	sub, err := f.Select(value, options...)
	if err != nil {
		return err
	}
	defer sub.Release()

	switch target := a.getString("materialize"); target {
	case "":
	case "memory", "persistent":
		if err := sub.Materialize(target == "memory", options...); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid materialization target %q", target)
	}

	out := a.cmd.OutOrStdout()
	if a.getBool("schema") {
		if err := datatable.PrintSchema(out, sub); err != nil {
			return err
		}
		io.WriteString(out, "\n")
	}
	return sub.Print(out, a.getInt("max-rows"))
}

func (a *selectAction) load(path string, delimiter rune) (*datatable.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := readCSV(file, delimiter)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	level.Debug(a.logger).Log("msg", "loaded frame", "path", path, "rows", f.NRows(), "columns", f.NCols())
	return f, nil
}

// compressFrame returns a frame where the fixed-width columns of f are
// compressed with the codec registered under name.
func compressFrame(f *datatable.Frame, name string) (*datatable.Frame, error) {
	codec, ok := datatable.LookupCodec(name)
	if !ok {
		return nil, fmt.Errorf("unknown compression codec %q", name)
	}

	columns := make([]datatable.Column, f.NCols())
	for i := range columns {
		c := f.Column(i)
		if !c.Type().IsFixedWidth() {
			columns[i] = c.Clone()
			continue
		}
		compressed, err := datatable.Compress(c, codec)
		if err != nil {
			release(columns)
			return nil, err
		}
		columns[i] = compressed
	}
	out, err := datatable.NewFrame(f.Names(), columns...)
	if err != nil {
		release(columns)
	}
	return out, err
}
