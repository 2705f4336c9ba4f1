package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `id,score,name
0,1.5,zero
1,2.5,one
2,,two
3,4.5,three
4,5.5,four
`

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd := newRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{path}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSelectRows(t *testing.T) {
	tests := []struct {
		scenario string
		args     []string
		output   string
	}{
		{
			scenario: "slice",
			args:     []string{"::2"},
			output: `+----+-------+------+
| id | score | name |
+----+-------+------+
|  0 |   1.5 | zero |
|  2 |    NA |  two |
|  4 |   5.5 | four |
+----+-------+------+
`,
		},
		{
			scenario: "list",
			args:     []string{"[-1, range(1, 3)]", "--compress", "zstd", "--materialize", "memory"},
			output: `+----+-------+------+
| id | score | name |
+----+-------+------+
|  4 |   5.5 | four |
|  1 |   2.5 |  one |
|  2 |    NA |  two |
+----+-------+------+
`,
		},
		{
			scenario: "huge step",
			args:     []string{"0:10:9223372036854775800"},
			output: `+----+-------+------+
| id | score | name |
+----+-------+------+
|  0 |   1.5 | zero |
+----+-------+------+
`,
		},
		{
			scenario: "max rows",
			args:     []string{"--max-rows", "1"},
			output: `+----+-------+------+
| id | score | name |
+----+-------+------+
|  0 |   1.5 | zero |
+----+-------+------+
[5 rows x 3 columns]
`,
		},
		{
			scenario: "schema",
			args:     []string{"3", "--schema", "--max-rows", "0"},
			output: "frame [1 rows] {\n" +
				"\tint32 virtual id;\n" +
				"\tfloat64 virtual score;\n" +
				"\tstr32 virtual name;\n" +
				"}\n" +
				"+----+-------+------+\n" +
				"| id | score | name |\n" +
				"+----+-------+------+\n" +
				"+----+-------+------+\n" +
				"[1 rows x 3 columns]\n",
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			stdout, _, err := runCommand(t, test.args...)
			require.NoError(t, err)
			assert.Equal(t, test.output, stdout)
		})
	}
}

func TestSelectPersistent(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := runCommand(t, "1:2", "--materialize", "persistent", "--buffer-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "|  1 |   2.5 |  one |")

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSelectErrors(t *testing.T) {
	tests := []struct {
		scenario string
		args     []string
		err      string
	}{
		{"out of range", []string{"10"}, "ValueError: Row `10` is invalid for a frame with 5 rows"},
		{"bad codec", []string{":", "--compress", "lzo"}, `unknown compression codec "lzo"`},
		{"bad target", []string{":", "--materialize", "disk"}, `invalid materialization target "disk"`},
		{"string mask", []string{"@name"}, "TypeError: A Frame which is used as an `i` selector should be either boolean or integer, instead got `str32`"},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, stderr, err := runCommand(t, test.args...)
			assert.EqualError(t, err, test.err)
			assert.Contains(t, stderr, `msg="dtselect failed"`)
		})
	}
}

func TestSelectVerbose(t *testing.T) {
	_, stderr, err := runCommand(t, "0", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="loaded frame"`)
	assert.Contains(t, stderr, `msg="row selector resolved"`)
}
