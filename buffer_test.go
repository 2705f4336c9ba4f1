package datatable_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go"
)

func TestMemoryBufferPool(t *testing.T) {
	data := []byte("hello world")
	b, err := datatable.NewBufferPool().NewBuffer(data)
	require.NoError(t, err)
	defer b.Release()

	data[0] = 'H'
	assert.Equal(t, "hello world", string(b.Bytes()))
	assert.False(t, b.IsMapped())
	assert.True(t, b.IsEditable())
	assert.Equal(t, uuid.Nil, b.ID())
	assert.Empty(t, b.Path())
}

func TestFileBufferPoolRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	pool := datatable.NewFileBufferPool(dir, "buffer-*")

	b, err := pool.NewBuffer([]byte("0123456789"))
	require.NoError(t, err)

	assert.True(t, b.IsMapped())
	assert.False(t, b.IsEditable())
	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, dir, filepath.Dir(b.Path()))
	assert.Equal(t, "0123456789", string(b.Bytes()))
	assert.FileExists(t, b.Path())

	path := b.Path()
	b.Release()
	assert.NoFileExists(t, path)
}

func TestDirBufferPoolReopen(t *testing.T) {
	dir := t.TempDir()
	pool := datatable.NewDirBufferPool(dir, "buffer-*")

	b, err := pool.NewBuffer([]byte("persisted column data"))
	require.NoError(t, err)
	path, id := b.Path(), b.ID()
	b.Release()
	require.FileExists(t, path)

	r, err := datatable.OpenBuffer(path)
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, id, r.ID())
	assert.Equal(t, "persisted column data", string(r.Bytes()))

	e := r.Retain().Editable()
	defer e.Release()
	assert.False(t, e.IsMapped())
	assert.Equal(t, r.Bytes(), e.Bytes())
}

func TestOpenBufferErrors(t *testing.T) {
	persist := func(t *testing.T) string {
		b, err := datatable.NewDirBufferPool(t.TempDir(), "buffer-*").NewBuffer([]byte("abcdefgh"))
		require.NoError(t, err)
		defer b.Release()
		return b.Path()
	}

	tests := []struct {
		scenario string
		corrupt  func([]byte) []byte
	}{
		{
			scenario: "checksum",
			corrupt:  func(b []byte) []byte { b[0] ^= 0xFF; return b },
		},
		{
			scenario: "magic",
			corrupt:  func(b []byte) []byte { b[len(b)-1] = 'X'; return b },
		},
		{
			scenario: "truncated",
			corrupt:  func(b []byte) []byte { return b[:4] },
		},
		{
			scenario: "footer size",
			corrupt:  func(b []byte) []byte { b[len(b)-5] = 0x7F; return b },
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			path := persist(t)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, test.corrupt(data), 0o600))

			_, err = datatable.OpenBuffer(path)
			assert.ErrorIs(t, err, datatable.ErrInvalidBuffer)
		})
	}
}

func TestMaterializePersistent(t *testing.T) {
	dir := t.TempDir()
	pool := datatable.PersistentBuffers(datatable.NewFileBufferPool(dir, "column-*"))

	for _, c := range []datatable.Column{
		datatable.NewInt32Column([]int32{1, datatable.NAInt32, 3}),
		datatable.NewStringColumn([]string{"a", "bc", ""}),
	} {
		t.Run(c.Type().String(), func(t *testing.T) {
			defer c.Release()
			want := values(c)

			require.NoError(t, c.Materialize(false, pool))
			assert.False(t, c.IsVirtual())
			assert.False(t, c.IsDataEditable(0))
			assert.Equal(t, want, values(c))

			files, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, files, c.NumDataBuffers())

			d := c.Clone()
			d.DataEditable(0)
			assert.True(t, d.IsDataEditable(0))
			assert.Equal(t, want, values(d))
			d.Release()

			require.NoError(t, c.Materialize(true))
			assert.True(t, c.IsDataEditable(0))
			assert.Equal(t, want, values(c))

			files, err = os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, files)
		})
	}
}
