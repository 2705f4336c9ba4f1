package mmap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go/internal/mmap"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("0123456789footer"), 0o600))

	m, err := mmap.Open(path, 10)
	require.NoError(t, err)
	require.Equal(t, "0123456789", string(m.Bytes()))
	require.Equal(t, 10, m.Len())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.Nil(t, m.Bytes())
}

func TestOpenWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	m, err := mmap.Open(path, -1)
	require.NoError(t, err)
	defer m.Close()
	require.Equal(t, "abc", string(m.Bytes()))
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	m, err := mmap.Open(path, -1)
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
	require.NoError(t, m.Close())
}
