package datatable_test

import (
	"bytes"
	"testing"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go"
)

func TestDefaultConfig(t *testing.T) {
	config := datatable.DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, datatable.DefaultParallelChunkSize, config.ParallelChunkSize)
	assert.Equal(t, datatable.DefaultCompressionBlockSize, config.CompressionBlockSize)
	assert.Positive(t, config.Parallelism)
}

func TestConfigApply(t *testing.T) {
	pool := datatable.NewBufferPool()
	config := datatable.DefaultConfig()
	config.Apply(
		datatable.Parallelism(3),
		datatable.ParallelChunkSize(10),
		datatable.PersistentBuffers(pool),
		&datatable.Config{CompressionBlockSize: 7},
	)

	assert.Equal(t, 3, config.Parallelism)
	assert.Equal(t, 10, config.ParallelChunkSize)
	assert.Equal(t, 7, config.CompressionBlockSize)
	assert.Equal(t, pool, config.PersistentBuffers)
	assert.NotNil(t, config.Logger)
}

func TestConfigValidate(t *testing.T) {
	config := &datatable.Config{}
	err := config.Validate()
	require.Error(t, err)
	assert.Equal(t, ""+
		"invalid option value: datatable.(*Config).Logger: <nil>\n"+
		"invalid option value: datatable.(*Config).PersistentBuffers: <nil>\n"+
		"invalid option value: datatable.(*Config).Parallelism: 0\n"+
		"invalid option value: datatable.(*Config).ParallelChunkSize: 0\n"+
		"invalid option value: datatable.(*Config).CompressionBlockSize: 0",
		err.Error())
}

func TestInvalidOptions(t *testing.T) {
	f := sequenceFrame(t, 3)
	defer f.Release()

	_, err := datatable.ResolveSelector(1, f, datatable.Parallelism(-1))
	assert.Error(t, err)

	c := datatable.NewInt8Column([]int8{1})
	defer c.Release()
	assert.Error(t, c.Materialize(true, datatable.ParallelChunkSize(-5)))

	assert.Error(t, datatable.SetOptions(datatable.CompressionBlockSize(-1)))
}

func TestSetOptions(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := level.NewFilter(log.NewLogfmtLogger(buffer), level.AllowDebug())

	require.NoError(t, datatable.SetOptions(datatable.Logger(logger)))
	defer func() {
		require.NoError(t, datatable.SetOptions(datatable.Logger(log.NewNopLogger())))
	}()

	f := sequenceFrame(t, 4)
	defer f.Release()

	_, err := datatable.ResolveSelector(datatable.Ellipsis, f)
	require.NoError(t, err)
	assert.Contains(t, buffer.String(), `msg="row selector resolved" selector=allrows nrows=4`)
}
