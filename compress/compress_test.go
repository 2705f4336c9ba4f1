package compress_test

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/segmentio/datatable-go/compress"
	"github.com/segmentio/datatable-go/compress/brotli"
	"github.com/segmentio/datatable-go/compress/gzip"
	"github.com/segmentio/datatable-go/compress/lz4"
	"github.com/segmentio/datatable-go/compress/snappy"
	"github.com/segmentio/datatable-go/compress/uncompressed"
	"github.com/segmentio/datatable-go/compress/zstd"
)

func codecs() []compress.Codec {
	return []compress.Codec{
		new(uncompressed.Codec),
		new(snappy.Codec),
		new(gzip.Codec),
		new(brotli.Codec),
		new(zstd.Codec),
		new(lz4.Codec),
	}
}

func TestCompressionCodec(t *testing.T) {
	random := bytes.Repeat([]byte("1234567890qwertyuiopasdfghjklzxcvbnm"), 1000)

	for _, codec := range codecs() {
		t.Run(codec.String(), func(t *testing.T) {
			buffer := make([]byte, 0, len(random))
			output := make([]byte, 0, len(random))

			// Run the test multiple times to exercise codecs that maintain
			// state across compression/decompression.
			const N = 10
			for i := 0; i < N; i++ {
				var err error

				buffer, err = codec.Encode(buffer[:0], random)
				require.NoError(t, err)

				output, err = codec.Decode(output[:0], buffer)
				require.NoError(t, err)

				require.Truef(t, bytes.Equal(random, output),
					"content mismatch after compressing and decompressing (attempt %d/%d)", i+1, N)
			}
		})
	}
}

func TestCompressionCodecEmptyInput(t *testing.T) {
	for _, codec := range codecs() {
		t.Run(codec.String(), func(t *testing.T) {
			buffer, err := codec.Encode(nil, nil)
			require.NoError(t, err)

			output, err := codec.Decode(nil, buffer)
			require.NoError(t, err)
			require.Empty(t, output)
		})
	}
}

func TestCompressionCodecConcurrentUse(t *testing.T) {
	for _, codec := range codecs() {
		t.Run(codec.String(), func(t *testing.T) {
			var group errgroup.Group

			for i := 0; i < 8; i++ {
				input := []byte(fmt.Sprintf("block-%d-", i))
				input = bytes.Repeat(input, 100*(i+1))

				group.Go(func() error {
					encoded, err := codec.Encode(nil, input)
					if err != nil {
						return err
					}
					decoded, err := codec.Decode(nil, encoded)
					if err != nil {
						return err
					}
					if !bytes.Equal(input, decoded) {
						return fmt.Errorf("content mismatch for input of size %d", len(input))
					}
					return nil
				})
			}

			require.NoError(t, group.Wait())
		})
	}
}

type simpleWriter struct{ io.Writer }

func (s *simpleWriter) Close() error      { return nil }
func (s *simpleWriter) Reset(w io.Writer) { s.Writer = w }

type simpleReader struct{ io.Reader }

func (s *simpleReader) Close() error            { return nil }
func (s *simpleReader) Reset(r io.Reader) error { s.Reader = r; return nil }

func TestStreamsReuseWriters(t *testing.T) {
	created := 0
	streams := new(compress.Streams).Init(
		func(r io.Reader) (compress.Reader, error) { return &simpleReader{Reader: r}, nil },
		func(w io.Writer) (compress.Writer, error) {
			created++
			return &simpleWriter{Writer: w}, nil
		},
	)

	for i := 0; i < 3; i++ {
		encoded, err := streams.Encode(nil, []byte("hello"))
		require.NoError(t, err)
		require.Equal(t, "hello", string(encoded))

		decoded, err := streams.Decode(nil, encoded)
		require.NoError(t, err)
		require.Equal(t, "hello", string(decoded))
	}

	require.GreaterOrEqual(t, created, 1)
}

func TestDecodeBlock(t *testing.T) {
	input := bytes.Repeat([]byte("column block "), 64)

	for _, codec := range codecs() {
		t.Run(codec.String(), func(t *testing.T) {
			encoded, err := codec.Encode(nil, input)
			require.NoError(t, err)

			block := make([]byte, len(input))
			require.NoError(t, compress.DecodeBlock(codec, block, encoded))
			require.Equal(t, input, block)

			short := make([]byte, len(input)-1)
			require.ErrorIs(t, compress.DecodeBlock(codec, short, encoded), compress.ErrBlockSize)
		})
	}
}
