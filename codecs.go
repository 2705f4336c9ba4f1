package datatable

import (
	"sort"
	"strings"

	"github.com/segmentio/datatable-go/compress"
	"github.com/segmentio/datatable-go/compress/brotli"
	"github.com/segmentio/datatable-go/compress/gzip"
	"github.com/segmentio/datatable-go/compress/lz4"
	"github.com/segmentio/datatable-go/compress/snappy"
	"github.com/segmentio/datatable-go/compress/uncompressed"
	"github.com/segmentio/datatable-go/compress/zstd"
)

var compressionCodecs = map[string]compress.Codec{}

func init() {
	for _, codec := range []compress.Codec{
		new(uncompressed.Codec),
		new(gzip.Codec),
		new(snappy.Codec),
		new(brotli.Codec),
		new(zstd.Codec),
		new(lz4.Codec),
	} {
		compressionCodecs[strings.ToLower(codec.String())] = codec
	}
}

// LookupCodec returns the compression codec registered under name. Names are
// case insensitive.
func LookupCodec(name string) (compress.Codec, bool) {
	codec, ok := compressionCodecs[strings.ToLower(name)]
	return codec, ok
}

// CodecNames returns the sorted list of registered codec names.
func CodecNames() []string {
	names := make([]string, 0, len(compressionCodecs))
	for name := range compressionCodecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
