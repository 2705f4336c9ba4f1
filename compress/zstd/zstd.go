// Package zstd implements the ZSTD codec.
package zstd

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

type Level = zstd.EncoderLevel

const (
	// SpeedFastest will choose the fastest reasonable compression.
	// This is roughly equivalent to the fastest Zstandard mode.
	SpeedFastest = zstd.SpeedFastest

	// SpeedDefault is the default "pretty fast" compression option.
	// This is roughly equivalent to the default Zstandard mode (level 3).
	SpeedDefault = zstd.SpeedDefault

	// SpeedBetterCompression will yield better compression than the default.
	SpeedBetterCompression = zstd.SpeedBetterCompression

	// SpeedBestCompression will choose the best available compression option.
	SpeedBestCompression = zstd.SpeedBestCompression
)

const (
	DefaultLevel       = SpeedDefault
	DefaultConcurrency = 1
)

// Codec encodes whole blocks with EncodeAll/DecodeAll; the encoder and
// decoder are created on first use and shared by all calls.
type Codec struct {
	Level       Level
	Concurrency int

	once    sync.Once
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	err     error
}

func (c *Codec) String() string { return "ZSTD" }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return dst[:0], err
	}
	return c.encoder.EncodeAll(src, dst[:0]), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return dst[:0], err
	}
	return c.decoder.DecodeAll(src, dst[:0])
}

func (c *Codec) init() error {
	c.once.Do(func() {
		c.encoder, c.err = zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(c.concurrency()),
			zstd.WithEncoderLevel(c.level()),
			zstd.WithZeroFrames(true),
			zstd.WithEncoderCRC(false),
		)
		if c.err != nil {
			return
		}
		c.decoder, c.err = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(c.concurrency()),
		)
	})
	return c.err
}

func (c *Codec) concurrency() int {
	if c.Concurrency != 0 {
		return c.Concurrency
	}
	return DefaultConcurrency
}

func (c *Codec) level() Level {
	if c.Level != 0 {
		return c.Level
	}
	return DefaultLevel
}
