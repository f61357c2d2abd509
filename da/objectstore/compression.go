package objectstore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const (
	// headerSize is 1 byte of flag followed by the little endian original size.
	headerSize = 9

	flagRaw  = 0x00
	flagZstd = 0x01

	// minSavings is the fraction of the size compression must save for the compressed form to be kept.
	minSavings = 0.1
)

var (
	errInvalidHeader = errors.New("invalid payload header")
	errInvalidFlag   = errors.New("invalid payload flag")
)

// codec frames stored payloads. Every payload carries a header, compressed or not, so a store
// written with compression on stays readable with it off.
type codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newCodec(compress bool) (*codec, error) {
	c := &codec{}
	var err error
	if compress {
		c.encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
	}
	c.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return c, nil
}

func (c *codec) close() {
	if c.encoder != nil {
		_ = c.encoder.Close()
	}
	c.decoder.Close()
}

func (c *codec) encode(data []byte) []byte {
	if c.encoder == nil || len(data) == 0 {
		return frame(flagRaw, data, len(data))
	}
	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if float64(len(compressed)) > float64(len(data))*(1-minSavings) {
		return frame(flagRaw, data, len(data))
	}
	return frame(flagZstd, compressed, len(data))
}

func (c *codec) decode(stored []byte) ([]byte, error) {
	if len(stored) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", errInvalidHeader, len(stored))
	}
	flag := stored[0]
	size := binary.LittleEndian.Uint64(stored[1:headerSize])
	payload := stored[headerSize:]

	switch flag {
	case flagRaw:
		if uint64(len(payload)) != size {
			return nil, fmt.Errorf("%w: size mismatch: expected %d: got %d", errInvalidHeader, size, len(payload))
		}
		return payload, nil
	case flagZstd:
		data, err := c.decoder.DecodeAll(payload, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		if uint64(len(data)) != size {
			return nil, fmt.Errorf("%w: size mismatch: expected %d: got %d", errInvalidHeader, size, len(data))
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %d", errInvalidFlag, flag)
	}
}

func frame(flag byte, payload []byte, originalSize int) []byte {
	out := make([]byte, headerSize+len(payload))
	out[0] = flag
	binary.LittleEndian.PutUint64(out[1:headerSize], uint64(originalSize)) //nolint:gosec // sizes are never negative
	copy(out[headerSize:], payload)
	return out
}
