package objectstore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	compressible := bytes.Repeat([]byte("nomos"), 1000)
	random := []byte{0x8f, 0x1a, 0x33, 0xc0, 0x07}

	for _, compress := range []bool{false, true} {
		c, err := newCodec(compress)
		require.NoError(t, err)
		defer c.close()

		for _, data := range [][]byte{nil, random, compressible} {
			stored := c.encode(data)
			decoded, err := c.decode(stored)
			require.NoError(t, err)
			assert.Equal(t, len(data), len(decoded))
			assert.True(t, bytes.Equal(data, decoded))
		}

		stored := c.encode(compressible)
		if compress {
			assert.Equal(t, byte(flagZstd), stored[0])
			assert.Less(t, len(stored), len(compressible))
		} else {
			assert.Equal(t, byte(flagRaw), stored[0])
		}
	}

	t.Run("readable without compression", func(t *testing.T) {
		writer, err := newCodec(true)
		require.NoError(t, err)
		defer writer.close()
		reader, err := newCodec(false)
		require.NoError(t, err)
		defer reader.close()

		decoded, err := reader.decode(writer.encode(compressible))
		require.NoError(t, err)
		assert.Equal(t, compressible, decoded)
	})

	t.Run("invalid", func(t *testing.T) {
		c, err := newCodec(false)
		require.NoError(t, err)
		defer c.close()

		_, err = c.decode([]byte{0x00})
		require.ErrorIs(t, err, errInvalidHeader)

		_, err = c.decode(frame(0x07, []byte("x"), 1))
		require.ErrorIs(t, err, errInvalidFlag)

		_, err = c.decode(frame(flagRaw, []byte("x"), 2))
		require.ErrorIs(t, err, errInvalidHeader)
	})
}
