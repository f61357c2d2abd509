// Package fixedbytes encodes fixed length byte identifiers. Text transports carry them as
// lowercase hex strings, binary transports as raw bytes of the exact length.
package fixedbytes

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MarshalText returns the lowercase hex form of b without prefix.
func MarshalText(b []byte) ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(out, b)
	return out, nil
}

// UnmarshalText decodes hex text into dst. The decoded value must be exactly len(dst) bytes.
// An optional 0x prefix is accepted.
func UnmarshalText(dst []byte, text []byte) error {
	s := strings.TrimPrefix(strings.TrimPrefix(string(text), "0x"), "0X")
	if len(s) != hex.EncodedLen(len(dst)) {
		return fmt.Errorf("invalid length: expected %d hex chars: got %d", hex.EncodedLen(len(dst)), len(s))
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	return nil
}

// MarshalBinary returns a copy of b.
func MarshalBinary(b []byte) ([]byte, error) {
	return bytes.Clone(b), nil
}

// UnmarshalBinary copies raw into dst. raw must be exactly len(dst) bytes.
func UnmarshalBinary(dst []byte, raw []byte) error {
	if len(raw) != len(dst) {
		return fmt.Errorf("invalid length: expected %d bytes: got %d", len(dst), len(raw))
	}
	copy(dst, raw)
	return nil
}

// MarshalJSONArray encodes b as a JSON array of byte values.
func MarshalJSONArray(b []byte) ([]byte, error) {
	buf := make([]byte, 0, 2+4*len(b))
	buf = append(buf, '[')
	for i, v := range b {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(v), 10)
	}
	buf = append(buf, ']')
	return buf, nil
}

// UnmarshalJSONArray decodes a JSON array of byte values of any length.
func UnmarshalJSONArray(data []byte) ([]byte, error) {
	var values []uint16
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v > 0xff {
			return nil, fmt.Errorf("value out of byte range at %d: %d", i, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// UnmarshalJSON decodes data into dst. data is either a hex string or an array of byte values,
// and must hold exactly len(dst) bytes.
func UnmarshalJSON(dst []byte, data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty input")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return UnmarshalText(dst, []byte(s))
	case '[':
		raw, err := UnmarshalJSONArray(data)
		if err != nil {
			return err
		}
		return UnmarshalBinary(dst, raw)
	default:
		return fmt.Errorf("expected hex string or byte array: got %q", data[0])
	}
}
