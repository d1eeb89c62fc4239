package pairwire

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// maxPrefixBytes is the longest varint accepted for a 32-bit length.
const maxPrefixBytes = 5

// DecodeCount reads the 4-byte little-endian pair count header.
//
// Returns io.EOF when the stream is empty.
func (d *Decoder) DecodeCount() (int, error) {
	var header [4]byte
	for i := range header {
		b, err := d.readByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				return 0, &FormatError{
					Offset: d.offset,
					Reason: fmt.Sprintf("unexpected EOF: expected 4-byte pair count, got %d", i),
				}
			}
			return 0, err
		}
		header[i] = b
	}

	n := int32(binary.LittleEndian.Uint32(header[:]))
	if n < 0 {
		return 0, &FormatError{
			Offset: d.offset,
			Reason: fmt.Sprintf("negative pair count %d", n),
		}
	}
	return int(n), nil
}

// DecodeString reads the next length-prefixed string.
//
// Returns io.EOF when the stream ends before the length prefix starts.
func (d *Decoder) DecodeString() (string, error) {
	// Read length
	length, err := d.readLength()
	if err != nil {
		return "", err
	}

	// Read payload (all bytes)
	payload, err := d.readExact(length)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(payload) {
		return "", &FormatError{
			Offset: d.offset,
			Reason: "string is not valid UTF-8",
		}
	}

	return string(payload), nil
}

// DecodePair reads a key followed by a value.
//
// Returns io.EOF only when the stream ends cleanly before the key.
func (d *Decoder) DecodePair() (Pair, error) {
	key, err := d.DecodeString()
	if err != nil {
		return Pair{}, err
	}

	value, err := d.DecodeString()
	if err != nil {
		if err == io.EOF {
			return Pair{}, &FormatError{
				Offset: d.offset,
				Reason: "unexpected EOF: expected value after key",
			}
		}
		return Pair{}, err
	}

	return Pair{Key: key, Value: value}, nil
}

// readLength reads a 7-bit varint length prefix.
// Each byte carries 7 bits, low group first; the high bit marks continuation.
func (d *Decoder) readLength() (int, error) {
	var length uint64
	var shift uint

	for i := 0; i < maxPrefixBytes; i++ {
		b, err := d.readByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				return 0, &FormatError{
					Offset: d.offset,
					Reason: "unexpected EOF inside length prefix",
				}
			}
			return 0, err
		}

		length |= uint64(b&0x7f) << shift
		shift += 7

		if b&0x80 == 0 {
			if length > uint64(d.maxLength) {
				return 0, &FormatError{
					Offset: d.offset,
					Reason: fmt.Sprintf("length %d exceeds maximum %d", length, d.maxLength),
					Err:    ErrTooLarge,
				}
			}
			return int(length), nil
		}
	}

	return 0, &FormatError{
		Offset: d.offset,
		Reason: fmt.Sprintf("length prefix longer than %d bytes", maxPrefixBytes),
	}
}

// readExact reads exactly n bytes from the stream.
func (d *Decoder) readExact(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}

	payload := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := d.readByte()
		if err != nil {
			if err == io.EOF {
				return nil, &FormatError{
					Offset: d.offset,
					Reason: fmt.Sprintf("unexpected EOF: expected %d bytes, got %d", n, i),
				}
			}
			return nil, err
		}
		payload[i] = b
	}
	return payload, nil
}

// readByte reads a single byte and tracks position for error reporting.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == nil {
		d.offset++
	}
	return b, err
}
