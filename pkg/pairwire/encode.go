package pairwire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// EncodeCount writes the pair count header as a 4-byte little-endian int32.
//
// Example:
//
//	enc.EncodeCount(2) // writes 02 00 00 00
func (e *Encoder) EncodeCount(n int) error {
	if n < 0 || n > math.MaxInt32 {
		return fmt.Errorf("pairwire: pair count %d out of range", n)
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(n))

	_, err := e.w.Write(header[:])
	return err
}

// EncodeString writes s as a varint length prefix followed by its UTF-8 bytes.
//
// Example:
//
//	enc.EncodeString("hello") // writes 05 'h' 'e' 'l' 'l' 'o'
func (e *Encoder) EncodeString(s string) error {
	if len(s) > e.maxLength {
		return fmt.Errorf("%w: string of %d bytes, limit %d", ErrTooLarge, len(s), e.maxLength)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("pairwire: string is not valid UTF-8")
	}

	buf := make([]byte, 0, binary.MaxVarintLen32+len(s))
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	buf = append(buf, s...)

	_, err := e.w.Write(buf)
	return err
}

// EncodePair writes the key and then the value of p.
func (e *Encoder) EncodePair(p Pair) error {
	if err := e.EncodeString(p.Key); err != nil {
		return err
	}
	return e.EncodeString(p.Value)
}
