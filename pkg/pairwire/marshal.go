package pairwire

import (
	"bytes"
	"fmt"
	"io"
)

// Marshal serializes pairs in order. A key or value longer than MaxLength
// fails with ErrTooLarge.
func Marshal(pairs []Pair, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, opts...)

	if err := enc.EncodeCount(len(pairs)); err != nil {
		return nil, err
	}
	for i, p := range pairs {
		if err := enc.EncodePair(p); err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
	}

	return buf.Bytes(), nil
}

// Unmarshal parses a complete payload produced by Marshal.
//
// The input must hold exactly the declared number of pairs: a short buffer,
// trailing bytes, or a repeated key are all format errors.
func Unmarshal(data []byte, opts ...Option) ([]Pair, error) {
	dec := NewDecoder(bytes.NewReader(data), opts...)

	count, err := dec.DecodeCount()
	if err != nil {
		if err == io.EOF {
			return nil, &FormatError{Offset: 0, Reason: "empty payload"}
		}
		return nil, err
	}

	// Every pair needs at least two one-byte length prefixes.
	remaining := len(data) - dec.Offset()
	if count > remaining/2 {
		return nil, &FormatError{
			Offset: dec.Offset(),
			Reason: fmt.Sprintf("pair count %d does not fit in %d remaining bytes", count, remaining),
		}
	}

	pairs := make([]Pair, 0, count)
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		p, err := dec.DecodePair()
		if err != nil {
			if err == io.EOF {
				return nil, &FormatError{
					Offset: dec.Offset(),
					Reason: fmt.Sprintf("unexpected EOF: expected %d pairs, got %d", count, i),
				}
			}
			return nil, err
		}
		if _, dup := seen[p.Key]; dup {
			return nil, &FormatError{
				Offset: dec.Offset(),
				Reason: fmt.Sprintf("duplicate key in pair %d", i),
			}
		}
		seen[p.Key] = struct{}{}
		pairs = append(pairs, p)
	}

	if extra := len(data) - dec.Offset(); extra != 0 {
		return nil, &FormatError{
			Offset: dec.Offset(),
			Reason: fmt.Sprintf("%d trailing bytes after %d pairs", extra, count),
		}
	}

	return pairs, nil
}
