package pairwire

import "io"

// Pair is a single key/value entry.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Decoder reads pair-count headers and length-prefixed strings from an
// io.ByteReader.
//
// io.ByteReader is implemented by *bufio.Reader and *bytes.Reader.
// The decoder uses zero lookahead - every byte read is immediately processed.
type Decoder struct {
	r         io.ByteReader
	maxLength int
	offset    int // Track position for error reporting
}

// NewDecoder creates a new decoder reading from r.
//
// Example:
//
//	dec := pairwire.NewDecoder(bytes.NewReader(data), pairwire.MaxLength(4096))
func NewDecoder(r io.ByteReader, opts ...Option) *Decoder {
	cfg := newConfig(opts)
	return &Decoder{
		r:         r,
		maxLength: cfg.maxLength,
		offset:    0,
	}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.offset
}

// Encoder writes pair-count headers and length-prefixed strings to an
// io.Writer.
//
// The encoder writes are unbuffered. Wrap w in bufio.Writer if buffering is
// desired.
type Encoder struct {
	w         io.Writer
	maxLength int
}

// NewEncoder creates a new encoder that writes to w. It refuses strings the
// matching Decoder would reject, so pass it the same MaxLength.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	cfg := newConfig(opts)
	return &Encoder{
		w:         w,
		maxLength: cfg.maxLength,
	}
}
