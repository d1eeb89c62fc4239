// Package pairwire implements the binary layout used to carry an ordered set
// of string key/value pairs inside an encrypted token.
//
// The layout is:
//
//	<count:int32 little-endian> ( <key> <value> ) * count
//
// where every string is written as its UTF-8 byte length, encoded as an
// unsigned 7-bit varint (the same scheme as encoding/binary's uvarint),
// followed by the bytes themselves.
//
// # Examples
//
//	pairs: []                        -> 00 00 00 00
//	pairs: [("a", "")]               -> 01 00 00 00 01 'a' 00
//	pairs: [("Name", "Bob")]         -> 01 00 00 00 04 'N' 'a' 'm' 'e' 03 'B' 'o' 'b'
//
// Lengths are explicit, so keys and values may contain any text including
// NUL and other control characters. Nothing is escaped.
//
// # Basic Usage
//
// Whole buffers:
//
//	data, err := pairwire.Marshal(pairs)
//	pairs, err := pairwire.Unmarshal(data)
//
// Streaming:
//
//	enc := pairwire.NewEncoder(&buf)
//	enc.EncodeCount(len(pairs))
//	enc.EncodePair(pairwire.Pair{Key: "Name", Value: "Bob"})
//
//	dec := pairwire.NewDecoder(bytes.NewReader(data))
//	n, err := dec.DecodeCount()
//	p, err := dec.DecodePair()
//
// # Security
//
// The MaxLength option (default 1MB) bounds the length of any single string
// so a corrupted prefix cannot trigger a huge allocation. Unmarshal also
// rejects pair counts that could not possibly fit in the remaining input.
package pairwire
