package pairwire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncoder_EncodeCount_Zero(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.EncodeCount(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %v, want %v", buf.Bytes(), want)
	}
}

func TestEncoder_EncodeCount_LittleEndian(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.EncodeCount(0x01020304); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %v, want %v", buf.Bytes(), want)
	}
}

func TestEncoder_EncodeCount_Negative(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.EncodeCount(-1); err == nil {
		t.Fatal("expected error for negative count")
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %d bytes", buf.Len())
	}
}

func TestEncoder_EncodeString_Empty(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.EncodeString(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %v, want %v", buf.Bytes(), want)
	}
}

func TestEncoder_EncodeString_Simple(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.EncodeString("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte("\x05hello")
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %q, want %q", buf.Bytes(), want)
	}
}

func TestEncoder_EncodeString_MultiBytePrefix(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	// 300 = 0b1_0010_1100 -> 0xAC 0x02
	s := strings.Repeat("x", 300)
	if err := enc.EncodeString(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := buf.Bytes()
	if got[0] != 0xAC || got[1] != 0x02 {
		t.Errorf("got prefix % x, want ac 02", got[:2])
	}
	if len(got) != 2+300 {
		t.Errorf("expected length %d, got %d", 2+300, len(got))
	}
}

func TestEncoder_EncodeString_UTF8(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	// "é" is two bytes in UTF-8
	if err := enc.EncodeString("é"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{0x02, 0xC3, 0xA9}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %v, want %v", buf.Bytes(), want)
	}
}

func TestEncoder_EncodeString_InvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.EncodeString("\xff\xfe"); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestEncoder_EncodePair(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.EncodePair(Pair{Key: "Name", Value: "Bob"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte("\x04Name\x03Bob")
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %q, want %q", buf.Bytes(), want)
	}
}

func TestMarshal_Layout(t *testing.T) {
	data, err := Marshal([]Pair{{Key: "a", Value: ""}, {Key: "b", Value: "c"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte("\x02\x00\x00\x00\x01a\x00\x01b\x01c")
	if !bytes.Equal(data, want) {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestMarshal_Empty(t *testing.T) {
	data, err := Marshal(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(data, want) {
		t.Errorf("got %v, want %v", data, want)
	}
}

func TestEncoder_EncodeString_MaxLength(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, MaxLength(10))

	if err := enc.EncodeString(strings.Repeat("x", 10)); err != nil {
		t.Fatalf("string at the limit: unexpected error: %v", err)
	}

	before := buf.Len()
	err := enc.EncodeString(strings.Repeat("x", 11))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if buf.Len() != before {
		t.Errorf("rejected string wrote %d bytes", buf.Len()-before)
	}
}

func TestMarshal_DefaultMaxLength(t *testing.T) {
	atLimit := []Pair{{Key: "k", Value: strings.Repeat("v", DefaultMaxLength)}}
	data, err := Marshal(atLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Unmarshal(data); err != nil {
		t.Fatalf("value at the limit did not round trip: %v", err)
	}

	_, err = Marshal([]Pair{{Key: "k", Value: strings.Repeat("v", DefaultMaxLength+1)}})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestMaxLength_IgnoresNonPositive(t *testing.T) {
	for _, n := range []int{0, -1, -1 << 40} {
		cfg := newConfig([]Option{MaxLength(n)})
		if cfg.maxLength != DefaultMaxLength {
			t.Errorf("MaxLength(%d): got limit %d, want %d", n, cfg.maxLength, DefaultMaxLength)
		}
	}
}
