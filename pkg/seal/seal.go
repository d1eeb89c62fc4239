package seal

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// ChecksumSize is the length of the checksum header.
	ChecksumSize = 2

	// SaltSize is the length of the salt, equal to the cipher block size.
	SaltSize = BlockSize

	// HeaderSize is the fixed prefix preceding the ciphertext.
	HeaderSize = ChecksumSize + SaltSize
)

// Sealer encrypts and decrypts payloads. A Sealer holds no secrets and is
// safe for concurrent use if its random source is.
type Sealer struct {
	iterations int
	random     io.Reader
}

// New creates a Sealer.
//
// Example:
//
//	s := seal.New(seal.Iterations(1000))
func New(opts ...Option) *Sealer {
	cfg := newConfig(opts)
	return &Sealer{
		iterations: cfg.iterations,
		random:     cfg.random,
	}
}

// Seal encrypts plaintext under password and returns
// checksum || salt || ciphertext.
//
// It fails only if the random source fails.
func (s *Sealer) Seal(password string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(s.random, salt); err != nil {
		return nil, fmt.Errorf("cannot generate salt: %w", err)
	}

	key := deriveKey(password, salt, s.iterations)
	ciphertext, err := encryptCBC(key, salt, plaintext)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, HeaderSize, HeaderSize+len(ciphertext))
	copy(sealed[ChecksumSize:], salt)
	sealed = append(sealed, ciphertext...)
	binary.LittleEndian.PutUint16(sealed, Checksum(sealed[ChecksumSize:]))

	return sealed, nil
}

// Open verifies and decrypts a buffer produced by Seal.
//
// Errors wrap ErrMalformedPayload, ErrIntegrityCheckFailed or
// ErrPaddingOrCipher.
func (s *Sealer) Open(password string, sealed []byte) ([]byte, error) {
	if len(sealed) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header",
			ErrMalformedPayload, len(sealed), HeaderSize)
	}

	stored := binary.LittleEndian.Uint16(sealed)
	if computed := Checksum(sealed[ChecksumSize:]); computed != stored {
		return nil, fmt.Errorf("%w: stored %04x, computed %04x", ErrIntegrityCheckFailed, stored, computed)
	}

	salt := sealed[ChecksumSize:HeaderSize]
	key := deriveKey(password, salt, s.iterations)

	return decryptCBC(key, salt, sealed[HeaderSize:])
}
