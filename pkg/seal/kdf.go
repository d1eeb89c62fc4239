package seal

import (
	"crypto/sha1"

	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the derived key length: a two-key Triple-DES key.
const KeySize = 16

// DefaultIterations matches the Rfc2898 default iteration count.
const DefaultIterations = 1000

func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha1.New)
}
