// Package seal encrypts a byte payload under a password and frames it with a
// salt and a 16-bit checksum.
//
// # Layout
//
//	offset 0..2   checksum, uint16 little-endian
//	offset 2..10  salt, 8 random bytes, also the CBC IV
//	offset 10..N  ciphertext, a multiple of the 8-byte block size
//
// # Encryption
//
// The key is 16 bytes derived with PBKDF2-HMAC-SHA1 (1000 iterations by
// default) from the password and the salt. The cipher is two-key Triple-DES
// in CBC mode with PKCS#7 padding.
//
// # Checksum
//
// The checksum covers salt and ciphertext:
//
//	sum := 17
//	for each byte b: sum = sum*31 + b   (wrapping 32-bit)
//	checksum = uint16(sum)
//
// The seed and multiplier are part of the format. Open verifies the checksum
// before deriving a key, so most corrupted tokens and many wrong passwords
// are rejected without running the cipher.
//
// # Security
//
// The checksum is not a MAC. It detects accidental corruption and wrong
// passwords; it does not stop someone who knows the algorithm from forging a
// matching value. Layer an authenticated scheme on top when that matters.
package seal
