package seal

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"fmt"
)

// BlockSize is the Triple-DES block size, also the IV and salt length.
const BlockSize = des.BlockSize

func newBlock(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}

	// Two-key EDE: K1 K2 K1
	ede := make([]byte, 0, 24)
	ede = append(ede, key...)
	ede = append(ede, key[:8]...)

	block, err := des.NewTripleDESCipher(ede)
	if err != nil {
		return nil, fmt.Errorf("cannot create triple-des block cipher: %w", err)
	}
	return block, nil
}

func encryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

func decryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d",
			ErrPaddingOrCipher, len(ciphertext), BlockSize)
	}

	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, BlockSize)
}

// pkcs7Pad always adds between 1 and size bytes.
func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	padded := make([]byte, len(data), len(data)+n)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 || len(data)%size != 0 {
		return nil, fmt.Errorf("%w: padded length %d", ErrPaddingOrCipher, len(data))
	}

	n := int(data[len(data)-1])
	if n == 0 || n > size {
		return nil, fmt.Errorf("%w: invalid padding", ErrPaddingOrCipher)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrPaddingOrCipher)
		}
	}
	return data[:len(data)-n], nil
}
