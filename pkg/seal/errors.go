package seal

import "errors"

var (
	// ErrMalformedPayload indicates the sealed buffer is too short to hold
	// the checksum and salt.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrIntegrityCheckFailed indicates the stored checksum does not match
	// the received salt and ciphertext.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")

	// ErrPaddingOrCipher indicates the ciphertext could not be decrypted:
	// bad length or invalid padding, usually a wrong password.
	ErrPaddingOrCipher = errors.New("padding or cipher error")
)
