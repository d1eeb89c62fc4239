package argcrypt

import (
	"errors"
	"fmt"

	"github.com/argseal/argseal/pkg/pairwire"
	"github.com/argseal/argseal/pkg/seal"
)

var (
	// ErrInvalidConfiguration is returned when an Encryptor is created with an
	// empty or whitespace-only password.
	ErrInvalidConfiguration = errors.New("argcrypt: invalid configuration")

	// ErrMalformedPayload is returned for tokens that are not valid base64,
	// are too short, or decrypt to a payload that does not parse.
	ErrMalformedPayload = seal.ErrMalformedPayload

	// ErrIntegrityCheckFailed is returned when the token checksum does not
	// match, typically a corrupted token.
	ErrIntegrityCheckFailed = seal.ErrIntegrityCheckFailed

	// ErrPaddingOrCipher is returned when decryption fails, typically a wrong
	// password. A payload that decrypts but does not parse matches both this
	// and ErrMalformedPayload.
	ErrPaddingOrCipher = seal.ErrPaddingOrCipher

	// ErrTooLarge is returned by Add and Set for a key or value longer than
	// the WithMaxLength limit.
	ErrTooLarge = pairwire.ErrTooLarge

	// ErrDuplicateKey is returned by Add when the key is already present.
	ErrDuplicateKey = errors.New("argcrypt: duplicate key")

	// ErrInvalidText is returned by Add and Set for keys or values that are
	// not valid UTF-8.
	ErrInvalidText = errors.New("argcrypt: text is not valid UTF-8")
)

// Stage names the decode step that failed.
type Stage string

const (
	StageURLDecode Stage = "url-decode"
	StageBase64    Stage = "base64"
	StageOpen      Stage = "open"
	StagePayload   Stage = "payload"
)

// DecodeError reports which step of Decrypt failed. Use errors.Is against
// the Err* sentinels to classify it.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("argcrypt: decrypt failed at %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
