package argcrypt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/argseal/argseal/pkg/pairwire"
	"github.com/argseal/argseal/pkg/seal"
)

// Pair is one name/value entry.
type Pair = pairwire.Pair

// Encryptor holds an ordered set of unique keys and the password used to
// encrypt and decrypt them.
type Encryptor struct {
	password string
	pairs    []Pair
	index    map[string]int
	sealer   *seal.Sealer
	maxLen   int
	log      *slog.Logger
}

// New creates an empty Encryptor. The password must contain a non-space
// character.
func New(password string, opts ...Option) (*Encryptor, error) {
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password is empty", ErrInvalidConfiguration)
	}

	o := &options{
		logger:    slog.New(slog.DiscardHandler),
		maxLength: pairwire.DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Encryptor{
		password: password,
		index:    make(map[string]int),
		sealer:   seal.New(o.sealOpts...),
		maxLen:   o.maxLength,
		log:      o.logger,
	}, nil
}

// NewFromToken creates an Encryptor populated from token. If urlEncoded is
// true the token is percent-decoded first.
func NewFromToken(password, token string, urlEncoded bool, opts ...Option) (*Encryptor, error) {
	e, err := New(password, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Decrypt(token, urlEncoded); err != nil {
		return nil, err
	}
	return e, nil
}

// Add appends a new pair. It fails with ErrDuplicateKey if key is present.
func (e *Encryptor) Add(key, value string) error {
	if _, ok := e.index[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	if err := e.check(key, value); err != nil {
		return err
	}
	e.index[key] = len(e.pairs)
	e.pairs = append(e.pairs, Pair{Key: key, Value: value})
	return nil
}

// Set replaces the value of an existing key in place, or appends a new pair.
func (e *Encryptor) Set(key, value string) error {
	if err := e.check(key, value); err != nil {
		return err
	}
	if i, ok := e.index[key]; ok {
		e.pairs[i].Value = value
		return nil
	}
	e.index[key] = len(e.pairs)
	e.pairs = append(e.pairs, Pair{Key: key, Value: value})
	return nil
}

// check rejects text that Decrypt could not read back.
func (e *Encryptor) check(key, value string) error {
	if !utf8.ValidString(key) || !utf8.ValidString(value) {
		return ErrInvalidText
	}
	if len(key) > e.maxLen || len(value) > e.maxLen {
		return fmt.Errorf("%w: key %q or its value is longer than %d bytes", ErrTooLarge, key, e.maxLen)
	}
	return nil
}

// Get returns the value for key.
func (e *Encryptor) Get(key string) (string, bool) {
	i, ok := e.index[key]
	if !ok {
		return "", false
	}
	return e.pairs[i].Value, true
}

// Delete removes key, reporting whether it was present.
func (e *Encryptor) Delete(key string) bool {
	i, ok := e.index[key]
	if !ok {
		return false
	}
	e.pairs = append(e.pairs[:i], e.pairs[i+1:]...)
	delete(e.index, key)
	for j := i; j < len(e.pairs); j++ {
		e.index[e.pairs[j].Key] = j
	}
	return true
}

// Len returns the number of pairs.
func (e *Encryptor) Len() int {
	return len(e.pairs)
}

// Keys returns the keys in insertion order.
func (e *Encryptor) Keys() []string {
	keys := make([]string, len(e.pairs))
	for i, p := range e.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of the pairs in insertion order.
func (e *Encryptor) Pairs() []Pair {
	out := make([]Pair, len(e.pairs))
	copy(out, e.pairs)
	return out
}

// Map returns the pairs as a map.
func (e *Encryptor) Map() map[string]string {
	m := make(map[string]string, len(e.pairs))
	for _, p := range e.pairs {
		m[p.Key] = p.Value
	}
	return m
}

// Clear removes all pairs.
func (e *Encryptor) Clear() {
	e.pairs = nil
	e.index = make(map[string]int)
}

// Encrypt returns the current pairs as a token. If urlEncode is true the
// token is percent-encoded for direct use in a query string.
//
// Encrypt fails only if the random source fails.
func (e *Encryptor) Encrypt(urlEncode bool) (string, error) {
	payload, err := pairwire.Marshal(e.pairs, pairwire.MaxLength(e.maxLen))
	if err != nil {
		return "", fmt.Errorf("argcrypt: cannot serialize pairs: %w", err)
	}

	sealed, err := e.sealer.Seal(e.password, payload)
	if err != nil {
		return "", fmt.Errorf("argcrypt: %w", err)
	}

	token := base64.StdEncoding.EncodeToString(sealed)
	if urlEncode {
		token = url.QueryEscape(token)
	}
	return token, nil
}

// Decrypt replaces the current pairs with those held in token. If
// urlEncoded is true the token is percent-decoded first.
//
// On any error the Encryptor is left empty. Errors are *DecodeError values
// matching ErrMalformedPayload, ErrIntegrityCheckFailed or ErrPaddingOrCipher.
func (e *Encryptor) Decrypt(token string, urlEncoded bool) error {
	pairs, err := e.open(token, urlEncoded)
	e.Clear()
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			e.log.Debug("token rejected", "stage", de.Stage, "error", de.Err)
		}
		return err
	}

	for i, p := range pairs {
		e.index[p.Key] = i
	}
	e.pairs = pairs
	e.log.Debug("token accepted", "pairs", len(pairs))
	return nil
}

// TryDecrypt is Decrypt reporting success as a bool.
func (e *Encryptor) TryDecrypt(token string, urlEncoded bool) bool {
	return e.Decrypt(token, urlEncoded) == nil
}

func (e *Encryptor) open(token string, urlEncoded bool) ([]Pair, error) {
	if urlEncoded {
		unescaped, err := url.QueryUnescape(token)
		if err != nil {
			return nil, &DecodeError{Stage: StageURLDecode, Err: fmt.Errorf("%w: %w", ErrMalformedPayload, err)}
		}
		token = unescaped
	}

	sealed, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, &DecodeError{Stage: StageBase64, Err: fmt.Errorf("%w: %w", ErrMalformedPayload, err)}
	}

	payload, err := e.sealer.Open(e.password, sealed)
	if err != nil {
		return nil, &DecodeError{Stage: StageOpen, Err: err}
	}

	pairs, err := pairwire.Unmarshal(payload, pairwire.MaxLength(e.maxLen))
	if err != nil {
		// The checksum does not cover the key, so a wrong password that
		// happens to unpad cleanly lands here too.
		return nil, &DecodeError{Stage: StagePayload, Err: fmt.Errorf("%w: %w: %w", ErrMalformedPayload, ErrPaddingOrCipher, err)}
	}
	return pairs, nil
}
