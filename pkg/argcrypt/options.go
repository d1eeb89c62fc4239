package argcrypt

import (
	"io"
	"log/slog"

	"github.com/argseal/argseal/pkg/seal"
)

type options struct {
	logger    *slog.Logger
	sealOpts  []seal.Option
	maxLength int
}

// Option configures an Encryptor.
type Option func(*options)

// WithLogger sets the logger used for decode diagnostics. Passwords, keys
// and pair contents are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIterations sets the PBKDF2 iteration count. Producer and consumer must
// agree.
func WithIterations(n int) Option {
	return func(o *options) {
		o.sealOpts = append(o.sealOpts, seal.Iterations(n))
	}
}

// WithRandom replaces crypto/rand as the salt source.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		o.sealOpts = append(o.sealOpts, seal.Random(r))
	}
}

// WithMaxLength bounds the length in bytes of any single key or value.
// Add and Set enforce it, and so does Decrypt. Values below 1 are ignored.
//
// Default: pairwire.DefaultMaxLength
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}
