package seal

import (
	"crypto/rand"
	"io"
)

type config struct {
	iterations int
	random     io.Reader
}

// Option configures a Sealer.
type Option func(*config)

// Iterations sets the PBKDF2 iteration count. Producer and consumer must use
// the same value. Values below 1 are ignored.
//
// Default: 1000
func Iterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.iterations = n
		}
	}
}

// Random sets the source of salt bytes.
//
// Default: crypto/rand.Reader
func Random(r io.Reader) Option {
	return func(c *config) {
		if r != nil {
			c.random = r
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		iterations: DefaultIterations,
		random:     rand.Reader,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
