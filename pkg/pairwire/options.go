package pairwire

// DefaultMaxLength is the longest key or value accepted unless MaxLength
// says otherwise.
const DefaultMaxLength = 1024 * 1024

// config holds encoder and decoder configuration.
type config struct {
	maxLength int
}

func newConfig(opts []Option) *config {
	cfg := &config{
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures an Encoder, a Decoder, Marshal or Unmarshal.
type Option func(*config)

// MaxLength sets the maximum length in bytes of a single key or value.
// Longer strings fail with ErrTooLarge on both sides of the wire. Values
// below 1 are ignored.
//
// Default: 1MB (1048576 bytes)
func MaxLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLength = n
		}
	}
}
