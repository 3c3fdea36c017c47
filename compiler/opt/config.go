package opt

import "github.com/xyproto/env/v2"

type (
	Config struct {
		// HotThreshold is the call count a site must exceed to be hot.
		HotThreshold int
		// MaxUnroll is the largest trip count ShouldUnroll accepts.
		MaxUnroll int
		// Verify runs mir.Verify before the first and after every phase.
		Verify bool
	}
)

const (
	DefaultHotThreshold = 100
	DefaultMaxUnroll    = 8
)

// DefaultConfig returns the defaults overridden by
// MIROPT_HOT_THRESHOLD, MIROPT_MAX_UNROLL and MIROPT_VERIFY.
func DefaultConfig() Config {
	return Config{
		HotThreshold: env.Int("MIROPT_HOT_THRESHOLD", DefaultHotThreshold),
		MaxUnroll:    env.Int("MIROPT_MAX_UNROLL", DefaultMaxUnroll),
		Verify:       env.Bool("MIROPT_VERIFY"),
	}
}

func (c Config) withDefaults() Config {
	if c.HotThreshold <= 0 {
		c.HotThreshold = DefaultHotThreshold
	}

	if c.MaxUnroll <= 0 {
		c.MaxUnroll = DefaultMaxUnroll
	}

	return c
}
