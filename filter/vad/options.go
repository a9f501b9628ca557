package vad

import "github.com/cwbudde/algo-voice/internal/vadcore"

// Config holds creation-time settings beyond the required mode.
type Config struct {
	engine func() Engine
}

// Option customizes detector construction.
type Option func(*Config)

// WithEngine substitutes the engine factory, primarily for tests that need
// to observe lifecycle calls or inject failures.
func WithEngine(factory func() Engine) Option {
	return func(c *Config) {
		c.engine = factory
	}
}

func applyOptions(opts ...Option) Config {
	cfg := Config{
		engine: func() Engine { return vadcore.Create() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
