package ans

import "github.com/cwbudde/algo-voice/internal/anscore"

// Config holds creation-time settings beyond the required parameters.
type Config struct {
	engine func() Engine
}

// Option customizes suppressor construction.
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
		engine: func() Engine { return anscore.Create() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
