package agc

import "github.com/cwbudde/algo-voice/internal/agccore"

// Config holds creation-time settings beyond the required parameters.
type Config struct {
	engine func() Engine
}

// Option customizes controller construction.
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
		engine: func() Engine { return coreEngine{agccore.Create()} },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// coreEngine adapts the default engine's config type to the interface.
type coreEngine struct {
	*agccore.Inst
}

func (e coreEngine) SetConfig(cfg EngineConfig) int {
	return e.Inst.SetConfig(agccore.Config{
		TargetLevelDBFS:   cfg.TargetLevelDBFS,
		CompressionGainDB: cfg.CompressionGainDB,
		LimiterEnable:     cfg.LimiterEnable,
	})
}
