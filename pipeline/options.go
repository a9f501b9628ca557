package pipeline

// Config holds pipeline-level settings.
type Config struct {
	traceLevel TraceLevel
	listener   func(TraceLevel, string)
}

// Option customizes pipeline construction.
type Option func(*Config)

// WithTraceLevel sets the minimum level a trace message needs to reach the
// listener. The default is [TraceNone]: tracing off.
func WithTraceLevel(level TraceLevel) Option {
	return func(c *Config) {
		c.traceLevel = level
	}
}

// WithTraceListener installs the trace sink. Without a listener all trace
// messages are dropped regardless of level.
func WithTraceListener(listener func(level TraceLevel, message string)) Option {
	return func(c *Config) {
		c.listener = listener
	}
}

func applyOptions(opts ...Option) Config {
	cfg := Config{traceLevel: TraceNone}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
