package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-voice/filter/ans"
)

// DefaultANSPolicy is the suppression strength the stage uses unless
// configured otherwise.
const DefaultANSPolicy = ans.Mild

// ANSOption customizes the noise-suppression stage.
type ANSOption func(*ansConfig)

type ansConfig struct {
	policy ans.Policy
}

// WithANSPolicy sets the suppression strength (default mild).
func WithANSPolicy(policy ans.Policy) ANSOption {
	return func(c *ansConfig) {
		c.policy = policy
	}
}

type ansStage struct {
	suppressor *ans.Suppressor
}

// NewANS returns the noise-suppression stage constructor. The engine works
// on 10 ms sub-frames, so the stream frame width must be a whole multiple
// of 10 ms; the stage iterates the engine across each frame in place.
func NewANS(opts ...ANSOption) StageFunc {
	return func(info StreamInfo) (Stage, error) {
		cfg := ansConfig{policy: DefaultANSPolicy}
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg)
			}
		}

		suppressor, err := ans.New(info.SampleRate, cfg.policy)
		if err != nil {
			return nil, err
		}

		engineMs := suppressor.FrameSize() * 1000 / info.SampleRate
		if info.FrameWidthMs%engineMs != 0 {
			suppressor.Close()
			return nil, fmt.Errorf("ans stage: frame width %d ms is not a multiple of the %d ms engine frame",
				info.FrameWidthMs, engineMs)
		}

		return &ansStage{suppressor: suppressor}, nil
	}
}

func (s *ansStage) Process(_ *Context, frame []int16) error {
	size := s.suppressor.FrameSize()
	for offset := 0; offset < len(frame); offset += size {
		if err := s.suppressor.ProcessAt(frame, offset); err != nil {
			return err
		}
	}

	return nil
}

// Reset is a no-op; the engine's noise estimate carries across streams.
func (s *ansStage) Reset() {}

func (s *ansStage) Close() error {
	return s.suppressor.Close()
}
