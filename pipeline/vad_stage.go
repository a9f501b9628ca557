package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-voice/filter/vad"
)

// Defaults for the voice-activity stage.
const (
	DefaultVADMode   = vad.VeryAggressive
	DefaultVADRiseMs = 0
	DefaultVADFallMs = 500
)

// VADOption customizes the voice-activity stage.
type VADOption func(*vadConfig)

type vadConfig struct {
	mode   vad.Mode
	riseMs int
	fallMs int
}

// WithVADMode sets the detection mode (default very aggressive).
func WithVADMode(mode vad.Mode) VADOption {
	return func(c *vadConfig) {
		c.mode = mode
	}
}

// WithVADRise sets how long voiced frames must persist before the speech
// flag rises, in milliseconds (default 0: first voiced frame flips it).
func WithVADRise(ms int) VADOption {
	return func(c *vadConfig) {
		c.riseMs = ms
	}
}

// WithVADFall sets how long unvoiced frames must persist before the speech
// flag falls, in milliseconds (default 500).
func WithVADFall(ms int) VADOption {
	return func(c *vadConfig) {
		c.fallMs = ms
	}
}

type vadStage struct {
	detector *vad.Detector
	rate     int

	// Consecutive-run edge filter: the raw per-frame decision must persist
	// for the configured run before the speech flag flips.
	riseFrames int
	fallFrames int
	run        int
}

// NewVAD returns the voice-activity stage constructor. The stage classifies
// every frame and maintains [Context.Speech] behind a consecutive-run edge
// filter, so single-frame glitches neither start nor end a speech region.
func NewVAD(opts ...VADOption) StageFunc {
	return func(info StreamInfo) (Stage, error) {
		cfg := vadConfig{mode: DefaultVADMode, riseMs: DefaultVADRiseMs, fallMs: DefaultVADFallMs}
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg)
			}
		}
		if cfg.riseMs < 0 || cfg.fallMs < 0 {
			return nil, fmt.Errorf("vad stage: negative delay: rise %d ms, fall %d ms", cfg.riseMs, cfg.fallMs)
		}

		detector, err := vad.New(cfg.mode)
		if err != nil {
			return nil, err
		}

		return &vadStage{
			detector:   detector,
			rate:       info.SampleRate,
			riseFrames: delayFrames(cfg.riseMs, info.FrameWidthMs),
			fallFrames: delayFrames(cfg.fallMs, info.FrameWidthMs),
		}, nil
	}
}

// delayFrames converts a millisecond delay to a frame run length; any
// nonzero delay requires at least one full frame.
func delayFrames(delayMs, frameWidthMs int) int {
	frames := delayMs / frameWidthMs
	if frames == 0 && delayMs > 0 {
		frames = 1
	}

	return frames
}

func (s *vadStage) Process(ctx *Context, frame []int16) error {
	voiced, err := s.detector.Process(s.rate, frame)
	if err != nil {
		return err
	}

	if voiced == ctx.Speech {
		s.run = 0
		return nil
	}

	required := s.riseFrames
	if ctx.Speech {
		required = s.fallFrames
	}

	s.run++
	if s.run >= required {
		ctx.Speech = voiced
		s.run = 0
		ctx.Tracef(TraceDebug, "vad: %v", voiced)
	}

	return nil
}

func (s *vadStage) Reset() {
	s.run = 0
}

func (s *vadStage) Close() error {
	return s.detector.Close()
}
