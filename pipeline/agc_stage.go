package pipeline

import (
	"github.com/cwbudde/algo-voice/filter/agc"
	"github.com/cwbudde/algo-voice/internal/pcm"
)

// Defaults for the gain-control stage.
const (
	DefaultAGCTargetDBFS    = 3
	DefaultAGCCompressionDB = 15
	DefaultAGCLimiter       = true
)

// AGCOption customizes the gain-control stage.
type AGCOption func(*agcConfig)

type agcConfig struct {
	targetDBFS    int
	compressionDB int
	limiter       bool
}

// WithAGCTarget sets the target output level as a positive offset below
// full scale (default 3).
func WithAGCTarget(dbfs int) AGCOption {
	return func(c *agcConfig) {
		c.targetDBFS = dbfs
	}
}

// WithAGCCompression sets the maximum applied boost in dB (default 15).
func WithAGCCompression(db int) AGCOption {
	return func(c *agcConfig) {
		c.compressionDB = db
	}
}

// WithAGCLimiter switches the output peak limiter (default on).
func WithAGCLimiter(enable bool) AGCOption {
	return func(c *agcConfig) {
		c.limiter = enable
	}
}

type agcStage struct {
	controller *agc.Controller

	// Running mean of the post-gain frame level, traced once per second
	// of audio.
	framesPerTrace int
	frameCount     int
	levelSum       float64
}

// NewAGC returns the gain-control stage constructor. The stage boosts each
// frame toward the target level in place and emits a perf trace with the
// mean post-gain level once per second of audio.
func NewAGC(opts ...AGCOption) StageFunc {
	return func(info StreamInfo) (Stage, error) {
		cfg := agcConfig{
			targetDBFS:    DefaultAGCTargetDBFS,
			compressionDB: DefaultAGCCompressionDB,
			limiter:       DefaultAGCLimiter,
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg)
			}
		}

		controller, err := agc.New(info.SampleRate, cfg.targetDBFS, cfg.compressionDB, cfg.limiter)
		if err != nil {
			return nil, err
		}

		return &agcStage{
			controller:     controller,
			framesPerTrace: 1000 / info.FrameWidthMs,
		}, nil
	}
}

func (s *agcStage) Process(ctx *Context, frame []int16) error {
	if _, err := s.controller.Process(frame); err != nil {
		return err
	}

	s.levelSum += pcm.RMSdB(frame)
	s.frameCount++
	if s.frameCount >= s.framesPerTrace {
		ctx.Tracef(TracePerf, "agc: %.4f", s.levelSum/float64(s.frameCount))
		s.levelSum = 0
		s.frameCount = 0
	}

	return nil
}

func (s *agcStage) Reset() {
	s.levelSum = 0
	s.frameCount = 0
}

func (s *agcStage) Close() error {
	return s.controller.Close()
}
