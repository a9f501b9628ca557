// Package agc wraps an automatic-gain-control engine in the shared
// filter-component contract: all-or-nothing creation, in-place streaming
// gain application, and single release.
//
// The controller boosts each 16-bit PCM frame toward a configured target
// level, bounded by a compression gain, with an optional output limiter.
// The running microphone-level estimate that drives the gain decision is
// held in the Controller, so independent controllers never influence each
// other. A Controller is not safe for concurrent use; calls must be
// strictly sequential per instance.
package agc

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-voice/internal/agccore"
)

// ErrClosed is returned by operations on a closed Controller.
var ErrClosed = errors.New("agc: controller closed")

// initialMicLevel seeds the per-controller level estimate at mid-range.
const initialMicLevel = 128

// EngineConfig is the tunable part of the engine configuration.
type EngineConfig struct {
	TargetLevelDBFS   int
	CompressionGainDB int
	LimiterEnable     bool
}

// Engine is the entry-point surface of an underlying gain-control engine.
// Integer statuses are 0 on success and negative on failure, mirroring the
// C-style contract of the default engine.
type Engine interface {
	// Init fixes the mic-level range, controller mode, and sample rate.
	Init(minLevel, maxLevel, mode, sampleRate int) int
	// SetConfig applies target level, compression gain, and limiter switch.
	SetConfig(cfg EngineConfig) int
	// Process applies gain to one frame in place. It receives the previous
	// level estimate and returns the advanced one, plus a status: 1 voiced
	// speech detected, 0 not detected, -1 error.
	Process(frame []int16, micLevel int) (newLevel, status int)
	// Free releases the instance.
	Free()
}

// Controller is a stateful gain-control filter over one engine instance.
type Controller struct {
	engine   Engine
	micLevel int
}

// New creates a controller in fixed-digital mode at the given sample rate.
//
// targetLevelDBFS is the desired output level as a positive offset below
// full scale (0..31); compressionGainDB bounds the applied boost (0..90 dB).
// Creation is all-or-nothing: the engine is allocated, initialized, and
// configured in sequence, and any failing step tears the instance down
// before the error is returned.
func New(sampleRate, targetLevelDBFS, compressionGainDB int, limiter bool, opts ...Option) (*Controller, error) {
	cfg := applyOptions(opts...)

	engine := cfg.engine()
	if engine == nil {
		return nil, errors.New("agc: engine allocation failed")
	}

	if st := engine.Init(0, agccore.MaxMicLevel, agccore.ModeFixedDigital, sampleRate); st != 0 {
		engine.Free()
		return nil, fmt.Errorf("agc: engine init failed at %d Hz: status %d", sampleRate, st)
	}

	econf := EngineConfig{
		TargetLevelDBFS:   targetLevelDBFS,
		CompressionGainDB: compressionGainDB,
		LimiterEnable:     limiter,
	}
	if st := engine.SetConfig(econf); st != 0 {
		engine.Free()
		return nil, fmt.Errorf("agc: engine rejected target %d dBFS, compression %d dB: status %d",
			targetLevelDBFS, compressionGainDB, st)
	}

	return &Controller{engine: engine, micLevel: initialMicLevel}, nil
}

// Process applies gain to one frame of 16-bit PCM in place.
//
// The frame must be 10 or 20 ms long at the controller's sample rate.
// The boolean reports whether voiced speech was detected while processing.
// Errors are per-call, never sticky, and leave the level estimate untouched.
func (c *Controller) Process(frame []int16) (bool, error) {
	if c.engine == nil {
		return false, ErrClosed
	}

	newLevel, status := c.engine.Process(frame, c.micLevel)
	switch status {
	case 1:
		c.micLevel = newLevel
		return true, nil
	case 0:
		c.micLevel = newLevel
		return false, nil
	default:
		return false, fmt.Errorf("agc: engine error: status %d (%d samples)", status, len(frame))
	}
}

// Close releases the engine. The first call frees the underlying instance;
// any further use of the controller, including a second Close, reports
// [ErrClosed] instead of touching freed state.
func (c *Controller) Close() error {
	if c.engine == nil {
		return ErrClosed
	}

	c.engine.Free()
	c.engine = nil

	return nil
}
