// Package vad wraps an opaque voice-activity-detection engine in the shared
// filter-component contract: all-or-nothing creation, in-place streaming
// frame classification, and single release.
//
// The detector reads each 16-bit PCM frame and classifies it as voiced
// speech or not. Frames are caller-owned views: the detector never copies,
// retains, or resizes them, and only touches them for the duration of one
// Process call. A Detector is not safe for concurrent use; calls must be
// strictly sequential per instance.
package vad

import (
	"errors"
	"fmt"
)

// Mode selects the detection precision tier, ascending: higher modes trade
// recall for precision.
type Mode int

const (
	Quality Mode = iota
	LowBitrate
	Aggressive
	VeryAggressive
)

// ErrClosed is returned by operations on a closed Detector.
var ErrClosed = errors.New("vad: detector closed")

// Engine is the entry-point surface of an underlying detection engine.
// Methods return 0 on success and a negative status on failure, mirroring
// the C-style contract of the default engine.
type Engine interface {
	// Init prepares a freshly allocated instance for configuration.
	Init() int
	// SetMode applies the detection mode (0..3).
	SetMode(mode int) int
	// Process classifies one frame: 1 voiced, 0 not voiced, -1 error.
	Process(sampleRate int, frame []int16) int
	// Free releases the instance.
	Free()
}

// Detector is a stateful voice-activity filter over one engine instance.
type Detector struct {
	engine Engine
	mode   Mode
}

// New creates a detector at the given mode.
//
// Creation is all-or-nothing: the engine is allocated, initialized, and
// configured in sequence, and any failing step tears the instance down
// before the error is returned. A returned Detector is always fully ready.
func New(mode Mode, opts ...Option) (*Detector, error) {
	if mode < Quality || mode > VeryAggressive {
		return nil, fmt.Errorf("vad: mode out of range: %d", mode)
	}

	cfg := applyOptions(opts...)

	engine := cfg.engine()
	if engine == nil {
		return nil, errors.New("vad: engine allocation failed")
	}

	if st := engine.Init(); st != 0 {
		engine.Free()
		return nil, fmt.Errorf("vad: engine init failed: status %d", st)
	}

	if st := engine.SetMode(int(mode)); st != 0 {
		engine.Free()
		return nil, fmt.Errorf("vad: engine rejected mode %d: status %d", mode, st)
	}

	return &Detector{engine: engine, mode: mode}, nil
}

// Mode returns the detection mode fixed at creation.
func (d *Detector) Mode() Mode { return d.mode }

// Process classifies one frame of 16-bit PCM at the given sample rate.
//
// The frame must be 10, 20, or 30 ms long at a supported rate (8000, 16000,
// 32000, or 48000 Hz); other combinations are reported as an error. Errors
// are per-call, never sticky: the caller may simply continue with the next
// frame.
func (d *Detector) Process(sampleRate int, frame []int16) (bool, error) {
	if d.engine == nil {
		return false, ErrClosed
	}

	switch result := d.engine.Process(sampleRate, frame); result {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("vad: engine error: status %d (rate %d, %d samples)",
			result, sampleRate, len(frame))
	}
}

// Close releases the engine. The first call frees the underlying instance;
// any further use of the detector, including a second Close, reports
// [ErrClosed] instead of touching freed state.
func (d *Detector) Close() error {
	if d.engine == nil {
		return ErrClosed
	}

	d.engine.Free()
	d.engine = nil

	return nil
}
