// Package ans wraps an acoustic-noise-suppression engine in the shared
// filter-component contract: all-or-nothing creation, in-place streaming
// denoising, and single release.
//
// The engine operates on fixed sub-frames of 10 ms, surfaced explicitly as
// [Suppressor.FrameSize]; callers holding larger buffers denoise them one
// engine frame at a time with [Suppressor.ProcessAt]. A Suppressor is not
// safe for concurrent use; calls must be strictly sequential per instance.
package ans

import (
	"errors"
	"fmt"
)

// Policy selects the suppression strength, ascending: stronger policies
// remove more noise at the cost of more speech distortion.
type Policy int

const (
	Mild Policy = iota
	Medium
	Aggressive
)

// ErrClosed is returned by operations on a closed Suppressor.
var ErrClosed = errors.New("ans: suppressor closed")

// Engine is the entry-point surface of an underlying suppression engine.
// Integer statuses are 0 on success and negative on failure, mirroring the
// C-style contract of the default engine.
type Engine interface {
	// Init fixes the sample rate and derives the engine frame size.
	Init(sampleRate int) int
	// SetPolicy applies the suppression policy (0..2).
	SetPolicy(policy int) int
	// FrameSize reports the engine frame length in samples.
	FrameSize() int
	// Process denoises exactly one engine frame in place: 0 ok, -1 error.
	Process(frame []int16) int
	// Free releases the instance.
	Free()
}

// Suppressor is a stateful noise-suppression filter over one engine
// instance.
type Suppressor struct {
	engine    Engine
	frameSize int
}

// New creates a suppressor for the given sample rate and policy.
//
// Creation is all-or-nothing: the engine is allocated, initialized, and
// configured in sequence, and any failing step tears the instance down
// before the error is returned.
func New(sampleRate int, policy Policy, opts ...Option) (*Suppressor, error) {
	if policy < Mild || policy > Aggressive {
		return nil, fmt.Errorf("ans: policy out of range: %d", policy)
	}

	cfg := applyOptions(opts...)

	engine := cfg.engine()
	if engine == nil {
		return nil, errors.New("ans: engine allocation failed")
	}

	if st := engine.Init(sampleRate); st != 0 {
		engine.Free()
		return nil, fmt.Errorf("ans: engine init failed at %d Hz: status %d", sampleRate, st)
	}

	if st := engine.SetPolicy(int(policy)); st != 0 {
		engine.Free()
		return nil, fmt.Errorf("ans: engine rejected policy %d: status %d", policy, st)
	}

	return &Suppressor{engine: engine, frameSize: engine.FrameSize()}, nil
}

// FrameSize reports the engine frame length in samples (10 ms at the
// configured rate).
func (s *Suppressor) FrameSize() int {
	return s.frameSize
}

// Process denoises one whole engine frame of 16-bit PCM in place. The frame
// must be exactly [Suppressor.FrameSize] samples long.
func (s *Suppressor) Process(frame []int16) error {
	return s.ProcessAt(frame, 0)
}

// ProcessAt denoises one engine frame in place, starting at the given
// sample offset into frame. The offset must be non-negative, a whole
// multiple of [Suppressor.FrameSize], and leave one full engine frame
// within bounds. Samples outside the addressed engine frame are never
// touched. Errors are per-call, never sticky.
func (s *Suppressor) ProcessAt(frame []int16, offset int) error {
	if s.engine == nil {
		return ErrClosed
	}

	if offset < 0 || offset%s.frameSize != 0 || offset+s.frameSize > len(frame) {
		return fmt.Errorf("ans: offset %d not a whole engine frame within %d samples (frame size %d)",
			offset, len(frame), s.frameSize)
	}

	if st := s.engine.Process(frame[offset : offset+s.frameSize]); st != 0 {
		return fmt.Errorf("ans: engine error: status %d", st)
	}

	return nil
}

// Close releases the engine. The first call frees the underlying instance;
// any further use of the suppressor, including a second Close, reports
// [ErrClosed] instead of touching freed state.
func (s *Suppressor) Close() error {
	if s.engine == nil {
		return ErrClosed
	}

	s.engine.Free()
	s.engine = nil

	return nil
}
