// Package vadcore implements the default voice-activity detection engine.
//
// The engine exposes the C-style entry-point surface consumed by
// [github.com/cwbudde/algo-voice/filter/vad]: integer statuses, explicit
// Init/SetMode configuration, and in-place frame classification. Detection is
// energy based: a slowly adapting noise-floor tracker with a per-mode decision
// margin, so higher modes trade recall for precision.
package vadcore

import "github.com/cwbudde/algo-voice/internal/pcm"

const (
	// initialFloorDB seeds the noise-floor tracker at a quiet-room ambient
	// level (dB over the 2e-5 reference) so the first voiced frame is not
	// swallowed by its own floor estimate.
	initialFloorDB = 30.0

	// floorRiseDB bounds how fast the floor may creep upward per frame.
	// Downward adaptation is immediate.
	floorRiseDB = 0.1

	// minSpeechDB is the absolute level below which no frame classifies as
	// speech regardless of the floor estimate.
	minSpeechDB = 40.0
)

// modeMarginDB maps detector mode (0..3, ascending precision) to the margin
// a frame must exceed the noise floor by to classify as speech.
var modeMarginDB = [4]float64{6, 9, 12, 15}

// Inst is one detector engine instance.
type Inst struct {
	mode        int
	floorDB     float64
	initialized bool
}

// Create allocates a new, uninitialized engine instance.
func Create() *Inst {
	return &Inst{}
}

// Init resets the instance state. Returns 0 on success.
func (v *Inst) Init() int {
	v.mode = 0
	v.floorDB = initialFloorDB
	v.initialized = true

	return 0
}

// SetMode selects the detection mode (0..3). Returns 0 on success, -1 if the
// instance is uninitialized or the mode is out of range.
func (v *Inst) SetMode(mode int) int {
	if !v.initialized || mode < 0 || mode > 3 {
		return -1
	}

	v.mode = mode

	return 0
}

// Process classifies one frame of 16-bit PCM.
//
// Returns 1 for voiced speech, 0 for non-speech, -1 on error (uninitialized
// instance, unsupported sample rate, or a frame length that is not 10, 20, or
// 30 ms at the given rate).
func (v *Inst) Process(sampleRate int, frame []int16) int {
	if !v.initialized || !ValidFrame(sampleRate, len(frame)) {
		return -1
	}

	levelDB := pcm.RMSdB(frame)

	// Floor tracking: follow drops immediately, rise slowly so sustained
	// speech cannot absorb itself into the estimate.
	if levelDB < v.floorDB {
		v.floorDB = levelDB
	} else {
		v.floorDB += floorRiseDB
	}

	if levelDB < minSpeechDB {
		return 0
	}

	if levelDB > v.floorDB+modeMarginDB[v.mode] {
		return 1
	}

	return 0
}

// Free releases the instance. Any later call returns error status.
func (v *Inst) Free() {
	v.initialized = false
}

// ValidRate reports whether the engine supports the sample rate.
func ValidRate(sampleRate int) bool {
	switch sampleRate {
	case 8000, 16000, 32000, 48000:
		return true
	}

	return false
}

// ValidFrame reports whether length samples at the given rate correspond to a
// supported frame duration (10, 20, or 30 ms).
func ValidFrame(sampleRate, length int) bool {
	if !ValidRate(sampleRate) || length == 0 {
		return false
	}

	for _, ms := range [3]int{10, 20, 30} {
		if length == sampleRate*ms/1000 {
			return true
		}
	}

	return false
}
