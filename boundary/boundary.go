// Package boundary exposes the filter components through a narrow
// handle-based surface for foreign hosts: opaque int64 handles, integer
// statuses, and raw byte frames.
//
// Create functions return 0 on failure instead of an error value; process
// functions return the component's integer result with -1 covering every
// failure, including stale or forged handles and malformed frame buffers;
// destroy functions ignore handles that are not live. Frame buffers are
// reinterpreted as 16-bit samples in place, without copying, and are never
// retained across calls.
//
// The handle tables are safe for concurrent use, but calls on one handle
// must be serialized by the host, matching the single-stream contract of
// the underlying components.
package boundary

import (
	"github.com/cwbudde/algo-voice/filter/agc"
	"github.com/cwbudde/algo-voice/filter/ans"
	"github.com/cwbudde/algo-voice/filter/vad"
)

var (
	vadHandles table[*vad.Detector]
	agcHandles table[*agc.Controller]
	ansHandles table[*ans.Suppressor]
)

// VADCreate creates a voice-activity detector at the given mode (0..3) and
// returns its handle, or 0 on failure.
func VADCreate(mode int) int64 {
	detector, err := vad.New(vad.Mode(mode))
	if err != nil {
		return 0
	}

	return vadHandles.put(detector)
}

// VADProcess classifies one frame of 16-bit PCM: 1 voiced speech, 0 not
// detected, -1 on any failure (bad handle, malformed buffer, or an
// unsupported rate/length combination).
func VADProcess(handle int64, sampleRate int, frame []byte) int {
	detector, ok := vadHandles.get(handle)
	if !ok {
		return -1
	}

	samples := sampleView(frame)
	if samples == nil {
		return -1
	}

	voiced, err := detector.Process(sampleRate, samples)
	switch {
	case err != nil:
		return -1
	case voiced:
		return 1
	default:
		return 0
	}
}

// VADDestroy releases the detector behind the handle. Stale, forged, and
// already-destroyed handles are ignored.
func VADDestroy(handle int64) {
	if detector, ok := vadHandles.take(handle); ok {
		detector.Close()
	}
}

// AGCCreate creates a gain controller and returns its handle, or 0 on
// failure. Parameters follow [agc.New]; limiter is 0 for off, nonzero for
// on.
func AGCCreate(sampleRate, targetLevelDBFS, compressionGainDB, limiter int) int64 {
	controller, err := agc.New(sampleRate, targetLevelDBFS, compressionGainDB, limiter != 0)
	if err != nil {
		return 0
	}

	return agcHandles.put(controller)
}

// AGCProcess applies gain to one frame of 16-bit PCM in place: 1 voiced
// speech detected while processing, 0 not detected, -1 on any failure.
func AGCProcess(handle int64, frame []byte) int {
	controller, ok := agcHandles.get(handle)
	if !ok {
		return -1
	}

	samples := sampleView(frame)
	if samples == nil {
		return -1
	}

	voiced, err := controller.Process(samples)
	switch {
	case err != nil:
		return -1
	case voiced:
		return 1
	default:
		return 0
	}
}

// AGCDestroy releases the controller behind the handle. Stale, forged, and
// already-destroyed handles are ignored.
func AGCDestroy(handle int64) {
	if controller, ok := agcHandles.take(handle); ok {
		controller.Close()
	}
}

// ANSCreate creates a noise suppressor and returns its handle, or 0 on
// failure. Parameters follow [ans.New].
func ANSCreate(sampleRate, policy int) int64 {
	suppressor, err := ans.New(sampleRate, ans.Policy(policy))
	if err != nil {
		return 0
	}

	return ansHandles.put(suppressor)
}

// ANSFrameSize reports the engine frame size in bytes for the handle, or
// -1 for a handle that is not live.
func ANSFrameSize(handle int64) int {
	suppressor, ok := ansHandles.get(handle)
	if !ok {
		return -1
	}

	return 2 * suppressor.FrameSize()
}

// ANSProcess denoises one engine frame in place, starting at the given
// byte offset into the buffer: 0 on success (unlike the other components,
// 0 carries no detection meaning), -1 on any failure. The offset must be
// even and address a whole engine frame within the buffer.
func ANSProcess(handle int64, frame []byte, offsetBytes int) int {
	suppressor, ok := ansHandles.get(handle)
	if !ok {
		return -1
	}

	samples := sampleView(frame)
	if samples == nil || offsetBytes%2 != 0 {
		return -1
	}

	if err := suppressor.ProcessAt(samples, offsetBytes/2); err != nil {
		return -1
	}

	return 0
}

// ANSDestroy releases the suppressor behind the handle. Stale, forged, and
// already-destroyed handles are ignored.
func ANSDestroy(handle int64) {
	if suppressor, ok := ansHandles.take(handle); ok {
		suppressor.Close()
	}
}
