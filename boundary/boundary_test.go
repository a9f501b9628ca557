package boundary

import (
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

// frameBytes packs int16 samples into the native-order byte layout the
// boundary expects.
func frameBytes(samples []int16) []byte {
	buf := make([]byte, 2*len(samples))
	view := sampleView(buf)
	copy(view, samples)

	return buf
}

func TestVADLifecycle(t *testing.T) {
	handle := VADCreate(0)
	if handle == 0 {
		t.Fatal("VADCreate returned the failure sentinel")
	}
	defer VADDestroy(handle)

	if got := VADProcess(handle, 16000, frameBytes(testutil.SineAtDBFS(440, 16000, -6, 160))); got != 1 {
		t.Errorf("loud tone = %d, want 1", got)
	}
	if got := VADProcess(handle, 16000, frameBytes(testutil.Silence(160))); got != 0 {
		t.Errorf("silence = %d, want 0", got)
	}
	if got := VADProcess(handle, 16000, frameBytes(testutil.Silence(100))); got != -1 {
		t.Errorf("unsupported length = %d, want -1", got)
	}
}

func TestVADCreateFailure(t *testing.T) {
	if handle := VADCreate(7); handle != 0 {
		t.Errorf("invalid mode: handle = %d, want 0", handle)
	}
}

func TestAGCLifecycle(t *testing.T) {
	handle := AGCCreate(16000, 3, 30, 1)
	if handle == 0 {
		t.Fatal("AGCCreate returned the failure sentinel")
	}
	defer AGCDestroy(handle)

	quiet := frameBytes(testutil.SineAtDBFS(440, 16000, -40, 160))
	before := append([]byte(nil), quiet...)

	var status int
	for range 50 {
		copy(quiet, before)
		status = AGCProcess(handle, quiet)
		if status == -1 {
			t.Fatal("AGCProcess = -1 on a valid frame")
		}
	}

	changed := false
	for i := range quiet {
		if quiet[i] != before[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("quiet frame not boosted in place")
	}
}

func TestAGCCreateFailure(t *testing.T) {
	if handle := AGCCreate(44100, 3, 15, 0); handle != 0 {
		t.Errorf("invalid rate: handle = %d, want 0", handle)
	}
	if handle := AGCCreate(16000, 99, 15, 0); handle != 0 {
		t.Errorf("invalid target: handle = %d, want 0", handle)
	}
}

func TestANSLifecycle(t *testing.T) {
	handle := ANSCreate(16000, 0)
	if handle == 0 {
		t.Fatal("ANSCreate returned the failure sentinel")
	}
	defer ANSDestroy(handle)

	if got := ANSFrameSize(handle); got != 320 {
		t.Errorf("ANSFrameSize = %d bytes, want 320", got)
	}

	buf := frameBytes(testutil.Noise(3, 0.2, 320))
	if got := ANSProcess(handle, buf, 0); got != 0 {
		t.Errorf("first engine frame = %d, want 0", got)
	}
	if got := ANSProcess(handle, buf, 320); got != 0 {
		t.Errorf("second engine frame = %d, want 0", got)
	}
}

// Processing at offset zero must never touch samples beyond the engine
// frame, and processing at a later offset must never touch samples before
// it.
func TestANSOffsetRespected(t *testing.T) {
	handle := ANSCreate(16000, 2)
	if handle == 0 {
		t.Fatal("ANSCreate returned the failure sentinel")
	}
	defer ANSDestroy(handle)

	buf := frameBytes(testutil.Noise(9, 0.2, 320))
	tail := append([]byte(nil), buf[320:]...)

	if got := ANSProcess(handle, buf, 0); got != 0 {
		t.Fatalf("ANSProcess = %d", got)
	}
	for i, b := range tail {
		if buf[320+i] != b {
			t.Fatalf("byte %d beyond the engine frame changed", 320+i)
		}
	}

	head := append([]byte(nil), buf[:320]...)
	if got := ANSProcess(handle, buf, 320); got != 0 {
		t.Fatalf("ANSProcess = %d", got)
	}
	for i, b := range head {
		if buf[i] != b {
			t.Fatalf("byte %d before the offset changed", i)
		}
	}
}

func TestANSBadOffsets(t *testing.T) {
	handle := ANSCreate(16000, 0)
	if handle == 0 {
		t.Fatal("ANSCreate returned the failure sentinel")
	}
	defer ANSDestroy(handle)

	buf := frameBytes(testutil.Silence(320))

	for _, offset := range []int{-2, 1, 2, 321, 640} {
		if got := ANSProcess(handle, buf, offset); got != -1 {
			t.Errorf("offset %d = %d, want -1", offset, got)
		}
	}
}

func TestMalformedBuffers(t *testing.T) {
	vadHandle := VADCreate(0)
	agcHandle := AGCCreate(16000, 3, 15, 0)
	ansHandle := ANSCreate(16000, 0)
	defer VADDestroy(vadHandle)
	defer AGCDestroy(agcHandle)
	defer ANSDestroy(ansHandle)

	odd := make([]byte, 321)
	if got := VADProcess(vadHandle, 16000, odd); got != -1 {
		t.Errorf("VAD odd buffer = %d, want -1", got)
	}
	if got := AGCProcess(agcHandle, odd); got != -1 {
		t.Errorf("AGC odd buffer = %d, want -1", got)
	}
	if got := ANSProcess(ansHandle, odd, 0); got != -1 {
		t.Errorf("ANS odd buffer = %d, want -1", got)
	}

	if got := VADProcess(vadHandle, 16000, nil); got != -1 {
		t.Errorf("VAD nil buffer = %d, want -1", got)
	}
}

func TestStaleHandlesRejected(t *testing.T) {
	handle := VADCreate(0)
	if handle == 0 {
		t.Fatal("VADCreate returned the failure sentinel")
	}

	VADDestroy(handle)

	frame := frameBytes(testutil.Silence(160))
	if got := VADProcess(handle, 16000, frame); got != -1 {
		t.Errorf("process on destroyed handle = %d, want -1", got)
	}

	// A second destroy must be a no-op rather than undefined behavior.
	VADDestroy(handle)
}

func TestHandleNeverResurrected(t *testing.T) {
	first := VADCreate(0)
	if first == 0 {
		t.Fatal("VADCreate returned the failure sentinel")
	}
	VADDestroy(first)

	// The next create reuses the slot under a new generation; the old
	// handle value stays dead.
	second := VADCreate(0)
	if second == 0 {
		t.Fatal("VADCreate returned the failure sentinel")
	}
	defer VADDestroy(second)

	if first == second {
		t.Fatal("handle value reissued")
	}
	if got := VADProcess(first, 16000, frameBytes(testutil.Silence(160))); got != -1 {
		t.Errorf("stale handle = %d, want -1", got)
	}
	if got := VADProcess(second, 16000, frameBytes(testutil.Silence(160))); got != 0 {
		t.Errorf("live handle = %d, want 0", got)
	}
}

func TestForgedHandlesRejected(t *testing.T) {
	frame := frameBytes(testutil.Silence(160))

	for _, handle := range []int64{0, -1, 1 << 40, 12345} {
		if got := VADProcess(handle, 16000, frame); got != -1 {
			t.Errorf("forged handle %d = %d, want -1", handle, got)
		}
		VADDestroy(handle)
	}
}

func TestZeroSentinelNeverIssued(t *testing.T) {
	handles := make([]int64, 0, 32)
	for range 32 {
		handle := ANSCreate(16000, 1)
		if handle == 0 {
			t.Fatal("live handle collided with the failure sentinel")
		}
		handles = append(handles, handle)
	}
	for _, handle := range handles {
		ANSDestroy(handle)
	}
}
