package vadcore

import (
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func newReady(t *testing.T, mode int) *Inst {
	t.Helper()

	v := Create()
	if st := v.Init(); st != 0 {
		t.Fatalf("Init = %d, want 0", st)
	}
	if st := v.SetMode(mode); st != 0 {
		t.Fatalf("SetMode(%d) = %d, want 0", mode, st)
	}

	return v
}

func TestProcessSilence(t *testing.T) {
	v := newReady(t, 3)
	frame := testutil.Silence(testutil.FrameLen(16000, 20))

	if got := v.Process(16000, frame); got != 0 {
		t.Fatalf("Process(silence) = %d, want 0", got)
	}
}

func TestProcessVoicedTone(t *testing.T) {
	v := newReady(t, 3)
	frame := testutil.SineAtDBFS(440, 16000, -6, testutil.FrameLen(16000, 20))

	if got := v.Process(16000, frame); got != 1 {
		t.Fatalf("Process(loud tone) = %d, want 1", got)
	}
}

func TestProcessAllRatesAndWidths(t *testing.T) {
	for _, rate := range []int{8000, 16000, 32000, 48000} {
		for _, ms := range []int{10, 20, 30} {
			v := newReady(t, 2)
			frame := testutil.SineAtDBFS(300, rate, -9, testutil.FrameLen(rate, ms))

			if got := v.Process(rate, frame); got != 1 {
				t.Fatalf("rate %d width %dms: Process = %d, want 1", rate, ms, got)
			}
		}
	}
}

func TestProcessInvalidInput(t *testing.T) {
	v := newReady(t, 0)

	tests := []struct {
		name  string
		rate  int
		frame []int16
	}{
		{"unsupported rate", 44100, testutil.Silence(441)},
		{"bad length", 16000, testutil.Silence(100)},
		{"empty frame", 16000, nil},
		{"zero rate", 0, testutil.Silence(160)},
	}

	for _, tc := range tests {
		if got := v.Process(tc.rate, tc.frame); got != -1 {
			t.Fatalf("%s: Process = %d, want -1", tc.name, got)
		}
	}
}

func TestProcessAfterFree(t *testing.T) {
	v := newReady(t, 1)
	v.Free()

	if got := v.Process(16000, testutil.Silence(320)); got != -1 {
		t.Fatalf("Process after Free = %d, want -1", got)
	}
}

func TestSetModeValidation(t *testing.T) {
	v := Create()
	if st := v.SetMode(1); st != -1 {
		t.Fatalf("SetMode before Init = %d, want -1", st)
	}

	v.Init()

	for _, mode := range []int{-1, 4, 100} {
		if st := v.SetMode(mode); st != -1 {
			t.Fatalf("SetMode(%d) = %d, want -1", mode, st)
		}
	}
}

func TestFloorAdaptation(t *testing.T) {
	v := newReady(t, 3)

	quiet := testutil.Noise(11, 0.002, testutil.FrameLen(16000, 20))
	loud := testutil.SineAtDBFS(440, 16000, -12, testutil.FrameLen(16000, 20))

	// Sustained low-level noise should settle into the floor, not speech.
	for range 50 {
		if got := v.Process(16000, quiet); got != 0 {
			t.Fatalf("Process(ambient noise) = %d, want 0", got)
		}
	}

	// Speech well above the adapted floor still detects.
	if got := v.Process(16000, loud); got != 1 {
		t.Fatalf("Process(tone after ambience) = %d, want 1", got)
	}
}

func TestHigherModeIsStricter(t *testing.T) {
	width := testutil.FrameLen(16000, 20)

	// A level between the quality and very-aggressive decision margins:
	// the quality mode accepts it, the very-aggressive mode does not.
	// Floor starts at 30 dB; margins are 6 dB and 15 dB.
	borderline := testutil.SineAtDBFS(440, 16000, -48, width)

	lax := newReady(t, 0)
	strict := newReady(t, 3)

	if got := lax.Process(16000, borderline); got != 1 {
		t.Fatalf("mode 0: Process = %d, want 1", got)
	}
	if got := strict.Process(16000, borderline); got != 0 {
		t.Fatalf("mode 3: Process = %d, want 0", got)
	}
}

func TestValidFrame(t *testing.T) {
	if !ValidFrame(48000, 1440) {
		t.Fatal("48000/30ms should be valid")
	}
	if ValidFrame(16000, 161) {
		t.Fatal("off-by-one length should be invalid")
	}
	if ValidFrame(22050, 220) {
		t.Fatal("unsupported rate should be invalid")
	}
}
