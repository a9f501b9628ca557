package testutil

import "testing"

func TestSineReproducible(t *testing.T) {
	a := Sine(440, 16000, 0.5, 320)
	b := Sine(440, 16000, 0.5, 320)

	RequireSameSamples(t, a, b)
}

func TestSinePeakBounded(t *testing.T) {
	s := Sine(1000, 16000, 0.25, 160)

	for i, v := range s {
		if v > 8192 || v < -8192 {
			t.Fatalf("index %d: sample %d exceeds requested peak", i, v)
		}
	}
}

func TestNoiseSeeded(t *testing.T) {
	a := Noise(7, 0.5, 160)
	b := Noise(7, 0.5, 160)

	RequireSameSamples(t, a, b)
}

func TestFrameLen(t *testing.T) {
	if got := FrameLen(16000, 20); got != 320 {
		t.Fatalf("FrameLen = %d, want 320", got)
	}
	if got := FrameLen(48000, 10); got != 480 {
		t.Fatalf("FrameLen = %d, want 480", got)
	}
}
