package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/internal/pcm"
)

// RequireLevelNear fails t if the frame RMS level (dBFS) is not within tol
// decibels of want.
func RequireLevelNear(t *testing.T, frame []int16, wantDBFS, tol float64) {
	t.Helper()

	got := pcm.RMSdBFS(frame)
	if math.Abs(got-wantDBFS) > tol {
		t.Fatalf("level = %.2f dBFS, want %.2f ± %.2f", got, wantDBFS, tol)
	}
}

// RequireSameSamples fails t if got and want differ anywhere.
func RequireSameSamples(t *testing.T, got, want []int16) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

// MaxAbsDiff returns the maximum absolute sample difference between a and b.
// Panics if the slices differ in length.
func MaxAbsDiff(a, b []int16) int {
	if len(a) != len(b) {
		panic("testutil: length mismatch")
	}

	maxDiff := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}

	return maxDiff
}
