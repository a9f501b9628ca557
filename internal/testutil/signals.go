// Package testutil provides deterministic 16-bit PCM test signals and
// assertion helpers shared by the filter and pipeline tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine frame with the given peak amplitude
// in [0, 1] of full scale.
func Sine(freqHz float64, sampleRate int, peak float64, length int) []int16 {
	out := make([]int16, length)
	step := 2 * math.Pi * freqHz / float64(sampleRate)

	for i := range out {
		out[i] = clamp16(peak * 32767 * math.Sin(step*float64(i)))
	}

	return out
}

// SineAtDBFS generates a sine frame whose peak sits at the given dBFS level.
func SineAtDBFS(freqHz float64, sampleRate int, dbfs float64, length int) []int16 {
	return Sine(freqHz, sampleRate, math.Pow(10, dbfs/20), length)
}

// Noise generates seeded white noise with the given peak amplitude.
func Noise(seed int64, peak float64, length int) []int16 {
	out := make([]int16, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = clamp16((rng.Float64()*2 - 1) * peak * 32767)
	}

	return out
}

// Silence generates an all-zero frame.
func Silence(length int) []int16 {
	return make([]int16, length)
}

// FrameLen returns the sample count of a frame of widthMs milliseconds
// at the given rate.
func FrameLen(sampleRate, widthMs int) int {
	return sampleRate * widthMs / 1000
}

func clamp16(v float64) int16 {
	s := math.Round(v)
	if s > math.MaxInt16 {
		return math.MaxInt16
	}
	if s < math.MinInt16 {
		return math.MinInt16
	}

	return int16(s)
}
