// Package pcm provides conversion and level-measurement helpers for 16-bit
// PCM sample frames.
package pcm

import "math"

const (
	// FullScale is the normalization divisor for 16-bit samples.
	FullScale = 32768.0

	// RefLevel is the measurement floor used by [RMSdB], matching the
	// conventional 20 µPa-style reference so silence reads as 0 dB.
	RefLevel = 2e-5
)

// ToFloat64 converts int16 samples to normalized float64 in [-1, 1),
// reusing dst capacity if possible.
func ToFloat64(dst []float64, src []int16) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	} else {
		dst = dst[:len(src)]
	}

	for i, s := range src {
		dst[i] = float64(s) / FullScale
	}

	return dst
}

// FromFloat64 writes normalized float64 samples back into dst as int16,
// clamping to the representable range. Panics if dst is shorter than src.
func FromFloat64(dst []int16, src []float64) {
	for i, v := range src {
		s := math.Round(v * FullScale)
		if s > math.MaxInt16 {
			s = math.MaxInt16
		} else if s < math.MinInt16 {
			s = math.MinInt16
		}

		dst[i] = int16(s)
	}
}

// RMS returns the root-mean-square of frame, normalized to [0, 1].
func RMS(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}

	var sum float64
	for _, s := range frame {
		v := float64(s) / FullScale
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(frame)))
}

// Peak returns the largest absolute sample value in frame, normalized to [0, 1].
func Peak(frame []int16) float64 {
	var peak float64
	for _, s := range frame {
		v := math.Abs(float64(s)) / FullScale
		if v > peak {
			peak = v
		}
	}

	return peak
}

// RMSdB measures the frame RMS in decibels above [RefLevel]. An all-zero
// frame reads 0 dB; a full-scale square wave reads roughly 94 dB.
func RMSdB(frame []int16) float64 {
	return 20 * math.Log10(math.Max(RMS(frame), RefLevel)/RefLevel)
}

// RMSdBFS measures the frame RMS in decibels relative to full scale.
// Returns -Inf for an all-zero frame.
func RMSdBFS(frame []int16) float64 {
	r := RMS(frame)
	if r == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(r)
}

// DBToLin converts a decibel gain to a linear factor.
func DBToLin(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinToDB converts a linear amplitude to decibels. Returns -Inf for zero.
func LinToDB(lin float64) float64 {
	a := math.Abs(lin)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}
