// Package anscore implements the default acoustic-noise-suppression engine.
//
// The suppressor is a short-time spectral-subtraction denoiser: each 10 ms
// engine frame is analyzed together with the previous frame under a periodic
// Hann window (50% overlap), the per-bin noise floor is tracked with minimum
// statistics, and bins are attenuated by a policy-dependent over-subtraction
// rule before overlap-add resynthesis. Output lags the input by one engine
// frame while the analysis window fills.
package anscore

import (
	"github.com/cwbudde/algo-dsp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/internal/pcm"
)

const (
	// frameWidthMs is the only frame duration the engine accepts.
	frameWidthMs = 10

	// noiseLearnFrames is the number of initial frames averaged into the
	// noise-floor estimate before minimum tracking takes over.
	noiseLearnFrames = 10

	// noiseRise bounds the multiplicative upward drift of the noise floor
	// per frame; noiseSeed keeps a zero estimate from locking at zero.
	noiseRise = 0.01
	noiseSeed = 1e-6

	magEps = 1e-12
)

// Policy tables, ascending aggressiveness: spectral over-subtraction factor
// and the gain floor (-6, -10, and -15 dB of residual noise).
var (
	policyAlpha = [3]float64{1.5, 2.0, 2.5}
	policyFloor = [3]float64{0.501187, 0.316228, 0.177828}
)

// Inst is one suppressor engine instance.
type Inst struct {
	rate      int
	frameSize int
	fftSize   int
	policy    int

	plan *algofft.Plan[complex128]
	win  []float64

	prev  []float64 // previous input frame, normalized
	carry []float64 // synthesis tail awaiting the next overlap-add
	cur   []float64
	out   []float64

	spec []complex128
	time []complex128
	re   []float64
	im   []float64
	mag  []float64

	noise  []float64
	frames int

	initialized bool
}

// Create allocates a new, uninitialized engine instance.
func Create() *Inst {
	return &Inst{}
}

// Init configures the instance for the given sample rate and allocates all
// processing state. Returns 0 on success, -1 for an unsupported rate or an
// FFT planning failure.
func (n *Inst) Init(sampleRate int) int {
	switch sampleRate {
	case 8000, 16000, 32000, 48000:
	default:
		return -1
	}

	n.rate = sampleRate
	n.frameSize = sampleRate * frameWidthMs / 1000
	n.fftSize = nextPow2(2 * n.frameSize)

	plan, err := algofft.NewPlan64(n.fftSize)
	if err != nil {
		return -1
	}

	n.plan = plan
	n.win = window.Generate(window.TypeHann, 2*n.frameSize, window.WithPeriodic())

	n.prev = make([]float64, n.frameSize)
	n.carry = make([]float64, n.frameSize)
	n.cur = make([]float64, n.frameSize)
	n.out = make([]float64, n.frameSize)

	n.spec = make([]complex128, n.fftSize)
	n.time = make([]complex128, n.fftSize)
	n.re = make([]float64, n.fftSize)
	n.im = make([]float64, n.fftSize)
	n.mag = make([]float64, n.fftSize)

	n.noise = make([]float64, n.fftSize)
	n.frames = 0
	n.policy = 0
	n.initialized = true

	return 0
}

// SetPolicy selects the suppression policy (0..2, ascending aggressiveness).
// Returns 0 on success, -1 if the instance is uninitialized or the policy is
// out of range.
func (n *Inst) SetPolicy(policy int) int {
	if !n.initialized || policy < 0 || policy > 2 {
		return -1
	}

	n.policy = policy

	return 0
}

// FrameSize returns the fixed engine frame size in samples (10 ms at the
// configured rate). Zero before Init.
func (n *Inst) FrameSize() int {
	return n.frameSize
}

// Process denoises exactly one engine frame in place.
//
// Returns 0 on success, -1 on error (uninitialized instance, a frame that is
// not exactly one engine frame long, or a transform failure).
func (n *Inst) Process(frame []int16) int {
	if !n.initialized || len(frame) != n.frameSize {
		return -1
	}

	n.cur = pcm.ToFloat64(n.cur, frame)

	// Analysis: previous + current frame under the Hann window, zero-padded
	// to the FFT size.
	analysisLen := 2 * n.frameSize
	for i := range n.frameSize {
		n.re[i] = n.prev[i]
		n.re[n.frameSize+i] = n.cur[i]
	}

	vecmath.MulBlockInPlace(n.re[:analysisLen], n.win)

	for i := range n.fftSize {
		if i < analysisLen {
			n.spec[i] = complex(n.re[i], 0)
		} else {
			n.spec[i] = 0
		}
	}

	if err := n.plan.Forward(n.spec, n.spec); err != nil {
		return -1
	}

	for i, c := range n.spec {
		n.re[i] = real(c)
		n.im[i] = imag(c)
	}

	vecmath.Magnitude(n.mag, n.re, n.im)

	n.updateNoise()
	n.applyGain()

	if err := n.plan.Inverse(n.time, n.spec); err != nil {
		return -1
	}

	// Overlap-add: the Hann window at 50% overlap sums to unity, so the
	// completed hop is the previous tail plus the first half of this
	// synthesis frame.
	for i := range n.frameSize {
		n.out[i] = n.carry[i] + real(n.time[i])
		n.carry[i] = real(n.time[n.frameSize+i])
	}

	pcm.FromFloat64(frame, n.out)

	n.prev, n.cur = n.cur, n.prev
	n.frames++

	return 0
}

// Free releases the instance. Any later call returns error status.
func (n *Inst) Free() {
	n.initialized = false
	n.plan = nil
}

// updateNoise advances the per-bin noise-floor estimate: an arithmetic mean
// over the learning period, minimum tracking with bounded upward drift after.
func (n *Inst) updateNoise() {
	if n.frames < noiseLearnFrames {
		inv := 1.0 / float64(n.frames+1)
		for i, m := range n.mag {
			n.noise[i] += (m - n.noise[i]) * inv
		}

		return
	}

	for i, m := range n.mag {
		ceiling := n.noise[i]*(1+noiseRise) + noiseSeed
		if m < ceiling {
			ceiling = m
		}

		n.noise[i] = ceiling
	}
}

// applyGain attenuates each bin by the over-subtraction rule. Real-valued
// per-bin gains preserve the spectrum's Hermitian symmetry, so the inverse
// transform stays real.
func (n *Inst) applyGain() {
	alpha := policyAlpha[n.policy]
	floor := policyFloor[n.policy]

	for i, m := range n.mag {
		g := 1 - alpha*n.noise[i]/(m+magEps)
		if g < floor {
			g = floor
		}

		n.spec[i] *= complex(g, 0)
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
