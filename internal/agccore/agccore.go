// Package agccore implements the default automatic-gain-control engine.
//
// The engine mirrors the fixed-digital mode of classic capture-pipeline gain
// controllers: it tracks a running input-level estimate, boosts frames toward
// a configured target level subject to a compression-gain bound, and can cap
// output peaks with a limiter. All state, including the level estimate, lives
// in the instance, so independent instances never interact.
package agccore

import "github.com/cwbudde/algo-voice/internal/pcm"

// Gain-controller operating modes. Only fixed digital is implemented.
const (
	ModeAdaptiveAnalog = iota
	ModeAdaptiveDigital
	ModeFixedDigital
)

// Level-estimate scale: the integer mic level (0..255) maps linearly onto
// [-levelSpanDB, 0] dBFS.
const (
	MaxMicLevel = 255

	levelSpanDB = 96.0

	// levelSmooth blends each frame's measured level into the running
	// estimate.
	levelSmooth = 0.3

	// gainAttack/gainRelease smooth the applied gain; reductions act faster
	// than boosts to avoid pumping loud onsets.
	gainAttack  = 0.5
	gainRelease = 0.1

	// silenceDBFS holds the gain instead of chasing the target when the
	// frame carries no usable signal.
	silenceDBFS = -70.0

	// Configuration ranges.
	minTargetLevelDBFS   = 0
	maxTargetLevelDBFS   = 31
	minCompressionGainDB = 0
	maxCompressionGainDB = 90

	// Internal activity detector.
	activityFloorDB  = 30.0
	activityRiseDB   = 0.1
	activityMarginDB = 9.0
	minActivityDB    = 40.0
)

// Config is the caller-tunable part of the engine configuration.
type Config struct {
	TargetLevelDBFS   int
	CompressionGainDB int
	LimiterEnable     bool
}

// Inst is one gain-controller engine instance.
type Inst struct {
	rate     int
	mode     int
	minLevel int
	maxLevel int
	cfg      Config

	gainDB  float64
	floorDB float64

	initialized bool
	configured  bool
}

// Create allocates a new, uninitialized engine instance.
func Create() *Inst {
	return &Inst{}
}

// Init fixes the mic-level operating range, controller mode, and sample rate.
// Returns 0 on success, -1 for an unsupported rate, a mode other than
// [ModeFixedDigital], or an empty level range.
func (a *Inst) Init(minLevel, maxLevel, mode, sampleRate int) int {
	switch sampleRate {
	case 8000, 16000, 32000:
	default:
		return -1
	}

	if mode != ModeFixedDigital || minLevel < 0 || maxLevel <= minLevel {
		return -1
	}

	a.rate = sampleRate
	a.mode = mode
	a.minLevel = minLevel
	a.maxLevel = maxLevel
	a.gainDB = 0
	a.floorDB = activityFloorDB
	a.initialized = true
	a.configured = false

	return 0
}

// SetConfig applies the target level, compression gain, and limiter switch.
// Returns 0 on success, -1 if uninitialized or a value is out of range.
func (a *Inst) SetConfig(cfg Config) int {
	if !a.initialized ||
		cfg.TargetLevelDBFS < minTargetLevelDBFS ||
		cfg.TargetLevelDBFS > maxTargetLevelDBFS ||
		cfg.CompressionGainDB < minCompressionGainDB ||
		cfg.CompressionGainDB > maxCompressionGainDB {
		return -1
	}

	a.cfg = cfg
	a.configured = true

	return 0
}

// Process applies gain to one frame in place and advances the level estimate.
//
// micLevel carries the running input-level estimate between calls; the caller
// owns it and must pass back the returned value on the next call. Returns the
// new level and a status: 1 if voiced speech was detected while processing,
// 0 if not, -1 on error (unconfigured instance or a frame length other than
// 10 or 20 ms at the configured rate).
func (a *Inst) Process(frame []int16, micLevel int) (int, int) {
	if !a.initialized || !a.configured || !validAGCFrame(a.rate, len(frame)) {
		return micLevel, -1
	}

	if micLevel < 0 {
		micLevel = 0
	} else if micLevel > MaxMicLevel {
		micLevel = MaxMicLevel
	}

	inDBFS := pcm.RMSdBFS(frame)

	// Advance the running level estimate on frames that carry signal.
	estDBFS := float64(micLevel)/MaxMicLevel*levelSpanDB - levelSpanDB
	if inDBFS > silenceDBFS {
		estDBFS += (inDBFS - estDBFS) * levelSmooth
	}

	newLevel := int((estDBFS + levelSpanDB) / levelSpanDB * MaxMicLevel)
	if newLevel < 0 {
		newLevel = 0
	} else if newLevel > MaxMicLevel {
		newLevel = MaxMicLevel
	}

	// Activity detection, for the speech result.
	levelDB := pcm.RMSdB(frame)
	if levelDB < a.floorDB {
		a.floorDB = levelDB
	} else {
		a.floorDB += activityRiseDB
	}

	status := 0
	if levelDB >= minActivityDB && levelDB > a.floorDB+activityMarginDB {
		status = 1
	}

	// Fixed-digital gain: boost toward the target level, bounded by the
	// compression gain. Hold during silence.
	target := -float64(a.cfg.TargetLevelDBFS)

	desired := a.gainDB
	if inDBFS > silenceDBFS {
		desired = target - estDBFS
		if desired < 0 {
			desired = 0
		}
		if desired > float64(a.cfg.CompressionGainDB) {
			desired = float64(a.cfg.CompressionGainDB)
		}
	}

	if desired < a.gainDB {
		a.gainDB += (desired - a.gainDB) * gainAttack
	} else {
		a.gainDB += (desired - a.gainDB) * gainRelease
	}

	applyGain(frame, pcm.DBToLin(a.gainDB))

	if a.cfg.LimiterEnable {
		limit(frame, pcm.DBToLin(target))
	}

	return newLevel, status
}

// Free releases the instance. Any later call returns error status.
func (a *Inst) Free() {
	a.initialized = false
	a.configured = false
}

func applyGain(frame []int16, gain float64) {
	if gain == 1 {
		return
	}

	for i, s := range frame {
		v := float64(s) * gain
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}

		frame[i] = int16(v)
	}
}

// limit rescales the frame uniformly when its peak exceeds the ceiling
// (linear, relative to full scale).
func limit(frame []int16, ceiling float64) {
	peak := pcm.Peak(frame)
	if peak <= ceiling || peak == 0 {
		return
	}

	applyGain(frame, ceiling/peak)
}

func validAGCFrame(sampleRate, length int) bool {
	return length == sampleRate/100 || length == sampleRate/50
}
