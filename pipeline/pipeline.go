// Package pipeline chains streaming voice-conditioning stages over a shared
// per-stream context.
//
// A Pipeline is built for a fixed sample rate and frame width and runs each
// configured stage over the same frame, in place and in order. Stages
// communicate through the [Context]: the voice-activity stage maintains the
// speech flag, the trigger stage derives the active flag, and every stage
// may emit leveled trace messages to an optional listener.
//
// A Pipeline is not safe for concurrent use; calls must be strictly
// sequential per instance.
package pipeline

import (
	"errors"
	"fmt"
)

// TraceLevel grades trace verbosity, ascending by importance.
type TraceLevel int

const (
	TraceDebug TraceLevel = 10
	TracePerf  TraceLevel = 20
	TraceInfo  TraceLevel = 30
	TraceNone  TraceLevel = 100
)

// StreamInfo carries the fixed stream format to stage constructors.
type StreamInfo struct {
	SampleRate   int
	FrameWidthMs int
}

// FrameLen returns the per-frame sample count of the stream.
func (si StreamInfo) FrameLen() int {
	return si.SampleRate * si.FrameWidthMs / 1000
}

// Context is the shared per-stream state visible to every stage.
type Context struct {
	// Speech reports whether the stream currently carries voiced speech,
	// after edge filtering.
	Speech bool
	// Active reports whether a speech event is in progress.
	Active bool

	level    TraceLevel
	listener func(TraceLevel, string)
}

// Tracef delivers a formatted trace message to the listener if its level
// passes the configured threshold.
func (c *Context) Tracef(level TraceLevel, format string, args ...any) {
	if c.listener == nil || level < c.level {
		return
	}

	c.listener(level, fmt.Sprintf(format, args...))
}

func (c *Context) reset() {
	c.Speech = false
	c.Active = false
}

// Stage is one in-place frame processor in the chain.
type Stage interface {
	// Process conditions one frame in place and may update the context.
	Process(ctx *Context, frame []int16) error
	// Reset returns the stage to its initial state for a new stream.
	Reset()
	// Close releases the stage's resources.
	Close() error
}

// StageFunc constructs a stage for a fixed stream format. Constructors in
// this package return StageFuncs so the pipeline can hand every stage the
// same format.
type StageFunc func(info StreamInfo) (Stage, error)

// Pipeline is an ordered chain of conditioning stages.
type Pipeline struct {
	info   StreamInfo
	ctx    Context
	stages []Stage
}

// New builds a pipeline for the given stream format, constructing each
// stage in order.
//
// Construction is all-or-nothing: if any stage fails to build, the stages
// built so far are closed before the error is returned.
func New(sampleRate, frameWidthMs int, stageFuncs []StageFunc, opts ...Option) (*Pipeline, error) {
	if sampleRate <= 0 || frameWidthMs <= 0 {
		return nil, fmt.Errorf("pipeline: invalid stream format: %d Hz, %d ms", sampleRate, frameWidthMs)
	}
	if len(stageFuncs) == 0 {
		return nil, errors.New("pipeline: no stages")
	}

	cfg := applyOptions(opts...)
	info := StreamInfo{SampleRate: sampleRate, FrameWidthMs: frameWidthMs}

	stages := make([]Stage, 0, len(stageFuncs))
	for i, build := range stageFuncs {
		stage, err := build(info)
		if err != nil {
			for _, built := range stages {
				built.Close()
			}
			return nil, fmt.Errorf("pipeline: stage %d: %w", i, err)
		}

		stages = append(stages, stage)
	}

	return &Pipeline{
		info:   info,
		ctx:    Context{level: cfg.traceLevel, listener: cfg.listener},
		stages: stages,
	}, nil
}

// Info returns the fixed stream format.
func (p *Pipeline) Info() StreamInfo { return p.info }

// Context exposes the shared stream state, valid between Process calls.
func (p *Pipeline) Context() *Context { return &p.ctx }

// Process runs every stage over the frame, in place and in order. The frame
// must be exactly one stream frame long. Stage errors abort the chain for
// this frame but are never sticky.
func (p *Pipeline) Process(frame []int16) error {
	if p.stages == nil {
		return errors.New("pipeline: closed")
	}
	if len(frame) != p.info.FrameLen() {
		return fmt.Errorf("pipeline: frame is %d samples, want %d", len(frame), p.info.FrameLen())
	}

	for _, stage := range p.stages {
		if err := stage.Process(&p.ctx, frame); err != nil {
			return err
		}
	}

	return nil
}

// Reset returns the pipeline and every stage to the initial state for a
// new stream.
func (p *Pipeline) Reset() {
	p.ctx.reset()
	for _, stage := range p.stages {
		stage.Reset()
	}
}

// Close releases every stage, reporting the first failure. Further calls
// are no-ops.
func (p *Pipeline) Close() error {
	var first error
	for _, stage := range p.stages {
		if err := stage.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.stages = nil

	return first
}
