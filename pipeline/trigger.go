package pipeline

// voiceTrigger activates the stream on speech edges. It touches no samples.
type voiceTrigger struct {
	prevSpeech bool
}

// NewVoiceTrigger returns the trigger stage constructor. The stage follows
// [Context.Speech] and mirrors its transitions into [Context.Active]:
// activation on the rising edge, deactivation on the falling edge. Place it
// after the voice-activity stage.
func NewVoiceTrigger() StageFunc {
	return func(StreamInfo) (Stage, error) {
		return &voiceTrigger{}, nil
	}
}

func (s *voiceTrigger) Process(ctx *Context, _ []int16) error {
	if ctx.Speech != s.prevSpeech {
		ctx.Active = ctx.Speech
		s.prevSpeech = ctx.Speech
		ctx.Tracef(TraceInfo, "active: %v", ctx.Active)
	}

	return nil
}

func (s *voiceTrigger) Reset() {
	s.prevSpeech = false
}

func (s *voiceTrigger) Close() error {
	return nil
}
