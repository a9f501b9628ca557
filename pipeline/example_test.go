package pipeline_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/pipeline"
)

func Example() {
	p, err := pipeline.New(16000, 20, []pipeline.StageFunc{
		pipeline.NewANS(),
		pipeline.NewAGC(),
		pipeline.NewVAD(pipeline.WithVADMode(0), pipeline.WithVADFall(200)),
		pipeline.NewVoiceTrigger(),
	})
	if err != nil {
		panic(err)
	}
	defer p.Close()

	tone := func() []int16 {
		frame := make([]int16, p.Info().FrameLen())
		for i := range frame {
			frame[i] = int16(16000 * math.Sin(2*math.Pi*440*float64(i)/16000))
		}
		return frame
	}

	// Half a second of sustained tone activates the stream.
	for range 25 {
		if err := p.Process(tone()); err != nil {
			panic(err)
		}
	}

	fmt.Println("speech:", p.Context().Speech)
	fmt.Println("active:", p.Context().Active)

	// Output:
	// speech: true
	// active: true
}
