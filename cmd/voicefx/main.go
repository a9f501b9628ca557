// Command voicefx conditions a speech recording offline.
//
// It decodes a 16-bit PCM WAV file, runs the noise-suppression, gain-control,
// and voice-activity stages over it frame by frame, reports the detected
// speech regions, and optionally writes the conditioned audio back out.
//
// Usage:
//
//	voicefx [flags] input.wav
//
// Examples:
//
//	voicefx recording.wav
//	voicefx -o clean.wav -policy 2 recording.wav
//	voicefx -frame 30 -fall 300 -trace recording.wav
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-voice/filter/ans"
	"github.com/cwbudde/algo-voice/filter/vad"
	"github.com/cwbudde/algo-voice/pipeline"
)

func main() {
	output := flag.String("o", "", "write the conditioned audio to this WAV file")
	frameMs := flag.Int("frame", 20, "frame width in milliseconds (multiple of 10)")
	mode := flag.Int("mode", int(vad.Quality), "voice-activity mode 0..3, ascending precision")
	fallMs := flag.Int("fall", 500, "speech fall delay in milliseconds")
	target := flag.Int("target", 3, "gain target level below full scale in dB")
	gain := flag.Int("gain", 15, "maximum applied boost in dB")
	policy := flag.Int("policy", int(ans.Mild), "noise-suppression policy 0..2, ascending strength")
	trace := flag.Bool("trace", false, "print stage trace messages")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: voicefx [flags] input.wav\n\n")
		fmt.Fprintf(os.Stderr, "Conditions a 16-bit PCM WAV recording and reports speech regions.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  voicefx recording.wav\n")
		fmt.Fprintf(os.Stderr, "  voicefx -o clean.wav -policy 2 recording.wav\n")
		fmt.Fprintf(os.Stderr, "  voicefx -frame 30 -fall 300 -trace recording.wav\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *output, *frameMs, *mode, *fallMs, *target, *gain, *policy, *trace); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output string, frameMs, mode, fallMs, target, gain, policy int, trace bool) error {
	samples, sampleRate, err := readWAV(input)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{}
	if trace {
		opts = append(opts,
			pipeline.WithTraceLevel(pipeline.TraceDebug),
			pipeline.WithTraceListener(func(level pipeline.TraceLevel, msg string) {
				fmt.Fprintf(os.Stderr, "[%d] %s\n", level, msg)
			}))
	}

	p, err := pipeline.New(sampleRate, frameMs, []pipeline.StageFunc{
		pipeline.NewANS(pipeline.WithANSPolicy(ans.Policy(policy))),
		pipeline.NewAGC(pipeline.WithAGCTarget(target), pipeline.WithAGCCompression(gain)),
		pipeline.NewVAD(pipeline.WithVADMode(vad.Mode(mode)), pipeline.WithVADFall(fallMs)),
		pipeline.NewVoiceTrigger(),
	}, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	frameLen := p.Info().FrameLen()
	frameDur := float64(frameMs) / 1000

	var (
		speechStart float64
		inSpeech    bool
		regions     int
	)
	for offset := 0; offset+frameLen <= len(samples); offset += frameLen {
		if err := p.Process(samples[offset : offset+frameLen]); err != nil {
			return fmt.Errorf("at %.2fs: %w", float64(offset)/float64(sampleRate), err)
		}

		at := float64(offset)/float64(sampleRate) + frameDur
		switch {
		case p.Context().Speech && !inSpeech:
			speechStart = at - frameDur
			inSpeech = true
		case !p.Context().Speech && inSpeech:
			fmt.Printf("speech %7.2fs - %7.2fs\n", speechStart, at)
			inSpeech = false
			regions++
		}
	}
	if inSpeech {
		fmt.Printf("speech %7.2fs - %7.2fs\n", speechStart, float64(len(samples))/float64(sampleRate))
		regions++
	}
	fmt.Printf("%d speech region(s) in %.2fs of audio\n", regions, float64(len(samples))/float64(sampleRate))

	if output != "" {
		return writeWAV(output, samples, sampleRate)
	}

	return nil
}

func readWAV(path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	if decoder.BitDepth != 16 {
		return nil, 0, fmt.Errorf("%s: %d-bit samples, want 16", path, decoder.BitDepth)
	}
	if buf.Format.NumChannels != 1 {
		return nil, 0, fmt.Errorf("%s: %d channels, want mono", path, buf.Format.NumChannels)
	}

	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int16(s)
	}

	return samples, buf.Format.SampleRate, nil
}

func writeWAV(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	encoder := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := encoder.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	return f.Close()
}
