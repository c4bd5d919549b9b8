package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gordonklaus/portaudio"

	"github.com/bezmoradi/sinkswitch/internal/logger"
)

const (
	SampleRate = 44100
	Frames     = 512

	cueFreq     = 880.0
	cueDuration = 120 * time.Millisecond
	fadeFrames  = 256
)

// PortAudio keeps one global host context; cues must not overlap.
var cueMutex sync.Mutex

// toneSamples renders a sine tone with a short linear fade at both ends so
// the cue does not click.
func toneSamples(freq float64, duration time.Duration, volume float64) []float32 {
	n := int(float64(SampleRate) * duration.Seconds())
	samples := make([]float32, n)
	for i := range samples {
		gain := volume
		if i < fadeFrames {
			gain *= float64(i) / fadeFrames
		}
		if tail := n - 1 - i; tail < fadeFrames {
			gain *= float64(tail) / fadeFrames
		}
		samples[i] = float32(gain * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
	}
	return samples
}

// PlayCue plays a short tone on the current default output device so the
// user hears where audio now goes. PortAudio is initialized per cue because
// it only picks up a changed default device on initialization. When
// PortAudio is unavailable the system beep is used instead.
func PlayCue(volume float64) error {
	cueMutex.Lock()
	defer cueMutex.Unlock()

	if err := playTone(toneSamples(cueFreq, cueDuration, volume)); err != nil {
		logger.Warn("[AUDIO] PortAudio cue failed, using system beep: %v", err)
		if beepErr := beeep.Beep(cueFreq, int(cueDuration/time.Millisecond)); beepErr != nil {
			return fmt.Errorf("cue failed: %v; beep failed: %w", err, beepErr)
		}
	}
	return nil
}

func playTone(samples []float32) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	out := make([]float32, Frames)
	stream, err := portaudio.OpenDefaultStream(0, 1, SampleRate, len(out), out)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer stream.Stop()

	for offset := 0; offset < len(samples); offset += len(out) {
		n := copy(out, samples[offset:])
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write output stream: %w", err)
		}
	}
	return nil
}
