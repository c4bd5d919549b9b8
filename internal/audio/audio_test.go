package audio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneSamples(t *testing.T) {
	samples := toneSamples(440, 100*time.Millisecond, 0.5)

	require.Len(t, samples, SampleRate/10)
	assert.Zero(t, samples[0], "fade-in starts silent")
	assert.Zero(t, samples[len(samples)-1], "fade-out ends silent")

	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	assert.LessOrEqual(t, peak, 0.5+1e-6)
	assert.Greater(t, peak, 0.4)
}

type recorded struct {
	notifications []string
	cues          int
}

func testFeedback(notify, cue bool) (*Feedback, *recorded) {
	rec := &recorded{}
	f := &Feedback{
		Notify:    notify,
		Cue:       cue,
		CueVolume: 0.2,
		notify: func(title, message string) error {
			rec.notifications = append(rec.notifications, title+": "+message)
			return nil
		},
		cue: func(volume float64) error {
			rec.cues++
			return errors.New("no audio device")
		},
	}
	return f, rec
}

func TestFeedbackSwitched(t *testing.T) {
	f, rec := testFeedback(true, true)

	f.Switched("Headphones(USB DAC)", nil)

	assert.Equal(t, 1, rec.cues)
	assert.Equal(t, []string{"Audio output: Headphones(USB DAC)"}, rec.notifications)
}

func TestFeedbackFailureSkipsCue(t *testing.T) {
	f, rec := testFeedback(true, true)

	f.Switched("", errors.New("svcl set default: exit status 1"))

	assert.Zero(t, rec.cues)
	assert.Equal(t, []string{"Audio switch failed: svcl set default: exit status 1"}, rec.notifications)
}

func TestFeedbackDisabled(t *testing.T) {
	f, rec := testFeedback(false, false)
	f.Switched("Speakers", nil)

	assert.Zero(t, rec.cues)
	assert.Empty(t, rec.notifications)

	var nilFeedback *Feedback
	assert.NotPanics(t, func() { nilFeedback.Switched("x", nil) })
}
