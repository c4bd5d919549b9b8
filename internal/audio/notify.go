package audio

import (
	"github.com/gen2brain/beeep"

	"github.com/bezmoradi/sinkswitch/internal/logger"
)

func init() {
	beeep.AppName = "sinkswitch"
}

// Feedback tells the user that a hotkey switched the output device.
type Feedback struct {
	Notify    bool
	Cue       bool
	CueVolume float64

	// notify and cue are replaceable in tests.
	notify func(title, message string) error
	cue    func(volume float64) error
}

// NewFeedback returns feedback using desktop notifications and PortAudio cues.
func NewFeedback(notify, cue bool, volume float64) *Feedback {
	return &Feedback{
		Notify:    notify,
		Cue:       cue,
		CueVolume: volume,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		cue: PlayCue,
	}
}

// Switched reports the outcome of one switch. It never fails; problems are
// only logged.
func (f *Feedback) Switched(deviceName string, switchErr error) {
	if f == nil {
		return
	}

	if switchErr != nil {
		if f.Notify {
			if err := f.notify("Audio switch failed", switchErr.Error()); err != nil {
				logger.Warn("[AUDIO] Notification failed: %v", err)
			}
		}
		return
	}

	if f.Cue {
		if err := f.cue(f.CueVolume); err != nil {
			logger.Warn("[AUDIO] Cue failed: %v", err)
		}
	}
	if f.Notify {
		if err := f.notify("Audio output", deviceName); err != nil {
			logger.Warn("[AUDIO] Notification failed: %v", err)
		}
	}
}
