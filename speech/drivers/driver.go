// Package drivers provides the concrete text-to-speech drivers used by the
// speech coordinator.
package drivers

import (
	"fmt"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/storyspeak/storyspeak/speech"
	"github.com/storyspeak/storyspeak/speech/drivers/mock"
)

// New creates the named driver. "auto" picks the best available driver for
// the current machine: espeak when its binary is installed, then gtts-cli,
// then the mock driver so the app still works (silently) without any engine.
func New(name string, cfg speech.Config) (speech.Driver, error) {
	if name == "" || name == "auto" {
		name = bestAvailable(cfg)
		log.Debug("auto-selected speech driver", "driver", name)
	}

	switch name {
	case "espeak":
		return NewESpeak(cfg.ESpeak), nil
	case "gtts":
		return NewGTTS(cfg.GTTS)
	case "mock":
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", speech.ErrDriverNotFound, name)
	}
}

func bestAvailable(cfg speech.Config) string {
	if _, err := exec.LookPath(cfg.ESpeak.Binary); err == nil {
		return "espeak"
	}
	if _, err := exec.LookPath(cfg.GTTS.Binary); err == nil {
		if _, err := exec.LookPath(cfg.GTTS.FFmpegBinary); err == nil {
			return "gtts"
		}
	}
	log.Warn("no speech engine found, falling back to silent mock driver")
	return "mock"
}
