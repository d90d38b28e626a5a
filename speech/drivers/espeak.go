package drivers

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/storyspeak/storyspeak/speech"
)

// ESpeak drives the espeak-ng command-line synthesizer. The subprocess
// speaks directly to the audio device; cancellation kills the process.
// espeak's CLI exposes no word callbacks, so boundary events are reported
// unreliable and the coordinator paces the highlight itself.
type ESpeak struct {
	cfg speech.ESpeakConfig

	mu        sync.Mutex
	cmd       *exec.Cmd
	cancelled bool
}

// NewESpeak creates an espeak driver.
func NewESpeak(cfg speech.ESpeakConfig) *ESpeak {
	return &ESpeak{cfg: cfg}
}

// Name returns the driver identifier.
func (e *ESpeak) Name() string { return "espeak" }

// Capabilities returns the driver's capabilities.
func (e *ESpeak) Capabilities() speech.Capabilities {
	return speech.Capabilities{BoundaryEventsReliable: false}
}

// Speak starts speaking text through the espeak subprocess.
func (e *ESpeak) Speak(text, lang string, rate float64, h speech.Handlers) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		e.cancelLocked()
	}

	voice := e.cfg.Voice
	if voice == "" {
		voice = lang
	}
	wpm := int(float64(e.cfg.WordsPerMin) * rate)

	args := []string{
		"-v", voice,
		"-s", fmt.Sprintf("%d", wpm),
		text,
	}
	cmd := exec.Command(e.cfg.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		if strings.Contains(err.Error(), "executable file not found") {
			return fmt.Errorf("%w: %s", speech.ErrVoiceUnavailable, e.cfg.Binary)
		}
		return fmt.Errorf("%w: %v", speech.ErrSynthesisFailed, err)
	}

	e.cmd = cmd
	e.cancelled = false
	log.Debug("espeak started", "voice", voice, "wpm", wpm, "chars", len(text))

	go func() {
		err := cmd.Wait()

		e.mu.Lock()
		cancelled := e.cancelled
		if e.cmd == cmd {
			e.cmd = nil
		}
		e.mu.Unlock()

		switch {
		case cancelled:
			if h.OnError != nil {
				h.OnError(speech.ErrInterrupted)
			}
		case err != nil:
			if h.OnError != nil {
				h.OnError(classifyESpeakError(err, stderr.String()))
			}
		default:
			if h.OnEnd != nil {
				h.OnEnd()
			}
		}
	}()

	return nil
}

// Cancel kills the in-flight espeak process, if any.
func (e *ESpeak) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
}

func (e *ESpeak) cancelLocked() {
	if e.cmd == nil || e.cmd.Process == nil {
		return
	}
	e.cancelled = true
	if err := e.cmd.Process.Kill(); err != nil {
		log.Debug("espeak kill failed", "err", err)
	}
}

func classifyESpeakError(err error, stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "voice"):
		return fmt.Errorf("%w: %s", speech.ErrVoiceUnavailable, strings.TrimSpace(stderr))
	case strings.Contains(lower, "audio"), strings.Contains(lower, "device"):
		return fmt.Errorf("%w: %s", speech.ErrDeviceBusy, strings.TrimSpace(stderr))
	case strings.Contains(lower, "permission"):
		return fmt.Errorf("%w: %s", speech.ErrPermissionDenied, strings.TrimSpace(stderr))
	default:
		return fmt.Errorf("%w: %v", speech.ErrSynthesisFailed, err)
	}
}
