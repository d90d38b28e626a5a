package speech

import "errors"

// Common errors for the speech subsystem. Driver implementations classify
// their platform failures into one of these so the coordinator can map them
// to user-facing messages without knowing driver internals.
var (
	// Driver errors
	ErrInterrupted      = errors.New("utterance interrupted")
	ErrPermissionDenied = errors.New("speech permission denied")
	ErrVoiceUnavailable = errors.New("no voice available")
	ErrSynthesisFailed  = errors.New("speech synthesis failed")
	ErrNetwork          = errors.New("network error during synthesis")
	ErrDeviceBusy       = errors.New("audio device busy")

	// Coordinator errors
	ErrNoContent      = errors.New("no words to speak")
	ErrDriverNotFound = errors.New("speech driver not found")
	ErrInvalidRate    = errors.New("unsupported playback rate")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid speech configuration")
)

// UserMessage maps a driver error to the message shown to the user. Each
// error kind gets a distinct message; anything unclassified degrades to a
// generic capability-unavailable notice.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInterrupted):
		return "Playback was interrupted."
	case errors.Is(err, ErrPermissionDenied):
		return "Speech output is not permitted on this system."
	case errors.Is(err, ErrVoiceUnavailable):
		return "No voice is installed for this language."
	case errors.Is(err, ErrSynthesisFailed):
		return "The speech engine could not read this story."
	case errors.Is(err, ErrNetwork):
		return "Speech synthesis needs a network connection."
	case errors.Is(err, ErrDeviceBusy):
		return "The audio device is busy. Close other audio apps and try again."
	default:
		return "Speech is unavailable right now."
	}
}

// IsInterruption reports whether the error is the kind a driver emits when
// its in-flight utterance is cancelled rather than genuinely failing.
func IsInterruption(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
