package speech

import (
	"strings"
	"time"
)

// RatePresets are the playback speed multipliers the application offers.
var RatePresets = []float64{0.5, 0.75, 1.0, 1.25, 1.5}

// DefaultRate is the normal playback speed.
const DefaultRate = 1.0

// PacingProfile holds the fallback timer calibration derived from a playback
// rate. It is a pure function of the rate and is recomputed per session.
type PacingProfile struct {
	MsPerWord     time.Duration // tick interval and per-word budget drain
	SentencePause time.Duration // extra dwell after crossing . ! ?
	CommaPause    time.Duration // extra dwell after crossing , ; :
}

// ProfileForRate returns the pacing calibration for a playback rate. Slower
// rates get a larger per-word delay and proportionally larger pauses.
func ProfileForRate(rate float64) PacingProfile {
	switch {
	case rate <= 0.6:
		return PacingProfile{
			MsPerWord:     420 * time.Millisecond,
			SentencePause: 900 * time.Millisecond,
			CommaPause:    450 * time.Millisecond,
		}
	case rate < 1.1:
		return PacingProfile{
			MsPerWord:     340 * time.Millisecond,
			SentencePause: 600 * time.Millisecond,
			CommaPause:    300 * time.Millisecond,
		}
	default:
		return PacingProfile{
			MsPerWord:     150 * time.Millisecond,
			SentencePause: 300 * time.Millisecond,
			CommaPause:    150 * time.Millisecond,
		}
	}
}

// ValidRate reports whether the rate is one of the supported presets.
func ValidRate(rate float64) bool {
	for _, r := range RatePresets {
		if r == rate {
			return true
		}
	}
	return false
}

// trailingPause returns the pause budget to arm after crossing word, based
// on its trailing punctuation. Closing quotes and brackets are skipped so
// `word."` still counts as a sentence end.
func trailingPause(word string, profile PacingProfile) time.Duration {
	trimmed := strings.TrimRight(word, `"')]`)
	if trimmed == "" {
		return 0
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return profile.SentencePause
	case ',', ';', ':':
		return profile.CommaPause
	default:
		return 0
	}
}
