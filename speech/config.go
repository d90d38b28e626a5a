package speech

import (
	"fmt"
	"time"
)

// Boundary-event trust overrides. "auto" defers to the driver's capability
// report; the other two force a strategy regardless of what the driver says.
const (
	BoundaryEventsAuto   = "auto"
	BoundaryEventsAlways = "always"
	BoundaryEventsNever  = "never"
)

// Config contains all speech subsystem configuration options.
type Config struct {
	// Driver selects the TTS driver: espeak, gtts, mock, or auto.
	Driver string `yaml:"driver" env:"STORYSPEAK_SPEECH_DRIVER" envDefault:"auto"`

	// Language is the BCP-47 language code passed to the driver.
	Language string `yaml:"language" env:"STORYSPEAK_SPEECH_LANGUAGE" envDefault:"en"`

	// ArbitrationWindow is how long to wait for a first boundary event
	// before committing to fallback pacing.
	ArbitrationWindow time.Duration `yaml:"arbitration_window" env:"STORYSPEAK_SPEECH_ARBITRATION_WINDOW" envDefault:"900ms"`

	// StopGraceWindow is how long after an explicit stop driver errors
	// are treated as self-inflicted and discarded.
	StopGraceWindow time.Duration `yaml:"stop_grace_window" env:"STORYSPEAK_SPEECH_STOP_GRACE_WINDOW" envDefault:"120ms"`

	// BoundaryEvents overrides boundary-event trust: auto, always, never.
	BoundaryEvents string `yaml:"boundary_events" env:"STORYSPEAK_SPEECH_BOUNDARY_EVENTS" envDefault:"auto"`

	// Engine-specific configuration.
	ESpeak ESpeakConfig `yaml:"espeak"`
	GTTS   GTTSConfig   `yaml:"gtts"`
}

// ESpeakConfig contains espeak driver specific settings.
type ESpeakConfig struct {
	Binary      string `yaml:"binary" env:"STORYSPEAK_SPEECH_ESPEAK_BINARY" envDefault:"espeak-ng"`
	WordsPerMin int    `yaml:"words_per_min" env:"STORYSPEAK_SPEECH_ESPEAK_WPM" envDefault:"175"`
	Voice       string `yaml:"voice" env:"STORYSPEAK_SPEECH_ESPEAK_VOICE"`
}

// GTTSConfig contains Google Translate TTS driver specific settings.
type GTTSConfig struct {
	Binary       string        `yaml:"binary" env:"STORYSPEAK_SPEECH_GTTS_BINARY" envDefault:"gtts-cli"`
	FFmpegBinary string        `yaml:"ffmpeg_binary" env:"STORYSPEAK_SPEECH_GTTS_FFMPEG" envDefault:"ffmpeg"`
	SampleRate   int           `yaml:"sample_rate" env:"STORYSPEAK_SPEECH_GTTS_SAMPLE_RATE" envDefault:"22050"`
	Timeout      time.Duration `yaml:"timeout" env:"STORYSPEAK_SPEECH_GTTS_TIMEOUT" envDefault:"15s"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Driver:            "auto",
		Language:          "en",
		ArbitrationWindow: 900 * time.Millisecond,
		StopGraceWindow:   120 * time.Millisecond,
		BoundaryEvents:    BoundaryEventsAuto,
		ESpeak: ESpeakConfig{
			Binary:      "espeak-ng",
			WordsPerMin: 175,
		},
		GTTS: GTTSConfig{
			Binary:       "gtts-cli",
			FFmpegBinary: "ffmpeg",
			SampleRate:   22050,
			Timeout:      15 * time.Second,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	switch c.Driver {
	case "auto", "espeak", "gtts", "mock":
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}

	if len(c.Language) < 2 || len(c.Language) > 5 {
		return fmt.Errorf("%w: language code must be 2-5 characters, got %q", ErrInvalidConfig, c.Language)
	}

	if c.ArbitrationWindow <= 0 {
		return fmt.Errorf("%w: arbitration_window must be positive, got %s", ErrInvalidConfig, c.ArbitrationWindow)
	}
	if c.StopGraceWindow <= 0 {
		return fmt.Errorf("%w: stop_grace_window must be positive, got %s", ErrInvalidConfig, c.StopGraceWindow)
	}

	switch c.BoundaryEvents {
	case BoundaryEventsAuto, BoundaryEventsAlways, BoundaryEventsNever:
	default:
		return fmt.Errorf("%w: boundary_events must be auto, always, or never, got %q", ErrInvalidConfig, c.BoundaryEvents)
	}

	if c.ESpeak.WordsPerMin < 80 || c.ESpeak.WordsPerMin > 450 {
		return fmt.Errorf("%w: espeak words_per_min must be between 80 and 450, got %d", ErrInvalidConfig, c.ESpeak.WordsPerMin)
	}
	if c.GTTS.SampleRate < 8000 || c.GTTS.SampleRate > 48000 {
		return fmt.Errorf("%w: gtts sample_rate must be between 8000 and 48000, got %d", ErrInvalidConfig, c.GTTS.SampleRate)
	}

	return nil
}
