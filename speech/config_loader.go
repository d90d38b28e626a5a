package speech

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/storyspeak/storyspeak/internal/utils"
)

// LoadConfigFromViper loads speech configuration from Viper, layered over
// the defaults. Only keys the user actually set override.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("speech.driver") {
		cfg.Driver = viper.GetString("speech.driver")
	}
	if viper.IsSet("speech.language") {
		cfg.Language = viper.GetString("speech.language")
	}
	if viper.IsSet("speech.arbitration_window") {
		cfg.ArbitrationWindow = viper.GetDuration("speech.arbitration_window")
	}
	if viper.IsSet("speech.stop_grace_window") {
		cfg.StopGraceWindow = viper.GetDuration("speech.stop_grace_window")
	}
	if viper.IsSet("speech.boundary_events") {
		cfg.BoundaryEvents = viper.GetString("speech.boundary_events")
	}

	if viper.IsSet("speech.espeak.binary") {
		cfg.ESpeak.Binary = expandBinaryPath(viper.GetString("speech.espeak.binary"))
	}
	if viper.IsSet("speech.espeak.words_per_min") {
		cfg.ESpeak.WordsPerMin = viper.GetInt("speech.espeak.words_per_min")
	}
	if viper.IsSet("speech.espeak.voice") {
		cfg.ESpeak.Voice = viper.GetString("speech.espeak.voice")
	}

	if viper.IsSet("speech.gtts.binary") {
		cfg.GTTS.Binary = expandBinaryPath(viper.GetString("speech.gtts.binary"))
	}
	if viper.IsSet("speech.gtts.ffmpeg_binary") {
		cfg.GTTS.FFmpegBinary = expandBinaryPath(viper.GetString("speech.gtts.ffmpeg_binary"))
	}
	if viper.IsSet("speech.gtts.sample_rate") {
		cfg.GTTS.SampleRate = viper.GetInt("speech.gtts.sample_rate")
	}
	if viper.IsSet("speech.gtts.timeout") {
		cfg.GTTS.Timeout = viper.GetDuration("speech.gtts.timeout")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid speech configuration: %w", err)
	}

	return cfg, nil
}

// expandBinaryPath expands ~ in configured binary paths. Bare command names
// are left alone so PATH lookup still applies.
func expandBinaryPath(path string) string {
	if strings.ContainsAny(path, "/~") {
		return utils.ExpandPath(path)
	}
	return path
}
