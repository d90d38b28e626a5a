package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# difficulty level: beginner, elementary, intermediate, advanced
level: "beginner"
# story and speech language code
# language: "en"
# mouse support
mouse: false

# Content generation service
service:
  url: "http://localhost:8080"
  # api_key: "your-api-key-here"
  timeout: "60s"
  max_retries: 2
  retry_delay: "2s"

# Speech configuration
speech:
  # driver: auto, espeak, gtts, or mock
  driver: "auto"
  language: "en"
  # how long to wait for the first word boundary event before
  # falling back to timer-based pacing
  arbitration_window: "900ms"
  # how long after a stop driver errors are discarded
  stop_grace_window: "120ms"
  # trust driver boundary events: auto, always, never
  boundary_events: "auto"

  # espeak-ng driver configuration
  espeak:
    binary: "espeak-ng"
    words_per_min: 175
    # voice: "en-us"

  # Google Translate TTS driver configuration
  gtts:
    binary: "gtts-cli"
    ffmpeg_binary: "ffmpeg"
    sample_rate: 22050
    timeout: "15s"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the storyspeak config file",
	Long:    fmt.Sprintf("\n%s the storyspeak config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit")),
	Example: "storyspeak config\nstoryspeak config --config path/to/config.yml",
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Storyspeak", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
