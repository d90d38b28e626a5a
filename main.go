// Package main provides the entry point for the storyspeak CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/storyspeak/storyspeak/content"
	"github.com/storyspeak/storyspeak/speech"
	"github.com/storyspeak/storyspeak/speech/drivers"
	"github.com/storyspeak/storyspeak/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	serviceURL string
	driverName string
	lang       string
	level      string
	topic      string
	mouse      bool

	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}).
		Render

	rootCmd = &cobra.Command{
		Use:   "storyspeak",
		Short: "Learn a language with stories that read themselves aloud",
		Long: fmt.Sprintf(
			"\nGenerate a short story at your level, follow along %s as it is read aloud, then take a quick quiz.",
			keyword("word by word"),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return validateOptions()
		},
		RunE: func(*cobra.Command, []string) error {
			return runTUI()
		},
	}
)

func validateOptions() error {
	// grab config values from Viper
	serviceURL = viper.GetString("service.url")
	mouse = viper.GetBool("mouse")
	driverName = viper.GetString("speech.driver")
	lang = viper.GetString("speech.language")
	level = viper.GetString("level")
	topic = viper.GetString("topic")

	if !contains(content.Levels, level) {
		return fmt.Errorf("unknown level %q, valid levels: %v", level, content.Levels)
	}

	// The app is a full-screen TUI; refuse to start into a pipe.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("storyspeak needs an interactive terminal")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func runTUI() error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Level = level
	if topic != "" {
		cfg.Topic = topic
	}
	cfg.Language = lang
	cfg.SpeechDriver = driverName
	cfg.EnableMouse = mouse

	// Layer the service config: defaults, then environment, then config
	// file, then the flag.
	svc := content.DefaultClientConfig()
	if v := cfg.Service.BaseURL; v != "" {
		svc.BaseURL = v
	}
	if v := cfg.Service.APIKey; v != "" {
		svc.APIKey = v
	}
	if v := cfg.Service.Timeout; v > 0 {
		svc.Timeout = v
	}
	if v := cfg.Service.MaxRetries; v > 0 {
		svc.MaxRetries = v
	}
	if v := cfg.Service.RetryDelay; v > 0 {
		svc.RetryDelay = v
	}
	if viper.IsSet("service.api_key") {
		svc.APIKey = viper.GetString("service.api_key")
	}
	if viper.IsSet("service.timeout") {
		svc.Timeout = viper.GetDuration("service.timeout")
	}
	if viper.IsSet("service.max_retries") {
		svc.MaxRetries = viper.GetInt("service.max_retries")
	}
	if viper.IsSet("service.retry_delay") {
		svc.RetryDelay = viper.GetDuration("service.retry_delay")
	}
	if serviceURL != "" {
		svc.BaseURL = serviceURL
	}
	cfg.Service = svc

	speechCfg, err := speech.LoadConfigFromViper()
	if err != nil {
		return err
	}
	speechCfg.Driver = driverName
	speechCfg.Language = lang

	driver, err := drivers.New(speechCfg.Driver, speechCfg)
	if err != nil {
		return fmt.Errorf("setting up speech: %w", err)
	}
	coordinator := speech.NewCoordinator(driver, speechCfg)

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, coordinator).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVar(&serviceURL, "service-url", "", "content generation service URL")
	rootCmd.Flags().StringVarP(&driverName, "driver", "d", "auto", "speech driver (auto/espeak/gtts/mock)")
	rootCmd.Flags().StringVarP(&lang, "language", "L", "en", "story and speech language code")
	rootCmd.Flags().StringVarP(&level, "level", "l", "beginner", "difficulty level")
	rootCmd.Flags().StringVarP(&topic, "topic", "t", "", "pre-fill the story topic")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("service.url", rootCmd.Flags().Lookup("service-url"))
	_ = viper.BindPFlag("speech.driver", rootCmd.Flags().Lookup("driver"))
	_ = viper.BindPFlag("speech.language", rootCmd.Flags().Lookup("language"))
	_ = viper.BindPFlag("level", rootCmd.Flags().Lookup("level"))
	_ = viper.BindPFlag("topic", rootCmd.Flags().Lookup("topic"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("level", "beginner")
	viper.SetDefault("speech.driver", "auto")
	viper.SetDefault("speech.language", "en")

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "storyspeak")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "storyspeak")}, dirs...)
	}

	if c := os.Getenv("STORYSPEAK_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("storyspeak")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("storyspeak")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "storyspeak.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
