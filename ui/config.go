package ui

import "github.com/storyspeak/storyspeak/content"

// Config contains TUI-specific configuration.
type Config struct {
	// Generation defaults shown pre-filled on the setup page.
	Level           string `env:"STORYSPEAK_LEVEL" envDefault:"beginner"`
	Topic           string `env:"STORYSPEAK_TOPIC"`
	Language        string `env:"STORYSPEAK_LANGUAGE" envDefault:"en"`
	WordCount       int    `env:"STORYSPEAK_WORD_COUNT" envDefault:"150"`
	QuestionCount   int    `env:"STORYSPEAK_QUESTION_COUNT" envDefault:"3"`
	VocabularyCount int    `env:"STORYSPEAK_VOCABULARY_COUNT" envDefault:"6"`
	Mode            string `env:"STORYSPEAK_MODE" envDefault:"story"`

	// Speech driver selection, resolved by main before the program starts.
	SpeechDriver string `env:"STORYSPEAK_SPEECH_DRIVER" envDefault:"auto"`

	EnableMouse bool `env:"STORYSPEAK_ENABLE_MOUSE"`

	// Content service connection.
	Service content.ClientConfig
}
