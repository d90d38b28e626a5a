// Package story models a generated reading passage and its vocabulary.
package story

import "strings"

// Story is a passage split into the exact word sequence that playback
// highlights. Words come from whitespace splitting, so the word list and
// the spoken text always agree on indexes.
type Story struct {
	Title string
	Text  string
	Words []string
}

// New builds a Story from raw service text. Runs of whitespace collapse
// to single spaces in the spoken form, which keeps character offsets from
// the speech driver aligned with the word list.
func New(title, text string) Story {
	words := strings.Fields(text)
	return Story{
		Title: strings.TrimSpace(title),
		Text:  strings.Join(words, " "),
		Words: words,
	}
}

// WordCount returns the number of highlightable words.
func (s Story) WordCount() int { return len(s.Words) }

// Empty reports whether the story has no speakable content.
func (s Story) Empty() bool { return len(s.Words) == 0 }

// VocabEntry is a word from the story with its meaning, shown after the
// quiz so the reader can review what they just met.
type VocabEntry struct {
	Word       string
	Definition string
	Example    string
}
