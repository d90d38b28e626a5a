// Package content talks to the generation service that writes stories,
// quizzes, and vocabulary lists on demand.
package content

import (
	"fmt"
	"strings"

	"github.com/storyspeak/storyspeak/quiz"
	"github.com/storyspeak/storyspeak/story"
)

// Levels the service accepts, easiest first.
var Levels = []string{"beginner", "elementary", "intermediate", "advanced"}

// Modes the service accepts for the passage shape.
var Modes = []string{"story", "dialogue"}

// Request describes what to generate.
type Request struct {
	Level           string `json:"level"`
	Topic           string `json:"topic"`
	Language        string `json:"language"`
	WordCount       int    `json:"word_count"`
	QuestionCount   int    `json:"question_count"`
	VocabularyCount int    `json:"vocabulary_count"`
	Mode            string `json:"mode"`
}

// Validate rejects requests the service would refuse anyway, so the user
// gets a clear message instead of a 400.
func (r Request) Validate() error {
	if !contains(Levels, r.Level) {
		return fmt.Errorf("level must be one of %s", strings.Join(Levels, ", "))
	}
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if r.WordCount < 30 || r.WordCount > 1000 {
		return fmt.Errorf("word count must be between 30 and 1000")
	}
	if r.QuestionCount < 1 || r.QuestionCount > 10 {
		return fmt.Errorf("question count must be between 1 and 10")
	}
	if r.VocabularyCount < 0 || r.VocabularyCount > 20 {
		return fmt.Errorf("vocabulary count must be between 0 and 20")
	}
	if r.Mode != "" && !contains(Modes, r.Mode) {
		return fmt.Errorf("mode must be one of %s", strings.Join(Modes, ", "))
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

// QuizItem is a question as the service sends it: options may carry
// letter labels and the answer may be a letter, an index, or free text.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	AnswerIndex   *int     `json:"answer_index,omitempty"`
}

// VocabItem is a vocabulary entry as the service sends it.
type VocabItem struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// Response is the raw generation payload.
type Response struct {
	Title      string      `json:"title"`
	Story      string      `json:"story"`
	Quiz       []QuizItem  `json:"quiz"`
	Vocabulary []VocabItem `json:"vocabulary"`
}

// StoryOf converts the raw passage into the playback model.
func (r Response) StoryOf() story.Story {
	return story.New(r.Title, r.Story)
}

// Questions normalizes the raw quiz for grading.
func (r Response) Questions() []quiz.Question {
	out := make([]quiz.Question, 0, len(r.Quiz))
	for _, item := range r.Quiz {
		out = append(out, quiz.Normalize(quiz.Question{
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
		}, item.AnswerIndex))
	}
	return out
}

// VocabularyOf converts the raw vocabulary list, dropping empty entries.
func (r Response) VocabularyOf() []story.VocabEntry {
	out := make([]story.VocabEntry, 0, len(r.Vocabulary))
	for _, item := range r.Vocabulary {
		if strings.TrimSpace(item.Word) == "" {
			continue
		}
		out = append(out, story.VocabEntry{
			Word:       item.Word,
			Definition: item.Definition,
			Example:    item.Example,
		})
	}
	return out
}
