package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/storyspeak/storyspeak/quiz"
)

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testQuiz() quizModel {
	questions := []quiz.Question{
		{Question: "q1", Options: []string{"right", "wrong"}, CorrectAnswer: "right"},
		{Question: "q2", Options: []string{"wrong", "right"}, CorrectAnswer: "right"},
	}
	return newQuizModel(&commonModel{}, questions)
}

func TestQuizAnswerAndAdvance(t *testing.T) {
	m := testQuiz()

	// Answer the first question with option 1.
	m, _ = m.update(key("enter"))
	if !m.revealed {
		t.Fatal("answer not revealed")
	}
	if got := m.answers.Answer(0); got != "right" {
		t.Errorf("recorded answer = %q", got)
	}

	// Continue to the second question.
	m, _ = m.update(key("enter"))
	if m.current != 1 || m.revealed {
		t.Fatalf("current = %d revealed = %v", m.current, m.revealed)
	}

	// Pick option 2 then answer.
	m, _ = m.update(key("2"))
	m, _ = m.update(key("enter"))
	if got := m.answers.Answer(1); got != "right" {
		t.Errorf("recorded answer = %q", got)
	}

	// Finishing the last question emits the done message.
	m, cmd := m.update(key("enter"))
	if cmd == nil {
		t.Fatal("no command after last question")
	}
	if _, ok := cmd().(quizDoneMsg); !ok {
		t.Error("expected quizDoneMsg")
	}

	score := m.answers.Grade(m.questions)
	if score.Correct != 2 || score.Percent != 100 {
		t.Errorf("score = %+v", score)
	}
}

func TestQuizSelectionClampsToOptions(t *testing.T) {
	m := testQuiz()
	m, _ = m.update(key("4")) // only two options
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
	m, _ = m.update(key("j"))
	m, _ = m.update(key("j"))
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}
}

func TestQuizRevealLocksSelection(t *testing.T) {
	m := testQuiz()
	m, _ = m.update(key("enter"))
	m, _ = m.update(key("2"))
	if m.selected != 0 {
		t.Error("selection changed after reveal")
	}
}
