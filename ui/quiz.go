package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/storyspeak/storyspeak/quiz"
)

type quizModel struct {
	common *commonModel

	questions []quiz.Question
	answers   *quiz.AnswerSet

	current  int
	selected int
	revealed bool // answer shown for the current question
}

func newQuizModel(common *commonModel, questions []quiz.Question) quizModel {
	return quizModel{
		common:    common,
		questions: questions,
		answers:   quiz.NewAnswerSet(len(questions)),
	}
}

func (m quizModel) update(msg tea.Msg) (quizModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if len(m.questions) == 0 {
		return m, func() tea.Msg { return quizDoneMsg{} }
	}

	q := m.questions[m.current]

	switch keyMsg.String() {
	case "up", "k":
		if !m.revealed && m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if !m.revealed && m.selected < len(q.Options)-1 {
			m.selected++
		}
	case "1", "2", "3", "4":
		idx := int(keyMsg.String()[0] - '1')
		if !m.revealed && idx < len(q.Options) {
			m.selected = idx
		}
	case "enter", " ":
		if !m.revealed {
			if len(q.Options) > 0 {
				m.answers.Select(m.current, q.Options[m.selected])
			}
			m.revealed = true
			return m, nil
		}
		if m.current+1 >= len(m.questions) {
			return m, func() tea.Msg { return quizDoneMsg{} }
		}
		m.current++
		m.selected = 0
		m.revealed = false
	}
	return m, nil
}

func (m quizModel) view() string {
	if len(m.questions) == 0 {
		return "\n  " + subtleStyle.Render("No questions this time.") + "\n"
	}

	q := m.questions[m.current]
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Question %d of %d", m.current+1, len(m.questions))))
	b.WriteString("\n\n  ")
	b.WriteString(titleStyle.Render(q.Question))
	b.WriteString("\n")

	for i, opt := range q.Options {
		cursor := "  "
		line := opt
		switch {
		case m.revealed && opt == q.CorrectAnswer:
			line = correctStyle.Render(opt + "  ✓")
		case m.revealed && i == m.selected:
			line = wrongStyle.Render(opt + "  ✗")
		case !m.revealed && i == m.selected:
			cursor = selectedStyle.Render("> ")
			line = selectedStyle.Render(opt)
		}
		b.WriteString(fmt.Sprintf("  %s%d. %s\n", cursor, i+1, line))
	}

	b.WriteString("\n")
	if m.revealed {
		if m.answers.Answer(m.current) == q.CorrectAnswer {
			b.WriteString("  " + correctStyle.Render("Correct!") + "\n")
		} else {
			b.WriteString("  " + wrongStyle.Render("Not quite.") + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("  enter continue"))
	} else {
		b.WriteString(helpStyle.Render("  ↑/↓ or 1-4 select · enter answer"))
	}
	return b.String()
}
