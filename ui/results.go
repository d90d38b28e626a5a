package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/storyspeak/storyspeak/quiz"
	"github.com/storyspeak/storyspeak/story"
)

type resultsModel struct {
	common *commonModel

	score      quiz.Score
	vocabulary []story.VocabEntry
	statusText string
}

func newResultsModel(common *commonModel, questions []quiz.Question, answers *quiz.AnswerSet, vocab []story.VocabEntry) resultsModel {
	return resultsModel{
		common:     common,
		score:      answers.Grade(questions),
		vocabulary: vocab,
	}
}

func (m resultsModel) update(msg tea.Msg) (resultsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "n", "enter":
		return m, func() tea.Msg { return newLessonMsg{} }
	case "c":
		if err := clipboard.WriteAll(vocabularyText(m.vocabulary)); err != nil {
			log.Debug("clipboard copy failed", "err", err)
			m.statusText = "Could not copy to clipboard."
		} else {
			m.statusText = "Vocabulary copied!"
		}
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m resultsModel) view() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("Results") + "\n  ")
	summary := fmt.Sprintf("You got %d of %d right: %d%%", m.score.Correct, m.score.Total, m.score.Percent)
	if m.score.Percent >= 70 {
		b.WriteString(correctStyle.Render(summary))
	} else {
		b.WriteString(wrongStyle.Render(summary))
	}
	b.WriteString("\n")

	if len(m.vocabulary) > 0 {
		b.WriteString("\n  " + labelStyle.Render("Vocabulary") + "\n")
		for _, v := range m.vocabulary {
			b.WriteString("  " + selectedStyle.Render(v.Word))
			b.WriteString(" " + subtleStyle.Render("·") + " " + v.Definition + "\n")
			if v.Example != "" {
				b.WriteString("    " + subtleStyle.Render(v.Example) + "\n")
			}
		}
	}

	if m.statusText != "" {
		b.WriteString("\n  " + labelStyle.Render(m.statusText) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("  n new story · c copy vocabulary · q quit"))
	return b.String()
}

func vocabularyText(vocab []story.VocabEntry) string {
	var b strings.Builder
	for _, v := range vocab {
		fmt.Fprintf(&b, "%s - %s\n", v.Word, v.Definition)
	}
	return b.String()
}
