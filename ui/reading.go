package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/truncate"

	"github.com/storyspeak/storyspeak/speech"
	"github.com/storyspeak/storyspeak/story"
)

type readingModel struct {
	common      *commonModel
	coordinator *speech.Coordinator

	story      story.Story
	vocabulary []story.VocabEntry

	rate       float64
	highlight  int
	playState  speech.StateType
	statusText string
}

func newReadingModel(common *commonModel, coordinator *speech.Coordinator, st story.Story, vocab []story.VocabEntry) readingModel {
	return readingModel{
		common:      common,
		coordinator: coordinator,
		story:       st,
		vocabulary:  vocab,
		rate:        speech.DefaultRate,
		highlight:   speech.NoWord,
		playState:   speech.StateIdle,
	}
}

func (m readingModel) update(msg tea.Msg) (readingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case speech.WordHighlightMsg:
		m.highlight = msg.Index

	case speech.PlaybackStateMsg:
		m.playState = msg.State

	case speech.PlaybackDoneMsg:
		m.highlight = speech.NoWord
		m.playState = speech.StateIdle

	case speech.PlaybackErrorMsg:
		m.playState = speech.StateIdle
		m.highlight = speech.NoWord
		m.statusText = msg.Message

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			return m.togglePlayback()
		case "left", "-":
			m.changeRate(-1)
		case "right", "+", "=":
			m.changeRate(1)
		case "enter":
			return m, func() tea.Msg { return startQuizMsg{} }
		case "esc":
			return m, func() tea.Msg { return newLessonMsg{} }
		}
	}
	return m, nil
}

func (m readingModel) togglePlayback() (readingModel, tea.Cmd) {
	if m.coordinator.IsSpeaking() {
		m.coordinator.Stop()
		m.highlight = speech.NoWord
		m.playState = speech.StateIdle
		return m, nil
	}

	m.statusText = ""
	if err := m.coordinator.Speak(m.story.Text, m.common.cfg.Language, m.rate); err != nil {
		log.Error("could not start playback", "err", err)
		m.statusText = speech.UserMessage(err)
	}
	return m, nil
}

// changeRate moves through the speed presets. Changing speed mid-playback
// restarts the utterance at the new rate from the top.
func (m *readingModel) changeRate(dir int) {
	idx := 0
	for i, r := range speech.RatePresets {
		if r == m.rate {
			idx = i
		}
	}
	idx += dir
	if idx < 0 || idx >= len(speech.RatePresets) {
		return
	}
	m.rate = speech.RatePresets[idx]

	if m.coordinator.IsSpeaking() {
		if err := m.coordinator.Speak(m.story.Text, m.common.cfg.Language, m.rate); err != nil {
			m.statusText = speech.UserMessage(err)
		}
	}
}

func (m readingModel) view() string {
	width := m.common.width
	if width <= 0 {
		width = 80
	}
	textWidth := width - 4
	if textWidth > 78 {
		textWidth = 78
	}

	var b strings.Builder
	b.WriteString("\n")
	if m.story.Title != "" {
		b.WriteString("  " + titleStyle.Render(m.story.Title) + "\n")
	}

	for _, line := range strings.Split(renderStory(m.story.Words, m.highlight, textWidth), "\n") {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + m.statusBar(width) + "\n")
	b.WriteString(helpStyle.Render("  space play/stop · ←/→ speed · enter quiz · esc new story"))
	return b.String()
}

func (m readingModel) statusBar(width int) string {
	var status string
	switch {
	case m.statusText != "":
		status = errorStyle.Render(m.statusText)
	case m.playState == speech.StateStarting:
		status = "starting…"
	case m.playState == speech.StateBoundaryActive || m.playState == speech.StateFallbackActive:
		status = "playing"
	default:
		status = "stopped"
	}

	left := statusKeyStyle.Render(fmt.Sprintf(" %gx ", m.rate))
	bar := left + statusBarStyle.Render(" "+status+" ")
	return truncate.StringWithTail(bar, uint(width), "…") //nolint:gosec
}
