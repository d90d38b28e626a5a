package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/storyspeak/storyspeak/content"
)

// Canned topics offered as completions while the user types. Free-form
// topics are always allowed; this list only feeds the suggestions.
var topicCatalog = []string{
	"animals", "food and cooking", "travel", "sports", "music",
	"space exploration", "the ocean", "friendship", "school life",
	"city life", "nature", "technology", "history", "weather",
	"family", "holidays", "art", "mystery", "adventure", "science",
}

var wordCountPresets = []int{80, 150, 250, 400}

// setupField identifies the focused row on the setup form.
type setupField int

const (
	fieldLevel setupField = iota
	fieldTopic
	fieldWordCount
	fieldQuestions
	fieldMode
	fieldCount // sentinel
)

type setupModel struct {
	common *commonModel

	focus       setupField
	levelIdx    int
	wordIdx     int
	questions   int
	modeIdx     int
	topic       textinput.Model
	suggestions []string
	errText     string

	titler cases.Caser
}

func newSetupModel(common *commonModel) setupModel {
	ti := textinput.New()
	ti.Placeholder = "anything you like"
	ti.CharLimit = 60
	ti.SetValue(common.cfg.Topic)
	ti.Focus()

	m := setupModel{
		common:    common,
		focus:     fieldTopic,
		questions: common.cfg.QuestionCount,
		topic:     ti,
		titler:    cases.Title(language.English),
	}
	for i, l := range content.Levels {
		if l == common.cfg.Level {
			m.levelIdx = i
		}
	}
	for i, w := range wordCountPresets {
		if w == common.cfg.WordCount {
			m.wordIdx = i
		}
	}
	for i, mode := range content.Modes {
		if mode == common.cfg.Mode {
			m.modeIdx = i
		}
	}
	if m.questions < 1 || m.questions > 10 {
		m.questions = 3
	}
	return m
}

func (m setupModel) init() tea.Cmd {
	return textinput.Blink
}

func (m *setupModel) setError(err error) {
	m.errText = err.Error()
}

func (m setupModel) update(msg tea.Msg) (setupModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.topic, cmd = m.topic.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "up", "shift+tab":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		m.syncFocus()
		return m, nil
	case "down", "tab":
		if m.focus == fieldTopic && keyMsg.String() == "tab" && len(m.suggestions) > 0 {
			m.topic.SetValue(m.suggestions[0])
			m.topic.CursorEnd()
			m.refreshSuggestions()
			return m, nil
		}
		m.focus = (m.focus + 1) % fieldCount
		m.syncFocus()
		return m, nil
	case "left":
		if m.focus != fieldTopic {
			m.cycle(-1)
			return m, nil
		}
	case "right":
		if m.focus != fieldTopic {
			m.cycle(1)
			return m, nil
		}
	case "enter":
		return m.submit()
	case "q", "esc":
		if m.focus != fieldTopic {
			return m, tea.Quit
		}
	}

	if m.focus == fieldTopic {
		var cmd tea.Cmd
		m.topic, cmd = m.topic.Update(msg)
		m.refreshSuggestions()
		return m, cmd
	}
	return m, nil
}

func (m *setupModel) syncFocus() {
	if m.focus == fieldTopic {
		m.topic.Focus()
	} else {
		m.topic.Blur()
	}
}

func (m *setupModel) cycle(dir int) {
	switch m.focus {
	case fieldLevel:
		n := len(content.Levels)
		m.levelIdx = (m.levelIdx + dir + n) % n
	case fieldWordCount:
		n := len(wordCountPresets)
		m.wordIdx = (m.wordIdx + dir + n) % n
	case fieldQuestions:
		m.questions += dir
		if m.questions < 1 {
			m.questions = 1
		}
		if m.questions > 10 {
			m.questions = 10
		}
	case fieldMode:
		n := len(content.Modes)
		m.modeIdx = (m.modeIdx + dir + n) % n
	}
}

func (m *setupModel) refreshSuggestions() {
	query := strings.TrimSpace(m.topic.Value())
	m.suggestions = nil
	if query == "" {
		return
	}
	matches := fuzzy.Find(query, topicCatalog)
	for i, match := range matches {
		if i == 3 {
			break
		}
		if !strings.EqualFold(match.Str, query) {
			m.suggestions = append(m.suggestions, match.Str)
		}
	}
}

func (m setupModel) submit() (setupModel, tea.Cmd) {
	req := content.Request{
		Level:           content.Levels[m.levelIdx],
		Topic:           strings.TrimSpace(m.topic.Value()),
		Language:        m.common.cfg.Language,
		WordCount:       wordCountPresets[m.wordIdx],
		QuestionCount:   m.questions,
		VocabularyCount: m.common.cfg.VocabularyCount,
		Mode:            content.Modes[m.modeIdx],
	}
	if err := req.Validate(); err != nil {
		m.errText = err.Error()
		return m, nil
	}
	m.errText = ""
	return m, func() tea.Msg { return generateRequestMsg{req: req} }
}

func (m setupModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("storyspeak"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Pick a level and a topic, then press enter to generate a story."))
	b.WriteString("\n\n")

	b.WriteString(m.row(fieldLevel, "Level", m.titler.String(content.Levels[m.levelIdx])))
	b.WriteString(m.row(fieldTopic, "Topic", m.topic.View()))

	if m.focus == fieldTopic && len(m.suggestions) > 0 {
		var titled []string
		for _, s := range m.suggestions {
			titled = append(titled, m.titler.String(s))
		}
		b.WriteString("         " + subtleStyle.Render("tab: "+strings.Join(titled, " · ")))
		b.WriteString("\n")
	}

	b.WriteString(m.row(fieldWordCount, "Length", fmt.Sprintf("%d words", wordCountPresets[m.wordIdx])))
	b.WriteString(m.row(fieldQuestions, "Questions", fmt.Sprintf("%d", m.questions)))
	b.WriteString(m.row(fieldMode, "Mode", m.titler.String(content.Modes[m.modeIdx])))

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ move · ←/→ change · enter generate · q quit"))
	return "\n" + b.String()
}

func (m setupModel) row(field setupField, label, value string) string {
	cursor := "  "
	rendered := value
	if m.focus == field {
		cursor = selectedStyle.Render("> ")
		if field != fieldTopic {
			rendered = selectedStyle.Render(value)
		}
	}
	return fmt.Sprintf("%s%s %s\n", cursor, labelStyle.Render(fmt.Sprintf("%-10s", label)), rendered)
}
