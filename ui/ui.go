// Package ui provides the terminal interface for storyspeak: a setup form,
// a read-along story view with per-word highlighting, a comprehension quiz,
// and a results screen.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/storyspeak/storyspeak/content"
	"github.com/storyspeak/storyspeak/speech"
)

// NewProgram returns a new Tea program wired to the speech coordinator and
// the content client.
func NewProgram(cfg Config, coordinator *speech.Coordinator) *tea.Program {
	log.Debug("starting storyspeak",
		"driver", cfg.SpeechDriver,
		"language", cfg.Language,
		"service", cfg.Service.BaseURL,
		"color_profile", termenv.ColorProfile())

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	m := newModel(cfg, coordinator)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// generatedMsg carries a finished generation from the content service.
type generatedMsg struct{ resp *content.Response }

// state is the top-level application state.
type state int

const (
	stateSetup state = iota
	stateLoading
	stateReading
	stateQuiz
	stateResults
)

func (s state) String() string {
	return map[state]string{
		stateSetup:   "setup form",
		stateLoading: "generating story",
		stateReading: "reading story",
		stateQuiz:    "taking quiz",
		stateResults: "showing results",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	width  int
	height int
}

type model struct {
	common   *commonModel
	state    state
	fatalErr error

	client      *content.Client
	coordinator *speech.Coordinator
	events      *speech.Events

	// Sub-models
	setup   setupModel
	loading loadingModel
	reading readingModel
	quiz    quizModel
	results resultsModel
}

func newModel(cfg Config, coordinator *speech.Coordinator) tea.Model {
	common := &commonModel{cfg: cfg}
	m := &model{
		common:      common,
		state:       stateSetup,
		client:      content.NewClient(cfg.Service, log.Default()),
		coordinator: coordinator,
		events:      speech.NewEvents(coordinator),
		setup:       newSetupModel(common),
		loading:     newLoadingModel(common),
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.setup.init(), m.events.Next())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.coordinator.Stop()
			return m, tea.Quit
		}

	case errMsg:
		m.fatalErr = msg.err
		return m, tea.Quit

	case generateRequestMsg:
		m.state = stateLoading
		cmds = append(cmds, m.loading.init(), m.generateCmd(msg.req))

	case generatedMsg:
		m.startLesson(msg.resp)

	case generateFailedMsg:
		m.state = stateSetup
		m.setup.setError(msg.err)

	case startQuizMsg:
		m.coordinator.Stop()
		m.state = stateQuiz

	case quizDoneMsg:
		m.state = stateResults
		m.results = newResultsModel(m.common, m.quiz.questions, m.quiz.answers, m.reading.vocabulary)

	case newLessonMsg:
		m.coordinator.Stop()
		m.state = stateSetup
		cmds = append(cmds, m.setup.init())

	// Speech events keep flowing regardless of the active page; the
	// reading model decides what to do with them.
	case speech.WordHighlightMsg, speech.PlaybackStateMsg,
		speech.PlaybackDoneMsg, speech.PlaybackErrorMsg:
		cmds = append(cmds, m.events.Next())
	}

	switch m.state {
	case stateSetup:
		var cmd tea.Cmd
		m.setup, cmd = m.setup.update(msg)
		cmds = append(cmds, cmd)
	case stateLoading:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.update(msg)
		cmds = append(cmds, cmd)
	case stateReading:
		var cmd tea.Cmd
		m.reading, cmd = m.reading.update(msg)
		cmds = append(cmds, cmd)
	case stateQuiz:
		var cmd tea.Cmd
		m.quiz, cmd = m.quiz.update(msg)
		cmds = append(cmds, cmd)
	case stateResults:
		var cmd tea.Cmd
		m.results, cmd = m.results.update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	switch m.state {
	case stateSetup:
		return m.setup.view()
	case stateLoading:
		return m.loading.view()
	case stateReading:
		return m.reading.view()
	case stateQuiz:
		return m.quiz.view()
	case stateResults:
		return m.results.view()
	default:
		return ""
	}
}

// startLesson moves from loading to reading with a fresh story package.
func (m *model) startLesson(resp *content.Response) {
	st := resp.StoryOf()
	questions := resp.Questions()
	vocab := resp.VocabularyOf()

	log.Debug("lesson generated",
		"words", st.WordCount(),
		"questions", len(questions),
		"vocabulary", len(vocab))

	m.reading = newReadingModel(m.common, m.coordinator, st, vocab)
	m.quiz = newQuizModel(m.common, questions)
	m.state = stateReading
}

// generateCmd calls the content service off the UI goroutine.
func (m *model) generateCmd(req content.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.common.cfg.Service.Timeout)
		defer cancel()

		resp, err := m.client.Generate(ctx, req)
		if err != nil {
			return generateFailedMsg{err: err}
		}
		return generatedMsg{resp: resp}
	}
}
