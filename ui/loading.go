package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type loadingModel struct {
	common  *commonModel
	spinner spinner.Model
}

func newLoadingModel(common *commonModel) loadingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = labelStyle
	return loadingModel{common: common, spinner: s}
}

func (m loadingModel) init() tea.Cmd {
	return m.spinner.Tick
}

func (m loadingModel) update(msg tea.Msg) (loadingModel, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m loadingModel) view() string {
	var b strings.Builder
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" Writing your story")
	b.WriteString(subtleStyle.Render("  (this can take a little while)"))
	b.WriteString("\n")
	return b.String()
}
