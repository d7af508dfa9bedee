package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MainViewModel wraps the main UI for use as the overlay background
type MainViewModel struct {
	model *Model
}

func NewMainViewModel(m *Model) *MainViewModel {
	return &MainViewModel{model: m}
}

func (m *MainViewModel) Init() tea.Cmd {
	return nil
}

func (m *MainViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Updates are handled by the parent Model; this wrapper only provides
	// the View() for the overlay background
	return m, nil
}

func (m *MainViewModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.model.renderHeader(),
		m.model.renderContent(),
		m.model.renderStatus(),
	)
}
