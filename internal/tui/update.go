package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.portfolioModel.SetSize(msg.Width, msg.Height)
		m.propertyModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case PortfolioLoadedMsg:
		m.loading = false
		m.portfolio = msg.Portfolio
		m.engine.Assumptions = msg.Portfolio.Assumptions.WithDefaults()
		m.summary = m.engine.SummarizePortfolio(msg.Portfolio.Properties)
		m.portfolioModel.SetSummary(m.summary)
		return m, nil

	case PropertySelectedMsg:
		if m.summary == nil || msg.Index < 0 || msg.Index >= len(m.summary.Properties) {
			return m, nil
		}
		m.selected = msg.Index
		m.propertyModel.SetSummary(&m.summary.Properties[msg.Index])
		m.previousScene = m.currentScene
		m.currentScene = SceneProperty
		return m, nil

	case AppreciationChangedMsg:
		if m.summary == nil {
			return m, nil
		}
		property := m.summary.Properties[m.selected].Property
		return m, recalculateCmd(m.engine, m.selected, property, msg.Rate, m.summary)

	case SummaryReadyMsg:
		// ignore results for a property the user has since left
		if msg.Index == m.selected && msg.Summary != nil {
			m.propertyModel.SetSummary(msg.Summary)
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		// any key dismisses the error
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentScene == SceneHelp {
			m.currentScene = m.previousScene
			return m, nil
		}
		return m, func() tea.Msg {
			return NavigateMsg{Scene: SceneHelp}
		}

	case key.Matches(msg, m.keys.Back):
		switch m.currentScene {
		case SceneHelp:
			m.currentScene = m.previousScene
		case SceneProperty:
			m.previousScene = m.currentScene
			m.currentScene = ScenePortfolio
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case ScenePortfolio:
		m.portfolioModel, cmd = m.portfolioModel.Update(msg)
	case SceneProperty:
		m.propertyModel, cmd = m.propertyModel.Update(msg)
	}
	return m, cmd
}
