package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/sgprop/internal/calculation"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ " + m.loadingMessage))
	}
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error())))
	}

	var content string
	switch m.currentScene {
	case ScenePortfolio:
		content = m.portfolioModel.View()
	case SceneProperty:
		content = m.propertyModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	))
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("SGPROP - Singapore Property Portfolio")

	crumb := m.currentScene.String()
	if m.currentScene == SceneProperty && m.summary != nil {
		crumb = fmt.Sprintf("%s / %s", crumb, m.summary.Properties[m.selected].Property.Name)
	}
	if m.summary != nil {
		crumb += "  •  as of " + m.summary.AsOf.Format("02/01/2006")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the key bindings
func (m Model) renderStatusBar() string {
	return StatusBarStyle.Width(m.width).Render(m.help.View(m.keys))
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString("SGPROP - Singapore property sell/hold planner\n\n")
	sb.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	sb.WriteString("\n\n")
	sb.WriteString(InfoStyle.Render(fmt.Sprintf("Scenario proceeds net out SSD, extra mortgage interest, CPF refund\nwith accrued interest and the %s%% opportunity cost of waiting.",
		calculation.OpportunityCostRate.String())))
	return BorderStyle.Render(sb.String())
}
