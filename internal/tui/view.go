package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}
	if m.loading && m.results == nil {
		return m.renderLoading()
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneScenarios:
		content = m.scenariosModel.View()
	case SceneRisk:
		content = m.riskModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	if contentHeight < 0 {
		contentHeight = 0
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("tcogo - NAC TCO comparison")

	crumb := m.currentScene.String()
	if m.selectedVendor != "" {
		crumb = fmt.Sprintf("%s / %s", crumb, m.selectedVendor)
	}
	if m.loading {
		crumb += " (recalculating)"
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("c", "compare"),
		formatShortcut("s", "scenarios"),
		formatShortcut("r", "risk"),
		formatShortcut("p", "parameters"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.session != nil {
		name := SubtitleStyle.Render(m.session.InputPath)
		gap := m.width - lipgloss.Width(statusText) - lipgloss.Width(name) - 2
		if gap > 0 {
			statusText += strings.Repeat(" ", gap) + name
		}
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(BorderStyle.Render("⠋ " + message))
}

func (m Model) renderError() string {
	return m.renderApp(ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	))
}

func (m Model) renderHelp() string {
	helpText := `tcogo - NAC vendor TCO comparison

SCENES:
  h        Home: headline figures and recommendations
  c        Compare: ranked TCO with the selected vendor's breakdown
  s        Scenarios: best, likely and worst case totals
  r        Risk: risk and compliance scores per vendor
  p        Parameters: edit inputs and recalculate
  ?        This help
  esc      Back
  q/ctrl+c Quit

TABLES:
  ↑/↓      Move the cursor
  enter    Select the vendor under the cursor

PARAMETERS:
  ↑/↓      Choose an input
  ←/→      Adjust it
  enter    Recalculate every scene
  x        Reset to the last calculated values`

	return BorderStyle.Render(helpText)
}
