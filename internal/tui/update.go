package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeScenes()
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case SessionLoadedMsg:
		m.session = msg.Session
		m.parametersModel.SetConfig(msg.Session.Config)
		return m.startEvaluation(msg.Session.Config)

	case ResultsMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.applyResults(msg.Results)
		return m, nil

	case tuimsg.RecalculateMsg:
		if m.session == nil {
			return m, nil
		}
		return m.startEvaluation(msg.Config)

	case tuimsg.VendorSelectedMsg:
		m.selectedVendor = msg.VendorID
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m Model) startEvaluation(cfg domain.OrganizationConfig) (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingMessage = "Calculating..."
	return m, evaluateCmd(m.session, cfg)
}

func (m *Model) applyResults(r *Results) {
	m.results = r
	m.homeModel.SetReport(r.Report)
	m.compareModel.SetReport(r.Report)
	m.scenariosModel.SetScenarios(r.Scenarios)
	m.riskModel.SetScores(r.Risk)
	m.parametersModel.SetConfig(r.Config)
}

func (m *Model) resizeScenes() {
	m.homeModel.SetSize(m.width, m.height)
	m.compareModel.SetSize(m.width, m.height)
	m.scenariosModel.SetSize(m.width, m.height)
	m.riskModel.SetSize(m.width, m.height)
	m.parametersModel.SetSize(m.width, m.height)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key dismisses an error
	if m.err != nil {
		if m.results == nil && msg.String() == "q" {
			return m, tea.Quit
		}
		m.err = nil
		return m, nil
	}

	navigate := func(s Scene) tea.Cmd {
		return func() tea.Msg { return NavigateMsg{Scene: s} }
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		return m, navigate(SceneHelp)
	case "esc":
		if m.currentScene != SceneHome {
			back := m.previousScene
			if back == m.currentScene {
				back = SceneHome
			}
			return m, navigate(back)
		}
		return m, nil
	case "h":
		return m, navigate(SceneHome)
	case "c":
		return m, navigate(SceneCompare)
	case "s":
		return m, navigate(SceneScenarios)
	case "r":
		return m, navigate(SceneRisk)
	case "p":
		return m, navigate(SceneParameters)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneScenarios:
		m.scenariosModel, cmd = m.scenariosModel.Update(msg)
	case SceneRisk:
		m.riskModel, cmd = m.riskModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	}
	return m, cmd
}
