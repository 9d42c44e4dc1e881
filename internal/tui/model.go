// Package tui is a Bubble Tea viewer for a vendor comparison: ranked TCO,
// best/likely/worst scenarios, risk scores and what-if parameter edits.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	inputPath   string
	catalogPath string
	session     *Session
	results     *Results

	selectedVendor string

	homeModel       *scenes.HomeModel
	compareModel    *scenes.CompareModel
	scenariosModel  *scenes.ScenariosModel
	riskModel       *scenes.RiskModel
	parametersModel *scenes.ParametersModel

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates a model for the input file; an empty catalogPath uses the
// catalog named by the input, or the built-in one.
func NewModel(inputPath, catalogPath string) Model {
	return Model{
		currentScene:    SceneHome,
		inputPath:       inputPath,
		catalogPath:     catalogPath,
		homeModel:       scenes.NewHomeModel(),
		compareModel:    scenes.NewCompareModel(),
		scenariosModel:  scenes.NewScenariosModel(),
		riskModel:       scenes.NewRiskModel(),
		parametersModel: scenes.NewParametersModel(nil),
		width:           80,
		height:          24,
		loading:         true,
		loadingMessage:  "Loading " + inputPath + "...",
	}
}

// Init loads the session
func (m Model) Init() tea.Cmd {
	return loadSessionCmd(m.inputPath, m.catalogPath)
}

// loadSessionCmd returns a command that parses the input and resolves vendors
func loadSessionCmd(inputPath, catalogPath string) tea.Cmd {
	return func() tea.Msg {
		s, err := LoadSession(inputPath, catalogPath)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SessionLoadedMsg{Session: s}
	}
}

// evaluateCmd returns a command that evaluates cfg against the session
func evaluateCmd(s *Session, cfg domain.OrganizationConfig) tea.Cmd {
	return func() tea.Msg {
		r, err := s.Evaluate(context.Background(), cfg)
		return ResultsMsg{Results: r, Err: err}
	}
}

// Results returns the latest evaluation, nil before the first completes.
func (m Model) Results() *Results {
	return m.results
}

// CurrentScene returns the scene on screen
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// SelectedVendor returns the vendor last chosen with enter
func (m Model) SelectedVendor() string {
	return m.selectedVendor
}

// Err returns the error on screen, if any
func (m Model) Err() error {
	return m.err
}
