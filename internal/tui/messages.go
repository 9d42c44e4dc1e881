package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	SceneCompare
	SceneScenarios
	SceneRisk
	SceneParameters
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneCompare:
		return "Compare"
	case SceneScenarios:
		return "Scenarios"
	case SceneRisk:
		return "Risk"
	case SceneParameters:
		return "Parameters"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// SessionLoadedMsg signals the input file and catalog have been loaded
type SessionLoadedMsg struct {
	Session *Session
}

// ResultsMsg carries the outcome of an evaluation
type ResultsMsg struct {
	Results *Results
	Err     error
}
