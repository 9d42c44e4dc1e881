package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInput = "../../test/testdata/analysis.yaml"

// step delivers msg and then every message produced by the returned commands.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for i := 0; msg != nil && i < 10; i++ {
		updated, cmd := m.Update(msg)
		m = updated.(Model)
		if cmd == nil {
			return m
		}
		msg = cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			return m
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(testInput, "")
	msg := m.Init()()
	_, ok := msg.(SessionLoadedMsg)
	require.True(t, ok, "expected SessionLoadedMsg, got %T", msg)

	m = step(t, m, msg)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	require.NoError(t, m.Err())
	require.NotNil(t, m.Results())
	return m
}

func TestModel_LoadsAndEvaluates(t *testing.T) {
	m := loadedModel(t)

	r := m.Results()
	require.NotNil(t, r.Report)
	assert.Len(t, r.Report.Comparison.Results, 3)
	assert.Equal(t, "portnox", r.Report.Comparison.BaselineID)
	require.NotNil(t, r.Scenarios)
	assert.Len(t, r.Risk, 3)

	view := m.View()
	assert.Contains(t, view, "NAC Vendor TCO")
	assert.Contains(t, view, "Lowest TCO")
}

func TestModel_LoadingView(t *testing.T) {
	m := NewModel(testInput, "")
	assert.Contains(t, m.View(), "Loading")
}

func TestModel_Navigation(t *testing.T) {
	m := loadedModel(t)

	tests := []struct {
		key   string
		scene Scene
		want  string
	}{
		{"c", SceneCompare, "baseline portnox"},
		{"s", SceneScenarios, "spread"},
		{"r", SceneRisk, "Frameworks for"},
		{"p", SceneParameters, "Devices"},
		{"?", SceneHelp, "SCENES"},
		{"h", SceneHome, "Recommendations"},
	}
	for _, tt := range tests {
		t.Run(tt.scene.String(), func(t *testing.T) {
			m = step(t, m, runes(tt.key))
			assert.Equal(t, tt.scene, m.CurrentScene())
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestModel_EscGoesBack(t *testing.T) {
	m := loadedModel(t)
	m = step(t, m, runes("c"))
	m = step(t, m, runes("r"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, SceneCompare, m.CurrentScene())
}

func TestModel_SelectVendorInCompare(t *testing.T) {
	m := loadedModel(t)
	second := m.Results().Report.Comparison.Results[1]

	m = step(t, m, runes("c"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, second.VendorID, m.SelectedVendor())
	assert.Contains(t, m.View(), second.VendorName+" over 3 years")
}

func TestModel_ParameterEditRecalculates(t *testing.T) {
	m := loadedModel(t)
	before := m.Results().Report.Comparison.Baseline().Total

	m = step(t, m, runes("p"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "modified")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NoError(t, m.Err())
	r := m.Results()
	assert.Greater(t, r.Config.DeviceCount, 2500)
	assert.Equal(t, r.Config.DeviceCount, r.Report.Organization.DeviceCount)
	assert.True(t, r.Report.Comparison.Baseline().Total.GreaterThan(before))
	assert.NotContains(t, m.View(), "modified")
}

func TestModel_ErrorIsDismissed(t *testing.T) {
	m := NewModel("does-not-exist.yaml", "")
	m = step(t, m, m.Init()())
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "Error:")

	m = step(t, m, ErrorMsg{Err: errors.New("boom")})
	assert.Contains(t, m.View(), "boom")

	m = step(t, m, runes("x"))
	assert.NoError(t, m.Err())
}

func TestModel_QuitKeys(t *testing.T) {
	m := loadedModel(t)
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, k.String())
	}
}

func TestSession_EvaluateRejectsInvalidConfig(t *testing.T) {
	s, err := LoadSession(testInput, "")
	require.NoError(t, err)
	cfg := s.Config
	cfg.DeviceCount = 0
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_, err = s.Evaluate(ctx, cfg)
	assert.Error(t, err)
}
