package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/sensitivity"
	"github.com/rgehrsitz/tcogo/internal/tui/components"
	"github.com/rgehrsitz/tcogo/internal/tui/tuimsg"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
)

// editable lists the factors offered for what-if editing, in display order.
var editable = []struct {
	factor string
	label  string
	unit   string
	places int32
}{
	{"device_count", "Devices", "", 0},
	{"years_to_project", "Horizon", " yrs", 0},
	{"fte_annual_cost", "FTE annual cost", "", 0},
	{"downtime_cost_per_hour", "Downtime cost / hour", "", 0},
	{"consulting_daily_rate", "Consulting daily rate", "", 0},
	{"discount_rate", "Discount rate", "", 2},
}

// ParametersModel edits organization inputs and asks for a recalculation
type ParametersModel struct {
	factors  *sensitivity.FactorRegistry
	original domain.OrganizationConfig
	sliders  []*components.ParameterSlider
	focused  int
	modified bool
	width    int
	height   int
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel(factors *sensitivity.FactorRegistry) *ParametersModel {
	if factors == nil {
		factors = sensitivity.NewFactorRegistry()
	}
	return &ParametersModel{factors: factors}
}

// SetConfig builds one slider per editable factor around cfg's values.
func (m *ParametersModel) SetConfig(cfg domain.OrganizationConfig) {
	m.original = cfg.Clone()
	m.sliders = nil
	m.modified = false

	for _, e := range editable {
		f, ok := m.factors.Get(e.factor)
		if !ok {
			continue
		}
		lo, hi, step := sliderRange(f, f.Current(cfg), e.places)
		s := components.NewParameterSlider(f.Name, e.label, f.Current(cfg), lo, hi, step).
			WithUnit(e.unit).
			WithPlaces(e.places).
			WithDescription(f.Description)
		m.sliders = append(m.sliders, s)
	}
	if m.focused >= len(m.sliders) {
		m.focused = 0
	}
	m.syncFocus()
}

// sliderRange spans the factor's bounds, or zero to three times the current
// value where the factor is unbounded, in roughly twenty steps.
func sliderRange(f sensitivity.Factor, current decimal.Decimal, places int32) (lo, hi, step decimal.Decimal) {
	lo = decimal.Zero
	if f.Min.Valid {
		lo = f.Min.Decimal
	}
	hi = current.Mul(decimal.NewFromInt(3))
	if f.Max.Valid {
		hi = f.Max.Decimal
	}
	if !hi.GreaterThan(lo) {
		hi = lo.Add(decimal.NewFromInt(100))
	}

	unit := decimal.New(1, -places)
	step = hi.Sub(lo).Div(decimal.NewFromInt(20)).Round(places)
	if f.Integer && f.Max.Valid {
		step = decimal.NewFromInt(1)
	}
	if step.LessThan(unit) {
		step = unit
	}
	return lo, hi, step
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Modified reports whether any slider moved since the last SetConfig.
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// Config returns the original configuration with every slider applied.
func (m *ParametersModel) Config() domain.OrganizationConfig {
	cfg := m.original.Clone()
	for _, s := range m.sliders {
		if f, ok := m.factors.Get(s.Name); ok {
			f.Apply(&cfg, f.Normalize(s.Value))
		}
	}
	return cfg
}

func (m *ParametersModel) syncFocus() {
	for i, s := range m.sliders {
		s.SetFocused(i == m.focused)
	}
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.sliders) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.focused > 0 {
			m.focused--
		}
		m.syncFocus()

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j", "tab"))):
		if m.focused < len(m.sliders)-1 {
			m.focused++
		}
		m.syncFocus()

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right", "l", "+"))):
		m.sliders[m.focused].Increment()
		m.modified = true

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "-"))):
		m.sliders[m.focused].Decrement()
		m.modified = true

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("x"))):
		m.SetConfig(m.original)

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		cfg := m.Config()
		m.original = cfg.Clone()
		m.modified = false
		return m, func() tea.Msg { return tuimsg.RecalculateMsg{Config: cfg} }
	}
	return m, nil
}

// View renders the sliders
func (m *ParametersModel) View() string {
	if len(m.sliders) == 0 {
		return tuistyles.BorderStyle.Render("No configuration loaded")
	}

	var content strings.Builder
	for _, s := range m.sliders {
		content.WriteString(s.Render())
		content.WriteString("\n\n")
	}

	hint := "↑↓ select • ←→ adjust • enter recalculate • x reset"
	if m.modified {
		hint = "modified • " + hint
	}
	content.WriteString(tuistyles.SubtitleStyle.Render(hint))
	return tuistyles.ActiveBorderStyle.Render(content.String())
}
