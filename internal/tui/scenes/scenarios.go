package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/tui/components"
	"github.com/rgehrsitz/tcogo/internal/tui/tuimsg"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
)

// ScenariosModel shows every vendor under the best, likely and worst cases
type ScenariosModel struct {
	set    *domain.ScenarioSet
	ids    []string // row order: likely case ranking
	cards  map[string]*components.ScenarioCard
	table  table.Model
	width  int
	height int
}

var scenarioColumns = []table.Column{
	{Title: "Vendor", Width: 22},
	{Title: "Best", Width: 10},
	{Title: "Likely", Width: 10},
	{Title: "Worst", Width: 10},
	{Title: "Spread", Width: 10},
}

// NewScenariosModel creates a new scenarios scene model
func NewScenariosModel() *ScenariosModel {
	return &ScenariosModel{
		cards: make(map[string]*components.ScenarioCard),
		table: newTable(scenarioColumns, 2),
	}
}

// SetScenarios replaces the scenario set
func (m *ScenariosModel) SetScenarios(set *domain.ScenarioSet) {
	m.set = set
	m.ids = nil
	m.cards = make(map[string]*components.ScenarioCard)
	if set == nil || set.LikelyCase == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(set.LikelyCase.Results))
	for _, cb := range set.LikelyCase.Results {
		card := components.NewScenarioCard(cb.VendorID, set)
		m.cards[cb.VendorID] = card
		m.ids = append(m.ids, cb.VendorID)

		row := table.Row{card.VendorName}
		for _, c := range card.Cases {
			row = append(row, tuistyles.FormatCurrency(c.Total))
		}
		row = append(row, tuistyles.FormatCurrency(card.Spread()))
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.SetHeight(tableHeight(len(rows), m.height-14))
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// SetSize updates the scene dimensions
func (m *ScenariosModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(tableHeight(len(m.table.Rows()), height-14))
}

// SelectedVendor returns the vendor id under the cursor
func (m *ScenariosModel) SelectedVendor() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.ids) {
		return ""
	}
	return m.ids[i]
}

// Update handles messages for the scenarios scene
func (m *ScenariosModel) Update(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, key.NewBinding(key.WithKeys("enter"))) {
		if id := m.SelectedVendor(); id != "" {
			return m, func() tea.Msg { return tuimsg.VendorSelectedMsg{VendorID: id} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scenario table and the card of the selected vendor
func (m *ScenariosModel) View() string {
	if m.set == nil {
		return tuistyles.BorderStyle.Render("No scenarios yet")
	}

	var content strings.Builder
	content.WriteString(m.table.View())
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("Rows ordered by likely case TCO"))
	content.WriteString("\n\n")
	if card, ok := m.cards[m.SelectedVendor()]; ok {
		content.WriteString(card.SetSelected(true).Render())
	}
	return tuistyles.BorderStyle.Render(content.String())
}
