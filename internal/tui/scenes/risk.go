package scenes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
)

// RiskModel lists risk and compliance scores with per-framework detail
type RiskModel struct {
	scores []domain.RiskComplianceScore
	table  table.Model
	width  int
	height int
}

var riskColumns = []table.Column{
	{Title: "Vendor", Width: 22},
	{Title: "Risk", Width: 6},
	{Title: "Compliance", Width: 10},
	{Title: "Avoided", Width: 10},
	{Title: "Breach", Width: 10},
}

// NewRiskModel creates a new risk scene model
func NewRiskModel() *RiskModel {
	return &RiskModel{table: newTable(riskColumns, 2)}
}

// SetScores replaces the scores, highest risk score first
func (m *RiskModel) SetScores(scores []domain.RiskComplianceScore) {
	m.scores = append([]domain.RiskComplianceScore(nil), scores...)
	sort.SliceStable(m.scores, func(i, j int) bool {
		if m.scores[i].RiskScore != m.scores[j].RiskScore {
			return m.scores[i].RiskScore > m.scores[j].RiskScore
		}
		return m.scores[i].VendorID < m.scores[j].VendorID
	})

	rows := make([]table.Row, 0, len(m.scores))
	for _, s := range m.scores {
		rows = append(rows, table.Row{
			s.VendorID,
			fmt.Sprintf("%d", s.RiskScore),
			s.ComplianceScore.StringFixed(1) + "%",
			tuistyles.FormatCurrency(s.AvoidedCost),
			tuistyles.FormatCurrency(s.BreachAvoidance),
		})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(tableHeight(len(rows), m.height-14))
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// SetSize updates the scene dimensions
func (m *RiskModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(tableHeight(len(m.table.Rows()), height-14))
}

// Selected returns the score under the cursor
func (m *RiskModel) Selected() (domain.RiskComplianceScore, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.scores) {
		return domain.RiskComplianceScore{}, false
	}
	return m.scores[i], true
}

// Update handles messages for the risk scene
func (m *RiskModel) Update(msg tea.Msg) (*RiskModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the risk table and the frameworks of the selected vendor
func (m *RiskModel) View() string {
	if len(m.scores) == 0 {
		return tuistyles.BorderStyle.Render("No risk scores yet")
	}

	var content strings.Builder
	content.WriteString(m.table.View())
	content.WriteString("\n\n")

	if s, ok := m.Selected(); ok {
		content.WriteString(tuistyles.MetricLabelStyle.Render("Frameworks for " + s.VendorID))
		content.WriteString("\n")
		if len(s.Frameworks) == 0 {
			content.WriteString(tuistyles.SubtitleStyle.Render("no frameworks required"))
		}
		for _, fw := range s.Frameworks {
			content.WriteString(fmt.Sprintf("%-12s coverage %5s%%  automated %5s%%  avoided %s\n",
				fw.Framework, fw.CoveragePercent.StringFixed(0), fw.AutomatedPercent.StringFixed(0),
				tuistyles.FormatCurrency(fw.AvoidedCost)))
		}
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n"))
}
