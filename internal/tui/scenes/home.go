package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/tui/components"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
)

// HomeModel is the dashboard: headline figures and recommendations
type HomeModel struct {
	report *compare.Report
	width  int
	height int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetReport updates the comparison shown
func (m *HomeModel) SetReport(r *compare.Report) {
	m.report = r
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	return m, nil
}

// View renders the dashboard
func (m *HomeModel) View() string {
	if m.report == nil || m.report.Comparison == nil || len(m.report.Comparison.Results) == 0 {
		return tuistyles.BorderStyle.Render("Calculating...")
	}

	var content strings.Builder
	org := m.report.Organization
	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).
		Render("NAC Vendor TCO"))
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%d devices, %d years, %s",
		org.DeviceCount, org.YearsToProject, orDash(org.Industry))))
	content.WriteString("\n\n")

	content.WriteString(components.MetricGrid(m.cards(), m.columns()))
	content.WriteString("\n\n")

	if len(m.report.Recommendations) > 0 {
		content.WriteString(tuistyles.MetricLabelStyle.Render("Recommendations"))
		content.WriteString("\n")
		for _, rec := range m.report.Recommendations {
			content.WriteString("• " + rec + "\n")
		}
	}

	return tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n"))
}

func (m *HomeModel) cards() []*components.MetricCard {
	cr := m.report.Comparison
	cheapest := cr.Results[0]
	base := cr.Baseline()

	cards := []*components.MetricCard{
		components.NewMetricCard("Vendors compared", fmt.Sprintf("%d", len(cr.Results))),
		components.NewMetricCard("Lowest TCO", tuistyles.FormatCurrency(cheapest.Total)).
			WithNote(cheapest.VendorName),
		components.NewMetricCard("Baseline TCO", tuistyles.FormatCurrency(base.Total)).
			WithNote(base.VendorName).
			WithCostDelta(base.Total.Sub(cheapest.Total)),
	}

	best := decimal.Zero
	bestVs := ""
	for id, s := range cr.Savings {
		if s.Absolute.GreaterThan(best) || (s.Absolute.Equal(best) && bestVs != "" && id < bestVs) {
			best, bestVs = s.Absolute, id
		}
	}
	if bestVs != "" {
		cards = append(cards, components.NewMetricCard("Largest saving", tuistyles.FormatCurrency(best)).
			WithNote("vs "+bestVs))
	}
	return cards
}

func (m *HomeModel) columns() int {
	if m.width > 0 && m.width < 100 {
		return 2
	}
	return 4
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
