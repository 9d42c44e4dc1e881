package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/tui/tuimsg"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
)

// CompareModel is the ranked vendor table with the breakdown of the row under the cursor
type CompareModel struct {
	report *compare.Report
	table  table.Model
	width  int
	height int
}

var compareColumns = []table.Column{
	{Title: "#", Width: 3},
	{Title: "Vendor", Width: 22},
	{Title: "Total", Width: 10},
	{Title: "Licensing", Width: 10},
	{Title: "Personnel", Width: 10},
	{Title: "Downtime", Width: 10},
	{Title: "Savings", Width: 10},
	{Title: "ROI", Width: 8},
}

// NewCompareModel creates a new compare scene model
func NewCompareModel() *CompareModel {
	return &CompareModel{table: newTable(compareColumns, 2)}
}

// SetReport replaces the rows, keeping the cursor on the same vendor when possible.
func (m *CompareModel) SetReport(r *compare.Report) {
	selected := m.SelectedVendor()
	m.report = r
	if r == nil || r.Comparison == nil {
		m.table.SetRows(nil)
		return
	}

	roi := make(map[string]domain.ROIResult, len(r.ROI))
	for _, x := range r.ROI {
		roi[x.AlternativeID] = x
	}

	cr := r.Comparison
	rows := make([]table.Row, 0, len(cr.Results))
	cursor := 0
	for i, cb := range cr.Results {
		name := cb.VendorName
		savings, roiText := "-", "-"
		if cb.VendorID == cr.BaselineID {
			name += " *"
		} else {
			savings = tuistyles.FormatCurrency(cr.Savings[cb.VendorID].Absolute)
			roiText = compare.FormatPercent(roi[cb.VendorID].ROIPercent)
		}
		if cb.VendorID == selected {
			cursor = i
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			name,
			tuistyles.FormatCurrency(cb.Total),
			tuistyles.FormatCurrency(cb.Licensing),
			tuistyles.FormatCurrency(cb.Personnel),
			tuistyles.FormatCurrency(cb.Downtime),
			savings,
			roiText,
		})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(tableHeight(len(rows), m.height-16))
	m.table.SetCursor(cursor)
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(tableHeight(len(m.table.Rows()), height-16))
}

// SelectedVendor returns the vendor id under the cursor
func (m *CompareModel) SelectedVendor() string {
	if m.report == nil || m.report.Comparison == nil {
		return ""
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.report.Comparison.Results) {
		return ""
	}
	return m.report.Comparison.Results[i].VendorID
}

// Update moves the cursor; enter selects the vendor for the other scenes.
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, key.NewBinding(key.WithKeys("enter"))) {
		id := m.SelectedVendor()
		if id == "" {
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.VendorSelectedMsg{VendorID: id} }
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table and the selected vendor's breakdown
func (m *CompareModel) View() string {
	if m.report == nil || m.report.Comparison == nil {
		return tuistyles.BorderStyle.Render("No comparison yet")
	}

	var content strings.Builder
	content.WriteString(m.table.View())
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("* baseline " + m.report.Comparison.BaselineID + "   ↑↓ move • enter select"))
	content.WriteString("\n\n")

	if cb, ok := m.report.Comparison.Breakdown(m.SelectedVendor()); ok {
		content.WriteString(renderBreakdown(cb))
	}
	return tuistyles.BorderStyle.Render(content.String())
}

func renderBreakdown(cb domain.CostBreakdown) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).
		Render(fmt.Sprintf("%s over %d years", cb.VendorName, cb.YearsToProject)))
	b.WriteString("\n")
	for _, bucket := range cb.Buckets() {
		b.WriteString(fmt.Sprintf("%-16s %12s\n", bucket.Name, tuistyles.FormatCurrency(bucket.Amount)))
	}
	b.WriteString(fmt.Sprintf("%-16s %12s\n", "total", tuistyles.FormatCurrency(cb.Total)))
	b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%-16s %12s", "risk adjustment", tuistyles.FormatCurrency(cb.RiskAdjustment))))
	return b.String()
}
