package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single figure with a label and an optional delta
type MetricCard struct {
	Label string
	Value string
	Delta *Delta
	Note  string
	Width int
}

// Delta is a signed change shown under a metric. For costs a decrease is
// favorable, so the arrow and the color are chosen separately.
type Delta struct {
	Up        bool
	Favorable bool
	Change    string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 28,
	}
}

// WithCostDelta shows d as a cost change: negative is favorable.
func (m *MetricCard) WithCostDelta(d decimal.Decimal) *MetricCard {
	m.Delta = &Delta{
		Up:        d.IsPositive(),
		Favorable: !d.IsPositive(),
		Change:    tuistyles.FormatCurrency(d.Abs()),
	}
	return m
}

// WithNote adds a muted line under the value
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" +
		tuistyles.MetricValueStyle.Render(m.Value)

	if m.Delta != nil {
		style := tuistyles.MetricTrendStyle(m.Delta.Favorable)
		content += "\n" + style.Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Delta.Up), m.Delta.Change))
	}
	if m.Note != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid renders cards in rows of the given width
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows []string
	var row []string
	for i, card := range cards {
		row = append(row, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
