package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ScenarioCard shows one vendor's total and rank under each scenario
type ScenarioCard struct {
	VendorID   string
	VendorName string
	Cases      []ScenarioCase
	IsSelected bool
	Width      int
}

// ScenarioCase is a vendor's standing in one scenario
type ScenarioCase struct {
	Name  string
	Total decimal.Decimal
	Rank  int // 1-based; 0 when the vendor is absent
	Of    int
}

// NewScenarioCard builds the card for vendorID from a scenario set.
func NewScenarioCard(vendorID string, set *domain.ScenarioSet) *ScenarioCard {
	card := &ScenarioCard{VendorID: vendorID, VendorName: vendorID, Width: 44}
	if set == nil {
		return card
	}
	for _, c := range []struct {
		name string
		cr   *domain.ComparisonResult
	}{
		{"Best", set.BestCase},
		{"Likely", set.LikelyCase},
		{"Worst", set.WorstCase},
	} {
		sc := ScenarioCase{Name: c.name}
		if c.cr != nil {
			sc.Of = len(c.cr.Results)
			for i, cb := range c.cr.Results {
				if cb.VendorID == vendorID {
					sc.Total = cb.Total
					sc.Rank = i + 1
					card.VendorName = cb.VendorName
				}
			}
		}
		card.Cases = append(card.Cases, sc)
	}
	return card
}

// SetSelected marks the card as selected
func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

// Spread is the worst case total minus the best case total.
func (s *ScenarioCard) Spread() decimal.Decimal {
	if len(s.Cases) == 0 {
		return decimal.Zero
	}
	return s.Cases[len(s.Cases)-1].Total.Sub(s.Cases[0].Total)
}

// Render returns the styled card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(s.VendorName))
	content.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	for _, c := range s.Cases {
		rank := "-"
		if c.Rank > 0 {
			rank = fmt.Sprintf("#%d of %d", c.Rank, c.Of)
		}
		content.WriteString(fmt.Sprintf("%-7s %12s  %s\n", c.Name, tuistyles.FormatCurrency(c.Total), muted.Render(rank)))
	}
	content.WriteString(muted.Render("spread " + tuistyles.FormatCurrency(s.Spread())))

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(s.Width).
		Render(content.String())
}
