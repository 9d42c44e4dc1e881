package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/tcogo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider displays an adjustable input with a visual track
type ParameterSlider struct {
	Name        string // factor name the value is applied to
	Label       string
	Value       decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Places      int32 // decimal places shown
	Unit        string
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider; value is clamped into [min, max].
func NewParameterSlider(name, label string, value, min, max, step decimal.Decimal) *ParameterSlider {
	p := &ParameterSlider{
		Name:  name,
		Label: label,
		Min:   min,
		Max:   max,
		Step:  step,
		Width: 30,
	}
	p.SetValue(value)
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithPlaces sets the number of decimal places shown
func (p *ParameterSlider) WithPlaces(places int32) *ParameterSlider {
	p.Places = places
	return p
}

// WithDescription adds a help line
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment raises the value by one step, stopping at Max.
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value.Add(p.Step))
}

// Decrement lowers the value by one step, stopping at Min.
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value.Sub(p.Step))
}

// SetValue sets the value, clamping to [Min, Max]
func (p *ParameterSlider) SetValue(v decimal.Decimal) {
	switch {
	case v.LessThan(p.Min):
		p.Value = p.Min
	case v.GreaterThan(p.Max):
		p.Value = p.Max
	default:
		p.Value = v
	}
}

// Fraction returns how far along the range the value sits, in [0, 1].
func (p *ParameterSlider) Fraction() float64 {
	span := p.Max.Sub(p.Min)
	if !span.IsPositive() {
		return 0
	}
	f, _ := p.Value.Sub(p.Min).Div(span).Float64()
	return f
}

func (p *ParameterSlider) format(v decimal.Decimal) string {
	return v.StringFixed(p.Places) + p.Unit
}

// Render returns the label, value, track and range
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.format(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderTrack())
	content.WriteString(" ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).
		Render(fmt.Sprintf("%s ─ %s", p.format(p.Min), p.format(p.Max))))

	if p.IsFocused && p.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(p.Description))
	}
	return content.String()
}

func (p *ParameterSlider) renderTrack() string {
	filled := int(float64(p.Width)*p.Fraction() + 0.5)
	if filled > p.Width {
		filled = p.Width
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < p.Width; i++ {
		switch {
		case i == filled || (i == p.Width-1 && filled == p.Width):
			bar.WriteString(tuistyles.SliderThumbStyle.Render("●"))
		case i < filled:
			bar.WriteString(tuistyles.SliderThumbStyle.Render("━"))
		default:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("─"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}
