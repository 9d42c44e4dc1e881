package components

import (
	"testing"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestParameterSlider_Clamps(t *testing.T) {
	s := NewParameterSlider("device_count", "Devices", d(50), d(10), d(100), d(30))
	assert.True(t, s.Value.Equal(d(50)))

	s.Increment()
	assert.True(t, s.Value.Equal(d(80)))
	s.Increment()
	assert.True(t, s.Value.Equal(d(100)), "stops at max")

	for i := 0; i < 5; i++ {
		s.Decrement()
	}
	assert.True(t, s.Value.Equal(d(10)), "stops at min")
	assert.Zero(t, s.Fraction())

	s.SetValue(d(55))
	assert.InDelta(t, 0.5, s.Fraction(), 1e-9)

	clamped := NewParameterSlider("x", "X", d(500), d(0), d(100), d(1))
	assert.True(t, clamped.Value.Equal(d(100)))
}

func TestParameterSlider_Render(t *testing.T) {
	s := NewParameterSlider("discount_rate", "Discount rate", decimal.RequireFromString("0.05"), d(0), d(1), decimal.RequireFromString("0.01")).
		WithPlaces(2).
		WithDescription("Discount rate used for NPV")

	out := s.Render()
	assert.Contains(t, out, "Discount rate  0.05")
	assert.Contains(t, out, "0.00 ─ 1.00")
	assert.NotContains(t, out, "used for NPV", "description only shows when focused")

	s.SetFocused(true)
	assert.Contains(t, s.Render(), "used for NPV")
}

func TestScenarioCard(t *testing.T) {
	cr := func(totals ...int64) *domain.ComparisonResult {
		out := &domain.ComparisonResult{}
		ids := []string{"a", "b"}
		for i, v := range totals {
			out.Results = append(out.Results, domain.CostBreakdown{VendorID: ids[i], VendorName: "Vendor " + ids[i], Total: d(v)})
		}
		return out
	}
	set := &domain.ScenarioSet{
		BestCase:   cr(100, 200),
		LikelyCase: cr(150, 300),
		WorstCase:  cr(250, 400),
	}

	card := NewScenarioCard("b", set)
	assert.Equal(t, "Vendor b", card.VendorName)
	assert.Len(t, card.Cases, 3)
	assert.Equal(t, 2, card.Cases[0].Rank)
	assert.True(t, card.Spread().Equal(d(200)))
	assert.Contains(t, card.Render(), "#2 of 2")

	missing := NewScenarioCard("zzz", set)
	assert.Zero(t, missing.Cases[1].Rank)
	assert.Contains(t, missing.Render(), "-")
}

func TestMetricCard(t *testing.T) {
	up := NewMetricCard("Baseline TCO", "$1.2M").WithCostDelta(d(5000)).WithNote("Portnox")
	out := up.Render()
	assert.Contains(t, out, "Baseline TCO")
	assert.Contains(t, out, "▲ $5.0K")
	assert.Contains(t, out, "Portnox")
	assert.False(t, up.Delta.Favorable)

	down := NewMetricCard("x", "y").WithCostDelta(d(-5000))
	assert.True(t, down.Delta.Favorable)
	assert.Contains(t, down.Render(), "▼ $5.0K")

	assert.Empty(t, MetricGrid(nil, 2))
	assert.Contains(t, MetricGrid([]*MetricCard{up, down}, 1), "Baseline TCO")
}
