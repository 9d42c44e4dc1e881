package sensitivity

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Multipliers scale every cost driver of a scenario at once
type Multipliers struct {
	Personnel      decimal.Decimal `json:"personnel"`      // FTE cost and training fees
	Hardware       decimal.Decimal `json:"hardware"`       // appliance prices
	Downtime       decimal.Decimal `json:"downtime"`       // downtime cost per hour
	Implementation decimal.Decimal `json:"implementation"` // professional services and consulting rate
	Licensing      decimal.Decimal `json:"licensing"`      // tier prices, fees and license items
	Hidden         decimal.Decimal `json:"hidden"`         // hidden cost lines
}

// Scenario is a named multiplier bundle
type Scenario struct {
	Name        string
	Multipliers Multipliers
}

func uniform(v float64) Multipliers {
	m := decimal.NewFromFloat(v)
	return Multipliers{Personnel: m, Hardware: m, Downtime: m, Implementation: m, Licensing: m, Hidden: m}
}

// Scenario bundles. Every best case multiplier is at most 1 and every worst
// case multiplier at least 1, so worst >= likely >= best for any vendor.
var (
	BestCase = Scenario{Name: "best_case", Multipliers: Multipliers{
		Personnel:      decimal.NewFromFloat(0.9),
		Hardware:       decimal.NewFromFloat(0.9),
		Downtime:       decimal.NewFromFloat(0.5),
		Implementation: decimal.NewFromFloat(0.9),
		Licensing:      decimal.NewFromFloat(0.95),
		Hidden:         decimal.NewFromFloat(0.9),
	}}
	LikelyCase = Scenario{Name: "likely_case", Multipliers: uniform(1)}
	WorstCase  = Scenario{Name: "worst_case", Multipliers: Multipliers{
		Personnel:      decimal.NewFromFloat(1.3),
		Hardware:       decimal.NewFromFloat(1.5),
		Downtime:       decimal.NewFromFloat(3.0),
		Implementation: decimal.NewFromFloat(1.25),
		Licensing:      decimal.NewFromFloat(1.1),
		Hidden:         decimal.NewFromFloat(1.2),
	}}
)

// Validate rejects negative multipliers.
func (m Multipliers) Validate() error {
	for name, v := range map[string]decimal.Decimal{
		"personnel": m.Personnel, "hardware": m.Hardware, "downtime": m.Downtime,
		"implementation": m.Implementation, "licensing": m.Licensing, "hidden": m.Hidden,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s multiplier cannot be negative", name)
		}
	}
	return nil
}

// ApplyConfig returns a copy of cfg with the organization-side drivers scaled.
func (m Multipliers) ApplyConfig(cfg domain.OrganizationConfig) domain.OrganizationConfig {
	out := cfg.Clone()
	ca := &out.CostAssumptions
	ca.FTEAnnualCost = ca.FTEAnnualCost.Mul(m.Personnel)
	ca.TrainingCostPerUser = ca.TrainingCostPerUser.Mul(m.Personnel)
	ca.DowntimeCostPerHour = ca.DowntimeCostPerHour.Mul(m.Downtime)
	ca.ConsultingDailyRate = ca.ConsultingDailyRate.Mul(m.Implementation)
	return out
}

// ApplyProfile returns a deep copy of p with the vendor-side prices scaled.
func (m Multipliers) ApplyProfile(p domain.VendorCostProfile) domain.VendorCostProfile {
	out := p.DeepCopy()

	out.Hardware.PerDeviceCost = out.Hardware.PerDeviceCost.Mul(m.Hardware)
	out.Implementation.ProfessionalServicesCost = out.Implementation.ProfessionalServicesCost.Mul(m.Implementation)

	lic := &out.Licensing
	for i := range lic.Tiers {
		lic.Tiers[i].UnitPrice = lic.Tiers[i].UnitPrice.Mul(m.Licensing)
	}
	lic.AnnualFee = lic.AnnualFee.Mul(m.Licensing)
	lic.PerDeviceFee = lic.PerDeviceFee.Mul(m.Licensing)
	for i := range lic.PerpetualItems {
		lic.PerpetualItems[i].Cost = lic.PerpetualItems[i].Cost.Mul(m.Licensing)
	}
	for i := range lic.Subscriptions {
		lic.Subscriptions[i].Cost = lic.Subscriptions[i].Cost.Mul(m.Licensing)
	}

	for kind, hc := range out.HiddenCosts {
		hc.Amount = hc.Amount.Mul(m.Hidden)
		out.HiddenCosts[kind] = hc
	}
	return out
}

// RunScenario prices the vendors under one scenario.
func (a *Analyzer) RunScenario(
	ctx context.Context,
	scenario Scenario,
	ids []string,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
	opts compare.Options,
) (*domain.ComparisonResult, error) {
	if err := scenario.Multipliers.Validate(); err != nil {
		return nil, &domain.ConfigurationError{Field: "scenario." + scenario.Name, Message: err.Error()}
	}

	scaled := make(map[string]domain.VendorCostProfile, len(ids))
	for _, id := range ids {
		p, ok := profiles[id]
		if !ok {
			return nil, &domain.ResolutionError{VendorID: id, Message: "vendor not found"}
		}
		scaled[id] = scenario.Multipliers.ApplyProfile(p)
	}
	return a.Engine.CompareVendors(ctx, ids, scaled, scenario.Multipliers.ApplyConfig(cfg), opts)
}

// RunScenarios prices the vendors under the best, likely and worst case bundles.
func (a *Analyzer) RunScenarios(
	ctx context.Context,
	ids []string,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
	opts compare.Options,
) (*domain.ScenarioSet, error) {
	set := &domain.ScenarioSet{}
	targets := []struct {
		scenario Scenario
		dst      **domain.ComparisonResult
	}{
		{BestCase, &set.BestCase},
		{LikelyCase, &set.LikelyCase},
		{WorstCase, &set.WorstCase},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			cr, err := a.RunScenario(ctx, t.scenario, ids, profiles, cfg, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", t.scenario.Name, err)
			}
			*t.dst = cr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
