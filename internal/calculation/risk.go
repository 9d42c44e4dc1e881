package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

// weightTolerance mirrors how risk weights are validated when loaded from files
var weightTolerance = decimal.NewFromFloat(0.001)

// RiskWeights weights the four risk metrics of a vendor
type RiskWeights struct {
	SecurityEffectiveness decimal.Decimal
	IncidentReduction     decimal.Decimal
	BreachPrevention      decimal.Decimal
	ComplianceAutomation  decimal.Decimal
}

// DefaultRiskWeights is the fixed weight table used by ScoreRisk
var DefaultRiskWeights = RiskWeights{
	SecurityEffectiveness: decimal.NewFromFloat(0.3),
	IncidentReduction:     decimal.NewFromFloat(0.2),
	BreachPrevention:      decimal.NewFromFloat(0.3),
	ComplianceAutomation:  decimal.NewFromFloat(0.2),
}

// Sum adds the weights.
func (w RiskWeights) Sum() decimal.Decimal {
	return w.SecurityEffectiveness.Add(w.IncidentReduction).Add(w.BreachPrevention).Add(w.ComplianceAutomation)
}

// Validate checks the weights are non-negative and sum to 1.
func (w RiskWeights) Validate() error {
	for _, v := range []decimal.Decimal{w.SecurityEffectiveness, w.IncidentReduction, w.BreachPrevention, w.ComplianceAutomation} {
		if v.IsNegative() {
			return fmt.Errorf("risk weight %s is negative", v.String())
		}
	}
	if w.Sum().Sub(decimal.NewFromInt(1)).Abs().GreaterThan(weightTolerance) {
		return fmt.Errorf("risk weights must sum to 1.0, got %s", w.Sum().String())
	}
	return nil
}

// ViolationCosts maps a compliance framework to its reference violation cost
type ViolationCosts map[domain.FrameworkID]decimal.Decimal

// ScoreRisk scores a profile with DefaultRiskWeights.
func ScoreRisk(profile domain.VendorCostProfile, cfg domain.OrganizationConfig, violationCosts ViolationCosts) (domain.RiskComplianceScore, error) {
	return ScoreRiskWithWeights(profile, cfg, violationCosts, DefaultRiskWeights)
}

// ScoreRiskWithWeights computes the weighted risk score, the compliance score
// over the frameworks in scope, the violation cost the vendor's coverage avoids,
// and the expected breach cost avoided over the horizon.
//
// Frameworks in scope are cfg.ComplianceFrameworksRequired when non-empty,
// otherwise every framework the profile covers. A required framework the
// profile does not cover scores zero.
func ScoreRiskWithWeights(profile domain.VendorCostProfile, cfg domain.OrganizationConfig, violationCosts ViolationCosts, weights RiskWeights) (domain.RiskComplianceScore, error) {
	fail := func(format string, args ...any) (domain.RiskComplianceScore, error) {
		return domain.RiskComplianceScore{}, &domain.CalculationError{
			VendorID:  profile.ID,
			Component: "risk",
			Message:   fmt.Sprintf(format, args...),
		}
	}
	if err := cfg.Validate(); err != nil {
		return domain.RiskComplianceScore{}, err
	}
	if err := weights.Validate(); err != nil {
		return fail("%v", err)
	}

	risk := profile.Risk
	weighted := risk.SecurityEffectiveness.Mul(weights.SecurityEffectiveness).
		Add(risk.IncidentReduction.Mul(weights.IncidentReduction)).
		Add(risk.BreachPrevention.Mul(weights.BreachPrevention)).
		Add(risk.ComplianceAutomation.Mul(weights.ComplianceAutomation))

	scope := cfg.ComplianceFrameworksRequired
	if len(scope) == 0 {
		for fw := range profile.Compliance {
			scope = append(scope, fw)
		}
		sort.Slice(scope, func(i, j int) bool { return scope[i] < scope[j] })
	}
	if len(scope) == 0 {
		return fail("no compliance frameworks in scope")
	}

	score := domain.RiskComplianceScore{
		VendorID:   profile.ID,
		RiskScore:  int(weighted.Round(0).IntPart()),
		Frameworks: make([]domain.FrameworkScore, 0, len(scope)),
	}

	total := decimal.Zero
	for _, fw := range scope {
		violation, ok := violationCosts[fw]
		if !ok {
			return fail("no violation cost for framework %s", fw)
		}
		cov := profile.Compliance[fw]
		fs := domain.FrameworkScore{
			Framework:        fw,
			CoveragePercent:  cov.CoveragePercent,
			AutomatedPercent: cov.AutomatedPercent,
			Score:            cov.CoveragePercent.Mul(cov.AutomatedPercent).Div(hundred),
			ViolationCost:    violation,
			AvoidedCost:      violation.Mul(cov.CoveragePercent).Div(hundred),
		}
		total = total.Add(fs.Score)
		score.AvoidedCost = score.AvoidedCost.Add(fs.AvoidedCost)
		score.Frameworks = append(score.Frameworks, fs)
	}
	score.ComplianceScore = total.Div(decimal.NewFromInt(int64(len(scope))))

	score.BreachAvoidance = BreachAvoidance(profile, cfg)
	return score, nil
}

// BreachAvoidance is the expected breach cost the vendor prevents over the horizon:
// average breach cost x annual probability x breach prevention x years.
func BreachAvoidance(profile domain.VendorCostProfile, cfg domain.OrganizationConfig) decimal.Decimal {
	ca := cfg.CostAssumptions
	return ca.AverageBreachCost.
		Mul(ca.AnnualBreachProbability).
		Mul(profile.Risk.BreachPrevention).Div(hundred).
		Mul(cfg.Years())
}
