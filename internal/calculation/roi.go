package calculation

import (
	"fmt"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxIRRPercent caps the closed-form IRR approximation
var MaxIRRPercent = decimal.NewFromInt(100)

// ComputeROI derives savings, ROI, payback, NPV and an IRR approximation for
// replacing alternative (the incumbent) with baseline (the candidate).
//
// The investment is the baseline's implementation plus first-year licensing.
// ROIPercent, PaybackMonths and IRRApprox are returned as invalid NullDecimals
// when they are undefined: zero investment for ROI and IRR, no positive monthly
// savings for payback.
func ComputeROI(baseline, alternative domain.CostBreakdown, cfg domain.OrganizationConfig) (domain.ROIResult, error) {
	if err := cfg.Validate(); err != nil {
		return domain.ROIResult{}, err
	}
	for _, cb := range []domain.CostBreakdown{baseline, alternative} {
		if cb.YearsToProject != 0 && cb.YearsToProject != cfg.YearsToProject {
			return domain.ROIResult{}, &domain.CalculationError{
				VendorID:  cb.VendorID,
				Component: "roi",
				Message:   fmt.Sprintf("breakdown covers %d years, configuration %d", cb.YearsToProject, cfg.YearsToProject),
			}
		}
	}

	years := cfg.Years()
	investment := baseline.Investment()
	if investment.IsNegative() {
		return domain.ROIResult{}, &domain.CalculationError{
			VendorID:  baseline.VendorID,
			Component: "roi",
			Message:   "negative investment " + investment.StringFixed(2),
		}
	}

	res := domain.ROIResult{
		BaselineID:     baseline.VendorID,
		AlternativeID:  alternative.VendorID,
		YearsToProject: cfg.YearsToProject,
		Investment:     investment,
		TotalSavings:   alternative.Total.Sub(baseline.Total),
	}

	if !alternative.Total.IsZero() {
		res.PercentageSavings = res.TotalSavings.Div(alternative.Total).Mul(hundred)
	}

	if investment.IsPositive() {
		res.ROIPercent = decimal.NewNullDecimal(res.TotalSavings.Div(investment).Mul(hundred))

		irr := res.TotalSavings.Div(years).Div(investment).Mul(hundred)
		if irr.GreaterThan(MaxIRRPercent) {
			irr = MaxIRRPercent
		}
		res.IRRApprox = decimal.NewNullDecimal(irr)
	}

	monthly := res.TotalSavings.Div(years.Mul(twelve))
	if monthly.IsPositive() {
		res.PaybackMonths = decimal.NewNullDecimal(investment.Div(monthly).Ceil())
	}

	res.NPV = NetPresentValue(alternative.AnnualCost.Sub(baseline.AnnualCost), investment, cfg.CostAssumptions.DiscountRate, cfg.YearsToProject)
	return res, nil
}

// NetPresentValue discounts a constant annual cash flow over years at rate and
// subtracts the year-0 investment.
func NetPresentValue(cashFlow, investment, rate decimal.Decimal, years int) decimal.Decimal {
	one := decimal.NewFromInt(1)
	npv := investment.Neg()
	for t := 1; t <= years; t++ {
		factor := one.Add(rate).Pow(decimal.NewFromInt(int64(t)))
		npv = npv.Add(cashFlow.Div(factor))
	}
	return npv
}
