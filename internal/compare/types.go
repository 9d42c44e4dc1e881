package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is a comparison plus the ROI of replacing each other vendor with the baseline
type Report struct {
	Organization    domain.OrganizationConfig `json:"organization"`
	Comparison      *domain.ComparisonResult  `json:"comparison"`
	ROI             []domain.ROIResult        `json:"roi"`
	Recommendations []string                  `json:"recommendations"`
	InputPath       string                    `json:"inputPath,omitempty"`
}

// CalculateSavings computes the saving of adopting baseline instead of other.
// A positive percentage means the baseline is cheaper:
// (other - baseline) / other x 100, zero when other costs nothing.
func CalculateSavings(other, baseline domain.CostBreakdown) domain.SavingsDelta {
	delta := domain.SavingsDelta{Absolute: other.Total.Sub(baseline.Total)}
	if !other.Total.IsZero() {
		delta.Percentage = delta.Absolute.Div(other.Total).Mul(decimal.NewFromInt(100))
	}
	return delta
}

// BuildReport compares the vendors and adds the ROI of every non-baseline vendor.
func (e *Engine) BuildReport(
	ctx context.Context,
	ids []string,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
	opts Options,
) (*Report, error) {
	cr, err := e.CompareVendors(ctx, ids, profiles, cfg, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Organization: cfg, Comparison: cr}
	base := cr.Baseline()
	for _, alt := range cr.Results {
		if alt.VendorID == cr.BaselineID {
			continue
		}
		roi, err := calculation.ComputeROI(base, alt, cfg)
		if err != nil {
			return nil, fmt.Errorf("roi for %s: %w", alt.VendorID, err)
		}
		report.ROI = append(report.ROI, roi)
	}
	report.Recommendations = GenerateRecommendations(report)
	return report, nil
}

// GenerateRecommendations summarizes a report in a few plain sentences
func GenerateRecommendations(r *Report) []string {
	recommendations := []string{}
	cr := r.Comparison
	if cr == nil || len(cr.Results) == 0 {
		return recommendations
	}

	cheapest := cr.Results[0]
	if cheapest.VendorID == cr.BaselineID {
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest TCO: %s at $%s over %d years", cheapest.VendorName, cheapest.Total.StringFixed(0), cheapest.YearsToProject))
	} else {
		base := cr.Baseline()
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest TCO: %s costs $%s less than baseline %s", cheapest.VendorName,
				base.Total.Sub(cheapest.Total).StringFixed(0), base.VendorName))
	}

	if len(cr.Results) > 1 {
		priciest := cr.Results[len(cr.Results)-1]
		if s, ok := cr.Savings[priciest.VendorID]; ok && s.Absolute.IsPositive() {
			recommendations = append(recommendations,
				fmt.Sprintf("Replacing %s with %s saves $%s (%s%%)", priciest.VendorName, cr.Baseline().VendorName,
					s.Absolute.StringFixed(0), s.Percentage.StringFixed(1)))
		}
	}

	// quickest positive payback
	var best *domain.ROIResult
	for i := range r.ROI {
		roi := &r.ROI[i]
		if !roi.PaybackMonths.Valid {
			continue
		}
		if best == nil || roi.PaybackMonths.Decimal.LessThan(best.PaybackMonths.Decimal) {
			best = roi
		}
	}
	if best != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Fastest payback: replacing %s pays back in %s months", best.AlternativeID, best.PaybackMonths.Decimal.StringFixed(0)))
	}

	return recommendations
}
