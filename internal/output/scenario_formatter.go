package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/domain"
)

// FormatScenarios renders best, likely and worst case totals side by side.
func FormatScenarios(set *domain.ScenarioSet) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "SCENARIO ANALYSIS\n")
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(&buf, "%-24s %14s %14s %14s\n", "Vendor", "Best", "Likely", "Worst")
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("-", 70))

	for _, cb := range set.LikelyCase.Results {
		best, _ := set.BestCase.Breakdown(cb.VendorID)
		worst, _ := set.WorstCase.Breakdown(cb.VendorID)
		fmt.Fprintf(&buf, "%-24s %14s %14s %14s\n", truncate(cb.VendorName, 24),
			"$"+compare.FormatMoney(best.Total), "$"+compare.FormatMoney(cb.Total), "$"+compare.FormatMoney(worst.Total))
	}
	return buf.String()
}

// ScenariosCSV writes one row per scenario and vendor.
func ScenariosCSV(set *domain.ScenarioSet) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"Scenario", "Vendor ID", "Total", "Baseline"}); err != nil {
		return "", err
	}
	for _, sc := range []struct {
		name string
		cr   *domain.ComparisonResult
	}{
		{"best_case", set.BestCase},
		{"likely_case", set.LikelyCase},
		{"worst_case", set.WorstCase},
	} {
		for _, cb := range sc.cr.Results {
			if err := w.Write([]string{sc.name, cb.VendorID, cb.Total.StringFixed(2), sc.cr.BaselineID}); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FormatROI renders a single ROI comparison.
func FormatROI(roi domain.ROIResult) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ROI: adopting %s instead of %s over %d years\n", roi.BaselineID, roi.AlternativeID, roi.YearsToProject)
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("-", 50))
	fmt.Fprintf(&buf, "%-20s %20s\n", "Investment", "$"+roi.Investment.StringFixed(2))
	fmt.Fprintf(&buf, "%-20s %20s\n", "Total savings", "$"+roi.TotalSavings.StringFixed(2))
	fmt.Fprintf(&buf, "%-20s %20s\n", "Savings", roi.PercentageSavings.StringFixed(1)+"%")
	fmt.Fprintf(&buf, "%-20s %20s\n", "ROI", compare.FormatPercent(roi.ROIPercent))
	fmt.Fprintf(&buf, "%-20s %20s\n", "Payback", compare.FormatMonths(roi.PaybackMonths))
	fmt.Fprintf(&buf, "%-20s %20s\n", "NPV", "$"+roi.NPV.StringFixed(2))
	fmt.Fprintf(&buf, "%-20s %20s\n", "IRR (approx.)", compare.FormatPercent(roi.IRRApprox))
	return buf.String()
}

// FormatRisk renders risk and compliance scores, best risk score first.
func FormatRisk(scores []domain.RiskComplianceScore) string {
	sorted := append([]domain.RiskComplianceScore(nil), scores...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RiskScore > sorted[j].RiskScore })

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "RISK AND COMPLIANCE\n")
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(&buf, "%-22s %6s %12s %16s %18s\n", "Vendor", "Risk", "Compliance", "Avoided", "Breach avoidance")
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("-", 80))
	for _, s := range sorted {
		fmt.Fprintf(&buf, "%-22s %6d %12s %16s %18s\n", truncate(s.VendorID, 22), s.RiskScore,
			s.ComplianceScore.StringFixed(1)+"%", "$"+compare.FormatMoney(s.AvoidedCost), "$"+compare.FormatMoney(s.BreachAvoidance))
		for _, fw := range s.Frameworks {
			fmt.Fprintf(&buf, "    %-18s coverage %5s%%  automated %5s%%  score %5s\n", fw.Framework,
				fw.CoveragePercent.StringFixed(0), fw.AutomatedPercent.StringFixed(0), fw.Score.StringFixed(1))
		}
	}
	return buf.String()
}

// RiskCSV writes one row per vendor and framework.
func RiskCSV(scores []domain.RiskComplianceScore) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"Vendor ID", "Risk Score", "Compliance Score", "Framework", "Coverage %", "Automated %", "Avoided Cost"}); err != nil {
		return "", err
	}
	for _, s := range scores {
		for _, fw := range s.Frameworks {
			if err := w.Write([]string{
				s.VendorID,
				fmt.Sprint(s.RiskScore),
				s.ComplianceScore.StringFixed(2),
				string(fw.Framework),
				fw.CoveragePercent.StringFixed(2),
				fw.AutomatedPercent.StringFixed(2),
				fw.AvoidedCost.StringFixed(2),
			}); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func sign(s int) string {
	switch {
	case s > 0:
		return "+"
	case s < 0:
		return "-"
	}
	return " "
}
