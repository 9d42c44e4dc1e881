package compare

import (
	"encoding/csv"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVFormatter formats a report as CSV, one row per vendor
type CSVFormatter struct{}

// Format generates CSV output for a report
func (cf *CSVFormatter) Format(r *Report) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Vendor ID",
		"Vendor",
		"Role",
		"Hardware",
		"Licensing",
		"Implementation",
		"Training",
		"Maintenance",
		"Personnel",
		"Downtime",
		"Hidden",
		"Total",
		"Risk Adjustment",
		"Savings vs Baseline",
		"Savings %",
		"ROI %",
		"Payback Months",
		"NPV",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	roiByVendor := make(map[string]domain.ROIResult, len(r.ROI))
	for _, roi := range r.ROI {
		roiByVendor[roi.AlternativeID] = roi
	}

	cr := r.Comparison
	for _, cb := range cr.Results {
		role := "alternative"
		if cb.VendorID == cr.BaselineID {
			role = "baseline"
		}
		if err := writer.Write(cf.formatRow(cb, role, cr.Savings[cb.VendorID], roiByVendor[cb.VendorID])); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(cb domain.CostBreakdown, role string, savings domain.SavingsDelta, roi domain.ROIResult) []string {
	row := []string{cb.VendorID, cb.VendorName, role}
	for _, b := range cb.Buckets() {
		row = append(row, b.Amount.StringFixed(2))
	}
	row = append(row,
		cb.Total.StringFixed(2),
		cb.RiskAdjustment.StringFixed(2),
		savings.Absolute.StringFixed(2),
		savings.Percentage.StringFixed(2),
		nullFixed(roi.ROIPercent, 2),
		nullFixed(roi.PaybackMonths, 0),
		roi.NPV.StringFixed(2),
	)
	return row
}

// nullFixed leaves undefined values blank
func nullFixed(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(places)
}
