package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats a report as a console table
type TableFormatter struct{}

// Format renders the ranked vendors, savings against the baseline and ROI
func (tf *TableFormatter) Format(r *Report) string {
	var sb strings.Builder
	cr := r.Comparison

	sb.WriteString("NAC VENDOR TCO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Devices: %d  Horizon: %d years  Industry: %s\n",
		r.Organization.DeviceCount, r.Organization.YearsToProject, r.Organization.Industry))
	if r.InputPath != "" {
		sb.WriteString(fmt.Sprintf("Input: %s\n", r.InputPath))
	}
	sb.WriteString(fmt.Sprintf("Baseline: %s\n\n", cr.BaselineID))

	nameWidth := 22
	numWidth := 11
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Vendor",
		numWidth, "Licensing",
		numWidth, "Hardware",
		numWidth, "Impl.",
		numWidth, "Personnel",
		numWidth, "Other",
		numWidth, "Total"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	for _, cb := range cr.Results {
		sb.WriteString(tf.formatRow(cb, cb.VendorID == cr.BaselineID, nameWidth, numWidth))
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if len(cr.Savings) > 0 {
		sb.WriteString("\nSAVINGS OF ADOPTING BASELINE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, cb := range cr.Results {
			s, ok := cr.Savings[cb.VendorID]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("  vs %-*s %s$%s (%s%%)\n",
				nameWidth, tf.truncate(cb.VendorName, nameWidth),
				tf.deltaSymbol(s.Absolute), FormatMoney(s.Absolute.Abs()), s.Percentage.StringFixed(1)))
		}
	}

	if len(r.ROI) > 0 {
		sb.WriteString("\nRETURN ON INVESTMENT\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, roi := range r.ROI {
			sb.WriteString(fmt.Sprintf("  replacing %-*s ROI %8s  payback %10s  NPV $%s\n",
				nameWidth-6, tf.truncate(roi.AlternativeID, nameWidth-6),
				FormatPercent(roi.ROIPercent), FormatMonths(roi.PaybackMonths), FormatMoney(roi.NPV)))
		}
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range r.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatBreakdown renders every bucket of a single vendor's TCO
func (tf *TableFormatter) FormatBreakdown(cb domain.CostBreakdown) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s), %d years\n", cb.VendorName, cb.VendorID, cb.YearsToProject))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, b := range cb.Buckets() {
		sb.WriteString(fmt.Sprintf("%-16s %22s\n", b.Name, "$"+b.Amount.StringFixed(2)))
	}
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("%-16s %22s\n", "total", "$"+cb.Total.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-16s %22s\n", "risk adjustment", "$"+cb.RiskAdjustment.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-16s %22s\n", "investment", "$"+cb.Investment().StringFixed(2)))
	return sb.String()
}

func (tf *TableFormatter) formatRow(cb domain.CostBreakdown, isBase bool, nameWidth, numWidth int) string {
	name := cb.VendorName
	if isBase {
		name += " (base)"
	}
	other := cb.Total.Sub(cb.Licensing).Sub(cb.Hardware).Sub(cb.Implementation).Sub(cb.Personnel)
	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+FormatMoney(cb.Licensing),
		numWidth, "$"+FormatMoney(cb.Hardware),
		numWidth, "$"+FormatMoney(cb.Implementation),
		numWidth, "$"+FormatMoney(cb.Personnel),
		numWidth, "$"+FormatMoney(other),
		numWidth, "$"+FormatMoney(cb.Total))
}

// FormatMoney formats an amount for display in thousands or millions
func FormatMoney(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// FormatPercent renders an optional percentage, "n/a" when undefined
func FormatPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.StringFixed(1) + "%"
}

// FormatMonths renders an optional month count, "never" when undefined
func FormatMonths(d decimal.NullDecimal) string {
	if !d.Valid {
		return "never"
	}
	return d.Decimal.StringFixed(0) + " mo"
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of the savings per vendor
func (tf *TableFormatter) FormatCompact(r *Report) string {
	var sb strings.Builder
	cr := r.Comparison
	sb.WriteString(fmt.Sprintf("Base: %s | ", cr.BaselineID))

	first := true
	for _, cb := range cr.Results {
		s, ok := cr.Savings[cb.VendorID]
		if !ok {
			continue
		}
		if !first {
			sb.WriteString(" | ")
		}
		first = false
		change := "="
		if s.Absolute.IsPositive() {
			change = fmt.Sprintf("+$%s", FormatMoney(s.Absolute))
		} else if s.Absolute.IsNegative() {
			change = fmt.Sprintf("-$%s", FormatMoney(s.Absolute.Abs()))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", cb.VendorID, change))
	}
	return sb.String()
}
