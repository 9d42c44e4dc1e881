package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

const barWidth = 30

// SensitivityConsoleFormatter formats sweeps and tornado rankings for the console
type SensitivityConsoleFormatter struct{}

// FormatSensitivity renders one row per sample with a column per vendor.
func (scf SensitivityConsoleFormatter) FormatSensitivity(sr *domain.SensitivityResult) string {
	var buf bytes.Buffer
	ids := vendorIDs(sr)

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(sr.Factor, "_", " ")))
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("=", 65))
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n\n", sr.Range.Min.String(), sr.Range.Max.String(), sr.Range.Steps)

	fmt.Fprintf(&buf, "%-14s", "Value")
	for _, id := range ids {
		fmt.Fprintf(&buf, " %14s", truncate(id, 14))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("-", 14+15*len(ids)))

	for _, s := range sr.Samples {
		fmt.Fprintf(&buf, "%-14s", s.InputValue.String())
		for _, id := range ids {
			b, _ := s.Comparison.Breakdown(id)
			fmt.Fprintf(&buf, " %14s", "$"+compare.FormatMoney(b.Total))
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintf(&buf, "\nIMPACT OVER THE FULL RANGE\n")
	for _, id := range ids {
		imp := sr.ImpactByVendor[id]
		fmt.Fprintf(&buf, "  %-20s %s$%s (%s%%)\n", truncate(id, 20),
			sign(imp.AbsoluteDelta.Sign()), compare.FormatMoney(imp.AbsoluteDelta.Abs()), imp.PercentDelta.StringFixed(1))
	}
	return buf.String()
}

// FormatTornado renders, per vendor, the factors ranked by impact.
func (scf SensitivityConsoleFormatter) FormatTornado(tr *domain.TornadoResult) string {
	var buf bytes.Buffer
	ids := make([]string, 0, len(tr.ByVendor))
	for id := range tr.ByVendor {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(&buf, "TORNADO ANALYSIS (%d factors)\n", len(tr.Sweeps))
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("=", 65))
	for _, id := range ids {
		fmt.Fprintf(&buf, "\n%s\n", id)
		bars := tr.ByVendor[id]
		if len(bars) == 0 {
			continue
		}
		widest := bars[0].AbsoluteDelta.Abs()
		for _, bar := range bars {
			width := 0
			if widest.IsPositive() {
				width = int(bar.AbsoluteDelta.Abs().Div(widest).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
			}
			fmt.Fprintf(&buf, "  %-24s %-*s %s$%s\n", bar.Factor, barWidth, strings.Repeat("#", width),
				sign(bar.AbsoluteDelta.Sign()), compare.FormatMoney(bar.AbsoluteDelta.Abs()))
		}
	}
	return buf.String()
}

// SensitivityCSV writes one row per sample and vendor.
func SensitivityCSV(sr *domain.SensitivityResult) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"Factor", "Value", "Vendor ID", "Total", "Baseline"}); err != nil {
		return "", err
	}
	for _, s := range sr.Samples {
		for _, cb := range s.Comparison.Results {
			if err := w.Write([]string{
				sr.Factor,
				s.InputValue.String(),
				cb.VendorID,
				cb.Total.StringFixed(2),
				s.Comparison.BaselineID,
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

func vendorIDs(sr *domain.SensitivityResult) []string {
	ids := make([]string, 0, len(sr.ImpactByVendor))
	for id := range sr.ImpactByVendor {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
