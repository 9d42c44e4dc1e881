package breakeven

import (
	"fmt"
	"strings"
)

// Format renders break-even results as a console table.
func Format(results []Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString("===================\n\n")
	if len(results) == 0 {
		sb.WriteString("No results.\n")
		return sb.String()
	}

	first := results[0].Request
	fmt.Fprintf(&sb, "Factor:   %s (searched %s to %s)\n", first.Factor, first.Min.String(), first.Max.String())
	fmt.Fprintf(&sb, "Baseline: %s\n\n", first.BaselineID)

	fmt.Fprintf(&sb, "%-20s %14s %14s  %s\n", "ALTERNATIVE", "BREAK-EVEN", "TOTAL AT BE", "NOTES")
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for _, r := range results {
		if !r.Found {
			fmt.Fprintf(&sb, "%-20s %14s %14s  %s\n", r.Request.AlternativeID, "-", "-", r.ConvergenceInfo)
			continue
		}
		fmt.Fprintf(&sb, "%-20s %14s %14s  %s\n",
			r.Request.AlternativeID,
			r.Value.StringFixed(places(r)),
			"$"+r.AlternativeTotal.StringFixed(0),
			r.ConvergenceInfo)
	}

	sb.WriteString("\nBelow the break-even value the cheaper vendor is the one with the lower total at the range minimum.\n")
	return sb.String()
}

func places(r Result) int32 {
	if r.Value.Equal(r.Value.Truncate(0)) {
		return 0
	}
	return 4
}
