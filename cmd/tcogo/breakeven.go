package main

import (
	"fmt"
	"slices"

	"github.com/rgehrsitz/tcogo/internal/breakeven"
	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	breakEvenFactor string
	breakEvenMin    string
	breakEvenMax    string
)

var breakEvenCmd = &cobra.Command{
	Use:   "breakeven [input-file] [baseline-id] [alternative-id]",
	Short: "Find the input value at which two vendors cost the same",
	Long: `Search --factor between --min and --max for the value at which the baseline
and the alternative have equal TCO. Without an alternative, the baseline is
checked against every other selected vendor. The range defaults to one tenth
to ten times the factor's current value, limited to its admissible bounds.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runBreakEven,
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	var a *analysis
	var err error
	if len(args) == 3 {
		a, err = loadAnalysis(args[0], args[1], args[2])
	} else {
		a, err = loadAnalysis(args[0])
		if err == nil && !slices.Contains(a.ids, args[1]) {
			a, err = loadAnalysis(args[0], append(slices.Clone(a.ids), args[1])...)
		}
	}
	if err != nil {
		return err
	}

	calc := calculation.NewTCOCalculator()
	calc.SetLogger(a.logger)
	solver := breakeven.NewDefaultSolver(calc)

	lo, hi, err := breakEvenRange(solver, a.cfg)
	if err != nil {
		return err
	}

	var results []breakeven.Result
	if len(args) == 3 {
		r, err := solver.Solve(cmd.Context(), breakeven.Request{
			Factor:        breakEvenFactor,
			BaselineID:    args[1],
			AlternativeID: args[2],
			Min:           lo,
			Max:           hi,
		}, a.profiles, a.cfg)
		if err != nil {
			return err
		}
		results = append(results, *r)
	} else {
		results, err = solver.SolveAgainstAll(cmd.Context(), breakEvenFactor, args[1], lo, hi, a.profiles, a.cfg)
		if err != nil {
			return err
		}
	}
	return output.Render(cmd.OutOrStdout(), results, outputFormat())
}

func breakEvenRange(solver *breakeven.Solver, cfg domain.OrganizationConfig) (decimal.Decimal, decimal.Decimal, error) {
	f, ok := solver.Factors.Get(breakEvenFactor)
	if !ok {
		return decimal.Zero, decimal.Zero, &domain.RangeError{Factor: breakEvenFactor, Message: "unknown factor"}
	}
	current := f.Current(cfg)
	lo := f.Clamp(current.Div(decimal.NewFromInt(10)))
	hi := f.Clamp(current.Mul(decimal.NewFromInt(10)))

	parse := func(flag, raw string, into *decimal.Decimal) error {
		if raw == "" {
			return nil
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return &domain.RangeError{Factor: breakEvenFactor, Message: fmt.Sprintf("invalid --%s %q", flag, raw)}
		}
		*into = v
		return nil
	}
	if err := parse("min", breakEvenMin, &lo); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if err := parse("max", breakEvenMax, &hi); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return lo, hi, nil
}

func init() {
	breakEvenCmd.Flags().StringVar(&breakEvenFactor, "factor", "device_count", "Factor to search")
	breakEvenCmd.Flags().StringVar(&breakEvenMin, "min", "", "Lower end of the search range")
	breakEvenCmd.Flags().StringVar(&breakEvenMax, "max", "", "Upper end of the search range")
}
