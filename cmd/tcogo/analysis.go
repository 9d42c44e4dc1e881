package main

import (
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/output"
	"github.com/rgehrsitz/tcogo/internal/sensitivity"
	"github.com/spf13/cobra"
)

var sweepSpecs []string

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Sweep one input across a range and re-compare the vendors",
	Long: `Vary a single factor over evenly spaced values while holding every other
input fixed. The sweep comes from --sweep (factor:min=..,max=..,steps=..) or,
when omitted, from the first sensitivity block of the input file.

Factors: consulting_daily_rate, device_count, discount_rate,
downtime_cost_per_hour, fte_allocation, fte_annual_cost, maintenance_percent,
training_cost_per_user, years_to_project.`,
	Args: cobra.ExactArgs(1),
	RunE: runSensitivity,
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	a, err := loadAnalysis(args[0])
	if err != nil {
		return err
	}
	an := a.analyzer()
	specs, err := sweeps(an.Factors, a.input.Sensitivity)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return &domain.RangeError{Factor: "<none>", Message: "no sweep given; use --sweep or a sensitivity block"}
	}

	for _, spec := range specs {
		sr, err := an.Analyze(cmd.Context(), spec.Factor, spec.SensitivityRange, a.ids, a.profiles, a.cfg, a.opts)
		if err != nil {
			return err
		}
		if err := output.Render(cmd.OutOrStdout(), sr, outputFormat()); err != nil {
			return err
		}
	}
	return nil
}

var tornadoCmd = &cobra.Command{
	Use:   "tornado [input-file]",
	Short: "Rank inputs by their impact on each vendor's TCO",
	Long: `Run one sweep per factor and rank, per vendor, the factors by the size of
their full-range impact. Without --sweep or sensitivity blocks every factor is
swept +/-20% around its current value.`,
	Args: cobra.ExactArgs(1),
	RunE: runTornado,
}

func runTornado(cmd *cobra.Command, args []string) error {
	a, err := loadAnalysis(args[0])
	if err != nil {
		return err
	}
	an := a.analyzer()
	specs, err := sweeps(an.Factors, a.input.Sensitivity)
	if err != nil {
		return err
	}
	tr, err := an.Tornado(cmd.Context(), specs, a.ids, a.profiles, a.cfg, a.opts)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), tr, outputFormat())
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios [input-file]",
	Short: "Compare the vendors under best, likely and worst case assumptions",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarios,
}

func runScenarios(cmd *cobra.Command, args []string) error {
	a, err := loadAnalysis(args[0])
	if err != nil {
		return err
	}
	set, err := a.analyzer().RunScenarios(cmd.Context(), a.ids, a.profiles, a.cfg, a.opts)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), set, outputFormat())
}

// sweeps prefers --sweep flags over the input file's sensitivity blocks.
func sweeps(factors *sensitivity.FactorRegistry, fromInput []domain.SensitivitySpec) ([]domain.SensitivitySpec, error) {
	if len(sweepSpecs) == 0 {
		return fromInput, nil
	}
	specs := make([]domain.SensitivitySpec, 0, len(sweepSpecs))
	for _, raw := range sweepSpecs {
		spec, err := factors.ParseSweepSpec(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func init() {
	for _, c := range []*cobra.Command{sensitivityCmd, tornadoCmd} {
		c.Flags().StringArrayVar(&sweepSpecs, "sweep", nil, "Sweep spec factor:min=..,max=..,steps=.. (repeatable)")
	}
}
