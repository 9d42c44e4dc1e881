package main

import (
	"fmt"

	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/output"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare the TCO of the selected vendors",
	Long: `Compute every vendor's TCO, rank them, and report the savings and ROI of
adopting the baseline vendor instead of each alternative.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := loadAnalysis(args[0])
	if err != nil {
		return err
	}
	report, err := a.engine().BuildReport(cmd.Context(), a.ids, a.profiles, a.cfg, a.opts)
	if err != nil {
		return err
	}
	report.InputPath = args[0]
	return output.Render(cmd.OutOrStdout(), report, outputFormat())
}

var tcoCmd = &cobra.Command{
	Use:   "tco [input-file] [vendor-id]",
	Short: "Show the itemized TCO of one vendor",
	Args:  cobra.ExactArgs(2),
	RunE:  runTCO,
}

func runTCO(cmd *cobra.Command, args []string) error {
	a, err := loadAnalysis(args[0], args[1])
	if err != nil {
		return err
	}
	calc := calculation.NewTCOCalculator()
	calc.SetLogger(a.logger)
	cb, err := calc.ComputeTCO(a.profiles[args[1]], a.cfg)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), cb, outputFormat())
}

var roiCmd = &cobra.Command{
	Use:   "roi [input-file] [baseline-id] [alternative-id]",
	Short: "Compute the ROI of adopting one vendor instead of another",
	Args:  cobra.ExactArgs(3),
	RunE:  runROI,
}

func runROI(cmd *cobra.Command, args []string) error {
	a, err := loadAnalysis(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	calc := calculation.NewTCOCalculator()
	calc.SetLogger(a.logger)

	base, err := calc.ComputeTCO(a.profiles[args[1]], a.cfg)
	if err != nil {
		return err
	}
	alt, err := calc.ComputeTCO(a.profiles[args[2]], a.cfg)
	if err != nil {
		return err
	}
	roi, err := calculation.ComputeROI(base, alt, a.cfg)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), roi, outputFormat())
}

var riskCmd = &cobra.Command{
	Use:   "risk [input-file]",
	Short: "Score risk and compliance for the selected vendors",
	Args:  cobra.ExactArgs(1),
	RunE:  runRisk,
}

func runRisk(cmd *cobra.Command, args []string) error {
	a, err := loadAnalysis(args[0])
	if err != nil {
		return err
	}
	costs := a.catalog.ViolationCostTable()
	scores := make([]domain.RiskComplianceScore, 0, len(a.ids))
	for _, id := range a.ids {
		score, err := calculation.ScoreRisk(a.profiles[id], a.cfg, costs)
		if err != nil {
			return fmt.Errorf("score %s: %w", id, err)
		}
		scores = append(scores, score)
	}
	return output.Render(cmd.OutOrStdout(), scores, outputFormat())
}
