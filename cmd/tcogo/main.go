package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rgehrsitz/tcogo/internal/catalog"
	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/config"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/logging"
	"github.com/rgehrsitz/tcogo/internal/sensitivity"
	"github.com/rgehrsitz/tcogo/internal/vendor"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbose     bool
	catalogPath string
	format      string
	workers     int
	vendorList  []string
	baseline    string
	settings    config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "tcogo",
	Short: "NAC vendor TCO and ROI calculator",
	Long: `tcogo computes and compares the total cost of ownership of network access
control products for an organization, along with ROI, risk and compliance
scores, single-factor sensitivity sweeps and best/likely/worst case scenarios.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		loaded, err := config.LoadSettings(".")
		if err != nil {
			slog.Warn("Failed to load settings file", "error", err)
		}
		settings = loaded.WithDefaults()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tcogo %s (commit %s, built %s)\n", version, commit, date)
		if verbose {
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		}
	},
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// analysis is everything a subcommand needs to run the engine on an input file
type analysis struct {
	input    *domain.AnalysisInput
	catalog  *catalog.Dataset
	profiles map[string]domain.VendorCostProfile
	ids      []string
	cfg      domain.OrganizationConfig
	opts     compare.Options
	logger   logging.Logger
}

// loadAnalysis reads the input file and resolves the vendors it selects; only,
// when given, replaces that selection.
func loadAnalysis(path string, only ...string) (*analysis, error) {
	input, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	ds, err := catalog.Load(resolveCatalogPath(input.Catalog, path))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ids := input.Vendors
	switch {
	case len(only) > 0:
		ids = only
	case len(vendorList) > 0:
		ids = vendorList
	}
	if len(ids) == 0 {
		ids = ds.VendorIDs()
	}

	logger := logging.NewSlogLogger(slog.Default())
	resolver := vendor.NewResolver()
	resolver.SetLogger(logger)
	profiles, err := ds.Profiles(resolver, ids...)
	if err != nil {
		return nil, err
	}

	cfg := input.Organization
	if cfg.Industry == "" {
		cfg.Industry = settings.Industry
	}
	cfg = ds.ApplyIndustry(cfg.Normalized())

	opts := compare.Options{Baseline: input.Baseline, Workers: settings.Workers}
	if baseline != "" {
		opts.Baseline = baseline
	}
	if workers > 0 {
		opts.Workers = workers
	}

	return &analysis{
		input:    input,
		catalog:  ds,
		profiles: profiles,
		ids:      ids,
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
	}, nil
}

// resolveCatalogPath picks the --catalog flag, then the input's catalog
// (relative to the input file), then the settings file. Empty means embedded.
func resolveCatalogPath(fromInput, inputPath string) string {
	switch {
	case catalogPath != "":
		return catalogPath
	case fromInput != "":
		if filepath.IsAbs(fromInput) {
			return fromInput
		}
		return filepath.Join(filepath.Dir(inputPath), fromInput)
	default:
		return settings.Catalog
	}
}

func (a *analysis) engine() *compare.Engine {
	e := compare.NewEngine(nil)
	e.SetLogger(a.logger)
	e.Calculator.SetLogger(a.logger)
	return e
}

func (a *analysis) analyzer() *sensitivity.Analyzer {
	an := sensitivity.NewAnalyzer(a.engine())
	an.SetLogger(a.logger)
	return an
}

func outputFormat() string {
	if format != "" {
		return format
	}
	return settings.Format
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Vendor catalog (YAML, JSON or SQLite); defaults to the built-in dataset")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format: table, csv, json, yaml")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent TCO computations per comparison")
	rootCmd.PersistentFlags().StringSliceVar(&vendorList, "vendor", nil, "Vendor id to include (repeatable); overrides the input file")
	rootCmd.PersistentFlags().StringVar(&baseline, "baseline", "", "Baseline vendor id; overrides the input file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(compareCmd, tcoCmd, roiCmd, riskCmd)
	rootCmd.AddCommand(sensitivityCmd, tornadoCmd, scenariosCmd, breakEvenCmd)
	rootCmd.AddCommand(vendorsCmd, validateCmd, catalogCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
