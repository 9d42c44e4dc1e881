package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/catalog"
	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/config"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/sensitivity"
)

// Session is an input file resolved against a catalog and ready to evaluate
type Session struct {
	InputPath string
	Input     *domain.AnalysisInput
	Catalog   *catalog.Dataset
	IDs       []string
	Profiles  map[string]domain.VendorCostProfile
	Config    domain.OrganizationConfig
	Options   compare.Options
	Analyzer  *sensitivity.Analyzer
}

// Results holds everything the scenes display for one configuration
type Results struct {
	Config    domain.OrganizationConfig
	Report    *compare.Report
	Scenarios *domain.ScenarioSet
	Risk      []domain.RiskComplianceScore
}

// LoadSession parses the input file and resolves its vendors. catalogPath
// overrides the catalog named in the input; both empty means the built-in one.
func LoadSession(inputPath, catalogPath string) (*Session, error) {
	input, err := config.NewInputParser().LoadFromFile(inputPath)
	if err != nil {
		return nil, err
	}

	path := catalogPath
	if path == "" && input.Catalog != "" {
		path = input.Catalog
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(inputPath), path)
		}
	}
	ds, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ids := input.Vendors
	if len(ids) == 0 {
		ids = ds.VendorIDs()
	}
	profiles, err := ds.Profiles(nil, ids...)
	if err != nil {
		return nil, err
	}

	return &Session{
		InputPath: inputPath,
		Input:     input,
		Catalog:   ds,
		IDs:       ids,
		Profiles:  profiles,
		Config:    ds.ApplyIndustry(input.Organization),
		Options:   compare.Options{Baseline: input.Baseline},
		Analyzer:  sensitivity.NewAnalyzer(nil),
	}, nil
}

// Evaluate runs the comparison, the scenarios and the risk scorer for cfg.
func (s *Session) Evaluate(ctx context.Context, cfg domain.OrganizationConfig) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report, err := s.Analyzer.Engine.BuildReport(ctx, s.IDs, s.Profiles, cfg, s.Options)
	if err != nil {
		return nil, err
	}
	set, err := s.Analyzer.RunScenarios(ctx, s.IDs, s.Profiles, cfg, s.Options)
	if err != nil {
		return nil, err
	}

	costs := s.Catalog.ViolationCostTable()
	risk := make([]domain.RiskComplianceScore, 0, len(s.IDs))
	for _, id := range s.IDs {
		score, err := calculation.ScoreRisk(s.Profiles[id], cfg, costs)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", id, err)
		}
		risk = append(risk, score)
	}

	return &Results{Config: cfg, Report: report, Scenarios: set, Risk: risk}, nil
}
