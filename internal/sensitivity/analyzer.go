// Package sensitivity sweeps single organization inputs across a range and
// re-prices a vendor set under named best/likely/worst case scenarios.
package sensitivity

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Analyzer runs sweeps and scenarios on top of a comparison engine
type Analyzer struct {
	Engine  *compare.Engine
	Factors *FactorRegistry
	Logger  logging.Logger
}

// NewAnalyzer creates an analyzer. A nil engine gets a default one.
func NewAnalyzer(engine *compare.Engine) *Analyzer {
	if engine == nil {
		engine = compare.NewEngine(nil)
	}
	return &Analyzer{
		Engine:  engine,
		Factors: NewFactorRegistry(),
		Logger:  logging.NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger.
func (a *Analyzer) SetLogger(l logging.Logger) {
	a.Logger = logging.OrNop(l)
}

// Analyze varies one factor over rng.Steps evenly spaced values from rng.Min to
// rng.Max inclusive, holding every other input fixed, and compares the vendors
// at each value. Samples are returned in ascending input order.
func (a *Analyzer) Analyze(
	ctx context.Context,
	factorName string,
	rng domain.SensitivityRange,
	ids []string,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
	opts compare.Options,
) (*domain.SensitivityResult, error) {
	factor, ok := a.Factors.Get(factorName)
	if !ok {
		return nil, &domain.RangeError{Factor: factorName, Message: "unknown factor"}
	}
	values, err := GenerateValues(factorName, rng)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configs := make([]domain.OrganizationConfig, len(values))
	for i, v := range values {
		v = factor.Normalize(v)
		if (factor.Min.Valid && v.LessThan(factor.Min.Decimal)) || (factor.Max.Valid && v.GreaterThan(factor.Max.Decimal)) {
			return nil, &domain.RangeError{Factor: factorName, Message: fmt.Sprintf("value %s is outside the admissible range", v.String())}
		}
		modified := cfg.Clone()
		factor.Apply(&modified, v)
		if err := modified.Validate(); err != nil {
			return nil, &domain.RangeError{Factor: factorName, Message: fmt.Sprintf("value %s: %v", v.String(), err)}
		}
		configs[i] = modified
	}

	samples := make([]domain.SensitivitySample, len(configs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(opts))
	for i := range configs {
		i := i
		g.Go(func() error {
			cr, err := a.Engine.CompareVendors(ctx, ids, profiles, configs[i], compare.Options{Baseline: opts.Baseline, Workers: 1})
			if err != nil {
				return err
			}
			samples[i] = domain.SensitivitySample{InputValue: factor.Current(configs[i]), Comparison: cr}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.SensitivityResult{
		Factor:         factorName,
		Range:          rng,
		Samples:        samples,
		ImpactByVendor: make(map[string]domain.Impact, len(ids)),
	}
	for _, id := range ids {
		totals := result.TotalsFor(id)
		result.ImpactByVendor[id] = impact(totals[0], totals[len(totals)-1])
	}

	logging.OrNop(a.Logger).Debugf("swept %s over %d values for %d vendors", factorName, len(samples), len(ids))
	return result, nil
}

// GenerateValues returns steps evenly spaced values from Min to Max inclusive.
func GenerateValues(factorName string, rng domain.SensitivityRange) ([]decimal.Decimal, error) {
	if rng.Steps < 2 {
		return nil, &domain.RangeError{Factor: factorName, Message: fmt.Sprintf("steps must be at least 2, got %d", rng.Steps)}
	}
	if rng.Min.GreaterThan(rng.Max) {
		return nil, &domain.RangeError{Factor: factorName, Message: fmt.Sprintf("min %s exceeds max %s", rng.Min.String(), rng.Max.String())}
	}

	step := rng.Max.Sub(rng.Min).Div(decimal.NewFromInt(int64(rng.Steps - 1)))
	values := make([]decimal.Decimal, rng.Steps)
	for i := range values {
		values[i] = rng.Min.Add(step.Mul(decimal.NewFromInt(int64(i))))
	}
	// avoid drift from inexact division on the last point
	values[len(values)-1] = rng.Max
	return values, nil
}

// Tornado runs one sweep per spec and ranks, for each vendor, the factors by
// the absolute size of their full-range impact, largest first.
func (a *Analyzer) Tornado(
	ctx context.Context,
	specs []domain.SensitivitySpec,
	ids []string,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
	opts compare.Options,
) (*domain.TornadoResult, error) {
	if len(specs) == 0 {
		specs = a.Factors.DefaultSweeps(cfg)
	}

	result := &domain.TornadoResult{
		Sweeps:   make([]*domain.SensitivityResult, 0, len(specs)),
		ByVendor: make(map[string][]domain.TornadoBar, len(ids)),
	}
	for _, spec := range specs {
		sr, err := a.Analyze(ctx, spec.Factor, spec.SensitivityRange, ids, profiles, cfg, opts)
		if err != nil {
			return nil, fmt.Errorf("sweep %s: %w", spec.Factor, err)
		}
		result.Sweeps = append(result.Sweeps, sr)
		for id, imp := range sr.ImpactByVendor {
			result.ByVendor[id] = append(result.ByVendor[id], domain.TornadoBar{Factor: spec.Factor, Impact: imp})
		}
	}

	for _, bars := range result.ByVendor {
		sort.SliceStable(bars, func(i, j int) bool {
			if c := bars[i].AbsoluteDelta.Abs().Cmp(bars[j].AbsoluteDelta.Abs()); c != 0 {
				return c > 0
			}
			return bars[i].Factor < bars[j].Factor
		})
	}
	return result, nil
}

func impact(first, last decimal.Decimal) domain.Impact {
	imp := domain.Impact{AbsoluteDelta: last.Sub(first)}
	if !first.IsZero() {
		imp.PercentDelta = imp.AbsoluteDelta.Div(first).Mul(decimal.NewFromInt(100))
	}
	return imp
}

func workers(opts compare.Options) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	return compare.DefaultWorkers
}
