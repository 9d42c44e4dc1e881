package compare

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the number of vendors priced concurrently
const DefaultWorkers = 8

// Engine prices a vendor set and ranks it against a baseline
type Engine struct {
	Calculator *calculation.TCOCalculator
	Logger     logging.Logger
}

// NewEngine creates a comparison engine. A nil calculator gets a default one.
func NewEngine(calc *calculation.TCOCalculator) *Engine {
	if calc == nil {
		calc = calculation.NewTCOCalculator()
	}
	return &Engine{
		Calculator: calc,
		Logger:     logging.NopLogger{},
	}
}

// SetLogger sets the logger for the engine and its calculator.
func (e *Engine) SetLogger(l logging.Logger) {
	e.Logger = logging.OrNop(l)
	e.Calculator.SetLogger(l)
}

// Options configures a comparison
type Options struct {
	Baseline string // vendor id; empty selects the lowest-total vendor
	Workers  int    // concurrent TCO computations; <= 0 uses DefaultWorkers
}

// CompareVendors computes a TCO per vendor id, ranks the results by total
// (ties by vendor id) and reports the savings of adopting the baseline instead
// of each other vendor.
func (e *Engine) CompareVendors(
	ctx context.Context,
	ids []string,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
	opts Options,
) (*domain.ComparisonResult, error) {
	if len(ids) == 0 {
		return nil, &domain.ConfigurationError{Field: "vendors", Message: "at least one vendor is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, &domain.ConfigurationError{Field: "vendors", Message: fmt.Sprintf("vendor %s listed twice", id)}
		}
		seen[id] = true
		if _, ok := profiles[id]; !ok {
			return nil, &domain.ResolutionError{VendorID: id, Message: "vendor not found"}
		}
	}
	if opts.Baseline != "" && !seen[opts.Baseline] {
		return nil, &domain.ConfigurationError{
			Field:   "baseline",
			Message: fmt.Sprintf("baseline %s is not among the compared vendors", opts.Baseline),
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]domain.CostBreakdown, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// each goroutine gets its own copy; nothing is shared across vendors
			cb, err := e.Calculator.ComputeTCO(profiles[id].DeepCopy(), cfg.Clone())
			if err != nil {
				return err
			}
			results[i] = cb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Rank(results)

	baseline := opts.Baseline
	if baseline == "" {
		baseline = results[0].VendorID
	}
	cr := &domain.ComparisonResult{
		BaselineID: baseline,
		Results:    results,
		Savings:    make(map[string]domain.SavingsDelta, len(results)-1),
	}
	base := cr.Baseline()
	for _, r := range results {
		if r.VendorID == baseline {
			continue
		}
		cr.Savings[r.VendorID] = CalculateSavings(r, base)
	}

	logging.OrNop(e.Logger).Debugf("compared %d vendors against baseline %s", len(results), baseline)
	return cr, nil
}

// Compare runs CompareVendors over every profile, in id order.
func (e *Engine) Compare(ctx context.Context, profiles map[string]domain.VendorCostProfile, cfg domain.OrganizationConfig, opts Options) (*domain.ComparisonResult, error) {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return e.CompareVendors(ctx, ids, profiles, cfg, opts)
}

// Rank sorts breakdowns by total ascending, ties broken by vendor id.
func Rank(results []domain.CostBreakdown) {
	sort.SliceStable(results, func(i, j int) bool {
		if c := results[i].Total.Cmp(results[j].Total); c != 0 {
			return c < 0
		}
		return results[i].VendorID < results[j].VendorID
	})
}
