package breakeven

import (
	"context"
	"sort"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveAgainstAll runs one break-even search per alternative against baseline.
// Results are in alternative id order; an alternative that fails to evaluate
// aborts the run.
func (s *Solver) SolveAgainstAll(
	ctx context.Context,
	factor, baselineID string,
	min, max decimal.Decimal,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
) ([]Result, error) {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		if id != baselineID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_against_all",
			Message:   "no alternatives to compare with " + baselineID,
		}
	}

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		r, err := s.Solve(ctx, Request{
			Factor:        factor,
			BaselineID:    baselineID,
			AlternativeID: id,
			Min:           min,
			Max:           max,
		}, profiles, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}
