package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/sensitivity"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver bisects a factor range for the point where two vendors' totals meet
type Solver struct {
	Calculator *calculation.TCOCalculator
	Factors    *sensitivity.FactorRegistry
	Options    SolverOptions
}

// NewSolver creates a new break-even solver. A nil calculator gets a default one.
func NewSolver(calc *calculation.TCOCalculator, options SolverOptions) *Solver {
	if calc == nil {
		calc = calculation.NewTCOCalculator()
	}
	return &Solver{
		Calculator: calc,
		Factors:    sensitivity.NewFactorRegistry(),
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calc *calculation.TCOCalculator) *Solver {
	return NewSolver(calc, DefaultSolverOptions())
}

// Solve finds a value of req.Factor in [req.Min, req.Max] at which the two
// vendors' totals are equal. The gap need not be monotonic (tiered pricing
// has steps), so when the sign changes more than once one crossing is returned.
func (s *Solver) Solve(
	ctx context.Context,
	req Request,
	profiles map[string]domain.VendorCostProfile,
	cfg domain.OrganizationConfig,
) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f, ok := s.Factors.Get(req.Factor)
	if !ok {
		return nil, &domain.RangeError{Factor: req.Factor, Message: "unknown factor"}
	}
	base, ok := profiles[req.BaselineID]
	if !ok {
		return nil, &domain.ResolutionError{VendorID: req.BaselineID, Message: "vendor not found"}
	}
	alt, ok := profiles[req.AlternativeID]
	if !ok {
		return nil, &domain.ResolutionError{VendorID: req.AlternativeID, Message: "vendor not found"}
	}

	lo := f.Clamp(f.Normalize(req.Min))
	hi := f.Clamp(f.Normalize(req.Max))
	if !lo.LessThan(hi) {
		return nil, &domain.RangeError{Factor: req.Factor, Message: "range collapses to a single value within the factor's bounds"}
	}

	// gap is baseline total minus alternative total at v
	gap := func(v decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
		c := cfg.Clone()
		f.Apply(&c, v)
		bt, err := s.Calculator.ComputeTCO(base, c)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, err
		}
		at, err := s.Calculator.ComputeTCO(alt, c)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, err
		}
		return bt.Total.Sub(at.Total), bt.Total, at.Total, nil
	}

	result := &Result{Request: req}
	gLo, bLo, aLo, err := gap(lo)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("evaluate %s at %s", req.Factor, lo), Cause: err}
	}
	gHi, bHi, aHi, err := gap(hi)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("evaluate %s at %s", req.Factor, hi), Cause: err}
	}
	result.GapAtMin, result.GapAtMax = gLo, gHi

	switch {
	case gLo.IsZero():
		return found(result, lo, bLo, aLo, "equal at the lower bound"), nil
	case gHi.IsZero():
		return found(result, hi, bHi, aHi, "equal at the upper bound"), nil
	case gLo.Sign() == gHi.Sign():
		cheaper := req.BaselineID
		if gLo.IsPositive() {
			cheaper = req.AlternativeID
		}
		result.ConvergenceInfo = fmt.Sprintf("no crossing: %s is cheaper across the whole range", cheaper)
		return result, nil
	}

	tolerance := s.Options.Tolerance
	if f.Integer {
		tolerance = decimal.NewFromInt(1)
	}
	maxIter := s.Options.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultSolverOptions().MaxIterations
	}

	bAt, aAt := bHi, aHi
	for result.Iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if hi.Sub(lo).LessThanOrEqual(tolerance) {
			break
		}
		result.Iterations++

		mid := f.Normalize(lo.Add(hi).Div(two))
		if mid.Equal(lo) || mid.Equal(hi) {
			break
		}
		g, b, a, err := gap(mid)
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("evaluate %s at %s", req.Factor, mid), Cause: err}
		}
		if g.IsZero() {
			return found(result, mid, b, a, "exact crossing"), nil
		}
		if g.Sign() == gLo.Sign() {
			lo = mid
		} else {
			hi, bAt, aAt = mid, b, a
		}
	}

	info := "bisection converged"
	if result.Iterations >= maxIter {
		info = fmt.Sprintf("max iterations (%d) reached", maxIter)
	}
	return found(result, hi, bAt, aAt, info), nil
}

func found(r *Result, v, baseTotal, altTotal decimal.Decimal, info string) *Result {
	r.Found = true
	r.Value = v
	r.BaselineTotal = baseTotal
	r.AlternativeTotal = altTotal
	r.ConvergenceInfo = info
	return r
}
