// Package breakeven finds the value of a single input at which two vendors
// cost the same over the projection horizon.
package breakeven

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Request asks where the baseline and alternative TCO curves cross along Factor
type Request struct {
	Factor        string          `json:"factor"`
	BaselineID    string          `json:"baselineId"`
	AlternativeID string          `json:"alternativeId"`
	Min           decimal.Decimal `json:"min"`
	Max           decimal.Decimal `json:"max"`
}

// Validate checks the request shape; factor and vendor lookups happen in Solve.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Factor) == "":
		return &BreakEvenError{Operation: "validate", Message: "factor is required"}
	case r.BaselineID == "" || r.AlternativeID == "":
		return &BreakEvenError{Operation: "validate", Message: "baseline and alternative are required"}
	case r.BaselineID == r.AlternativeID:
		return &BreakEvenError{Operation: "validate", Message: "baseline and alternative must differ"}
	case !r.Min.LessThan(r.Max):
		return &BreakEvenError{Operation: "validate", Message: "min must be less than max"}
	}
	return nil
}

// SolverOptions tunes the bisection
type SolverOptions struct {
	MaxIterations int
	Tolerance     decimal.Decimal // stop once the bracket is narrower than this
}

// DefaultSolverOptions returns the options used by NewDefaultSolver.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 60,
		Tolerance:     decimal.NewFromFloat(0.0001),
	}
}

// Result is the outcome of a break-even search
type Result struct {
	Request Request `json:"request"`

	// Found is false when the baseline is cheaper (or dearer) across the whole range.
	Found bool `json:"found"`
	// Value is the factor value at the crossing. For integer factors it is the
	// first whole value at which the cheaper vendor changes.
	Value decimal.Decimal `json:"value"`

	BaselineTotal    decimal.Decimal `json:"baselineTotal"`
	AlternativeTotal decimal.Decimal `json:"alternativeTotal"`

	// Gaps at the range ends, baseline minus alternative.
	GapAtMin decimal.Decimal `json:"gapAtMin"`
	GapAtMax decimal.Decimal `json:"gapAtMax"`

	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergenceInfo"`
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
