package sensitivity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
)

// Factor is a single organization input that can be swept in isolation.
type Factor struct {
	Name        string
	Description string
	Integer     bool                // values are rounded to whole numbers before use
	Min, Max    decimal.NullDecimal // admissible bounds, inclusive

	Current func(cfg domain.OrganizationConfig) decimal.Decimal
	Apply   func(cfg *domain.OrganizationConfig, v decimal.Decimal)
}

// Normalize rounds integer factors.
func (f Factor) Normalize(v decimal.Decimal) decimal.Decimal {
	if f.Integer {
		return v.Round(0)
	}
	return v
}

// Clamp limits v to the factor's bounds.
func (f Factor) Clamp(v decimal.Decimal) decimal.Decimal {
	if f.Min.Valid && v.LessThan(f.Min.Decimal) {
		return f.Min.Decimal
	}
	if f.Max.Valid && v.GreaterThan(f.Max.Decimal) {
		return f.Max.Decimal
	}
	return v
}

// FactorRegistry maps factor names to factors
type FactorRegistry struct {
	factors map[string]Factor
}

// NewFactorRegistry creates a registry with every built-in factor registered.
func NewFactorRegistry() *FactorRegistry {
	r := &FactorRegistry{factors: make(map[string]Factor)}

	r.Register(Factor{
		Name:        "device_count",
		Description: "Number of managed devices",
		Integer:     true,
		Min:         decimal.NewNullDecimal(decimal.NewFromInt(1)),
		Current:     func(cfg domain.OrganizationConfig) decimal.Decimal { return cfg.Devices() },
		Apply: func(cfg *domain.OrganizationConfig, v decimal.Decimal) {
			cfg.DeviceCount = int(v.IntPart())
		},
	})
	r.Register(Factor{
		Name:        "years_to_project",
		Description: "Projection horizon in years",
		Integer:     true,
		Min:         decimal.NewNullDecimal(decimal.NewFromInt(domain.MinYearsToProject)),
		Max:         decimal.NewNullDecimal(decimal.NewFromInt(domain.MaxYearsToProject)),
		Current:     func(cfg domain.OrganizationConfig) decimal.Decimal { return cfg.Years() },
		Apply: func(cfg *domain.OrganizationConfig, v decimal.Decimal) {
			cfg.YearsToProject = int(v.IntPart())
		},
	})

	zero := decimal.NewNullDecimal(decimal.Zero)
	one := decimal.NewNullDecimal(decimal.NewFromInt(1))
	assumption := func(name, desc string, upper decimal.NullDecimal, field func(*domain.CostAssumptions) *decimal.Decimal) {
		r.Register(Factor{
			Name:        name,
			Description: desc,
			Min:         zero,
			Max:         upper,
			Current: func(cfg domain.OrganizationConfig) decimal.Decimal {
				return *field(&cfg.CostAssumptions)
			},
			Apply: func(cfg *domain.OrganizationConfig, v decimal.Decimal) {
				*field(&cfg.CostAssumptions) = v
			},
		})
	}
	assumption("fte_annual_cost", "Fully loaded annual cost of one FTE", decimal.NullDecimal{},
		func(ca *domain.CostAssumptions) *decimal.Decimal { return &ca.FTEAnnualCost })
	assumption("fte_allocation", "Share of the vendor staffing requirement charged", one,
		func(ca *domain.CostAssumptions) *decimal.Decimal { return &ca.FTEAllocation })
	assumption("maintenance_percent", "Fallback annual maintenance percentage", decimal.NewNullDecimal(decimal.NewFromInt(100)),
		func(ca *domain.CostAssumptions) *decimal.Decimal { return &ca.MaintenancePercent })
	assumption("downtime_cost_per_hour", "Business cost of one hour of downtime", decimal.NullDecimal{},
		func(ca *domain.CostAssumptions) *decimal.Decimal { return &ca.DowntimeCostPerHour })
	assumption("consulting_daily_rate", "Daily rate for implementation consulting", decimal.NullDecimal{},
		func(ca *domain.CostAssumptions) *decimal.Decimal { return &ca.ConsultingDailyRate })
	assumption("training_cost_per_user", "Training fee per administrator", decimal.NullDecimal{},
		func(ca *domain.CostAssumptions) *decimal.Decimal { return &ca.TrainingCostPerUser })
	assumption("discount_rate", "Discount rate used for NPV", one,
		func(ca *domain.CostAssumptions) *decimal.Decimal { return &ca.DiscountRate })

	return r
}

// Register adds or replaces a factor.
func (r *FactorRegistry) Register(f Factor) {
	r.factors[f.Name] = f
}

// Get looks up a factor by name.
func (r *FactorRegistry) Get(name string) (Factor, bool) {
	f, ok := r.factors[name]
	return f, ok
}

// List returns the factor names in alphabetical order.
func (r *FactorRegistry) List() []string {
	names := make([]string, 0, len(r.factors))
	for name := range r.factors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseSweepSpec parses "factor:min=500,max=5000,steps=10".
func (r *FactorRegistry) ParseSweepSpec(spec string) (domain.SensitivitySpec, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return domain.SensitivitySpec{}, fmt.Errorf("invalid sweep spec format, expected 'factor:min=..,max=..,steps=..', got: %s", spec)
	}

	out := domain.SensitivitySpec{Factor: strings.TrimSpace(parts[0])}
	if _, ok := r.Get(out.Factor); !ok {
		return domain.SensitivitySpec{}, fmt.Errorf("unknown factor: %s", out.Factor)
	}

	seen := map[string]bool{}
	for _, pair := range strings.Split(parts[1], ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return domain.SensitivitySpec{}, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
		}
		key, value := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		switch key {
		case "min", "max":
			v, err := decimal.NewFromString(value)
			if err != nil {
				return domain.SensitivitySpec{}, fmt.Errorf("invalid %s %q: %w", key, value, err)
			}
			if key == "min" {
				out.Min = v
			} else {
				out.Max = v
			}
		case "steps":
			n, err := strconv.Atoi(value)
			if err != nil {
				return domain.SensitivitySpec{}, fmt.Errorf("invalid steps %q: %w", value, err)
			}
			out.Steps = n
		default:
			return domain.SensitivitySpec{}, fmt.Errorf("unknown sweep parameter: %s", key)
		}
		seen[key] = true
	}
	for _, required := range []string{"min", "max", "steps"} {
		if !seen[required] {
			return domain.SensitivitySpec{}, fmt.Errorf("sweep spec for %s is missing %s", out.Factor, required)
		}
	}
	return out, nil
}

// DefaultSweeps returns a two-point sweep of +/-20% around the current value of
// every factor, clamped to the factor's bounds. Factors whose sweep would be
// empty (a zero current value) are skipped.
func (r *FactorRegistry) DefaultSweeps(cfg domain.OrganizationConfig) []domain.SensitivitySpec {
	low, high := decimal.NewFromFloat(0.8), decimal.NewFromFloat(1.2)

	var specs []domain.SensitivitySpec
	for _, name := range r.List() {
		f := r.factors[name]
		cur := f.Current(cfg)
		lo := f.Clamp(f.Normalize(cur.Mul(low)))
		hi := f.Clamp(f.Normalize(cur.Mul(high)))
		if !lo.LessThan(hi) {
			continue
		}
		specs = append(specs, domain.SensitivitySpec{
			Factor:           name,
			SensitivityRange: domain.SensitivityRange{Min: lo, Max: hi, Steps: 2},
		})
	}
	return specs
}
