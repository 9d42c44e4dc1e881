package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Projection horizon bounds, inclusive.
const (
	MinYearsToProject = 1
	MaxYearsToProject = 10
)

// FrameworkID identifies a compliance framework (e.g. "hipaa", "pci-dss")
type FrameworkID string

// OrganizationConfig describes the organization a TCO is being computed for.
// It is treated as immutable once validated; every what-if path in the engine
// works on copies returned by Clone.
type OrganizationConfig struct {
	DeviceCount                  int             `yaml:"device_count" json:"deviceCount"`
	Locations                    int             `yaml:"locations" json:"locations"`
	YearsToProject               int             `yaml:"years_to_project" json:"yearsToProject"`
	Industry                     string          `yaml:"industry" json:"industry"`
	ComplianceFrameworksRequired []FrameworkID   `yaml:"compliance_frameworks" json:"complianceFrameworks"`
	CostAssumptions              CostAssumptions `yaml:"cost_assumptions" json:"costAssumptions"`
}

// CostAssumptions holds the caller-supplied economic inputs
type CostAssumptions struct {
	FTEAnnualCost           decimal.Decimal `yaml:"fte_annual_cost" json:"fteAnnualCost"`
	FTEAllocation           decimal.Decimal `yaml:"fte_allocation" json:"fteAllocation"`           // share of the vendor's staffing requirement charged, 0-1
	MaintenancePercent      decimal.Decimal `yaml:"maintenance_percent" json:"maintenancePercent"` // fallback when the vendor has none, 0-100
	DowntimeCostPerHour     decimal.Decimal `yaml:"downtime_cost_per_hour" json:"downtimeCostPerHour"`
	ConsultingDailyRate     decimal.Decimal `yaml:"consulting_daily_rate" json:"consultingDailyRate"`
	TrainingCostPerUser     decimal.Decimal `yaml:"training_cost_per_user" json:"trainingCostPerUser"`
	DiscountRate            decimal.Decimal `yaml:"discount_rate" json:"discountRate"` // e.g. 0.08
	AverageBreachCost       decimal.Decimal `yaml:"average_breach_cost" json:"averageBreachCost"`
	AnnualBreachProbability decimal.Decimal `yaml:"annual_breach_probability" json:"annualBreachProbability"` // 0-1
}

// DefaultCostAssumptions returns the assumptions used when an input file omits them.
func DefaultCostAssumptions() CostAssumptions {
	return CostAssumptions{
		FTEAnnualCost:           decimal.NewFromInt(120000),
		FTEAllocation:           decimal.NewFromInt(1),
		MaintenancePercent:      decimal.NewFromInt(18),
		DowntimeCostPerHour:     decimal.NewFromInt(5000),
		ConsultingDailyRate:     decimal.NewFromInt(2000),
		TrainingCostPerUser:     decimal.NewFromInt(500),
		DiscountRate:            decimal.NewFromFloat(0.08),
		AverageBreachCost:       decimal.NewFromInt(4350000),
		AnnualBreachProbability: decimal.NewFromFloat(0.1),
	}
}

// HourlyRate converts the annual FTE cost into an hourly rate (2080 working hours).
func (ca CostAssumptions) HourlyRate() decimal.Decimal {
	return ca.FTEAnnualCost.Div(decimal.NewFromInt(2080))
}

// Validate checks the invariants of the organization configuration.
func (oc OrganizationConfig) Validate() error {
	if oc.DeviceCount <= 0 {
		return &ConfigurationError{Field: "device_count", Message: fmt.Sprintf("must be positive, got %d", oc.DeviceCount)}
	}
	if oc.Locations < 0 {
		return &ConfigurationError{Field: "locations", Message: fmt.Sprintf("cannot be negative, got %d", oc.Locations)}
	}
	if oc.YearsToProject < MinYearsToProject || oc.YearsToProject > MaxYearsToProject {
		return &ConfigurationError{
			Field:   "years_to_project",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinYearsToProject, MaxYearsToProject, oc.YearsToProject),
		}
	}
	return oc.CostAssumptions.validate()
}

func (ca CostAssumptions) validate() error {
	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"fte_annual_cost", ca.FTEAnnualCost},
		{"maintenance_percent", ca.MaintenancePercent},
		{"downtime_cost_per_hour", ca.DowntimeCostPerHour},
		{"consulting_daily_rate", ca.ConsultingDailyRate},
		{"training_cost_per_user", ca.TrainingCostPerUser},
		{"discount_rate", ca.DiscountRate},
		{"average_breach_cost", ca.AverageBreachCost},
	}
	for _, nn := range nonNegative {
		if nn.value.IsNegative() {
			return &ConfigurationError{Field: "cost_assumptions." + nn.field, Message: "cannot be negative, got " + nn.value.String()}
		}
	}

	if ca.FTEAllocation.IsNegative() || ca.FTEAllocation.GreaterThan(decimal.NewFromInt(1)) {
		return &ConfigurationError{Field: "cost_assumptions.fte_allocation", Message: "must be between 0 and 1, got " + ca.FTEAllocation.String()}
	}
	if ca.AnnualBreachProbability.IsNegative() || ca.AnnualBreachProbability.GreaterThan(decimal.NewFromInt(1)) {
		return &ConfigurationError{Field: "cost_assumptions.annual_breach_probability", Message: "must be between 0 and 1, got " + ca.AnnualBreachProbability.String()}
	}
	if ca.MaintenancePercent.GreaterThan(decimal.NewFromInt(100)) {
		return &ConfigurationError{Field: "cost_assumptions.maintenance_percent", Message: "must be at most 100, got " + ca.MaintenancePercent.String()}
	}
	return nil
}

// NormalizeKey puts an industry name or framework id in canonical form.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeFramework is NormalizeKey for framework ids.
func NormalizeFramework(fw FrameworkID) FrameworkID {
	return FrameworkID(NormalizeKey(string(fw)))
}

// Normalized returns a copy with the industry and required frameworks in
// canonical form.
func (oc OrganizationConfig) Normalized() OrganizationConfig {
	out := oc.Clone()
	out.Industry = NormalizeKey(out.Industry)
	for i, fw := range out.ComplianceFrameworksRequired {
		out.ComplianceFrameworksRequired[i] = NormalizeFramework(fw)
	}
	return out
}

// Clone returns a copy that shares no slices with the receiver.
func (oc OrganizationConfig) Clone() OrganizationConfig {
	clone := oc
	if oc.ComplianceFrameworksRequired != nil {
		clone.ComplianceFrameworksRequired = append([]FrameworkID(nil), oc.ComplianceFrameworksRequired...)
	}
	return clone
}

// RequiresFramework reports whether the framework is in the required set.
func (oc OrganizationConfig) RequiresFramework(id FrameworkID) bool {
	for _, f := range oc.ComplianceFrameworksRequired {
		if f == id {
			return true
		}
	}
	return false
}

// Years returns the horizon as a decimal.
func (oc OrganizationConfig) Years() decimal.Decimal {
	return decimal.NewFromInt(int64(oc.YearsToProject))
}

// Devices returns the device count as a decimal.
func (oc OrganizationConfig) Devices() decimal.Decimal {
	return decimal.NewFromInt(int64(oc.DeviceCount))
}
