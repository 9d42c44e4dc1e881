package domain

import (
	"github.com/shopspring/decimal"
)

// PricingModel is the tagged variant describing how a vendor licenses its product
type PricingModel string

const (
	PricingFlatSubscription          PricingModel = "flat_subscription"
	PricingTieredPerDevice           PricingModel = "tiered_per_device"
	PricingPerpetualPlusSubscription PricingModel = "perpetual_plus_subscription"
	PricingModularPerpetual          PricingModel = "modular_perpetual"
)

// IsPerpetual reports whether the model is one of the perpetual-license variants.
func (pm PricingModel) IsPerpetual() bool {
	return pm == PricingPerpetualPlusSubscription || pm == PricingModularPerpetual
}

// Architecture is the deployment style of a vendor's product
type Architecture string

const (
	ArchitectureCloud      Architecture = "cloud"
	ArchitectureOnPremises Architecture = "on_premises"
	ArchitectureHybrid     Architecture = "hybrid"
)

// BillingPeriod is the period a tier unit price refers to
type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingAnnual  BillingPeriod = "annual"
)

// Recurrence tells whether a hidden cost is paid once or every year
type Recurrence string

const (
	RecurrenceOneTime Recurrence = "one_time"
	RecurrenceAnnual  Recurrence = "annual"
)

// Role is a staffing role required to run a vendor's product
type Role string

// HiddenCostKind names a hidden cost category (complexity tax, upgrade cycles, ...)
type HiddenCostKind string

// VendorCostProfile is the canonical, resolved cost description of one vendor.
type VendorCostProfile struct {
	ID                  string                            `json:"id"`
	Name                string                            `json:"name"`
	Architecture        Architecture                      `json:"architecture"`
	Licensing           Licensing                         `json:"licensing"`
	Hardware            HardwareRequirement               `json:"hardware"`
	Implementation      Implementation                    `json:"implementation"`
	FTE                 FTERequirement                    `json:"fte"`
	Tasks               *TaskHours                        `json:"tasks,omitempty"`
	Training            Training                          `json:"training"`
	MaintenancePercent  decimal.NullDecimal               `json:"maintenancePercent"` // invalid means use the organization's assumption
	SupportIncluded     bool                              `json:"supportIncluded"`
	AnnualDowntimeHours decimal.Decimal                   `json:"annualDowntimeHours"`
	HiddenCosts         map[HiddenCostKind]HiddenCost     `json:"hiddenCosts"`
	Risk                RiskProfile                       `json:"risk"`
	Compliance          map[FrameworkID]FrameworkCoverage `json:"compliance"`
}

// Licensing holds the pricing-model specific license data
type Licensing struct {
	Model          PricingModel    `json:"model"`
	Tiers          []PricingTier   `json:"tiers,omitempty"`
	BillingPeriod  BillingPeriod   `json:"billingPeriod,omitempty"`
	AnnualFee      decimal.Decimal `json:"annualFee"`
	PerDeviceFee   decimal.Decimal `json:"perDeviceFee"`
	PerpetualItems []LicenseItem   `json:"perpetualItems,omitempty"`
	Subscriptions  []LicenseItem   `json:"subscriptions,omitempty"`
}

// PricingTier covers the device range [Min, Max). A nil Max is unbounded.
type PricingTier struct {
	Min       int             `json:"min"`
	Max       *int            `json:"max,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Contains reports whether deviceCount falls in [Min, Max).
func (t PricingTier) Contains(deviceCount int) bool {
	if deviceCount < t.Min {
		return false
	}
	return t.Max == nil || deviceCount < *t.Max
}

// LicenseItem is a perpetual license line or an annual subscription add-on.
// UnitSize > 0 scales the cost by ceil(devices / UnitSize); 0 means a flat line.
type LicenseItem struct {
	Name     string          `json:"name"`
	Cost     decimal.Decimal `json:"cost"`
	UnitSize int             `json:"unitSize,omitempty"`
	Required bool            `json:"required"`
}

// HardwareRequirement describes appliances needed on premises
type HardwareRequirement struct {
	Required        bool            `json:"required"`
	PerDeviceCost   decimal.Decimal `json:"perDeviceCost"`
	CapacityPerUnit int             `json:"capacityPerUnit"`
}

// Implementation describes deployment effort
type Implementation struct {
	Days                     int             `json:"days"`
	ProfessionalServicesCost decimal.Decimal `json:"professionalServicesCost"`
}

// FTERequirement maps staffing roles to FTE fractions
type FTERequirement struct {
	Roles map[Role]decimal.Decimal `json:"roles"`
}

// TotalFraction sums the FTE fractions over all roles.
func (f FTERequirement) TotalFraction() decimal.Decimal {
	total := decimal.Zero
	for _, fraction := range f.Roles {
		total = total.Add(fraction)
	}
	return total
}

// TaskHours are recurring administrative hours
type TaskHours struct {
	DailyMaintenanceHours   decimal.Decimal `json:"dailyMaintenanceHours"`
	WeeklyPolicyChangeHours decimal.Decimal `json:"weeklyPolicyChangeHours"`
	WeeklyReportingHours    decimal.Decimal `json:"weeklyReportingHours"`
}

// WeeklyHours is daily maintenance over a 5-day week plus the weekly tasks.
func (th TaskHours) WeeklyHours() decimal.Decimal {
	return th.DailyMaintenanceHours.Mul(decimal.NewFromInt(5)).
		Add(th.WeeklyPolicyChangeHours).
		Add(th.WeeklyReportingHours)
}

// Training describes per-admin training effort
type Training struct {
	Hours decimal.Decimal `json:"hours"`
}

// HiddenCost is a single hidden cost line
type HiddenCost struct {
	Amount     decimal.Decimal `json:"amount"`
	Recurrence Recurrence      `json:"recurrence"`
}

// RiskProfile holds security metrics, all percentages in [0,100]
type RiskProfile struct {
	SecurityEffectiveness decimal.Decimal `json:"securityEffectiveness"`
	IncidentReduction     decimal.Decimal `json:"incidentReduction"`
	BreachPrevention      decimal.Decimal `json:"breachPrevention"`
	ComplianceAutomation  decimal.Decimal `json:"complianceAutomation"`
}

// FrameworkCoverage holds coverage figures for one compliance framework
type FrameworkCoverage struct {
	CoveragePercent  decimal.Decimal `json:"coveragePercent"`
	AutomatedPercent decimal.Decimal `json:"automatedPercent"`
}

// DeepCopy returns a copy of the profile that shares no maps or slices.
func (p VendorCostProfile) DeepCopy() VendorCostProfile {
	c := p

	if p.Licensing.Tiers != nil {
		c.Licensing.Tiers = make([]PricingTier, len(p.Licensing.Tiers))
		for i, tier := range p.Licensing.Tiers {
			c.Licensing.Tiers[i] = tier
			if tier.Max != nil {
				max := *tier.Max
				c.Licensing.Tiers[i].Max = &max
			}
		}
	}
	c.Licensing.PerpetualItems = append([]LicenseItem(nil), p.Licensing.PerpetualItems...)
	c.Licensing.Subscriptions = append([]LicenseItem(nil), p.Licensing.Subscriptions...)

	if p.FTE.Roles != nil {
		c.FTE.Roles = make(map[Role]decimal.Decimal, len(p.FTE.Roles))
		for role, fraction := range p.FTE.Roles {
			c.FTE.Roles[role] = fraction
		}
	}
	if p.Tasks != nil {
		tasks := *p.Tasks
		c.Tasks = &tasks
	}

	if p.HiddenCosts != nil {
		c.HiddenCosts = make(map[HiddenCostKind]HiddenCost, len(p.HiddenCosts))
		for kind, hc := range p.HiddenCosts {
			c.HiddenCosts[kind] = hc
		}
	}
	if p.Compliance != nil {
		c.Compliance = make(map[FrameworkID]FrameworkCoverage, len(p.Compliance))
		for id, cov := range p.Compliance {
			c.Compliance[id] = cov
		}
	}
	return c
}

// IntPtr is a convenience for building tier bounds.
func IntPtr(v int) *int {
	return &v
}
