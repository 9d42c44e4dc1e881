package calculation

import (
	"fmt"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/logging"
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	twelve        = decimal.NewFromInt(12)
	weeksPerYear  = decimal.NewFromInt(52)
	riskScaleRate = decimal.NewFromFloat(0.1)
)

// Implementation scaling bands. Each band is inclusive on its lower bound.
const (
	MediumDeploymentDevices = 5000
	LargeDeploymentDevices  = 10000

	// DevicesPerAdmin is the number of devices one trained administrator covers
	DevicesPerAdmin = 1000
)

// TCOCalculator computes itemized TCO breakdowns
type TCOCalculator struct {
	Logger logging.Logger
}

// NewTCOCalculator creates a calculator with a no-op logger
func NewTCOCalculator() *TCOCalculator {
	return &TCOCalculator{Logger: logging.NopLogger{}}
}

// SetLogger sets the logger; nil installs a no-op logger.
func (tc *TCOCalculator) SetLogger(l logging.Logger) {
	tc.Logger = logging.OrNop(l)
}

// ComputeTCO prices a resolved vendor profile for an organization over
// cfg.YearsToProject years. The profile and config are not modified.
func (tc *TCOCalculator) ComputeTCO(profile domain.VendorCostProfile, cfg domain.OrganizationConfig) (domain.CostBreakdown, error) {
	if err := cfg.Validate(); err != nil {
		return domain.CostBreakdown{}, err
	}
	log := logging.OrNop(tc.Logger)

	years := cfg.Years()
	assumptions := cfg.CostAssumptions
	hourly := assumptions.HourlyRate()

	cb := domain.CostBreakdown{
		VendorID:       profile.ID,
		VendorName:     profile.Name,
		YearsToProject: cfg.YearsToProject,
	}

	lic, err := computeLicensing(profile, cfg)
	if err != nil {
		return domain.CostBreakdown{}, err
	}
	cb.Licensing = lic.total
	cb.FirstYearLicensing = lic.firstYear

	if profile.Hardware.Required {
		capacity := profile.Hardware.CapacityPerUnit
		if capacity <= 0 {
			capacity = 1
		}
		units := ceilDiv(cfg.DeviceCount, capacity)
		cb.Hardware = profile.Hardware.PerDeviceCost.Mul(decimal.NewFromInt(int64(units)))
	}

	cb.Implementation = profile.Implementation.ProfessionalServicesCost.Mul(ImplementationScale(cfg.DeviceCount)).
		Add(decimal.NewFromInt(int64(profile.Implementation.Days)).Mul(assumptions.ConsultingDailyRate))

	admins := decimal.NewFromInt(int64(ceilDiv(cfg.DeviceCount, DevicesPerAdmin)))
	cb.Training = admins.Mul(assumptions.TrainingCostPerUser.Add(profile.Training.Hours.Mul(hourly)))

	if !profile.SupportIncluded {
		pct := assumptions.MaintenancePercent
		if profile.MaintenancePercent.Valid {
			pct = profile.MaintenancePercent.Decimal
		}
		cb.Maintenance = cb.Hardware.Add(cb.FirstYearLicensing).Mul(pct).Div(hundred).Mul(years)
	}

	cb.Personnel = profile.FTE.TotalFraction().
		Mul(assumptions.FTEAllocation).
		Mul(assumptions.FTEAnnualCost).
		Mul(years)
	if profile.Tasks != nil {
		cb.Personnel = cb.Personnel.Add(profile.Tasks.WeeklyHours().Mul(weeksPerYear).Mul(years).Mul(hourly))
	}

	cb.Downtime = profile.AnnualDowntimeHours.Mul(assumptions.DowntimeCostPerHour).Mul(years)

	oneTimeHidden := decimal.Zero
	for kind, hc := range profile.HiddenCosts {
		switch hc.Recurrence {
		case domain.RecurrenceAnnual:
			cb.Hidden = cb.Hidden.Add(hc.Amount.Mul(years))
		case domain.RecurrenceOneTime, "":
			cb.Hidden = cb.Hidden.Add(hc.Amount)
			oneTimeHidden = oneTimeHidden.Add(hc.Amount)
		default:
			return domain.CostBreakdown{}, &domain.CalculationError{
				VendorID:  profile.ID,
				Component: "hidden",
				Message:   fmt.Sprintf("unknown recurrence %q for %s", hc.Recurrence, kind),
			}
		}
	}

	for _, bucket := range cb.Buckets() {
		if bucket.Amount.IsNegative() {
			return domain.CostBreakdown{}, &domain.CalculationError{
				VendorID:  profile.ID,
				Component: bucket.Name,
				Message:   "negative subtotal " + bucket.Amount.StringFixed(2),
			}
		}
	}

	cb.Total = cb.Sum()
	cb.RiskAdjustment = cb.Total.Mul(profile.Risk.SecurityEffectiveness).Div(hundred).Mul(riskScaleRate).Neg()

	cb.OneTimeCost = cb.Hardware.Add(cb.Implementation).Add(cb.Training).Add(oneTimeHidden).Add(lic.oneTime)
	cb.AnnualCost = cb.Total.Sub(cb.OneTimeCost).Div(years)

	log.Debugf("vendor %s: total %s over %d years (licensing %s, hardware %s, personnel %s)",
		profile.ID, cb.Total.StringFixed(2), cfg.YearsToProject,
		cb.Licensing.StringFixed(2), cb.Hardware.StringFixed(2), cb.Personnel.StringFixed(2))

	return cb, nil
}

// ImplementationScale is the professional services multiplier for a deployment size.
func ImplementationScale(deviceCount int) decimal.Decimal {
	switch {
	case deviceCount >= LargeDeploymentDevices:
		return decimal.NewFromInt(2)
	case deviceCount >= MediumDeploymentDevices:
		return decimal.NewFromFloat(1.5)
	default:
		return decimal.NewFromInt(1)
	}
}

// SelectTier returns the first tier, in ascending order, containing deviceCount.
func SelectTier(tiers []domain.PricingTier, deviceCount int) (domain.PricingTier, bool) {
	for _, tier := range tiers {
		if tier.Contains(deviceCount) {
			return tier, true
		}
	}
	return domain.PricingTier{}, false
}

type licensingCost struct {
	total     decimal.Decimal
	firstYear decimal.Decimal
	oneTime   decimal.Decimal
}

func computeLicensing(profile domain.VendorCostProfile, cfg domain.OrganizationConfig) (licensingCost, error) {
	lic := profile.Licensing
	years := cfg.Years()
	devices := cfg.Devices()

	switch lic.Model {
	case domain.PricingTieredPerDevice:
		tier, ok := SelectTier(lic.Tiers, cfg.DeviceCount)
		if !ok {
			return licensingCost{}, &domain.CalculationError{
				VendorID:  profile.ID,
				Component: "licensing",
				Message:   fmt.Sprintf("no pricing tier covers %d devices", cfg.DeviceCount),
			}
		}
		annual := tier.UnitPrice.Mul(devices)
		if lic.BillingPeriod == domain.BillingMonthly {
			annual = annual.Mul(twelve)
		}
		return licensingCost{total: annual.Mul(years), firstYear: annual}, nil

	case domain.PricingFlatSubscription:
		annual := lic.AnnualFee.Add(lic.PerDeviceFee.Mul(devices))
		return licensingCost{total: annual.Mul(years), firstYear: annual}, nil

	case domain.PricingPerpetualPlusSubscription, domain.PricingModularPerpetual:
		perpetual := sumItems(lic.PerpetualItems, cfg.DeviceCount)
		subs := sumItems(lic.Subscriptions, cfg.DeviceCount)
		return licensingCost{
			total:     perpetual.Add(subs.Mul(years)),
			firstYear: perpetual.Add(subs),
			oneTime:   perpetual,
		}, nil

	default:
		return licensingCost{}, &domain.CalculationError{
			VendorID:  profile.ID,
			Component: "licensing",
			Message:   fmt.Sprintf("unsupported pricing model %q", lic.Model),
		}
	}
}

// sumItems adds required license lines, scaling per-unit lines by ceil(devices/UnitSize).
func sumItems(items []domain.LicenseItem, deviceCount int) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if !item.Required {
			continue
		}
		qty := 1
		if item.UnitSize > 0 {
			qty = ceilDiv(deviceCount, item.UnitSize)
		}
		total = total.Add(item.Cost.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
