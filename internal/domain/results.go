package domain

import (
	"github.com/shopspring/decimal"
)

// CostBreakdown is the itemized TCO of one vendor over the projection horizon.
// RiskAdjustment is informational and is not part of Total.
type CostBreakdown struct {
	VendorID       string          `json:"vendorId"`
	VendorName     string          `json:"vendorName"`
	YearsToProject int             `json:"yearsToProject"`
	Hardware       decimal.Decimal `json:"hardware"`
	Licensing      decimal.Decimal `json:"licensing"`
	Implementation decimal.Decimal `json:"implementation"`
	Training       decimal.Decimal `json:"training"`
	Maintenance    decimal.Decimal `json:"maintenance"`
	Personnel      decimal.Decimal `json:"personnel"`
	Downtime       decimal.Decimal `json:"downtime"`
	Hidden         decimal.Decimal `json:"hidden"`
	RiskAdjustment decimal.Decimal `json:"riskAdjustment"`
	Total          decimal.Decimal `json:"total"`

	// Derived figures used by ROI/NPV
	FirstYearLicensing decimal.Decimal `json:"firstYearLicensing"`
	OneTimeCost        decimal.Decimal `json:"oneTimeCost"`
	AnnualCost         decimal.Decimal `json:"annualCost"`
}

// CostBucket is a named line of a breakdown
type CostBucket struct {
	Name   string
	Amount decimal.Decimal
}

// Buckets returns the cost lines that make up Total, in display order.
func (cb CostBreakdown) Buckets() []CostBucket {
	return []CostBucket{
		{"hardware", cb.Hardware},
		{"licensing", cb.Licensing},
		{"implementation", cb.Implementation},
		{"training", cb.Training},
		{"maintenance", cb.Maintenance},
		{"personnel", cb.Personnel},
		{"downtime", cb.Downtime},
		{"hidden", cb.Hidden},
	}
}

// Sum adds the buckets. For a breakdown produced by the calculator Sum equals Total.
func (cb CostBreakdown) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, b := range cb.Buckets() {
		total = total.Add(b.Amount)
	}
	return total
}

// Investment is the one-time outlay used as the ROI denominator:
// implementation plus the first year of licensing.
func (cb CostBreakdown) Investment() decimal.Decimal {
	return cb.Implementation.Add(cb.FirstYearLicensing)
}

// NetOfRisk nets the risk adjustment against the total for callers that want it.
func (cb CostBreakdown) NetOfRisk() decimal.Decimal {
	return cb.Total.Add(cb.RiskAdjustment)
}

// SavingsDelta is the saving of adopting the baseline instead of another vendor.
// Positive values mean the baseline is cheaper.
type SavingsDelta struct {
	Absolute   decimal.Decimal `json:"absolute"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ComparisonResult holds one breakdown per vendor, ranked by total ascending
// (ties by vendor id), and the savings of every non-baseline vendor.
type ComparisonResult struct {
	BaselineID string                  `json:"baselineId"`
	Results    []CostBreakdown         `json:"results"`
	Savings    map[string]SavingsDelta `json:"savings"`
}

// Breakdown looks up a vendor's breakdown.
func (cr *ComparisonResult) Breakdown(vendorID string) (CostBreakdown, bool) {
	for _, r := range cr.Results {
		if r.VendorID == vendorID {
			return r, true
		}
	}
	return CostBreakdown{}, false
}

// Baseline returns the baseline vendor's breakdown.
func (cr *ComparisonResult) Baseline() CostBreakdown {
	b, _ := cr.Breakdown(cr.BaselineID)
	return b
}

// Totals maps vendor id to total cost.
func (cr *ComparisonResult) Totals() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(cr.Results))
	for _, r := range cr.Results {
		totals[r.VendorID] = r.Total
	}
	return totals
}

// ROIResult compares a baseline (candidate) with an alternative (incumbent).
// Invalid NullDecimals mean "undefined" (zero investment, no monthly savings).
type ROIResult struct {
	BaselineID        string              `json:"baselineId"`
	AlternativeID     string              `json:"alternativeId"`
	YearsToProject    int                 `json:"yearsToProject"`
	Investment        decimal.Decimal     `json:"investment"`
	TotalSavings      decimal.Decimal     `json:"totalSavings"`
	PercentageSavings decimal.Decimal     `json:"percentageSavings"`
	ROIPercent        decimal.NullDecimal `json:"roiPercent"`
	PaybackMonths     decimal.NullDecimal `json:"paybackMonths"`
	NPV               decimal.Decimal     `json:"npv"`
	IRRApprox         decimal.NullDecimal `json:"irrApprox"`
}

// FrameworkScore is the per-framework detail of a compliance score
type FrameworkScore struct {
	Framework        FrameworkID     `json:"framework"`
	CoveragePercent  decimal.Decimal `json:"coveragePercent"`
	AutomatedPercent decimal.Decimal `json:"automatedPercent"`
	Score            decimal.Decimal `json:"score"`
	ViolationCost    decimal.Decimal `json:"violationCost"`
	AvoidedCost      decimal.Decimal `json:"avoidedCost"`
}

// RiskComplianceScore is the output of the risk and compliance scorer
type RiskComplianceScore struct {
	VendorID        string           `json:"vendorId"`
	RiskScore       int              `json:"riskScore"`
	ComplianceScore decimal.Decimal  `json:"complianceScore"`
	AvoidedCost     decimal.Decimal  `json:"avoidedCost"`
	BreachAvoidance decimal.Decimal  `json:"breachAvoidance"`
	Frameworks      []FrameworkScore `json:"frameworks"`
}

// SensitivityRange is an inclusive sweep of Steps evenly spaced values.
type SensitivityRange struct {
	Min   decimal.Decimal `yaml:"min" json:"min"`
	Max   decimal.Decimal `yaml:"max" json:"max"`
	Steps int             `yaml:"steps" json:"steps"`
}

// SensitivitySample is one point of a sweep
type SensitivitySample struct {
	InputValue decimal.Decimal   `json:"inputValue"`
	Comparison *ComparisonResult `json:"comparison"`
}

// Impact is the full-range change of a vendor's total
type Impact struct {
	AbsoluteDelta decimal.Decimal `json:"absoluteDelta"`
	PercentDelta  decimal.Decimal `json:"percentDelta"`
}

// SensitivityResult is the outcome of a single-factor sweep.
type SensitivityResult struct {
	Factor         string              `json:"factor"`
	Range          SensitivityRange    `json:"range"`
	Samples        []SensitivitySample `json:"samples"`
	ImpactByVendor map[string]Impact   `json:"impactByVendor"`
}

// TotalsFor returns a vendor's total at every sample, in sample order.
func (sr *SensitivityResult) TotalsFor(vendorID string) []decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(sr.Samples))
	for _, s := range sr.Samples {
		if b, ok := s.Comparison.Breakdown(vendorID); ok {
			totals = append(totals, b.Total)
		}
	}
	return totals
}

// TornadoBar is one factor's impact on one vendor
type TornadoBar struct {
	Factor string `json:"factor"`
	Impact
}

// TornadoResult ranks factors per vendor, largest absolute delta first.
type TornadoResult struct {
	Sweeps   []*SensitivityResult    `json:"sweeps"`
	ByVendor map[string][]TornadoBar `json:"byVendor"`
}

// ScenarioSet holds the three named scenario comparisons
type ScenarioSet struct {
	BestCase   *ComparisonResult `json:"bestCase"`
	LikelyCase *ComparisonResult `json:"likelyCase"`
	WorstCase  *ComparisonResult `json:"worstCase"`
}
