package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakdowns(t *testing.T, cfg domain.OrganizationConfig) (domain.CostBreakdown, domain.CostBreakdown) {
	t.Helper()
	calc := NewTCOCalculator()
	cloud, err := calc.ComputeTCO(cloudProfile(), cfg)
	require.NoError(t, err)
	onPrem, err := calc.ComputeTCO(onPremProfile(), cfg)
	require.NoError(t, err)
	return cloud, onPrem
}

func TestComputeROI_CloudReplacesOnPrem(t *testing.T) {
	cfg := testConfig(500, 3)
	cloud, onPrem := breakdowns(t, cfg)

	roi, err := ComputeROI(cloud, onPrem, cfg)
	require.NoError(t, err)

	assert.Equal(t, "cloud-a", roi.BaselineID)
	assert.Equal(t, "onprem-b", roi.AlternativeID)
	assertDecimal(t, 1179000, roi.TotalSavings)
	assertDecimal(t, 29000, roi.Investment)

	require.True(t, roi.ROIPercent.Valid)
	assert.Equal(t, "4065.52", roi.ROIPercent.Decimal.StringFixed(2))

	// 29000 / (1179000 / 36) < 1 month
	require.True(t, roi.PaybackMonths.Valid)
	assertDecimal(t, 1, roi.PaybackMonths.Decimal)

	require.True(t, roi.IRRApprox.Valid)
	assertDecimal(t, 100, roi.IRRApprox.Decimal, "capped")

	assert.True(t, roi.NPV.IsPositive())
	assert.True(t, roi.PercentageSavings.GreaterThan(decimal.NewFromInt(80)))
}

func TestComputeROI_EqualTotals(t *testing.T) {
	cfg := testConfig(500, 3)
	cloud, _ := breakdowns(t, cfg)

	roi, err := ComputeROI(cloud, cloud, cfg)
	require.NoError(t, err)

	assert.True(t, roi.TotalSavings.IsZero())
	require.True(t, roi.ROIPercent.Valid)
	assert.True(t, roi.ROIPercent.Decimal.IsZero())
	assert.False(t, roi.PaybackMonths.Valid, "payback is undefined without savings")
	assert.True(t, roi.PercentageSavings.IsZero())
}

func TestComputeROI_ZeroInvestment(t *testing.T) {
	cfg := testConfig(500, 1)
	baseline := domain.CostBreakdown{VendorID: "free", YearsToProject: 1, Total: d(1000), AnnualCost: d(1000)}
	alternative := domain.CostBreakdown{VendorID: "paid", YearsToProject: 1, Total: d(13000), AnnualCost: d(13000)}

	roi, err := ComputeROI(baseline, alternative, cfg)
	require.NoError(t, err)

	assert.False(t, roi.ROIPercent.Valid)
	assert.False(t, roi.IRRApprox.Valid)
	require.True(t, roi.PaybackMonths.Valid)
	assert.True(t, roi.PaybackMonths.Decimal.IsZero())
}

func TestComputeROI_NegativeSavings(t *testing.T) {
	cfg := testConfig(500, 3)
	cloud, onPrem := breakdowns(t, cfg)

	roi, err := ComputeROI(onPrem, cloud, cfg)
	require.NoError(t, err)

	assert.True(t, roi.TotalSavings.IsNegative())
	assert.False(t, roi.PaybackMonths.Valid)
	require.True(t, roi.ROIPercent.Valid)
	assert.True(t, roi.ROIPercent.Decimal.IsNegative())
	assert.True(t, roi.NPV.IsNegative())
}

func TestComputeROI_HorizonMismatch(t *testing.T) {
	cloud, onPrem := breakdowns(t, testConfig(500, 3))

	_, err := ComputeROI(cloud, onPrem, testConfig(500, 5))
	var calcErr *domain.CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, "roi", calcErr.Component)
}

func TestNetPresentValue(t *testing.T) {
	// 1100 / 1.1 - 1000 = 0
	npv := NetPresentValue(d(1100), d(1000), d(0.1), 1)
	assert.Equal(t, "0.00", npv.StringFixed(2))

	// undiscounted at a zero rate
	npv = NetPresentValue(d(500), d(1000), decimal.Zero, 3)
	assertDecimal(t, 500, npv)
}
