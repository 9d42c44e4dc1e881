package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ResolvesEveryVendor(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, ds.Vendors)

	profiles, err := ds.Profiles(nil)
	require.NoError(t, err)
	assert.Len(t, profiles, len(ds.Vendors))

	for _, id := range ds.VendorIDs() {
		p, ok := profiles[id]
		require.True(t, ok, id)
		assert.NotEmpty(t, p.Licensing.Model, id)
	}
}

func TestDefault_IndustriesHaveViolationCosts(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	table := ds.ViolationCostTable()
	for _, industry := range ds.IndustryNames() {
		for _, fw := range ds.FrameworksFor(industry) {
			_, ok := table[fw]
			assert.True(t, ok, "%s requires %s which has no violation cost", industry, fw)
		}
	}
	assert.Equal(t, []domain.FrameworkID{"hipaa", "nist-800-53"}, ds.FrameworksFor("Healthcare"))
	assert.Empty(t, ds.FrameworksFor("agriculture"))
}

func TestDefault_InferredFields(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)
	profiles, err := ds.Profiles(nil, "securew2", "cisco-ise")
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	sw := profiles["securew2"]
	assert.Equal(t, domain.PricingTieredPerDevice, sw.Licensing.Model, "inferred from tiers")
	assert.Equal(t, domain.ArchitectureCloud, sw.Architecture)
	assert.True(t, sw.Compliance["hipaa"].AutomatedPercent.Equal(decimal.NewFromInt(68)), "automation follows the vendor-wide level")

	ise := profiles["cisco-ise"]
	assert.Equal(t, 10000, ise.Hardware.CapacityPerUnit)
	assert.False(t, ise.SupportIncluded)
}

func TestProfiles_UnknownVendor(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	_, err = ds.Profiles(nil, "portnox", "nope")
	var resErr *domain.ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "nope", resErr.VendorID)
}

func TestApplyIndustry(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	cfg := domain.OrganizationConfig{Industry: "finance"}
	out := ds.ApplyIndustry(cfg)
	assert.Equal(t, []domain.FrameworkID{"pci-dss", "sox", "gdpr"}, out.ComplianceFrameworksRequired)
	assert.Empty(t, cfg.ComplianceFrameworksRequired)

	cfg.ComplianceFrameworksRequired = []domain.FrameworkID{"hipaa"}
	assert.Equal(t, []domain.FrameworkID{"hipaa"}, ds.ApplyIndustry(cfg).ComplianceFrameworksRequired)
}

func TestParse_RejectsBadData(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"duplicate ids", "vendors:\n  - id: a\n  - id: a\n", FormatYAML},
		{"missing id", "vendors:\n  - name: nameless\n", FormatYAML},
		{"unknown key", "vendors:\n  - id: a\n    pricng_model: flat_subscription\n", FormatYAML},
		{"negative violation cost", "violation_costs:\n  hipaa: -1\n", FormatYAML},
		{"json unknown key", `{"vendors":[{"id":"a","colour":"red"}]}`, FormatJSON},
		{"not yaml", "vendors: [", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"vendors": [{"id": "acme", "pricingModel": "flat_subscription", "pricing": {"annualFee": "1000"}}],
		"industries": {"retail": ["pci-dss"]},
		"violationCosts": {"pci-dss": 500000}
	}`), 0o644))

	ds, err := LoadFile(jsonPath)
	require.NoError(t, err)
	require.Len(t, ds.Vendors, 1)
	assert.True(t, ds.ViolationCosts["pci-dss"].Equal(decimal.NewFromInt(500000)))

	yamlPath := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("vendors:\n  - id: acme\n    pricing:\n      annual_fee: 1000\n"), 0o644))
	ds, err = Load(yamlPath)
	require.NoError(t, err)
	profiles, err := ds.Profiles(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PricingFlatSubscription, profiles["acme"].Licensing.Model)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	ds, err := Load("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def.VendorIDs(), ds.VendorIDs())
}

func TestParse_NormalizesIndustryKeys(t *testing.T) {
	data := "industries:\n  Healthcare: [HIPAA, nist-800-53]\n  HEALTHCARE: [hipaa]\nviolation_costs:\n  HIPAA: 100\n"
	ds, err := Parse([]byte(data), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"healthcare"}, ds.IndustryNames())
	assert.Equal(t, []domain.FrameworkID{"hipaa", "nist-800-53"}, ds.FrameworksFor("Healthcare"))
	assert.True(t, ds.ViolationCosts["hipaa"].Equal(decimal.NewFromInt(100)))
}
