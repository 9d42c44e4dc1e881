package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/tcogo/internal/api"
	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/catalog"
	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/config"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/output"
	"github.com/rgehrsitz/tcogo/internal/sensitivity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeline is an input file resolved against the built-in catalog
type pipeline struct {
	input    *domain.AnalysisInput
	catalog  *catalog.Dataset
	profiles map[string]domain.VendorCostProfile
	cfg      domain.OrganizationConfig
	opts     compare.Options
}

func load(t *testing.T, path string) *pipeline {
	t.Helper()
	input, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err, "Should load %s", path)

	ds, err := catalog.Default()
	require.NoError(t, err)
	profiles, err := ds.Profiles(nil, input.Vendors...)
	require.NoError(t, err, "Should resolve every vendor of %s", path)

	return &pipeline{
		input:    input,
		catalog:  ds,
		profiles: profiles,
		cfg:      ds.ApplyIndustry(input.Organization),
		opts:     compare.Options{Baseline: input.Baseline},
	}
}

func (p *pipeline) report(t *testing.T) *compare.Report {
	t.Helper()
	r, err := compare.NewEngine(nil).BuildReport(context.Background(), p.input.Vendors, p.profiles, p.cfg, p.opts)
	require.NoError(t, err)
	return r
}

// TestEndToEnd runs both sample inputs from file to rendered output
func TestEndToEnd(t *testing.T) {
	for _, path := range []string{"../testdata/analysis.yaml", "../testdata/analysis.json"} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			p := load(t, path)
			assert.NotEmpty(t, p.cfg.ComplianceFrameworksRequired, "Industry should supply frameworks")

			r := p.report(t)
			cr := r.Comparison
			require.Len(t, cr.Results, len(p.input.Vendors))
			assert.Len(t, r.ROI, len(p.input.Vendors)-1, "One ROI per alternative")

			for i, cb := range cr.Results {
				assert.True(t, cb.Total.Equal(cb.Sum()), "%s: total should equal its buckets", cb.VendorID)
				assert.Equal(t, p.cfg.YearsToProject, cb.YearsToProject)
				if i > 0 {
					assert.True(t, cr.Results[i-1].Total.LessThanOrEqual(cb.Total), "Results should be ranked")
				}
				if cb.VendorID != cr.BaselineID {
					want := compare.CalculateSavings(cb, cr.Baseline())
					assert.True(t, want.Absolute.Equal(cr.Savings[cb.VendorID].Absolute), cb.VendorID)
				}
			}
			for _, roi := range r.ROI {
				alt, ok := cr.Breakdown(roi.AlternativeID)
				require.True(t, ok)
				assert.True(t, roi.TotalSavings.Equal(alt.Total.Sub(cr.Baseline().Total)), roi.AlternativeID)
			}

			for _, format := range output.Formats() {
				text, err := output.Format(r, format)
				require.NoError(t, err, format)
				assert.NotEmpty(t, text, format)
			}
		})
	}
}

// TestSensitivityConsistency checks that a sweep point at the current value
// reproduces the plain comparison and that scenarios bracket it.
func TestSensitivityConsistency(t *testing.T) {
	p := load(t, "../testdata/analysis.yaml")
	r := p.report(t)
	an := sensitivity.NewAnalyzer(nil)

	rng := domain.SensitivityRange{Min: decimal.NewFromInt(2500), Max: decimal.NewFromInt(5000), Steps: 2}
	sr, err := an.Analyze(context.Background(), "device_count", rng, p.input.Vendors, p.profiles, p.cfg, p.opts)
	require.NoError(t, err)
	require.Len(t, sr.Samples, 2)

	at := sr.Samples[0].Comparison.Totals()
	for id, total := range r.Comparison.Totals() {
		assert.True(t, total.Equal(at[id]), "%s: sweep at the current value should match", id)
	}

	set, err := an.RunScenarios(context.Background(), p.input.Vendors, p.profiles, p.cfg, p.opts)
	require.NoError(t, err)
	best, likely, worst := set.BestCase.Totals(), set.LikelyCase.Totals(), set.WorstCase.Totals()
	for id, total := range r.Comparison.Totals() {
		assert.True(t, total.Equal(likely[id]), id)
		assert.True(t, best[id].LessThanOrEqual(likely[id]), id)
		assert.True(t, likely[id].LessThanOrEqual(worst[id]), id)
	}

	tr, err := an.Tornado(context.Background(), p.input.Sensitivity, p.input.Vendors, p.profiles, p.cfg, p.opts)
	require.NoError(t, err)
	assert.Len(t, tr.Sweeps, len(p.input.Sensitivity))
	for _, id := range p.input.Vendors {
		assert.Len(t, tr.ByVendor[id], len(p.input.Sensitivity), id)
	}
}

// TestRiskScoring scores every catalog vendor for each industry
func TestRiskScoring(t *testing.T) {
	ds, err := catalog.Default()
	require.NoError(t, err)
	profiles, err := ds.Profiles(nil)
	require.NoError(t, err)
	costs := ds.ViolationCostTable()

	for _, industry := range ds.IndustryNames() {
		cfg := config.NewAnalysisInput().Organization
		cfg.DeviceCount = 1000
		cfg.Industry = industry
		cfg = ds.ApplyIndustry(cfg)

		for id, p := range profiles {
			score, err := calculation.ScoreRisk(p, cfg, costs)
			require.NoError(t, err, "%s/%s", industry, id)
			assert.GreaterOrEqual(t, score.RiskScore, 0)
			assert.LessOrEqual(t, score.RiskScore, 100)
			assert.Len(t, score.Frameworks, len(cfg.ComplianceFrameworksRequired))
			assert.False(t, score.AvoidedCost.IsNegative())
		}
	}
}

// TestSQLiteCatalogMatchesEmbedded imports the default catalog and compares
// results computed from both sources.
func TestSQLiteCatalogMatchesEmbedded(t *testing.T) {
	p := load(t, "../testdata/analysis.yaml")
	want := p.report(t).Comparison.Totals()

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.OpenStore(dbPath)
	require.NoError(t, err)
	_, err = store.Import(p.catalog)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ds, err := catalog.Load(dbPath)
	require.NoError(t, err)
	profiles, err := ds.Profiles(nil, p.input.Vendors...)
	require.NoError(t, err)

	cr, err := compare.NewEngine(nil).CompareVendors(context.Background(), p.input.Vendors, profiles, p.cfg, p.opts)
	require.NoError(t, err)
	for id, total := range cr.Totals() {
		assert.True(t, total.Equal(want[id]), id)
	}
}

// TestAPIMatchesLibrary posts the sample input to the HTTP API
func TestAPIMatchesLibrary(t *testing.T) {
	p := load(t, "../testdata/analysis.yaml")
	want := p.report(t).Comparison.Totals()

	s, err := api.NewServer(p.catalog)
	require.NoError(t, err)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	body, err := json.Marshal(map[string]any{
		"organization": p.input.Organization,
		"vendors":      p.input.Vendors,
		"baseline":     p.input.Baseline,
	})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/compare", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var env struct {
		RequestID string         `json:"requestId"`
		Data      compare.Report `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.Header.Get("X-Request-ID"), env.RequestID)
	require.NotNil(t, env.Data.Comparison)
	for id, total := range env.Data.Comparison.Totals() {
		assert.True(t, total.Equal(want[id]), id)
	}
}

// TestDataConsistency checks that results do not depend on run or worker count
func TestDataConsistency(t *testing.T) {
	p := load(t, "../testdata/analysis.json")
	engine := compare.NewEngine(nil)

	serial := p.opts
	serial.Workers = 1
	parallel := p.opts
	parallel.Workers = 8

	first, err := engine.CompareVendors(context.Background(), p.input.Vendors, p.profiles, p.cfg, serial)
	require.NoError(t, err)
	second, err := engine.CompareVendors(context.Background(), p.input.Vendors, p.profiles, p.cfg, parallel)
	require.NoError(t, err)

	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].VendorID, second.Results[i].VendorID)
		assert.True(t, first.Results[i].Total.Equal(second.Results[i].Total))
	}
}

// TestErrorHandling tests error conditions across package boundaries
func TestErrorHandling(t *testing.T) {
	t.Run("missing_input_file", func(t *testing.T) {
		_, err := config.NewInputParser().LoadFromFile("nonexistent.yaml")
		assert.Error(t, err)
	})

	t.Run("unknown_vendor", func(t *testing.T) {
		ds, err := catalog.Default()
		require.NoError(t, err)
		_, err = ds.Profiles(nil, "portnox", "acme-nac")
		var resErr *domain.ResolutionError
		assert.ErrorAs(t, err, &resErr)
	})

	t.Run("canceled_context", func(t *testing.T) {
		p := load(t, "../testdata/analysis.yaml")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := compare.NewEngine(nil).CompareVendors(ctx, p.input.Vendors, p.profiles, p.cfg, p.opts)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// TestPerformance tests a large sweep stays well within interactive latency
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping performance tests in short mode")
	}

	ds, err := catalog.Default()
	require.NoError(t, err)
	profiles, err := ds.Profiles(nil)
	require.NoError(t, err)
	cfg := ds.ApplyIndustry(config.NewAnalysisInput().Organization)
	cfg.DeviceCount = 10000
	cfg.YearsToProject = 10

	start := time.Now()
	rng := domain.SensitivityRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(50000), Steps: 50}
	sr, err := sensitivity.NewAnalyzer(nil).Analyze(context.Background(), "device_count", rng, ds.VendorIDs(), profiles, cfg, compare.Options{})
	duration := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, sr.Samples, 50)
	assert.Less(t, duration, 30*time.Second)
	t.Logf("Swept %d vendors over %d points in %v", len(profiles), len(sr.Samples), duration)
}
