package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rgehrsitz/tcogo/internal/breakeven"
	"github.com/rgehrsitz/tcogo/internal/catalog"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ds, err := catalog.Default()
	require.NoError(t, err)
	s, err := NewServer(ds)
	require.NoError(t, err)
	return s.Routes()
}

type response struct {
	RequestID string          `json:"requestId"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	assert.Equal(t, resp.RequestID, rr.Header().Get("X-Request-ID"))
	return rr.Code, resp
}

const org = `"organization": {"deviceCount": 2500, "yearsToProject": 3, "industry": "healthcare"}`

func TestHealthz(t *testing.T) {
	code, resp := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	_, err := uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Data))
}

func TestVendorsAndIndustries(t *testing.T) {
	h := newTestServer(t)

	code, resp := do(t, h, http.MethodGet, "/api/vendors", "")
	require.Equal(t, http.StatusOK, code)
	var vendors []vendorSummary
	require.NoError(t, json.Unmarshal(resp.Data, &vendors))
	require.NotEmpty(t, vendors)
	for i := 1; i < len(vendors); i++ {
		assert.Less(t, vendors[i-1].ID, vendors[i].ID)
	}

	code, resp = do(t, h, http.MethodGet, "/api/industries", "")
	require.Equal(t, http.StatusOK, code)
	var industries map[string][]string
	require.NoError(t, json.Unmarshal(resp.Data, &industries))
	assert.Contains(t, industries["healthcare"], "hipaa")
}

func TestCompare(t *testing.T) {
	body := fmt.Sprintf(`{%s, "vendors": ["portnox", "cisco-ise", "aruba-clearpass"], "baseline": "portnox"}`, org)
	code, resp := do(t, newTestServer(t), http.MethodPost, "/api/compare", body)
	require.Equal(t, http.StatusOK, code, resp.Error)

	var report struct {
		Comparison domain.ComparisonResult `json:"comparison"`
		ROI        []domain.ROIResult      `json:"roi"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, "portnox", report.Comparison.BaselineID)
	assert.Len(t, report.Comparison.Results, 3)
	assert.Len(t, report.ROI, 2)
	for _, r := range report.Comparison.Results {
		assert.True(t, r.Total.Equal(r.Sum()), r.VendorID)
	}
}

func TestTCOAndRisk(t *testing.T) {
	h := newTestServer(t)
	body := fmt.Sprintf(`{%s, "vendors": ["portnox", "fortinac"]}`, org)

	code, resp := do(t, h, http.MethodPost, "/api/tco", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var breakdowns []domain.CostBreakdown
	require.NoError(t, json.Unmarshal(resp.Data, &breakdowns))
	require.Len(t, breakdowns, 2)
	assert.Equal(t, "portnox", breakdowns[0].VendorID)

	code, resp = do(t, h, http.MethodPost, "/api/risk", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var scores []domain.RiskComplianceScore
	require.NoError(t, json.Unmarshal(resp.Data, &scores))
	require.Len(t, scores, 2)
	// healthcare maps to hipaa and nist-800-53
	assert.Len(t, scores[0].Frameworks, 2)
}

func TestROI(t *testing.T) {
	h := newTestServer(t)
	body := fmt.Sprintf(`{%s, "baseline": "portnox", "alternative": "cisco-ise"}`, org)

	code, resp := do(t, h, http.MethodPost, "/api/roi", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var roi domain.ROIResult
	require.NoError(t, json.Unmarshal(resp.Data, &roi))
	assert.Equal(t, "cisco-ise", roi.AlternativeID)
	assert.True(t, roi.TotalSavings.IsPositive())

	code, _ = do(t, h, http.MethodPost, "/api/roi", fmt.Sprintf(`{%s, "baseline": "portnox"}`, org))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSensitivityAndScenarios(t *testing.T) {
	h := newTestServer(t)

	body := fmt.Sprintf(`{%s, "vendors": ["portnox", "cisco-ise"], "factor": "device_count", "range": {"min": 500, "max": 5000, "steps": 4}}`, org)
	code, resp := do(t, h, http.MethodPost, "/api/sensitivity", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var sr domain.SensitivityResult
	require.NoError(t, json.Unmarshal(resp.Data, &sr))
	assert.Len(t, sr.Samples, 4)

	code, resp = do(t, h, http.MethodPost, "/api/scenarios", fmt.Sprintf(`{%s, "vendors": ["portnox", "cisco-ise"]}`, org))
	require.Equal(t, http.StatusOK, code, resp.Error)
	var set domain.ScenarioSet
	require.NoError(t, json.Unmarshal(resp.Data, &set))
	require.NotNil(t, set.WorstCase)

	body = fmt.Sprintf(`{%s, "vendors": ["portnox"], "sweeps": [{"factor": "fte_annual_cost", "min": 90000, "max": 150000, "steps": 2}]}`, org)
	code, resp = do(t, h, http.MethodPost, "/api/tornado", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var tr domain.TornadoResult
	require.NoError(t, json.Unmarshal(resp.Data, &tr))
	assert.Len(t, tr.ByVendor["portnox"], 1)
}

func TestErrorStatuses(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"zero devices", "/api/compare", `{"organization": {"deviceCount": 0}}`, http.StatusBadRequest},
		{"unknown field", "/api/compare", `{"organisation": {}}`, http.StatusBadRequest},
		{"malformed", "/api/compare", `{`, http.StatusBadRequest},
		{"unknown vendor", "/api/compare", fmt.Sprintf(`{%s, "vendors": ["nope"]}`, org), http.StatusUnprocessableEntity},
		{"unknown vendor tco", "/api/tco", fmt.Sprintf(`{%s, "vendors": ["nope"]}`, org), http.StatusUnprocessableEntity},
		{"single step", "/api/sensitivity", fmt.Sprintf(`{%s, "factor": "device_count", "range": {"min": 1, "max": 2, "steps": 1}}`, org), http.StatusBadRequest},
		{"unknown factor", "/api/sensitivity", fmt.Sprintf(`{%s, "factor": "moon", "range": {"min": 1, "max": 2, "steps": 2}}`, org), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestStatusFor(t *testing.T) {
	calcErr := &domain.CalculationError{VendorID: "acme", Component: "licensing", Message: "no pricing tier covers 5 devices"}
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(fmt.Errorf("wrapped: %w", calcErr)))
	assert.Contains(t, calcErr.Error(), "unable to calculate for vendor acme")

	assert.Equal(t, http.StatusBadRequest, StatusFor(&domain.RangeError{Factor: "x"}))
	assert.Equal(t, http.StatusBadRequest, StatusFor(&domain.ConfigurationError{}))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(&domain.ResolutionError{VendorID: "x"}))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestBreakEven(t *testing.T) {
	h := newTestServer(t)

	body := fmt.Sprintf(`{%s, "baseline": "portnox", "alternative": "cisco-ise", "factor": "device_count", "range": {"min": 100, "max": 20000}}`, org)
	code, resp := do(t, h, http.MethodPost, "/api/breakeven", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var results []breakeven.Result
	require.NoError(t, json.Unmarshal(resp.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "cisco-ise", results[0].Request.AlternativeID)

	body = fmt.Sprintf(`{%s, "vendors": ["cisco-ise", "fortinac"], "baseline": "portnox", "factor": "fte_annual_cost", "range": {"min": 10000, "max": 500000}}`, org)
	code, resp = do(t, h, http.MethodPost, "/api/breakeven", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, &results))
	assert.Len(t, results, 2)

	body = fmt.Sprintf(`{%s, "baseline": "portnox", "alternative": "portnox", "factor": "device_count", "range": {"min": 1, "max": 10}}`, org)
	code, _ = do(t, h, http.MethodPost, "/api/breakeven", body)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRisk_NormalizesIndustryAndFrameworks(t *testing.T) {
	h := newTestServer(t)
	body := `{"organization": {"deviceCount": 2500, "yearsToProject": 3, "industry": " Finance ", "complianceFrameworks": ["HIPAA", "PCI-DSS"]}, "vendors": ["portnox"]}`

	code, resp := do(t, h, http.MethodPost, "/api/risk", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var scores []domain.RiskComplianceScore
	require.NoError(t, json.Unmarshal(resp.Data, &scores))
	require.Len(t, scores, 1)
	var got []domain.FrameworkID
	for _, fs := range scores[0].Frameworks {
		got = append(got, fs.Framework)
	}
	assert.ElementsMatch(t, []domain.FrameworkID{"hipaa", "pci-dss"}, got)

	body = `{"organization": {"deviceCount": 2500, "yearsToProject": 3, "industry": "HEALTHCARE"}, "vendors": ["portnox"]}`
	code, resp = do(t, h, http.MethodPost, "/api/risk", body)
	require.Equal(t, http.StatusOK, code, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, &scores))
	assert.Len(t, scores[0].Frameworks, 2)
}
