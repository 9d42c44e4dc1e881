package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/tcogo/internal/catalog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInput = "../../test/testdata/analysis.yaml"

// run executes the root command with fresh flag state and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, catalogPath, format, workers, baseline = false, "", "", 0, ""
	dbPath, listenAddr = "", ""
	breakEvenFactor, breakEvenMin, breakEvenMax = "device_count", "", ""
	resetSlice(t, rootCmd.PersistentFlags().Lookup("vendor"))
	resetSlice(t, sensitivityCmd.Flags().Lookup("sweep"))
	resetSlice(t, tornadoCmd.Flags().Lookup("sweep"))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetSlice(t *testing.T, f *pflag.Flag) {
	t.Helper()
	require.NotNil(t, f)
	sv, ok := f.Value.(pflag.SliceValue)
	require.True(t, ok, f.Name)
	require.NoError(t, sv.Replace(nil))
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "tcogo", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "compare")
	assert.Contains(t, out, "scenarios")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"version", "compare", "tco", "roi", "risk",
		"sensitivity", "tornado", "scenarios", "breakeven",
		"vendors", "validate", "catalog", "serve",
	}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %q not registered", name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tcogo dev")
}

func TestCompareCommand_JSON(t *testing.T) {
	out, err := run(t, "compare", testInput, "--format", "json")
	require.NoError(t, err)

	var report struct {
		Comparison struct {
			BaselineID string `json:"baselineId"`
			Results    []struct {
				VendorID string `json:"vendorId"`
			} `json:"results"`
		} `json:"comparison"`
		ROI             []json.RawMessage `json:"roi"`
		Recommendations []string          `json:"recommendations"`
		InputPath       string            `json:"inputPath"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "portnox", report.Comparison.BaselineID)
	assert.Len(t, report.Comparison.Results, 3)
	assert.Len(t, report.ROI, 2)
	assert.NotEmpty(t, report.Recommendations)
	assert.Equal(t, testInput, report.InputPath)
}

func TestCompareCommand_Table(t *testing.T) {
	out, err := run(t, "compare", testInput, "--baseline", "cisco-ise")
	require.NoError(t, err)
	assert.Contains(t, out, "NAC VENDOR TCO COMPARISON")
	assert.Contains(t, out, "Baseline: cisco-ise")
}

func TestCompareCommand_VendorOverride(t *testing.T) {
	out, err := run(t, "compare", testInput, "--vendor", "portnox,fortinac", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "fortinac")
	assert.NotContains(t, out, "cisco-ise")
}

func TestCompareCommand_Errors(t *testing.T) {
	_, err := run(t, "compare", "does-not-exist.yaml")
	assert.Error(t, err)

	_, err = run(t, "compare", testInput, "--vendor", "portnox", "--vendor", "nope")
	assert.ErrorContains(t, err, "nope")

	_, err = run(t, "compare", testInput, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestTCOCommand(t *testing.T) {
	out, err := run(t, "tco", testInput, "fortinac")
	require.NoError(t, err)
	assert.Contains(t, out, "(fortinac)")
	assert.Contains(t, out, "investment")
}

func TestROICommand(t *testing.T) {
	out, err := run(t, "roi", testInput, "portnox", "cisco-ise")
	require.NoError(t, err)
	assert.Contains(t, out, "ROI: adopting portnox instead of cisco-ise")
}

func TestRiskCommand(t *testing.T) {
	out, err := run(t, "risk", testInput)
	require.NoError(t, err)
	assert.Contains(t, out, "RISK AND COMPLIANCE")
}

func TestSensitivityCommand(t *testing.T) {
	out, err := run(t, "sensitivity", testInput, "--sweep", "discount_rate:min=0.02,max=0.1,steps=3")
	require.NoError(t, err)
	assert.Contains(t, out, "SENSITIVITY ANALYSIS: DISCOUNT RATE")

	out, err = run(t, "sensitivity", testInput)
	require.NoError(t, err, "falls back to the input's sensitivity blocks")
	assert.Contains(t, out, "DEVICE COUNT")

	_, err = run(t, "sensitivity", testInput, "--sweep", "colour:min=1,max=2,steps=2")
	assert.Error(t, err)
}

func TestTornadoAndScenarioCommands(t *testing.T) {
	out, err := run(t, "tornado", testInput)
	require.NoError(t, err)
	assert.Contains(t, out, "TORNADO ANALYSIS")

	out, err = run(t, "scenarios", testInput)
	require.NoError(t, err)
	assert.Contains(t, out, "SCENARIO ANALYSIS")
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", testInput)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (3 vendors")

	out, err = run(t, "validate", "../../test/testdata/analysis.json")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestVendorsCommand(t *testing.T) {
	out, err := run(t, "vendors")
	require.NoError(t, err)
	assert.Contains(t, out, "portnox")
	assert.Contains(t, out, "healthcare")

	out, err = run(t, "vendors", "--format", "json")
	require.NoError(t, err)
	var vendors []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &vendors))
	def, err := catalog.Default()
	require.NoError(t, err)
	assert.Len(t, vendors, len(def.Vendors))
}

func TestCatalogImportAndUse(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	out, err := run(t, "catalog", "import", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "0 updated")

	out, err = run(t, "catalog", "import", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "0 inserted, 0 updated")

	out, err = run(t, "compare", testInput, "--catalog", db, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"baselineId": "portnox"`)

	out, err = run(t, "catalog", "export", "--catalog", db)
	require.NoError(t, err)
	assert.Contains(t, out, "violation_costs:")
}

func TestBreakEvenCommand(t *testing.T) {
	out, err := run(t, "breakeven", testInput, "portnox", "cisco-ise", "--min", "100", "--max", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, out, "Baseline: portnox")
	assert.Contains(t, out, "cisco-ise")

	out, err = run(t, "breakeven", testInput, "portnox", "--factor", "fte_annual_cost", "--format", "json")
	require.NoError(t, err)
	var results []struct {
		Request struct {
			Factor        string `json:"factor"`
			AlternativeID string `json:"alternativeId"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "fte_annual_cost", r.Request.Factor)
		assert.NotEqual(t, "portnox", r.Request.AlternativeID)
	}

	_, err = run(t, "breakeven", testInput, "portnox", "cisco-ise", "--factor", "moon_phase")
	assert.ErrorContains(t, err, "moon_phase")

	_, err = run(t, "breakeven", testInput, "portnox", "cisco-ise", "--min", "abc")
	assert.ErrorContains(t, err, "invalid --min")
}
