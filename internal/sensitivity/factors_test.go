package sensitivity

import (
	"testing"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorRegistry_BuiltIns(t *testing.T) {
	r := NewFactorRegistry()
	assert.Equal(t, []string{
		"consulting_daily_rate",
		"device_count",
		"discount_rate",
		"downtime_cost_per_hour",
		"fte_allocation",
		"fte_annual_cost",
		"maintenance_percent",
		"training_cost_per_user",
		"years_to_project",
	}, r.List())
}

func TestFactor_ApplyAndCurrent(t *testing.T) {
	r := NewFactorRegistry()
	cfg := testConfig()

	for _, name := range r.List() {
		f, ok := r.Get(name)
		require.True(t, ok)

		modified := cfg.Clone()
		v := f.Normalize(f.Current(cfg).Add(decimal.NewFromFloat(0.5)))
		if f.Max.Valid && v.GreaterThan(f.Max.Decimal) {
			v = f.Max.Decimal
		}
		f.Apply(&modified, v)
		assert.True(t, f.Current(modified).Equal(v), "%s: got %s, want %s", name, f.Current(modified).String(), v.String())
	}
}

func TestFactor_IntegerRounding(t *testing.T) {
	f, ok := NewFactorRegistry().Get("device_count")
	require.True(t, ok)
	assert.True(t, f.Normalize(decimal.NewFromFloat(1499.5)).Equal(decimal.NewFromInt(1500)))

	cfg := testConfig()
	f.Apply(&cfg, f.Normalize(decimal.NewFromFloat(722.2)))
	assert.Equal(t, 722, cfg.DeviceCount)
}

func TestFactorRegistry_ParseSweepSpec(t *testing.T) {
	r := NewFactorRegistry()

	spec, err := r.ParseSweepSpec("device_count:min=500,max=5000,steps=10")
	require.NoError(t, err)
	assert.Equal(t, "device_count", spec.Factor)
	assert.True(t, spec.Min.Equal(decimal.NewFromInt(500)))
	assert.True(t, spec.Max.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 10, spec.Steps)

	for _, bad := range []string{
		"device_count",
		"nope:min=1,max=2,steps=2",
		"device_count:min=1,max=2",
		"device_count:min=a,max=2,steps=2",
		"device_count:min=1,max=2,steps=x",
		"device_count:min=1,max=2,steps=2,color=red",
		"device_count:min",
	} {
		_, err := r.ParseSweepSpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestFactorRegistry_DefaultSweeps(t *testing.T) {
	cfg := testConfig()
	cfg.YearsToProject = domain.MaxYearsToProject

	specs := NewFactorRegistry().DefaultSweeps(cfg)
	byName := map[string]domain.SensitivitySpec{}
	for _, s := range specs {
		byName[s.Factor] = s
		assert.Equal(t, 2, s.Steps)
		assert.True(t, s.Min.LessThan(s.Max))
	}

	years, ok := byName["years_to_project"]
	require.True(t, ok)
	assert.True(t, years.Max.Equal(decimal.NewFromInt(domain.MaxYearsToProject)), "clamped to the horizon limit")
	assert.True(t, years.Min.Equal(decimal.NewFromInt(8)))

	_, ok = byName["training_cost_per_user"]
	assert.False(t, ok, "zero-valued factors have nothing to sweep")
}
