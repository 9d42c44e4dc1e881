// Package catalog holds the read-only reference data the engine consumes: raw
// vendor records, the industry to compliance framework mapping and the
// violation cost table. A dataset comes from the embedded default, a YAML or
// JSON file, or a SQLite store.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/vendor"
	"github.com/shopspring/decimal"
)

//go:embed data/catalog.yaml
var defaultData []byte

// Dataset is a complete reference catalog
type Dataset struct {
	Vendors        []vendor.RawVendor                     `yaml:"vendors" json:"vendors"`
	Industries     map[string][]domain.FrameworkID        `yaml:"industries" json:"industries"`
	ViolationCosts map[domain.FrameworkID]decimal.Decimal `yaml:"violation_costs" json:"violationCosts"`
}

// Default returns the embedded dataset.
func Default() (*Dataset, error) {
	ds, err := Parse(defaultData, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	return ds, nil
}

// normalize rewrites industry names and framework ids in canonical form.
// Industries that differ only in case are merged in name order.
func (ds *Dataset) normalize() {
	if ds.Industries != nil {
		names := make([]string, 0, len(ds.Industries))
		for name := range ds.Industries {
			names = append(names, name)
		}
		sort.Strings(names)

		industries := make(map[string][]domain.FrameworkID, len(ds.Industries))
		for _, name := range names {
			key := domain.NormalizeKey(name)
			for _, fw := range ds.Industries[name] {
				fw = domain.NormalizeFramework(fw)
				if !slices.Contains(industries[key], fw) {
					industries[key] = append(industries[key], fw)
				}
			}
		}
		ds.Industries = industries
	}
	if ds.ViolationCosts != nil {
		costs := make(map[domain.FrameworkID]decimal.Decimal, len(ds.ViolationCosts))
		for fw, cost := range ds.ViolationCosts {
			costs[domain.NormalizeFramework(fw)] = cost
		}
		ds.ViolationCosts = costs
	}
}

// Validate checks the dataset for duplicate vendor ids and negative costs.
// Vendor records themselves are checked when they are resolved.
func (ds *Dataset) Validate() error {
	seen := make(map[string]bool, len(ds.Vendors))
	for i, v := range ds.Vendors {
		id := strings.TrimSpace(v.ID)
		if id == "" {
			return fmt.Errorf("vendor %d: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("duplicate vendor id %q", id)
		}
		seen[id] = true
	}
	for fw, cost := range ds.ViolationCosts {
		if cost.IsNegative() {
			return fmt.Errorf("violation cost for %s cannot be negative", fw)
		}
	}
	return nil
}

// VendorIDs returns every vendor id in alphabetical order.
func (ds *Dataset) VendorIDs() []string {
	ids := make([]string, 0, len(ds.Vendors))
	for _, v := range ds.Vendors {
		ids = append(ids, v.ID)
	}
	sort.Strings(ids)
	return ids
}

// Vendor looks up a raw vendor record by id.
func (ds *Dataset) Vendor(id string) (vendor.RawVendor, bool) {
	for _, v := range ds.Vendors {
		if v.ID == id {
			return v, true
		}
	}
	return vendor.RawVendor{}, false
}

// IndustryNames returns the known industries in alphabetical order.
func (ds *Dataset) IndustryNames() []string {
	names := make([]string, 0, len(ds.Industries))
	for name := range ds.Industries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FrameworksFor returns the frameworks an industry is subject to.
func (ds *Dataset) FrameworksFor(industry string) []domain.FrameworkID {
	fws := ds.Industries[domain.NormalizeKey(industry)]
	return append([]domain.FrameworkID(nil), fws...)
}

// ViolationCostTable returns a copy of the violation costs for the risk scorer.
func (ds *Dataset) ViolationCostTable() calculation.ViolationCosts {
	table := make(calculation.ViolationCosts, len(ds.ViolationCosts))
	for fw, cost := range ds.ViolationCosts {
		table[domain.NormalizeFramework(fw)] = cost
	}
	return table
}

// ApplyIndustry fills the required frameworks from the industry mapping when
// the organization does not name any.
func (ds *Dataset) ApplyIndustry(cfg domain.OrganizationConfig) domain.OrganizationConfig {
	out := cfg.Clone()
	if len(out.ComplianceFrameworksRequired) == 0 {
		out.ComplianceFrameworksRequired = ds.FrameworksFor(out.Industry)
	}
	return out
}

// Profiles resolves the named vendors, or every vendor when ids is empty.
func (ds *Dataset) Profiles(r *vendor.Resolver, ids ...string) (map[string]domain.VendorCostProfile, error) {
	if r == nil {
		r = vendor.NewResolver()
	}
	if len(ids) == 0 {
		return r.ResolveAll(ds.Vendors)
	}

	raws := make([]vendor.RawVendor, 0, len(ids))
	for _, id := range ids {
		raw, ok := ds.Vendor(id)
		if !ok {
			return nil, &domain.ResolutionError{VendorID: id, Message: "vendor not found in catalog"}
		}
		raws = append(raws, raw)
	}
	return r.ResolveAll(raws)
}
