package domain

// AnalysisInput is the top-level input file: an organization, the vendors to
// compare, and optional sensitivity sweeps.
type AnalysisInput struct {
	Organization OrganizationConfig `yaml:"organization" json:"organization"`
	Vendors      []string           `yaml:"vendors" json:"vendors"`
	Baseline     string             `yaml:"baseline" json:"baseline"`
	Catalog      string             `yaml:"catalog" json:"catalog"`
	Sensitivity  []SensitivitySpec  `yaml:"sensitivity" json:"sensitivity"`
}

// SensitivitySpec names a factor and the range to sweep it over
type SensitivitySpec struct {
	Factor           string `yaml:"factor" json:"factor"`
	SensitivityRange `yaml:",inline"`
}
