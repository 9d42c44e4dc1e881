package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultYearsToProject is used when an input file omits the horizon.
const DefaultYearsToProject = 3

// InputParser handles parsing of analysis input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads an analysis input from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.AnalysisInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return ip.ParseJSON(data)
	}
	return ip.ParseYAML(data)
}

// ParseYAML decodes and validates a YAML analysis input.
func (ip *InputParser) ParseYAML(data []byte) (*domain.AnalysisInput, error) {
	input := NewAnalysisInput()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ip.finish(input)
}

// ParseJSON decodes and validates a JSON analysis input.
func (ip *InputParser) ParseJSON(data []byte) (*domain.AnalysisInput, error) {
	input := NewAnalysisInput()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return ip.finish(input)
}

func (ip *InputParser) finish(input *domain.AnalysisInput) (*domain.AnalysisInput, error) {
	input.Organization = input.Organization.Normalized()
	if err := ip.ValidateConfiguration(input); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return input, nil
}

// NewAnalysisInput returns an input pre-filled with defaults. Decoding on top
// of it keeps every default the file does not override.
func NewAnalysisInput() *domain.AnalysisInput {
	return &domain.AnalysisInput{
		Organization: domain.OrganizationConfig{
			Locations:       1,
			YearsToProject:  DefaultYearsToProject,
			CostAssumptions: domain.DefaultCostAssumptions(),
		},
	}
}

// ValidateConfiguration validates a decoded analysis input
func (ip *InputParser) ValidateConfiguration(input *domain.AnalysisInput) error {
	if err := input.Organization.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(input.Vendors))
	for _, id := range input.Vendors {
		if strings.TrimSpace(id) == "" {
			return &domain.ConfigurationError{Field: "vendors", Message: "vendor id cannot be empty"}
		}
		if seen[id] {
			return &domain.ConfigurationError{Field: "vendors", Message: fmt.Sprintf("duplicate vendor %q", id)}
		}
		seen[id] = true
	}
	if input.Baseline != "" && len(input.Vendors) > 0 && !seen[input.Baseline] {
		return &domain.ConfigurationError{Field: "baseline", Message: fmt.Sprintf("%q is not one of the selected vendors", input.Baseline)}
	}

	for i, s := range input.Sensitivity {
		if err := validateSweep(s); err != nil {
			return fmt.Errorf("sensitivity %d: %w", i, err)
		}
	}
	return nil
}

func validateSweep(s domain.SensitivitySpec) error {
	if s.Factor == "" {
		return &domain.RangeError{Factor: "<missing>", Message: "factor is required"}
	}
	if s.Steps < 2 {
		return &domain.RangeError{Factor: s.Factor, Message: fmt.Sprintf("steps must be at least 2, got %d", s.Steps)}
	}
	if s.Min.GreaterThan(s.Max) {
		return &domain.RangeError{Factor: s.Factor, Message: fmt.Sprintf("min %s exceeds max %s", s.Min.String(), s.Max.String())}
	}
	return nil
}
