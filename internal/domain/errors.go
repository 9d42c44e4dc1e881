package domain

import "fmt"

// ConfigurationError reports an invalid OrganizationConfig or analysis input.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Message
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// ResolutionError reports a vendor record that cannot be turned into a profile.
type ResolutionError struct {
	VendorID string
	Field    string
	Message  string
	Cause    error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("resolve vendor %s", e.VendorID)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// CalculationError reports an intermediate value that violates an engine invariant.
type CalculationError struct {
	VendorID  string
	Component string
	Message   string
	Cause     error
}

func (e *CalculationError) Error() string {
	msg := "unable to calculate"
	if e.VendorID != "" {
		msg += " for vendor " + e.VendorID
	}
	if e.Component != "" {
		msg += " (" + e.Component + ")"
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}

// RangeError reports an invalid sensitivity sweep.
type RangeError struct {
	Factor  string
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range for factor %s: %s", e.Factor, e.Message)
}
