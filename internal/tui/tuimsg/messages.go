// Package tuimsg holds the messages scenes send back to the root model.
package tuimsg

import (
	"github.com/rgehrsitz/tcogo/internal/domain"
)

// VendorSelectedMsg signals a vendor has been selected in a table
type VendorSelectedMsg struct {
	VendorID string
}

// RecalculateMsg asks the root model to evaluate an edited configuration
type RecalculateMsg struct {
	Config domain.OrganizationConfig
}
