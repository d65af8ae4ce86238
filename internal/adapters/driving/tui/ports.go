// Package tui provides an interactive terminal user interface for clausefinder.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls.
type Ports struct {
	// API answers queries.
	API driving.PolicyAPI

	// Index describes the served index in the status bar. Optional.
	Index driving.IndexService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.API == nil {
		return ErrMissingPolicyAPI
	}
	return nil
}
