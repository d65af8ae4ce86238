package mcp

import (
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// API answers queries and extracts clauses.
	API driving.PolicyAPI

	// Index reports index statistics. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.API == nil {
		return ErrMissingPolicyAPI
	}
	return nil
}
