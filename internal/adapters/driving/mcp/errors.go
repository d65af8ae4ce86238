// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants query indexed HR policy clauses and extract new ones.
package mcp

import "errors"

// ErrMissingPolicyAPI is returned when the policy API is not provided.
var ErrMissingPolicyAPI = errors.New("mcp: policy API is required")
