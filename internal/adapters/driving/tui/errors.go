package tui

import "errors"

// ErrMissingPolicyAPI is returned when the policy API is not provided.
var ErrMissingPolicyAPI = errors.New("tui: policy API is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
