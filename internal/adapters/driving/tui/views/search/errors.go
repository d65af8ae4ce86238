package search

import "errors"

// ErrNoPolicyAPI indicates that no policy API was provided.
var ErrNoPolicyAPI = errors.New("policy API is required")
