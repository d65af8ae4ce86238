// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// QueryCompleted carries ranked clauses back to the model.
type QueryCompleted struct {
	Response driving.QueryResponse
	Err      error
}

// ClauseSelected is sent when a result is opened.
type ClauseSelected struct {
	Result driving.QueryResult
	Rank   int
}

// IndexLoaded carries the served index description.
type IndexLoaded struct {
	Stats domain.IndexStats
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and results view.
	ViewSearch ViewType = iota
	// ViewClause shows one clause in full.
	ViewClause
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewClause:
		return "clause"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
