// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Ask submits the question in the input box.
	Ask key.Binding

	Up   key.Binding
	Down key.Binding

	// Open shows the selected clause in full.
	Open key.Binding

	// NewQuery returns focus to the input box from the results.
	NewQuery key.Binding

	// MoreResults and FewerResults change how many clauses are requested.
	MoreResults  key.Binding
	FewerResults key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Ask: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		NewQuery: key.NewBinding(
			key.WithKeys("n", "/"),
			key.WithHelp("n", "new question"),
		),
		MoreResults: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more"),
		),
		FewerResults: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer"),
		),
	}
}

// ShortHelp returns the hints shown while typing a question.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Ask, k.Help, k.Back}
}

// ResultsHelp returns the hints shown while browsing results.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.NewQuery, k.Up, k.Open, k.MoreResults, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Ask, k.NewQuery, k.Open},
		{k.Up, k.Down, k.MoreResults, k.FewerResults},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
