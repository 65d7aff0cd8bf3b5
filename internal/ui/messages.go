package ui

import (
	"dashsearch/internal/eventbus"
	"dashsearch/internal/search"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// debounceMsg is delivered when the quiet period of a query change elapses
type debounceMsg struct {
	seq uint64
}

// searchResultMsg carries the outcome of a backend request
type searchResultMsg struct {
	outcome search.Outcome
}

// previewDoneMsg is sent when the detail pager exits
type previewDoneMsg struct {
	key string
	err error
}

// clearStatusMsg clears a transient status line
type clearStatusMsg struct {
	id int
}
