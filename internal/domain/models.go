package domain

import (
	"strings"
	"time"
)

// Kind tells which collection a search result came from
type Kind string

const (
	KindTask Kind = "task"
	KindNote Kind = "note"
)

// Label returns the heading used when rendering a group of results
func (k Kind) Label() string {
	switch k {
	case KindTask:
		return "Tasks"
	case KindNote:
		return "Notes"
	default:
		return string(k)
	}
}

// Task is a todo record as returned by the search endpoint
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	Priority    string     // "high", "medium", "low" or empty
	DueDate     *time.Time // nil when unset or unparsable
	Tags        []string
	CreatedAt   *time.Time
}

// Note is a note record as returned by the search endpoint
type Note struct {
	ID        string
	Title     string
	Content   string
	Category  string
	Tags      []string
	Color     string
	Pinned    bool
	UpdatedAt *time.Time
}

// ResultItem is one entry of the merged result list.
// Exactly one of Task and Note is set, matching Kind.
type ResultItem struct {
	Kind Kind
	Task *Task
	Note *Note
}

// Key returns the identity of the item, unique across both collections
func (r ResultItem) Key() string {
	return string(r.Kind) + ":" + r.ID()
}

// ID returns the backend id of the wrapped record
func (r ResultItem) ID() string {
	switch {
	case r.Task != nil:
		return r.Task.ID
	case r.Note != nil:
		return r.Note.ID
	}
	return ""
}

// Title returns the title of the wrapped record
func (r ResultItem) Title() string {
	switch {
	case r.Task != nil:
		return r.Task.Title
	case r.Note != nil:
		return r.Note.Title
	}
	return ""
}

// Body returns the description of a task or the content of a note
func (r ResultItem) Body() string {
	switch {
	case r.Task != nil:
		return r.Task.Description
	case r.Note != nil:
		return r.Note.Content
	}
	return ""
}

// TagLine returns the tags joined for display and highlighting
func (r ResultItem) TagLine() string {
	switch {
	case r.Task != nil:
		return strings.Join(r.Task.Tags, ", ")
	case r.Note != nil:
		return strings.Join(r.Note.Tags, ", ")
	}
	return ""
}
