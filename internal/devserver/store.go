package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultLimit is the per-collection result cap
const DefaultLimit = 20

// Store answers searches over an in-memory fixture set
type Store struct {
	mu    sync.RWMutex
	todos []Todo
	notes []Note
}

// NewStore creates a store over f; nil means the sample data
func NewStore(f *Fixtures) *Store {
	if f == nil {
		f = SampleFixtures()
	}
	s := &Store{}
	s.Replace(f)
	return s
}

// Replace swaps the data set
func (s *Store) Replace(f *Fixtures) {
	todos := append([]Todo(nil), f.Todos...)
	notes := append([]Note(nil), f.Notes...)

	// newest first, records without a timestamp last
	sort.SliceStable(todos, func(i, j int) bool { return newer(todos[i].CreatedAt, todos[j].CreatedAt) })
	sort.SliceStable(notes, func(i, j int) bool { return newer(notes[i].UpdatedAt, notes[j].UpdatedAt) })

	s.mu.Lock()
	s.todos, s.notes = todos, notes
	s.mu.Unlock()
}

// SearchTodos matches query against title, description and tags
func (s *Store) SearchTodos(query string, limit int) []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Todo{}
	for _, t := range s.todos {
		if len(out) >= limit {
			break
		}
		if matches(query, t.Title, t.Description, strings.Join(t.Tags, ",")) {
			out = append(out, t)
		}
	}
	return out
}

// SearchNotes matches query against title, content, tags and category
func (s *Store) SearchNotes(query string, limit int) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Note{}
	for _, n := range s.notes {
		if len(out) >= limit {
			break
		}
		if matches(query, n.Title, n.Content, strings.Join(n.Tags, ","), n.Category) {
			out = append(out, n)
		}
	}
	return out
}

// matches is a case-insensitive substring test over any of fields
func matches(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return a.After(*b)
}
