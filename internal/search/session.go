// Package search is the incremental search coordinator behind the search
// surface. A Session turns query input into debounced, cancellable backend
// requests, keeps only the newest response, merges tasks and notes into one
// list and tracks the keyboard selection over it.
//
// A Session is not safe for concurrent use. The host calls every method from
// one goroutine (the bubbletea Update loop); the only work done elsewhere is
// Request.Run, whose Outcome is handed back through Resolve.
package search

import (
	"context"
	"log/slog"
	"time"

	"dashsearch/internal/domain"
	"dashsearch/internal/eventbus"
)

// State is a read-only snapshot of the session for rendering
type State struct {
	Open         bool
	Query        string
	Loading      bool
	Err          ErrorKind
	Results      List
	ResultsQuery string // query the committed results belong to
	Selection    Selection
}

// Selected returns the item under the selection, if any
func (s State) Selected() (domain.ResultItem, bool) {
	if !s.Selection.Active || s.Selection.Index < 0 || s.Selection.Index >= len(s.Results) {
		return domain.ResultItem{}, false
	}
	return s.Results[s.Selection.Index], true
}

// Options configures a Session
type Options struct {
	Debounce time.Duration
	// Context is the parent of every request context
	Context context.Context
	Bus     eventbus.EventBus
	Logger  *slog.Logger
}

// Session coordinates one search surface
type Session struct {
	gate      *Gate
	manager   *Manager
	selection Selection
	open      bool
	query     string

	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewSession creates a closed session
func NewSession(opts Options) *Session {
	bus := opts.Bus
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		gate:    NewGate(opts.Debounce),
		manager: NewManager(opts.Context),
		bus:     bus,
		logger:  logger.With("component", "search"),
	}
}

// Open shows the surface with a fresh, empty state
func (s *Session) Open() {
	s.teardown()
	s.open = true
	s.bus.Publish(domain.SearchOpenedEvent{})
}

// Close cancels the pending timer and the in-flight request and clears state
func (s *Session) Close() {
	wasOpen := s.open
	s.teardown()
	s.open = false
	if wasOpen {
		s.bus.Publish(domain.SearchClosedEvent{})
	}
}

// IsOpen reports whether the surface is open
func (s *Session) IsOpen() bool {
	return s.open
}

// OnQueryInput records the new input text. It returns the tick the host must
// schedule, or nil when nothing is pending (an empty query clears at once).
func (s *Session) OnQueryInput(text string) *Tick {
	if !s.open {
		return nil
	}
	s.query = Effective(text)

	decision := s.gate.Change(text)
	if decision.Settled {
		s.settle(decision.Text)
		return nil
	}
	return &decision.Tick
}

// OnSettled is called when the tick with seq elapses. It returns the request
// to run, or nil when the tick was superseded or the query is too short.
func (s *Session) OnSettled(seq uint64) *Request {
	if !s.open {
		return nil
	}
	text, ok := s.gate.Fire(seq)
	if !ok {
		return nil
	}
	return s.settle(text)
}

// Resolve applies a request outcome to the state
func (s *Session) Resolve(o Outcome) Resolution {
	res := s.manager.Resolve(o)

	switch res {
	case ResolutionCommitted:
		results := s.manager.Results()
		s.selection = Reset(results)
		tasks, notes := results.Counts()
		s.logger.Debug("search results committed", "seq", o.Seq, "query", o.Query, "tasks", tasks, "notes", notes)
		s.bus.Publish(domain.SearchCompletedEvent{Seq: o.Seq, Query: o.Query, Tasks: tasks, Notes: notes})
	case ResolutionFailed:
		s.selection = Selection{}
		kind := s.manager.Err()
		s.logger.Warn("search failed", "seq", o.Seq, "query", o.Query, "kind", kind.String(), "error", o.Err)
		s.bus.Publish(domain.SearchFailedEvent{Seq: o.Seq, Query: o.Query, Reason: kind.String(), Err: o.Err})
	case ResolutionCancelled:
		s.logger.Debug("search cancelled", "seq", o.Seq, "query", o.Query)
	default:
		s.logger.Debug("discarding stale search response", "seq", o.Seq, "query", o.Query)
	}
	return res
}

// OnKey feeds a navigation key to the session. It returns the event emitted
// for the host (ItemSelectedEvent or CloseRequestedEvent), or nil.
func (s *Session) OnKey(key Key) domain.DomainEvent {
	if !s.open {
		return nil
	}

	sel, effect := Transition(s.selection, key, s.manager.Results())
	s.selection = sel

	var event domain.DomainEvent
	switch effect.Kind {
	case EffectSelect:
		event = domain.ItemSelectedEvent{Item: effect.Item}
	case EffectClose:
		event = domain.CloseRequestedEvent{}
	default:
		return nil
	}
	s.bus.Publish(event)
	return event
}

// State returns the current snapshot
func (s *Session) State() State {
	return State{
		Open:         s.open,
		Query:        s.query,
		Loading:      s.manager.Loading(),
		Err:          s.manager.Err(),
		Results:      s.manager.Results(),
		ResultsQuery: s.manager.ResultsQuery(),
		Selection:    s.selection,
	}
}

func (s *Session) settle(text string) *Request {
	req := s.manager.Dispatch(text)
	if req == nil {
		s.selection = Selection{}
		s.bus.Publish(domain.SearchClearedEvent{})
		return nil
	}
	s.logger.Debug("search dispatched", "seq", req.Seq, "request_id", req.ID, "query", req.Query)
	s.bus.Publish(domain.SearchDispatchedEvent{Seq: req.Seq, RequestID: req.ID, Query: req.Query})
	return req
}

func (s *Session) teardown() {
	s.gate.Cancel()
	s.manager.Reset()
	s.selection = Selection{}
	s.query = ""
}
