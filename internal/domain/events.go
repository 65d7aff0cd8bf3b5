package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchOpened     EventType = "SearchOpened"
	EventSearchClosed     EventType = "SearchClosed"
	EventSearchDispatched EventType = "SearchDispatched"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventSearchFailed     EventType = "SearchFailed"
	EventSearchCleared    EventType = "SearchCleared"
	EventItemSelected     EventType = "ItemSelected"
	EventCloseRequested   EventType = "CloseRequested"
	EventTokenChanged     EventType = "TokenChanged"
	EventError            EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchOpenedEvent is emitted when the search surface opens with a fresh state
type SearchOpenedEvent struct{}

func (e SearchOpenedEvent) Type() EventType { return EventSearchOpened }

// SearchClosedEvent is emitted after the search surface is torn down
type SearchClosedEvent struct{}

func (e SearchClosedEvent) Type() EventType { return EventSearchClosed }

// SearchDispatchedEvent is emitted when a request is issued to the backend
type SearchDispatchedEvent struct {
	Seq       uint64
	RequestID string
	Query     string
}

func (e SearchDispatchedEvent) Type() EventType { return EventSearchDispatched }

// SearchCompletedEvent is emitted when the latest request's results are committed
type SearchCompletedEvent struct {
	Seq   uint64
	Query string
	Tasks int
	Notes int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the latest request fails with a user-visible error
type SearchFailedEvent struct {
	Seq    uint64
	Query  string
	Reason string
	Err    error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchClearedEvent is emitted when the view is cleared by a short or empty query
type SearchClearedEvent struct{}

func (e SearchClearedEvent) Type() EventType { return EventSearchCleared }

// ItemSelectedEvent asks the detail preview to show an item
type ItemSelectedEvent struct {
	Item ResultItem
}

func (e ItemSelectedEvent) Type() EventType { return EventItemSelected }

// CloseRequestedEvent asks the hosting surface to close the search
type CloseRequestedEvent struct{}

func (e CloseRequestedEvent) Type() EventType { return EventCloseRequested }

// TokenChangedEvent is emitted when the access token file is rewritten
type TokenChangedEvent struct {
	Token string
}

func (e TokenChangedEvent) Type() EventType { return EventTokenChanged }

// ErrorEvent is emitted when a background component fails
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
