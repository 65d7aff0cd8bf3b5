package search

import (
	"context"

	"github.com/google/uuid"

	"dashsearch/internal/api"
)

// Searcher is the backend search call. Implementations must honour ctx
// cancellation; api.Client is the production implementation.
type Searcher interface {
	Search(ctx context.Context, query string) ([]byte, error)
}

// Request is one issued search call
type Request struct {
	Seq   uint64
	ID    string
	Query string

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the cancellation token of the request
func (r *Request) Context() context.Context {
	return r.ctx
}

// Run performs the call and reports its outcome. It blocks and is meant to
// run off the host loop; the outcome goes back through Manager.Resolve.
func (r *Request) Run(s Searcher) Outcome {
	body, err := s.Search(api.WithRequestID(r.ctx, r.ID), r.Query)
	return Outcome{Seq: r.Seq, Query: r.Query, Body: body, Err: err}
}

// Outcome is the terminal result of a Request
type Outcome struct {
	Seq   uint64
	Query string
	Body  []byte
	Err   error
}

// Resolution says what Resolve did with an outcome
type Resolution int

const (
	ResolutionStale Resolution = iota
	ResolutionCancelled
	ResolutionCommitted
	ResolutionFailed
)

func (r Resolution) String() string {
	switch r {
	case ResolutionCancelled:
		return "cancelled"
	case ResolutionCommitted:
		return "committed"
	case ResolutionFailed:
		return "failed"
	default:
		return "stale"
	}
}

// Manager tracks the single in-flight request and owns the loading, error
// and results parts of the session state.
type Manager struct {
	parent   context.Context
	seq      uint64
	inflight *Request

	loading      bool
	err          ErrorKind
	lastErr      error
	results      List
	resultsQuery string
}

// NewManager creates a manager whose requests derive from parent
func NewManager(parent context.Context) *Manager {
	if parent == nil {
		parent = context.Background()
	}
	return &Manager{parent: parent, results: List{}}
}

// Dispatch cancels the in-flight request and issues a new one for query.
// A query that does not qualify clears results and error and returns nil.
func (m *Manager) Dispatch(query string) *Request {
	m.cancelInflight()

	q := Effective(query)
	if !Qualifies(q) {
		m.clear()
		return nil
	}

	m.seq++
	ctx, cancel := context.WithCancel(m.parent)
	req := &Request{
		Seq:    m.seq,
		ID:     uuid.NewString(),
		Query:  q,
		ctx:    ctx,
		cancel: cancel,
	}
	m.inflight = req
	m.loading = true
	return req
}

// Resolve applies the outcome of a request. Outcomes of anything but the
// current in-flight request are discarded without touching state.
func (m *Manager) Resolve(o Outcome) Resolution {
	if m.inflight == nil || o.Seq != m.inflight.Seq {
		return ResolutionStale
	}
	m.inflight.cancel()
	m.inflight = nil
	m.loading = false

	if o.Err != nil {
		kind, cancelled := Classify(o.Err)
		if cancelled {
			return ResolutionCancelled
		}
		m.err = kind
		m.lastErr = o.Err
		m.results = List{}
		m.resultsQuery = ""
		return ResolutionFailed
	}

	m.results = Merge(o.Body)
	m.resultsQuery = o.Query
	m.err = ErrNone
	m.lastErr = nil
	return ResolutionCommitted
}

// Cancel drops the in-flight request; its outcome will be stale
func (m *Manager) Cancel() {
	m.cancelInflight()
	m.loading = false
}

// Reset cancels and clears everything
func (m *Manager) Reset() {
	m.Cancel()
	m.clear()
}

func (m *Manager) Loading() bool        { return m.loading }
func (m *Manager) Err() ErrorKind       { return m.err }
func (m *Manager) Results() List        { return m.results }
func (m *Manager) ResultsQuery() string { return m.resultsQuery }

func (m *Manager) cancelInflight() {
	if m.inflight != nil {
		m.inflight.cancel()
		m.inflight = nil
	}
}

func (m *Manager) clear() {
	m.loading = false
	m.err = ErrNone
	m.lastErr = nil
	m.results = List{}
	m.resultsQuery = ""
}
