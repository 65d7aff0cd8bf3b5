package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dashsearch/internal/api"
	"dashsearch/internal/domain"
	"dashsearch/internal/search"
)

const milkBody = `{
	"todos": [
		{"id": 1, "title": "Buy milk", "priority": "high"},
		{"id": 2, "title": "Milk the cow", "completed": true}
	],
	"notes": [{"id": 3, "title": "Milk brands", "content": "oat foams best", "pinned": true}]
}`

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]byte, error) {
	args := m.Called(ctx, query)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type stubPager struct {
	mu       sync.Mutex
	contents []string
	err      error
}

func (p *stubPager) Show(content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contents = append(p.contents, content)
	return p.err
}

func newTestModel(t *testing.T, searcher search.Searcher, pager Pager) *Model {
	t.Helper()
	session := search.NewSession(search.Options{Debounce: time.Millisecond, Context: context.Background()})
	m := NewModel(Options{Session: session, Searcher: searcher, Pager: pager, ShowHelp: true})
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.statusTTL = time.Millisecond
	// deliver debounce ticks right away
	m.debounce = func(tick search.Tick) tea.Cmd {
		return func() tea.Msg { return debounceMsg{seq: tick.Seq} }
	}
	m.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// run executes cmd and feeds every resulting message back into the model
// until no command is left
func run(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

// flatten executes cmd and expands batches into their messages
func flatten(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, flatten(c)...)
	}
	return out
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

// typeText sends one key per rune and returns the commands without running them
func typeText(m *Model, text string) []tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range text {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	return cmds
}

func openAndSearch(t *testing.T, m *Model, query string) {
	t.Helper()
	run(m, press(m, tea.KeyCtrlK))
	require.True(t, m.session.IsOpen())
	for _, cmd := range typeText(m, query) {
		run(m, cmd)
	}
}

func TestModel_IdleDashboard(t *testing.T) {
	m := newTestModel(t, &mockSearcher{}, &stubPager{})
	require.Contains(t, m.View(), "Dashboard")
	require.Contains(t, m.View(), "ctrl+k")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_TypingBurstSearchesOnce(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, "milk").Return([]byte(milkBody), nil).Once()
	m := newTestModel(t, searcher, &stubPager{})

	run(m, press(m, tea.KeyCtrlK))
	// all four ticks are delivered only after the burst
	for _, cmd := range typeText(m, "milk") {
		run(m, cmd)
	}
	searcher.AssertExpectations(t)

	st := m.session.State()
	require.Len(t, st.Results, 3)
	require.Equal(t, "milk", st.ResultsQuery)

	view := m.View()
	assert.Contains(t, view, "Tasks (2)")
	assert.Contains(t, view, "Notes (1)")
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "oat foams best")
}

func TestModel_ShortQueryShowsHint(t *testing.T) {
	searcher := &mockSearcher{}
	m := newTestModel(t, searcher, &stubPager{})

	openAndSearch(t, m, "m")
	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	assert.Contains(t, m.View(), "Keep typing")

	run(m, press(m, tea.KeyBackspace))
	assert.Contains(t, m.View(), "Type at least 2 characters")
}

func TestModel_NoResults(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, "zz").Return([]byte(`{"todos": [], "notes": []}`), nil)
	m := newTestModel(t, searcher, &stubPager{})

	openAndSearch(t, m, "zz")
	assert.Contains(t, m.View(), `No tasks or notes match "zz".`)
}

func TestModel_NavigateAndPreview(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, mock.Anything).Return([]byte(milkBody), nil)
	pager := &stubPager{}
	m := newTestModel(t, searcher, pager)
	openAndSearch(t, m, "milk")

	run(m, press(m, tea.KeyDown))
	run(m, press(m, tea.KeyDown))
	require.Equal(t, 2, m.session.State().Selection.Index)

	run(m, press(m, tea.KeyEnter))
	require.Len(t, pager.contents, 1)
	assert.Contains(t, pager.contents[0], "Milk brands")
	assert.Contains(t, pager.contents[0], "oat foams best")
	assert.False(t, m.previewing)
	assert.True(t, m.session.IsOpen())

	run(m, press(m, tea.KeyUp))
	require.Equal(t, 1, m.session.State().Selection.Index)
}

func TestModel_PreviewErrorShowsStatus(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, mock.Anything).Return([]byte(milkBody), nil)
	pager := &stubPager{err: assert.AnError}
	m := newTestModel(t, searcher, pager)
	openAndSearch(t, m, "milk")

	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	_, statusCmd := m.Update(cmd())
	assert.Contains(t, m.View(), "Could not open preview")

	run(m, statusCmd)
	assert.NotContains(t, m.View(), "Could not open preview")
}

func TestModel_EscapeClosesAndResets(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, mock.Anything).Return([]byte(milkBody), nil)
	m := newTestModel(t, searcher, &stubPager{})
	openAndSearch(t, m, "milk")

	run(m, press(m, tea.KeyEsc))
	require.False(t, m.session.IsOpen())
	require.Contains(t, m.View(), "Dashboard")

	run(m, press(m, tea.KeyCtrlK))
	st := m.session.State()
	require.Empty(t, st.Results)
	require.Empty(t, st.Query)
	require.Empty(t, m.input.Value())
}

func TestModel_CloseWhileInFlightDropsResponse(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, "milk").Return([]byte(milkBody), nil)
	m := newTestModel(t, searcher, &stubPager{})
	run(m, press(m, tea.KeyCtrlK))

	var pending []tea.Cmd
	for _, cmd := range typeText(m, "milk") {
		// deliver the debounce tick but hold the request
		for _, msg := range flatten(cmd) {
			if msg, ok := msg.(debounceMsg); ok {
				_, next := m.Update(msg)
				pending = append(pending, next)
			}
		}
	}
	require.True(t, m.session.State().Loading)

	run(m, press(m, tea.KeyEsc))
	run(m, press(m, tea.KeyCtrlK))
	for _, cmd := range pending {
		run(m, cmd)
	}

	st := m.session.State()
	require.Empty(t, st.Results)
	require.False(t, st.Loading)
}

func TestModel_UnauthenticatedThenTokenReload(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, "milk").Return(nil, &api.StatusError{Code: 401, Message: "Token has expired"}).Once()
	searcher.On("Search", mock.Anything, "milk").Return([]byte(milkBody), nil).Once()
	m := newTestModel(t, searcher, &stubPager{})
	openAndSearch(t, m, "milk")

	require.Equal(t, search.ErrUnauthenticated, m.session.State().Err)
	require.Contains(t, m.View(), search.ErrUnauthenticated.Message())

	_, cmd := m.Update(EventMsg{Event: domain.TokenChangedEvent{Token: "fresh"}})
	require.Contains(t, m.View(), "Credentials reloaded")
	run(m, cmd)

	st := m.session.State()
	require.Equal(t, search.ErrNone, st.Err)
	require.Len(t, st.Results, 3)
	searcher.AssertExpectations(t)
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t, &mockSearcher{}, &stubPager{})
	run(m, press(m, tea.KeyCtrlK))
	short := m.View()

	run(m, press(m, tea.KeyF1))
	require.True(t, m.help.ShowAll)
	require.NotEqual(t, short, m.View())
	require.True(t, strings.Contains(m.View(), "quit"))
}

func TestModel_CtrlCQuitsFromSearch(t *testing.T) {
	m := newTestModel(t, &mockSearcher{}, &stubPager{})
	run(m, press(m, tea.KeyCtrlK))

	cmd := press(m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.False(t, m.session.IsOpen())
}

func TestEmptyHint(t *testing.T) {
	list := search.List{{Kind: domain.KindTask, Task: &domain.Task{ID: "1", Title: "x"}}}
	tests := []struct {
		name string
		st   search.State
		want string
	}{
		{"empty query", search.State{}, "Type at least"},
		{"one character", search.State{Query: "m"}, "Keep typing"},
		{"loading", search.State{Query: "mi", Loading: true}, "Searching"},
		{"no match", search.State{Query: "mi", ResultsQuery: "mi"}, "No tasks or notes match"},
		{"results", search.State{Query: "mi", ResultsQuery: "mi", Results: list}, ""},
		{"error", search.State{Query: "mi", Err: search.ErrTimeout}, ""},
		{"pending debounce", search.State{Query: "mi"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emptyHint(tt.st)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}
