package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dashsearch/internal/domain"
	"dashsearch/internal/search"
	"dashsearch/internal/ui/views"
)

const statusTTL = 4 * time.Second

// Options configures the UI model
type Options struct {
	Session  *search.Session
	Searcher search.Searcher
	// Pager shows the detail of a selected item; the ov pager when nil
	Pager         Pager
	ShowHelp      bool
	SnippetLength int
	// OpenOnStart opens the search surface right away
	OpenOnStart bool
	Logger      *slog.Logger
}

// Model is the Bubble Tea model hosting a search session. Every session call
// happens inside Update, which is what keeps the session single-threaded.
type Model struct {
	session  *search.Session
	searcher search.Searcher
	pager    Pager

	keys    keyMap
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	styles  *views.Styles

	snippetLength int
	showHelp      bool
	openOnStart   bool
	previewing    bool

	width  int
	height int

	status    string
	statusErr bool
	statusID  int
	statusTTL time.Duration

	// debounce schedules the delivery of a debounceMsg
	debounce func(search.Tick) tea.Cmd
	now      func() time.Time
	logger   *slog.Logger
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	snippetLength := opts.SnippetLength
	if snippetLength <= 0 {
		snippetLength = 150
	}

	styles := views.NewStyles()

	input := textinput.New()
	input.Prompt = "› "
	input.PromptStyle = styles.Prompt
	input.Placeholder = "Search tasks and notes"
	input.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading

	return &Model{
		session:       opts.Session,
		searcher:      opts.Searcher,
		pager:         opts.Pager,
		keys:          newKeyMap(),
		input:         input,
		spinner:       sp,
		help:          help.New(),
		styles:        styles,
		snippetLength: snippetLength,
		showHelp:      opts.ShowHelp,
		openOnStart:   opts.OpenOnStart,
		statusTTL:     statusTTL,
		debounce:      scheduleDebounce,
		now:           time.Now,
		logger:        logger.With("component", "ui"),
	}
}

// SetProgram sets the program reference used to hand the terminal to the pager
func (m *Model) SetProgram(p *tea.Program) {
	if m.pager == nil {
		m.pager = NewOvPager(p)
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	if m.openOnStart {
		return m.open()
	}
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case debounceMsg:
		req := m.session.OnSettled(msg.seq)
		if req == nil {
			return m, nil
		}
		return m, tea.Batch(m.runSearch(req), m.spinner.Tick)

	case searchResultMsg:
		m.session.Resolve(msg.outcome)
		return m, nil

	case spinner.TickMsg:
		// the tick chain stops once nothing is loading
		if !m.session.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case previewDoneMsg:
		m.previewing = false
		if msg.err != nil {
			m.logger.Warn("preview failed", "item", msg.key, "error", msg.err)
			return m, m.setStatus("Could not open preview: "+msg.err.Error(), true)
		}
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)
	}

	// cursor blink and friends
	if m.session.IsOpen() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.session.Close()
		return tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if !m.session.IsOpen() {
		switch {
		case key.Matches(msg, m.keys.Open):
			return m.open()
		case key.Matches(msg, m.keys.QuitIdle):
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		return m.navigate(search.KeyEscape)
	case key.Matches(msg, m.keys.Up):
		return m.navigate(search.KeyUp)
	case key.Matches(msg, m.keys.Down):
		return m.navigate(search.KeyDown)
	case key.Matches(msg, m.keys.Select):
		return m.navigate(search.KeyEnter)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.queryChanged())
}

// queryChanged feeds the input text to the session and schedules its tick
func (m *Model) queryChanged() tea.Cmd {
	tick := m.session.OnQueryInput(m.input.Value())
	if tick == nil {
		return nil
	}
	return m.debounce(*tick)
}

func (m *Model) navigate(k search.Key) tea.Cmd {
	switch e := m.session.OnKey(k).(type) {
	case domain.ItemSelectedEvent:
		if m.previewing {
			return nil
		}
		m.previewing = true
		content := views.Detail(e.Item, m.session.State().ResultsQuery, m.styles)
		return showPreview(m.pager, e.Item.Key(), content)
	case domain.CloseRequestedEvent:
		m.close()
	}
	return nil
}

func (m *Model) open() tea.Cmd {
	m.session.Open()
	m.input.Reset()
	return m.input.Focus()
}

func (m *Model) close() {
	m.session.Close()
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) handleEvent(event domain.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.TokenChangedEvent:
		if e.Token == "" {
			return m.setStatus("Signed out", true)
		}
		cmds := []tea.Cmd{m.setStatus("Credentials reloaded", false)}
		// retry a search that failed for lack of credentials
		if m.session.IsOpen() && m.session.State().Err == search.ErrUnauthenticated {
			cmds = append(cmds, m.queryChanged())
		}
		return tea.Batch(cmds...)
	case domain.ErrorEvent:
		return m.setStatus(e.Message, true)
	}
	return nil
}

func (m *Model) runSearch(req *search.Request) tea.Cmd {
	searcher := m.searcher
	return func() tea.Msg {
		return searchResultMsg{outcome: req.Run(searcher)}
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusErr = isErr
	id := m.statusID
	return tea.Tick(m.statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func scheduleDebounce(t search.Tick) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return debounceMsg{seq: t.Seq}
	})
}
