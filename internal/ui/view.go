package ui

import (
	"fmt"
	"strings"

	"dashsearch/internal/search"
	"dashsearch/internal/ui/views"
)

// rows taken by everything but the result list
const chromeHeight = 10

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	if m.session.IsOpen() {
		m.renderSearch(&b)
	} else {
		b.WriteString(m.styles.Title.Render("Dashboard"))
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("Press ctrl+k to search your tasks and notes."))
		b.WriteString("\n")
	}

	if m.status != "" {
		style := m.styles.StatusSuccess
		if m.statusErr {
			style = m.styles.StatusError
		}
		b.WriteString(m.styles.Status.Render(style.Render(m.status)))
		b.WriteString("\n")
	}

	if m.showHelp || m.help.ShowAll {
		b.WriteString("\n")
		if m.session.IsOpen() {
			b.WriteString(m.help.View(searchKeys{m.keys}))
		} else {
			b.WriteString(m.help.View(idleKeys{m.keys}))
		}
	}

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderSearch(b *strings.Builder) {
	st := m.session.State()

	b.WriteString(m.styles.Title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if st.Loading {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n\n")

	if st.Err != search.ErrNone {
		b.WriteString(m.styles.StatusError.Render("✗ " + st.Err.Message()))
		b.WriteString("\n\n")
	}

	if hint := emptyHint(st); hint != "" {
		b.WriteString(m.styles.Dim.Render(hint))
		b.WriteString("\n")
		return
	}

	height := 0
	if m.height > 0 {
		height = max(m.height-chromeHeight, 3)
	}
	list := views.ResultsView{
		Styles:        m.styles,
		Width:         m.width,
		Height:        height,
		SnippetLength: m.snippetLength,
		Now:           m.now(),
	}
	if out := list.Render(st); out != "" {
		b.WriteString(out)
		b.WriteString("\n")
	}
}

// emptyHint returns the text shown instead of a result list, if any
func emptyHint(st search.State) string {
	switch {
	case st.Query == "":
		return "Type at least 2 characters to search your tasks and notes."
	case !search.Qualifies(st.Query):
		return fmt.Sprintf("Keep typing, searches start at %d characters.", search.MinQueryLen)
	case st.Err != search.ErrNone:
		return ""
	case len(st.Results) > 0:
		return ""
	case st.Loading:
		return "Searching…"
	case st.ResultsQuery != "":
		return fmt.Sprintf("No tasks or notes match %q.", st.ResultsQuery)
	}
	return ""
}
