package views

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dashsearch/internal/domain"
	"dashsearch/internal/search"
)

// ResultsView renders the merged result list of a search state
type ResultsView struct {
	Styles        *Styles
	Width         int
	Height        int // rows available for the list; 0 means unlimited
	SnippetLength int
	Now           time.Time
}

type line struct {
	text string
	item int // owning item, -1 for group headers
}

// Render draws the grouped list with the selected item kept in view
func (v ResultsView) Render(st search.State) string {
	if len(st.Results) == 0 {
		return ""
	}

	tasks, notes := st.Results.Counts()
	var lines []line
	var lastKind domain.Kind
	for i, item := range st.Results {
		if item.Kind != lastKind {
			if lastKind != "" {
				lines = append(lines, line{item: -1})
			}
			count := tasks
			if item.Kind == domain.KindNote {
				count = notes
			}
			lines = append(lines, line{text: v.Styles.Section.Render(fmt.Sprintf("%s (%d)", item.Kind.Label(), count)), item: -1})
			lastKind = item.Kind
		}
		selected := st.Selection.Active && st.Selection.Index == i
		for _, l := range v.renderItem(item, st.ResultsQuery, selected) {
			lines = append(lines, line{text: l, item: i})
		}
	}

	return v.window(lines, st.Selection)
}

func (v ResultsView) renderItem(item domain.ResultItem, query string, selected bool) []string {
	marker := "  "
	if selected {
		marker = v.Styles.Cursor.Render("›") + " "
	}

	title := v.highlight(item.Title(), query, lipgloss.NewStyle().Bold(selected))
	first := marker + title
	if badges := v.badges(item); badges != "" {
		first += "  " + badges
	}
	if tags := item.TagLine(); tags != "" {
		first += "  " + v.highlight("#"+strings.ReplaceAll(tags, ", ", " #"), query, v.Styles.Tag)
	}
	out := []string{first}

	width := v.SnippetLength
	if v.Width > 0 && v.Width-4 < width {
		width = v.Width - 4
	}
	if snippet := Snippet(item.Body(), width); snippet != "" {
		out = append(out, "    "+v.highlight(snippet, query, v.Styles.Snippet))
	}

	if selected {
		for i := range out {
			out[i] = v.Styles.SelectionBg.Render(out[i])
		}
	}
	return out
}

func (v ResultsView) badges(item domain.ResultItem) string {
	var parts []string
	switch {
	case item.Task != nil:
		t := item.Task
		if t.Completed {
			parts = append(parts, v.Styles.Done.Render("✓ done"))
		}
		if t.Priority != "" {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(PriorityColor(t.Priority)))
			parts = append(parts, style.Render("["+t.Priority+"]"))
		}
		if t.DueDate != nil {
			due := "due " + t.DueDate.Format("Jan 2")
			if !t.Completed && !v.Now.IsZero() && t.DueDate.Before(v.Now) {
				parts = append(parts, v.Styles.StatusError.Render(due+" (overdue)"))
			} else {
				parts = append(parts, v.Styles.Dim.Render(due))
			}
		}
	case item.Note != nil:
		n := item.Note
		if n.Pinned {
			parts = append(parts, v.Styles.Pinned.Render("★ pinned"))
		}
		if n.Category != "" {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(NoteColor(n.Color)))
			parts = append(parts, style.Render("["+n.Category+"]"))
		}
	}
	return strings.Join(parts, " ")
}

func (v ResultsView) highlight(text, query string, base lipgloss.Style) string {
	var b strings.Builder
	for _, seg := range search.Highlight(text, query) {
		if seg.Matched {
			b.WriteString(v.Styles.Highlight.Render(seg.Text))
		} else {
			b.WriteString(base.Render(seg.Text))
		}
	}
	return b.String()
}

// window cuts lines down to Height rows around the selected item
func (v ResultsView) window(lines []line, sel search.Selection) string {
	if v.Height <= 0 || len(lines) <= v.Height {
		return join(lines)
	}

	first, last := 0, 0
	if sel.Active {
		first, last = -1, -1
		for i, l := range lines {
			if l.item == sel.Index {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		// keep the group header when the first item of a group is selected
		if first > 0 && lines[first-1].item == -1 && lines[first-1].text != "" {
			first--
		}
	}

	offset := 0
	if last >= v.Height-1 {
		offset = last - v.Height + 2
	}
	// the top row becomes the "more above" marker, so the item starts below it
	if offset > 0 && first >= 0 && first-1 < offset {
		offset = max(first-1, 0)
	}
	end := offset + v.Height
	if end > len(lines) {
		end = len(lines)
	}

	visible := append([]line(nil), lines[offset:end]...)
	if offset > 0 {
		visible[0] = line{text: v.Styles.Scroll.Render("↑ more above")}
	}
	if end < len(lines) {
		visible[len(visible)-1] = line{text: v.Styles.Scroll.Render("↓ more below")}
	}
	return join(visible)
}

func join(lines []line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return strings.Join(out, "\n")
}

// Snippet flattens body onto one line and cuts it to at most n characters,
// then to the display width n, ending with an ellipsis when shortened
func Snippet(body string, n int) string {
	s := strings.Join(strings.Fields(body), " ")
	if s == "" || n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) > n {
		s = string([]rune(s)[:n-1]) + "…"
	}
	return runewidth.Truncate(s, n, "…")
}
