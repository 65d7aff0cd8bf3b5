package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"dashsearch/internal/domain"
)

const detailDateLayout = "Mon Jan 2 2006 15:04"

// Detail renders the full record behind a result item for the pager
func Detail(item domain.ResultItem, query string, styles *Styles) string {
	v := ResultsView{Styles: styles}
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	var b strings.Builder
	b.WriteString(styles.Title.Render(item.Title()))
	b.WriteString("\n")

	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %s %s\n", keyStyle.Render(fmt.Sprintf("%-10s", name)), value)
	}

	field("Type", item.Kind.Label())
	switch {
	case item.Task != nil:
		t := item.Task
		status := "open"
		if t.Completed {
			status = "done"
		}
		field("Status", status)
		field("Priority", t.Priority)
		field("Due", formatTime(t.DueDate))
		field("Created", formatTime(t.CreatedAt))
	case item.Note != nil:
		n := item.Note
		field("Category", n.Category)
		if n.Pinned {
			field("Pinned", "yes")
		}
		field("Color", n.Color)
		field("Updated", formatTime(n.UpdatedAt))
	}
	if tags := item.TagLine(); tags != "" {
		field("Tags", v.highlight(tags, query, styles.Tag))
	}

	if body := item.Body(); body != "" {
		b.WriteString("\n")
		for _, l := range strings.Split(body, "\n") {
			b.WriteString(v.highlight(l, query, lipgloss.NewStyle()))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(detailDateLayout)
}
