package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Prompt        lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Section       lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	Cursor        lipgloss.Style
	Tag           lipgloss.Style
	Snippet       lipgloss.Style
	Done          lipgloss.Style
	Pinned        lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Tag:           lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Snippet:       lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
		Done:          lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Pinned:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// PriorityColor returns the badge color for a task priority
func PriorityColor(priority string) string {
	switch priority {
	case "high":
		return "203" // red
	case "medium":
		return "214" // yellow
	case "low":
		return "78" // green
	default:
		return "241"
	}
}

// NoteColor maps a note's color name to a terminal color
func NoteColor(color string) string {
	switch color {
	case "yellow":
		return "221"
	case "blue":
		return "75"
	case "green":
		return "114"
	case "pink", "red":
		return "211"
	case "purple":
		return "141"
	default:
		return "252"
	}
}
