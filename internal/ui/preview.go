package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// Pager shows rendered content full screen until the user leaves it
type Pager interface {
	Show(content string) error
}

// OvPager shows content in the ov pager, handing it the terminal
type OvPager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewOvPager creates a pager bound to program
func NewOvPager(program *tea.Program) *OvPager {
	return &OvPager{program: program}
}

// Show runs ov over content and gives the terminal back when it exits
func (p *OvPager) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showPreview returns a command running the pager off the update loop
func showPreview(pager Pager, key, content string) tea.Cmd {
	return func() tea.Msg {
		if pager == nil {
			return previewDoneMsg{key: key, err: fmt.Errorf("no pager configured")}
		}
		return previewDoneMsg{key: key, err: pager.Show(content)}
	}
}
