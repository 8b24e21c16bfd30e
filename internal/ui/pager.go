package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// EventLogOps shows the recorded engine event stream in an ov pager
type EventLogOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewEventLogOps creates a new pager operations instance
func NewEventLogOps() *EventLogOps {
	return &EventLogOps{}
}

// SetProgram sets the program reference for terminal management
func (p *EventLogOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowInPager pages content with ov, handing the terminal over while it runs
func (p *EventLogOps) ShowInPager(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to open pager: %w", err)
	}
	config := oviewer.NewConfig()
	// Do not leave the log behind on our screen
	config.IsWriteOriginal = false
	root.SetConfig(config)

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	return root.Run()
}
