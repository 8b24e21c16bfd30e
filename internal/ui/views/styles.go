package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Line          lipgloss.Style
	LineNumber    lipgloss.Style
	Highlight     lipgloss.Style
	Indicator     lipgloss.Style
	Track         lipgloss.Style
	Thumb         lipgloss.Style
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
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Help:          lipgloss.NewStyle().Faint(true),
		Line:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		LineNumber:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Indicator:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Italic(true),
		Track:         lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Thumb:         lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
