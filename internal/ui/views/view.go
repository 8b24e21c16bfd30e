package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Lines  []string
	// First content line shown at the top of the viewport; negative while the
	// content is pulled down past its top edge
	TopRow    int
	Rows      int
	Clicked   int // content line last clicked, -1 for none
	Pulling   bool
	Loading   bool
	Disabled  bool
	Mode      string
	PosY      float64
	MaxY      float64
	ThumbTop  float64 // in rows
	ThumbSize int
	Status    string
	IsError   bool
	HelpView  string
	Ready     bool // e2e readiness marker
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var content strings.Builder

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	rows := r.renderViewport(state)
	content.WriteString(strings.Join(rows, "\n"))
	content.WriteString("\n")

	content.WriteString(r.renderStatus(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.HelpView))

	return lipgloss.NewStyle().MaxHeight(state.Height).Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("scrollkit")
	if state.Ready {
		logo += " __READY__"
	}

	right := []string{state.Mode, fmt.Sprintf("y=%.0f/%.0f", state.PosY, state.MaxY)}
	if state.Disabled {
		right = append(right, "disabled")
	}
	rightContent := r.styles.Dim.Render(strings.Join(right, " | "))

	padding := state.Width - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

// renderViewport renders the visible rows with the scrollbar in the last column
func (r *Renderer) renderViewport(state ViewState) []string {
	width := state.Width - 1
	if width < 1 {
		width = 1
	}
	out := make([]string, 0, state.Rows)
	for row := 0; row < state.Rows; row++ {
		i := state.TopRow + row
		var text string
		switch {
		case i == -1 && state.Pulling:
			text = r.styles.Indicator.Render("↻ Refreshing...")
		case i == -1:
			text = r.styles.Indicator.Render("↓ Pull to refresh")
		case i < 0:
			text = ""
		case i < len(state.Lines):
			text = r.renderLine(i, state.Lines[i], i == state.Clicked)
		case i == len(state.Lines) && state.Loading:
			text = r.styles.Indicator.Render("Loading more...")
		case i == len(state.Lines):
			text = r.styles.Dim.Render("· end ·")
		}
		text = lipgloss.NewStyle().Width(width).MaxWidth(width).Render(text)
		out = append(out, text+r.scrollbarCell(state, row))
	}
	return out
}

func (r *Renderer) renderLine(i int, line string, clicked bool) string {
	number := r.styles.LineNumber.Render(fmt.Sprintf("%4d ", i+1))
	if clicked {
		return number + r.styles.Highlight.Render(line)
	}
	return number + r.styles.Line.Render(line)
}

func (r *Renderer) scrollbarCell(state ViewState, row int) string {
	top := int(state.ThumbTop + 0.5)
	if row >= top && row < top+state.ThumbSize {
		return r.styles.Thumb.Render("┃")
	}
	return r.styles.Track.Render("│")
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.Status == "" {
		return ""
	}
	if state.IsError {
		return r.styles.StatusError.Render(state.Status)
	}
	return r.styles.Status.Render(state.Status)
}
