package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scrollkit/internal/domain"
)

// pointerFromMouse normalizes a terminal mouse event into the engine's pointer
// stream. Cells are scaled to virtual pixels so gesture thresholds keep their
// meaning. Wheel events are not pointer samples and report false.
func pointerFromMouse(msg tea.MouseMsg, cellW, cellH float64, at time.Time) (domain.PointerEvent, bool) {
	e := domain.PointerEvent{
		Kind:      domain.InputPointer,
		PageX:     (float64(msg.X) + 0.5) * cellW,
		PageY:     (float64(msg.Y) + 0.5) * cellH,
		Timestamp: at,
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
	case tea.MouseButtonRight:
		e.Button = 2
	case tea.MouseButtonMiddle:
		e.Button = 1
	case tea.MouseButtonNone:
		// some terminals omit the button on release and motion
	default:
		return domain.PointerEvent{}, false
	}

	switch msg.Action {
	case tea.MouseActionPress:
		e.Phase = domain.PhaseStart
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonNone {
			// hover without a pressed button
			return domain.PointerEvent{}, false
		}
		e.Phase = domain.PhaseMove
	case tea.MouseActionRelease:
		e.Phase = domain.PhaseEnd
	default:
		return domain.PointerEvent{}, false
	}
	return e, true
}

// wheelDelta reports the scroll direction of a wheel event in lines
func wheelDelta(msg tea.MouseMsg) (int, bool) {
	if msg.Action != tea.MouseActionPress {
		return 0, false
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return 1, true
	case tea.MouseButtonWheelDown:
		return -1, true
	default:
		return 0, false
	}
}
