package ui

// frameMsg drives the engine frame loop; stale generations are dropped
type frameMsg struct {
	gen uint64
}

// refreshDoneMsg signals that a simulated pull-down refresh finished
type refreshDoneMsg struct{}

// loadDoneMsg signals that a simulated pull-up load finished
type loadDoneMsg struct{}

// eventLogPagerMsg contains the result of the event log pager
type eventLogPagerMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
