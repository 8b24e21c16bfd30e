package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseState() ViewState {
	return ViewState{
		Width:     40,
		Height:    10,
		Lines:     []string{"alpha", "beta", "gamma", "delta", "epsilon"},
		Rows:      4,
		Clicked:   -1,
		Mode:      "idle",
		ThumbSize: 2,
	}
}

func viewportRows(t *testing.T, out string, n int) []string {
	t.Helper()
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), n+1)
	return lines[1 : n+1]
}

func TestRenderTitle(t *testing.T) {
	r := NewRenderer()
	st := baseState()
	st.PosY, st.MaxY = -20, -40
	out := r.Render(st)

	title := strings.Split(out, "\n")[0]
	assert.Contains(t, title, "scrollkit")
	assert.Contains(t, title, "idle | y=-20/-40")
	assert.NotContains(t, title, "__READY__")
	assert.NotContains(t, title, "disabled")

	st.Ready, st.Disabled = true, true
	title = strings.Split(r.Render(st), "\n")[0]
	assert.Contains(t, title, "__READY__")
	assert.Contains(t, title, "disabled")
}

func TestRenderViewportWindow(t *testing.T) {
	r := NewRenderer()
	st := baseState()
	st.TopRow = 2
	rows := viewportRows(t, r.Render(st), st.Rows)

	assert.Contains(t, rows[0], "3 gamma")
	assert.Contains(t, rows[2], "5 epsilon")
	assert.Contains(t, rows[3], "· end ·")
	for _, row := range rows {
		assert.Regexp(t, "[┃│]$", row)
	}
}

func TestRenderPullIndicators(t *testing.T) {
	r := NewRenderer()
	st := baseState()
	st.TopRow = -1
	rows := viewportRows(t, r.Render(st), st.Rows)
	assert.Contains(t, rows[0], "Pull to refresh")
	assert.Contains(t, rows[1], "alpha")

	st.Pulling = true
	rows = viewportRows(t, r.Render(st), st.Rows)
	assert.Contains(t, rows[0], "Refreshing...")

	st.TopRow, st.Loading = 3, true
	rows = viewportRows(t, r.Render(st), st.Rows)
	assert.Contains(t, rows[2], "Loading more...")
}

func TestRenderScrollbarThumb(t *testing.T) {
	r := NewRenderer()
	st := baseState()
	st.ThumbTop = 1.6
	rows := viewportRows(t, r.Render(st), st.Rows)

	var thumb []int
	for i, row := range rows {
		if strings.HasSuffix(row, "┃") {
			thumb = append(thumb, i)
		}
	}
	assert.Equal(t, []int{2, 3}, thumb)
}

func TestRenderStatus(t *testing.T) {
	r := NewRenderer()
	st := baseState()
	st.Status = "Loaded 30 more lines"
	assert.Contains(t, r.Render(st), "Loaded 30 more lines")

	st.Status, st.IsError = "deceleration: must be positive", true
	assert.Contains(t, r.Render(st), "deceleration: must be positive")
}
