package ui

import (
	"fmt"
	"strings"
)

var words = []string{
	"momentum", "rebound", "viewport", "gesture", "easing", "snap", "bounce",
	"frame", "pointer", "threshold", "elastic", "velocity", "settle", "drag",
	"flick", "page", "wheel", "content", "edge", "transition",
}

// sampleLines generates deterministic filler content; batch tags the lines so
// refreshed and loaded content is recognizable
func sampleLines(from, n, batch int) []string {
	lines := make([]string, 0, n)
	for i := from; i < from+n; i++ {
		var b strings.Builder
		fmt.Fprintf(&b, "[%d] ", batch)
		for j := 0; j < 4+i%5; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(words[(i*7+j*3)%len(words)])
		}
		lines = append(lines, b.String())
	}
	return lines
}
