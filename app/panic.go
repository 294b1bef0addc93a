package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"deskmon/hal"
	"deskmon/monitor/view"
)

const (
	panicCols       = 21
	panicLineHeight = 10
	panicRows       = 6
)

// showPanic logs v and paints it on c, black on white, wrapped to the
// panel width.
func showPanic(l hal.Logger, c view.Canvas, v any) {
	msg := fmt.Sprintf("panic: %v", v)
	if l != nil {
		l.WriteLineString("Monitor Panic: " + msg)
	}
	if c == nil {
		return
	}

	c.Clear(view.White)
	c.Text("Monitor Panic:", 0, 0, view.Black)
	y := int16(panicLineHeight)
	for _, line := range panicLines(msg, panicCols, panicRows-1) {
		c.Text(line, 0, y, view.Black)
		y += panicLineHeight
	}
	_ = c.Present()
}

// panicLines wraps s into at most rows lines of n runes.
func panicLines(s string, n, rows int) []string {
	var out []string
	for len(s) > 0 && len(out) < rows {
		chunk, rest := takeRunes(s, n)
		out = append(out, chunk)
		s = strings.TrimLeft(rest, " ")
	}
	return out
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
