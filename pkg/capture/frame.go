package capture

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
)

// Fit normalizes a rendered view into a rectangular text frame of the
// given geometry: ANSI sequences stripped, every line truncated or
// space-padded to width, and the line count clamped to height. When the
// view is taller than the terminal, the last screenful wins, which is
// what a real terminal would show.
func Fit(view string, width, height int) string {
	plain := ansi.Strip(view)
	plain = strings.ReplaceAll(plain, "\r\n", "\n")
	plain = strings.ReplaceAll(plain, "\r", "")
	lines := strings.Split(strings.TrimRight(plain, "\n"), "\n")

	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for i, line := range lines {
		line = runewidth.Truncate(line, width, "")
		if pad := width - runewidth.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		lines[i] = line
	}
	blank := strings.Repeat(" ", width)
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

// ExtractFrame recovers the final visual state from the raw byte stream
// an application wrote to its terminal. Full-screen programs repaint by
// clearing the screen and homing the cursor, so everything before the
// last clear belongs to an earlier frame.
func ExtractFrame(raw string) string {
	if i := strings.LastIndex(raw, clearScreen); i >= 0 {
		raw = raw[i+len(clearScreen):]
	}
	if i := strings.LastIndex(raw, cursorHome); i >= 0 {
		raw = raw[i+len(cursorHome):]
	}
	return raw
}
