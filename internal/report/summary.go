package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	noticeTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("1"))
	noticeCount = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("1")).
			Padding(0, 1)
	noticePath = lipgloss.NewStyle().Faint(true)
)

// PrintNotice appends the end-of-run snapshot notice to w: the mismatch
// count and the report's location. The caller only invokes it when at
// least one mismatch exists; a clean run stays silent.
func PrintNotice(w io.Writer, fails int, location string) {
	width := terminalWidth()
	block := lipgloss.NewStyle().Width(width)

	plural := "snapshots"
	if fails == 1 {
		plural = "snapshot"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, block.Render(noticeTitle.Render("tuisnap snapshot report")))
	fmt.Fprintln(w, block.Render(noticeCount.Render(fmt.Sprintf("%d mismatched %s", fails, plural))))
	fmt.Fprintln(w, block.Render("View the failure report:"))
	fmt.Fprintln(w, block.Render(noticePath.Render(location)))
	fmt.Fprintln(w)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
