// tuisnap inspects the snapshot baselines a test suite has accepted.
//
// Usage:
//
//	tuisnap ls [dir]      list baselines stored under dir (default ".")
//	tuisnap view <file>   render a stored baseline in a terminal frame
//
// Baselines are created and updated by the test suite itself
// (go test ./... -snapshot-update); this tool only reads them.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/dkoosis/tuisnap/internal/golden"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "ls":
		return runLs(args[1:], stdout, stderr)
	case "view":
		return runView(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "tuisnap: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `tuisnap inspects stored terminal snapshot baselines.

Usage:
  tuisnap ls [dir]      list baselines stored under dir (default ".")
  tuisnap view <file>   render a stored baseline in a terminal frame
`)
}

func runLs(args []string, stdout, stderr io.Writer) int {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	var found int
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, golden.Ext) {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) != golden.Dir {
			return nil
		}
		found++
		fmt.Fprintf(stdout, "%s  (%s)\n", path, frameGeometry(path))
		return nil
	})
	if err != nil {
		fmt.Fprintf(stderr, "tuisnap: walking %s: %v\n", root, err)
		return 1
	}
	if found == 0 {
		fmt.Fprintf(stderr, "tuisnap: no baselines under %s\n", root)
	}
	return 0
}

// frameGeometry reports a baseline's rows x columns for the listing.
func frameGeometry(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "unreadable"
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	width := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > width {
			width = w
		}
	}
	return fmt.Sprintf("%dx%d", len(lines), width)
}

var frameStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

func runView(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "tuisnap: view takes exactly one baseline file")
		return 2
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "tuisnap: %v\n", err)
		return 1
	}
	frame := strings.TrimRight(string(raw), "\n")

	style := frameStyle
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		style = style.MaxWidth(w)
	}
	fmt.Fprintln(stdout, style.Render(frame))
	return 0
}
