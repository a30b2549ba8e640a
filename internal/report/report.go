// Package report renders the session outcome into a single
// self-contained HTML document and prints the end-of-run terminal
// notice. The template is embedded in the binary; the only filesystem
// side effect is the report file itself.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/tuisnap/internal/logging"
	"github.com/dkoosis/tuisnap/internal/session"
)

//go:embed template.html
var reportTemplate string

var tmpl = template.Must(template.New("snapshot_report").Parse(reportTemplate))

// diffView is one mismatch prepared for the template.
type diffView struct {
	DisplayName     string
	Heading         string
	Anchor          string
	Path            string
	Line            int
	AppName         string
	Baseline        string
	Actual          string
	BaselineMissing bool
	Environment     map[string]string
}

// data is the full template payload.
type data struct {
	Title       string
	Diffs       []diffView
	Fails       int
	Passes      int
	Total       int
	PassPct     string
	FailPct     string
	GeneratedAt string
}

// Write renders the outcome and writes it to path, creating parent
// directories as needed. It returns the absolute report location. Write
// failures are the operator's problem, not the tests': the caller
// surfaces them after the suite has already concluded.
func Write(path string, out *session.Outcome) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving report path %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, out); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", abs, err)
	}
	logging.Logger().WithField("path", abs).Debug("report: written")
	return abs, nil
}

// Render writes the HTML report for the outcome to w.
func Render(w io.Writer, out *session.Outcome) error {
	d := data{
		Title:       "tuisnap snapshot report",
		Fails:       out.Summary.Fails,
		Passes:      out.Summary.Passes,
		Total:       out.Summary.Total,
		PassPct:     fmt.Sprintf("%.1f", out.Summary.PassPercentage),
		FailPct:     fmt.Sprintf("%.1f", out.Summary.FailPercentage),
		GeneratedAt: out.Summary.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
	}
	for _, diff := range out.Diffs {
		d.Diffs = append(d.Diffs, diffView{
			DisplayName:     diff.DisplayName,
			Heading:         humanize(diff.DisplayName),
			Anchor:          anchor(diff.DisplayName),
			Path:            diff.Path,
			Line:            diff.Line,
			AppName:         diff.AppName,
			Baseline:        diff.Baseline,
			Actual:          diff.Actual,
			BaselineMissing: diff.BaselineMissing,
			Environment:     diff.Environment,
		})
	}
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// humanize turns a test display name into a readable heading:
// underscores become spaces and words are title-cased, in the manner of
// humanized subtest names.
func humanize(name string) string {
	name = strings.TrimPrefix(name, "Test")
	name = strings.ReplaceAll(name, "_", " ")
	return titleCaser.String(name)
}

var anchorRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func anchor(name string) string {
	return strings.Trim(anchorRe.ReplaceAllString(name, "-"), "-")
}
