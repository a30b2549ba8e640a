package snap

import (
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/dkoosis/tuisnap/internal/config"
	"github.com/dkoosis/tuisnap/internal/logging"
	"github.com/dkoosis/tuisnap/internal/report"
	"github.com/dkoosis/tuisnap/internal/session"
)

// defaultSession accumulates capture results for the whole test binary.
var defaultSession = session.New()

// runSettings collects Run-level options.
type runSettings struct {
	reportPath string
}

// RunOption configures the session wrapper.
type RunOption func(*runSettings)

// ReportPath overrides the report output location, taking precedence
// over the config file and the TUISNAP_REPORT environment variable.
func ReportPath(path string) RunOption {
	return func(s *runSettings) { s.reportPath = path }
}

// Run executes the test suite and finalizes the snapshot session:
// aggregate all recorded captures, write the HTML report if any
// mismatch exists, and print the terminal notice. It returns the exit
// code for os.Exit. Use it from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(snap.Run(m))
//	}
//
// A fully passing session writes nothing and prints nothing. A report
// write failure is an operator-facing fatal (exit 2) that cannot change
// test outcomes, which were decided before the report was attempted.
func Run(m *testing.M, opts ...RunOption) int {
	code := m.Run()

	var rs runSettings
	for _, opt := range opts {
		opt(&rs)
	}
	cfg := config.Load()
	logging.SetDebug(cfg.Debug)
	path := rs.reportPath
	if path == "" {
		path = cfg.ReportPath
	}
	return finish(defaultSession, path, code, os.Stderr)
}

// finish aggregates the session and emits the report artifact. Split
// from Run so session-end behavior is testable against a crafted
// session.
func finish(sess *session.Session, reportPath string, code int, stderr io.Writer) int {
	out, err := sess.Finalize()
	if err != nil {
		fmt.Fprintf(stderr, "tuisnap: %v\n", err)
		return code
	}
	if len(out.Diffs) == 0 {
		return code
	}

	location, err := report.Write(reportPath, out)
	if err != nil {
		fmt.Fprintf(stderr, "tuisnap: fatal: %v\n", err)
		if code != 0 {
			return code
		}
		return 2
	}
	report.PrintNotice(stderr, len(out.Diffs), location)
	return code
}
