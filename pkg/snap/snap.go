// Package snap is a snapshot-testing harness for terminal UIs built on
// bubbletea. Tests capture a textual screenshot of an application and
// compare it against an accepted baseline stored beside the test file.
// At the end of the run, every mismatch lands in one consolidated HTML
// report.
//
// Typical use:
//
//	func TestMain(m *testing.M) {
//		os.Exit(snap.Run(m))
//	}
//
//	func TestMainMenu(t *testing.T) {
//		app := newMenuApp()
//		if !snap.CompareApp(t, app, snap.Press("down", "enter")) {
//			t.Error("menu rendering changed")
//		}
//	}
//
// Baselines are accepted with `go test ./... -snapshot-update`.
package snap

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/tuisnap/internal/golden"
	"github.com/dkoosis/tuisnap/internal/logging"
	"github.com/dkoosis/tuisnap/internal/session"
	"github.com/dkoosis/tuisnap/internal/termid"
	"github.com/dkoosis/tuisnap/pkg/capture"
)

// DefaultName is the reserved name under which an unnamed capture is
// stored. Passing it explicitly via Name is a configuration error.
const DefaultName = session.DefaultName

// retryPauses are the waits between comparison attempts for live-app
// captures: a bounded best-effort de-flake, not a correctness
// guarantee.
var retryPauses = []time.Duration{500 * time.Millisecond, 100 * time.Millisecond}

// settings collects per-comparison options.
type settings struct {
	press     []string
	width     int
	height    int
	name      string
	nameSet   bool
	runBefore func() error
	timeout   time.Duration
}

// Option configures a single comparison.
type Option func(*settings)

// Press queues key tokens to apply before the capture. The token "_"
// pauses briefly without pressing a key.
func Press(tokens ...string) Option {
	return func(s *settings) { s.press = append(s.press, tokens...) }
}

// TerminalSize sets the capture geometry in (columns, rows). The
// default is 80x24.
func TerminalSize(cols, rows int) Option {
	return func(s *settings) { s.width, s.height = cols, rows }
}

// Name stores the capture under a distinct name, letting one test hold
// several independent captures. Only valid with CompareApp.
func Name(name string) Option {
	return func(s *settings) { s.name, s.nameSet = name, true }
}

// RunBefore registers a hook that runs after key presses and before the
// capture, for interactions key tokens cannot express. A hook error is
// fatal to the owning test.
func RunBefore(hook func() error) Option {
	return func(s *settings) { s.runBefore = hook }
}

// Timeout bounds an external-program capture. Ignored by CompareApp.
func Timeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

func newSettings(opts []Option) settings {
	s := settings{
		width:  capture.DefaultWidth,
		height: capture.DefaultHeight,
		name:   DefaultName,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// testingT is the slice of testing.T the harness needs; tests of the
// harness itself substitute a recorder.
type testingT interface {
	Helper()
	Name() string
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// callSite identifies where in a test a capture was requested. Relative
// application locators and baseline files resolve against the directory
// of the test source file, so test packages stay relocatable.
type callSite struct {
	file string
	line int
	dir  string
}

func caller(skip int) callSite {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return callSite{}
	}
	return callSite{file: file, line: line, dir: filepath.Dir(file)}
}

// Compare captures the final frame of the terminal application at
// appPath and compares it against the test's stored baseline, returning
// whether they match. Relative paths resolve against the directory
// containing the calling test file, not the working directory. Capture
// failures are fatal to the test; a mismatch is an ordinary recorded
// outcome for the caller to assert on.
func Compare(t *testing.T, appPath string, opts ...Option) bool {
	t.Helper()
	return comparePath(t, defaultSession, caller(1), appPath, opts)
}

// CompareApp captures a live application model and compares it against
// the baseline stored under the capture's name. It may be called
// several times per test with distinct names. Comparison retries a
// bounded number of times with decreasing pauses to absorb transient
// rendering flakiness.
func CompareApp(t *testing.T, app tea.Model, opts ...Option) bool {
	t.Helper()
	return compareApp(t, defaultSession, caller(1), app, opts)
}

func comparePath(t testingT, sess *session.Session, site callSite, appPath string, opts []Option) bool {
	t.Helper()
	s := newSettings(opts)
	if s.nameSet {
		t.Fatalf("tuisnap: Name is only valid with CompareApp; path captures use the default slot")
		return false
	}

	path := appPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(site.dir, appPath)
	}
	if s.runBefore != nil {
		if err := s.runBefore(); err != nil {
			t.Fatalf("tuisnap: pre-capture hook: %v", err)
			return false
		}
	}
	frame, err := capture.Program(context.Background(), path, capture.ProgramOptions{
		Press:   s.press,
		Width:   s.width,
		Height:  s.height,
		Timeout: s.timeout,
	})
	if err != nil {
		t.Fatalf("tuisnap: capturing %s: %v", appPath, err)
		return false
	}

	store := golden.NewStore(site.dir)
	key := golden.Key(t.Name(), DefaultName, DefaultName)
	cmp, err := store.Compare(key, frame)
	if err != nil {
		t.Fatalf("tuisnap: comparing %s: %v", key, err)
		return false
	}
	record(t, sess, site, DefaultName, app(appPath), cmp)
	return cmp.Matched
}

func compareApp(t testingT, sess *session.Session, site callSite, model tea.Model, opts []Option) bool {
	t.Helper()
	s := newSettings(opts)
	if s.nameSet && s.name == DefaultName {
		t.Fatalf("tuisnap: capture name %q is reserved for the unnamed capture", DefaultName)
		return false
	}
	if s.nameSet && s.name == "" {
		t.Fatalf("tuisnap: capture name must not be empty")
		return false
	}

	driver := capture.NewDriver(model, s.width, s.height)
	if len(s.press) > 0 {
		if err := driver.Press(s.press...); err != nil {
			t.Fatalf("tuisnap: pressing keys: %v", err)
			return false
		}
	}
	if s.runBefore != nil {
		if err := s.runBefore(); err != nil {
			t.Fatalf("tuisnap: pre-capture hook: %v", err)
			return false
		}
	}

	store := golden.NewStore(site.dir)
	key := golden.Key(t.Name(), s.name, DefaultName)

	var cmp golden.Comparison
	for attempt := 0; ; attempt++ {
		frame := termid.Normalize(driver.View(), t.Name(), s.name)
		var err error
		cmp, err = store.Compare(key, frame)
		if err != nil {
			t.Fatalf("tuisnap: comparing %s: %v", key, err)
			return false
		}
		if cmp.Matched || attempt >= len(retryPauses) {
			break
		}
		logging.Logger().WithField("key", key).WithField("attempt", attempt+1).
			Debug("snap: mismatch, retrying")
		time.Sleep(retryPauses[attempt])
	}
	record(t, sess, site, s.name, driver.Model(), cmp)
	return cmp.Matched
}

// record attaches the comparison outcome to the session. Matched
// captures drop their renderings; only mismatches carry frames into the
// report.
func record(t testingT, sess *session.Session, site callSite, name string, appHandle any, cmp golden.Comparison) {
	c := session.Capture{Matched: cmp.Matched, App: appHandle}
	if !cmp.Matched {
		c.Actual = cmp.Actual
		c.Baseline = cmp.Baseline
	}
	if err := sess.Record(t.Name(), site.file, site.line, name, c); err != nil {
		t.Logf("tuisnap: %v", err)
	}
}

// app wraps a path-based application locator so the report can show
// something meaningful for its application handle.
type app string

func (a app) String() string { return string(a) }
