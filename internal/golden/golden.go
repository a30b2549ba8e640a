// Package golden stores accepted baseline frames and compares fresh
// captures against them. Baselines live in a __snapshots__ directory
// beside the test source file, one file per (test, capture name) pair,
// so snapshots travel with the tests that own them.
package golden

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkoosis/tuisnap/internal/logging"
)

// update persists fresh captures as the new baselines instead of
// comparing. Registered as a test flag so suites run it as
// `go test ./... -snapshot-update`.
var update = flag.Bool("snapshot-update", false,
	"update stored snapshot baselines instead of comparing against them")

// Dir is the directory name baselines are stored under, beside the test
// source file.
const Dir = "__snapshots__"

// Ext is the baseline file extension.
const Ext = ".golden"

// Comparison is the outcome of one baseline comparison. Both sides of a
// failed comparison are carried so the report can show them without
// reaching back into the store.
type Comparison struct {
	Matched         bool
	Actual          string
	Baseline        string
	BaselineMissing bool // no baseline stored yet and update mode was off
}

// Store reads and writes the baselines for one test file's directory.
type Store struct {
	dir string
}

// NewStore returns the store rooted beside the given test source
// directory.
func NewStore(testDir string) *Store {
	return &Store{dir: filepath.Join(testDir, Dir)}
}

// Updating reports whether the suite runs in baseline-update mode.
func Updating() bool { return *update }

// Path returns the baseline file path for a capture key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+Ext)
}

// Write persists frame as the accepted baseline for key.
func (s *Store) Write(key, frame string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir %s: %w", s.dir, err)
	}
	path := s.Path(key)
	if err := os.WriteFile(path, []byte(frame), 0o644); err != nil {
		return fmt.Errorf("writing baseline %s: %w", path, err)
	}
	logging.Logger().WithField("path", path).Debug("golden: baseline written")
	return nil
}

// Compare checks actual against the stored baseline for key. In update
// mode the baseline is rewritten and the comparison reports a match. A
// missing baseline outside update mode is a mismatch with an empty
// baseline, not an error; only real I/O failures surface as errors.
func (s *Store) Compare(key, actual string) (Comparison, error) {
	if Updating() {
		if err := s.Write(key, actual); err != nil {
			return Comparison{}, err
		}
		return Comparison{Matched: true, Actual: actual, Baseline: actual}, nil
	}

	raw, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return Comparison{Actual: actual, BaselineMissing: true}, nil
	}
	if err != nil {
		return Comparison{}, fmt.Errorf("reading baseline %s: %w", s.Path(key), err)
	}
	baseline := string(raw)
	return Comparison{
		Matched:  baseline == actual,
		Actual:   actual,
		Baseline: baseline,
	}, nil
}

// Key builds the baseline key for a test and capture name. The default
// capture name is folded into the bare test name so single-capture tests
// keep short baseline files.
func Key(testName, captureName, defaultName string) string {
	if captureName == defaultName {
		return testName
	}
	return testName + "." + captureName
}

// sanitize flattens subtest separators and whitespace so every key maps
// to a single file name.
func sanitize(key string) string {
	return strings.NewReplacer("/", "__", " ", "_").Replace(key)
}
