// Package session accumulates per-test capture results over one test
// run and aggregates them into the data the report is built from. The
// lifecycle has exactly two phases: captures are recorded while the
// suite runs, then Finalize flips the session into its terminal state
// and produces the aggregate. Nothing can be recorded afterward.
package session

import (
	"fmt"
	"sync"

	"github.com/dkoosis/tuisnap/internal/logging"
)

// DefaultName is the reserved capture name used when a test records a
// single unnamed capture. Passing it explicitly is a configuration
// error, enforced by the public API before any capture work happens.
const DefaultName = "snapshot"

// Capture is one named capture result owned by a test item. For a
// matched capture the renderings are left empty; only mismatches carry
// their frames forward into the report.
type Capture struct {
	Matched  bool
	App      any    // opaque application handle, shown by type in the report
	Actual   string // fresh rendering, already session-id normalized
	Baseline string // stored rendering, empty when no baseline existed
}

// Item holds everything recorded against one test item.
type Item struct {
	NodeID   string
	File     string
	Line     int
	captures map[string]Capture
}

// Session is the run-wide registry of per-test results.
type Session struct {
	mu        sync.Mutex
	items     map[string]*Item
	finalized bool
}

// New returns an empty session in its accumulating phase.
func New() *Session {
	return &Session{items: make(map[string]*Item)}
}

// Record attaches a named capture result to a test item, creating the
// item on first use. Recording the same (item, name) pair again
// overwrites the earlier result. Recording after Finalize is an error.
//
// The mutex exists because go test may interleave test items when a
// suite opts into t.Parallel; the harness itself adds no parallelism.
func (s *Session) Record(nodeID, file string, line int, name string, c Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return fmt.Errorf("session already finalized; capture %q for %s dropped", name, nodeID)
	}
	item, ok := s.items[nodeID]
	if !ok {
		item = &Item{
			NodeID:   nodeID,
			File:     file,
			Line:     line,
			captures: make(map[string]Capture),
		}
		s.items[nodeID] = item
	}
	item.captures[name] = c
	logging.Logger().WithField("test", nodeID).WithField("name", name).
		WithField("matched", c.Matched).Debug("session: capture recorded")
	return nil
}

// Len reports how many test items have recorded at least one capture.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
