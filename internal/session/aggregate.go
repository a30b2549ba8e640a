package session

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dkoosis/tuisnap/internal/logging"
	"github.com/dkoosis/tuisnap/internal/termid"
)

// Diff is one failed comparison, in report shape. Exactly one Diff
// exists per failing named capture.
type Diff struct {
	Baseline        string            // stored rendering, empty for a first capture
	Actual          string            // fresh rendering, fresh-marked session ids
	DisplayName     string            // node id, plus " : <name>" for named captures
	Path            string            // test source file
	Line            int               // line of the capture call
	AppName         string            // application handle type
	BaselineMissing bool              // capture had no stored baseline
	Environment     map[string]string // process environment at aggregation time
}

// Summary carries the session-wide counters for the report.
type Summary struct {
	Fails          int
	Passes         int
	Total          int
	PassPercentage float64
	FailPercentage float64
	GeneratedAt    time.Time
}

// Outcome is the aggregation result handed to the report renderer.
type Outcome struct {
	Diffs   []Diff
	Summary Summary
}

// Finalize transitions the session out of its accumulating phase and
// aggregates every recorded capture: passes are counted, mismatches
// become Diffs sorted by display name. Calling Finalize again returns
// an error; a session aggregates exactly once.
func (s *Session) Finalize() (*Outcome, error) {
	return s.finalize(time.Now().UTC())
}

func (s *Session) finalize(now time.Time) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return nil, fmt.Errorf("session already finalized")
	}
	s.finalized = true

	env := environMap()
	out := &Outcome{}
	passes := 0

	nodeIDs := make([]string, 0, len(s.items))
	for id := range s.items {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	for _, id := range nodeIDs {
		item := s.items[id]
		for name, c := range item.captures {
			if c.Matched {
				passes++
				continue
			}
			display := item.NodeID
			if name != DefaultName {
				display = fmt.Sprintf("%s : %s", item.NodeID, name)
			}
			out.Diffs = append(out.Diffs, Diff{
				Baseline: c.Baseline,
				// A second normalization pass marks the fresh frame so the
				// ids embedded in the report's actual pane never collide
				// with the ones inside the stored baseline.
				Actual:          termid.MarkFresh(c.Actual),
				DisplayName:     display,
				Path:            item.File,
				Line:            item.Line,
				AppName:         appName(c.App),
				BaselineMissing: c.Baseline == "",
				Environment:     env,
			})
		}
	}

	sort.Slice(out.Diffs, func(i, j int) bool {
		return out.Diffs[i].DisplayName < out.Diffs[j].DisplayName
	})

	fails := len(out.Diffs)
	total := fails + passes
	denom := total
	if denom < 1 {
		denom = 1
	}
	out.Summary = Summary{
		Fails:          fails,
		Passes:         passes,
		Total:          total,
		PassPercentage: 100 * float64(passes) / float64(denom),
		FailPercentage: 100 * float64(fails) / float64(denom),
		GeneratedAt:    now,
	}

	logging.Logger().WithField("passes", passes).WithField("fails", fails).
		Debug("session: finalized")
	return out, nil
}

func appName(app any) string {
	if app == nil {
		return ""
	}
	if s, ok := app.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", app)
}

func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
