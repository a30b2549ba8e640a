// Package capture produces textual screenshots of terminal applications.
// It drives bubbletea models in-process without a terminal, and can also
// screen-scrape the final frame of an external TUI binary. Frames are
// plain text, normalized to a fixed geometry, which makes them diffable
// and storable as golden files.
package capture

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/tuisnap/internal/logging"
)

// msgBudget bounds how many messages a single Send may cascade into.
// Commands that reschedule themselves (ticks, blinks) would otherwise
// pump forever.
const msgBudget = 256

// pumpDeadline bounds the wall-clock time spent executing commands per
// Send, since a command may sleep before producing its message.
const pumpDeadline = 500 * time.Millisecond

// Driver runs a bubbletea model headlessly. It delivers the same
// messages a live program would see (initial command, window size, key
// presses) and renders frames on demand.
type Driver struct {
	model  tea.Model
	width  int
	height int
	done   bool
}

// NewDriver initializes the model at the given terminal geometry. The
// model's Init command runs first, then a WindowSizeMsg, mirroring the
// startup sequence of a real bubbletea program.
func NewDriver(model tea.Model, width, height int) *Driver {
	d := &Driver{model: model, width: width, height: height}
	d.dispatch(nil, model.Init())
	d.Send(tea.WindowSizeMsg{Width: width, Height: height})
	return d
}

// Model returns the model in its current state.
func (d *Driver) Model() tea.Model { return d.model }

// Done reports whether the model has quit. A done driver ignores
// further input; its View still renders the final frame.
func (d *Driver) Done() bool { return d.done }

// Send delivers one message to the model and runs any commands it
// schedules, within the pump budget.
func (d *Driver) Send(msg tea.Msg) {
	if d.done {
		return
	}
	d.dispatch(msg, nil)
}

// Press delivers a sequence of key tokens to the model. The pause token
// sleeps briefly without sending a key. Unknown tokens are an error;
// nothing before them is rolled back.
func (d *Driver) Press(tokens ...string) error {
	for _, token := range tokens {
		if token == PauseToken {
			time.Sleep(pauseInterval)
			continue
		}
		key, err := KeyFor(token)
		if err != nil {
			return err
		}
		d.Send(key)
	}
	return nil
}

// View renders the model's current frame, fit to the driver geometry.
func (d *Driver) View() string {
	return Fit(d.model.View(), d.width, d.height)
}

// dispatch feeds one message (or one initial command) through the model
// and drains the resulting command cascade breadth-first.
func (d *Driver) dispatch(msg tea.Msg, cmd tea.Cmd) {
	var queue []tea.Msg
	if msg != nil {
		queue = append(queue, msg)
	}
	if m := runCmd(cmd); m != nil {
		queue = append(queue, m)
	}

	deadline := time.Now().Add(pumpDeadline)
	steps := 0
	for len(queue) > 0 && !d.done {
		if steps++; steps > msgBudget || time.Now().After(deadline) {
			logging.Logger().WithField("steps", steps).
				Debug("capture: message pump budget exhausted")
			return
		}
		m := queue[0]
		queue = queue[1:]

		switch m := m.(type) {
		case tea.QuitMsg:
			d.done = true
			continue
		case tea.BatchMsg:
			for _, c := range m {
				if next := runCmd(c); next != nil {
					queue = append(queue, next)
				}
			}
			continue
		}

		var next tea.Cmd
		d.model, next = d.model.Update(m)
		if nm := runCmd(next); nm != nil {
			queue = append(queue, nm)
		}
	}
}

func runCmd(c tea.Cmd) tea.Msg {
	if c == nil {
		return nil
	}
	return c()
}
