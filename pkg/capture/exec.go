package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/dkoosis/tuisnap/internal/logging"
)

// DefaultWidth and DefaultHeight are the terminal geometry used when a
// capture does not specify one.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// defaultProgramTimeout bounds how long an external program may run
// before the capture gives up.
const defaultProgramTimeout = 5 * time.Second

// ProgramOptions configures an external-program capture.
type ProgramOptions struct {
	Press   []string      // key tokens streamed to stdin
	Width   int           // terminal columns, DefaultWidth when zero
	Height  int           // terminal rows, DefaultHeight when zero
	Timeout time.Duration // whole-capture bound, 5s when zero
}

// Program runs a built terminal application at path, streams the key
// tokens to its stdin, waits for it to exit, and returns its final frame
// fit to the requested geometry. The program learns its geometry from
// COLUMNS/LINES, which bubbletea honors when no tty is attached.
//
// Any startup or execution failure is returned as an error; the caller
// treats it as fatal to the owning test, not as a mismatch.
func Program(ctx context.Context, path string, opts ProgramOptions) (string, error) {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultProgramTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("COLUMNS=%d", width),
		fmt.Sprintf("LINES=%d", height),
		"TERM=xterm-256color",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("opening stdin for %s: %w", path, err)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logging.Logger().WithField("path", path).Debug("capture: starting program")
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting %s: %w", path, err)
	}
	keyErr := writeKeys(stdin, opts.Press)
	closeErr := stdin.Close()
	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("running %s: %w", path, err)
	}
	if keyErr != nil {
		return "", keyErr
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing stdin for %s: %w", path, closeErr)
	}
	return Fit(ExtractFrame(out.String()), width, height), nil
}
