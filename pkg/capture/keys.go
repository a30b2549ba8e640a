package capture

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PauseToken is the press token that inserts a short pause instead of a
// key. It matches no key on any keyboard.
const PauseToken = "_"

// pauseInterval is how long PauseToken waits before the next input.
const pauseInterval = 50 * time.Millisecond

// namedKeys maps press tokens to bubbletea key types for the in-process
// driver. Tokens not listed here must be single runes.
var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"esc":       tea.KeyEsc,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+d":    tea.KeyCtrlD,
	"ctrl+u":    tea.KeyCtrlU,
	"ctrl+w":    tea.KeyCtrlW,
}

// keyBytes maps press tokens to the raw terminal input sequence used
// when driving an external program over stdin.
var keyBytes = map[string]string{
	"enter":     "\r",
	"tab":       "\t",
	"shift+tab": "\x1b[Z",
	"esc":       "\x1b",
	"up":        "\x1b[A",
	"down":      "\x1b[B",
	"right":     "\x1b[C",
	"left":      "\x1b[D",
	"home":      "\x1b[H",
	"end":       "\x1b[F",
	"pgup":      "\x1b[5~",
	"pgdown":    "\x1b[6~",
	"backspace": "\x7f",
	"delete":    "\x1b[3~",
	"ctrl+c":    "\x03",
	"ctrl+d":    "\x04",
	"ctrl+u":    "\x15",
	"ctrl+w":    "\x17",
	"space":     " ",
}

// KeyFor translates a press token into the key message the in-process
// driver delivers to the model.
func KeyFor(token string) (tea.KeyMsg, error) {
	if token == "space" {
		return tea.KeyMsg(tea.Key{Type: tea.KeySpace, Runes: []rune{' '}}), nil
	}
	if kt, ok := namedKeys[token]; ok {
		return tea.KeyMsg(tea.Key{Type: kt}), nil
	}
	runes := []rune(token)
	if len(runes) == 1 {
		return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: runes}), nil
	}
	return tea.KeyMsg{}, fmt.Errorf("unknown key token %q", token)
}

// writeKeys streams press tokens to an external program's stdin,
// sleeping on PauseToken.
func writeKeys(w io.Writer, press []string) error {
	for _, token := range press {
		if token == PauseToken {
			time.Sleep(pauseInterval)
			continue
		}
		seq, ok := keyBytes[token]
		if !ok {
			runes := []rune(token)
			if len(runes) != 1 {
				return fmt.Errorf("unknown key token %q", token)
			}
			seq = token
		}
		if _, err := io.WriteString(w, seq); err != nil {
			return fmt.Errorf("sending key %q: %w", token, err)
		}
	}
	return nil
}
