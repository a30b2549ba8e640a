// Package termid rewrites terminal session identifiers embedded in
// captured frames. Terminal emulators (and bubbletea's renderer in some
// configurations) stamp output with a session-scoped id such as
// "terminal-42"; the number changes between runs, so a baseline captured
// yesterday would never match a frame captured today. Before comparison,
// every session id is replaced with a placeholder derived only from the
// test identifier and the capture name, which is stable across runs.
package termid

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
)

var (
	sessionRe     = regexp.MustCompile(`terminal-\d+`)
	placeholderRe = regexp.MustCompile(`terminal-[0-9a-f]+-[0-9a-f]+`)
)

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Placeholder returns the stable session id used in place of whatever id
// the terminal happened to assign. Two captures of the same (test, name)
// pair always produce the same placeholder.
func Placeholder(testID, name string) string {
	return "terminal-" + digest(testID) + "-" + digest(name)
}

// Normalize replaces every terminal session id in frame with the stable
// placeholder for the (testID, name) pair.
func Normalize(frame, testID, name string) string {
	return sessionRe.ReplaceAllString(frame, Placeholder(testID, name))
}

// MarkFresh appends a "-new" suffix to every placeholder in frame. The
// report embeds both the stored baseline and the fresh capture; without
// the suffix the two would carry identical ids and collide visually.
func MarkFresh(frame string) string {
	return placeholderRe.ReplaceAllStringFunc(frame, func(m string) string {
		return m + "-new"
	})
}
