// Package logging provides the harness's diagnostic logger. A snapshot
// harness runs inside other people's test output, so the logger stays
// silent unless TUISNAP_DEBUG is set.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// Logger returns the process-wide harness logger. The initial level
// comes from the TUISNAP_DEBUG environment variable so that captures
// taken before configuration is resolved still log; SetDebug applies
// the resolved configuration at session end.
func Logger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		if os.Getenv("TUISNAP_DEBUG") != "" {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}
	})
	return logger
}

// SetDebug applies the resolved debug toggle to the harness logger.
func SetDebug(on bool) {
	level := logrus.WarnLevel
	if on {
		level = logrus.DebugLevel
	}
	Logger().SetLevel(level)
}
