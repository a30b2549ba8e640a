package logging

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/tuisnap/internal/config"
)

func TestSetDebugTogglesLevel(t *testing.T) {
	SetDebug(true)
	assert.Equal(t, logrus.DebugLevel, Logger().GetLevel())

	SetDebug(false)
	assert.Equal(t, logrus.WarnLevel, Logger().GetLevel())
}

func TestYAMLDebugRaisesLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUISNAP_DEBUG", "")
	t.Cleanup(func() { SetDebug(false) })
	require.NoError(t, os.WriteFile(config.FileName, []byte("debug: true\n"), 0o644))

	SetDebug(config.Load().Debug)
	assert.Equal(t, logrus.DebugLevel, Logger().GetLevel())
}
