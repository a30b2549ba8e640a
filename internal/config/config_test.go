package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUISNAP_REPORT", "")
	t.Setenv("TUISNAP_DEBUG", "")

	cfg := Load()
	assert.Equal(t, DefaultReportPath, cfg.ReportPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFromYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUISNAP_REPORT", "")
	t.Setenv("TUISNAP_DEBUG", "")
	require.NoError(t, os.WriteFile(FileName,
		[]byte("report_path: out/report.html\ndebug: true\n"), 0o644))

	cfg := Load()
	assert.Equal(t, "out/report.html", cfg.ReportPath)
	assert.True(t, cfg.Debug)
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(FileName,
		[]byte("report_path: from_yaml.html\n"), 0o644))
	t.Setenv("TUISNAP_REPORT", "from_env.html")

	cfg := Load()
	assert.Equal(t, "from_env.html", cfg.ReportPath)
}

func TestMalformedYAMLFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUISNAP_REPORT", "")
	require.NoError(t, os.WriteFile(FileName, []byte("{not yaml"), 0o644))

	cfg := Load()
	assert.Equal(t, DefaultReportPath, cfg.ReportPath)
}

func TestDebugEnvNonBooleanStillEnables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUISNAP_DEBUG", "yes-please")

	cfg := Load()
	assert.True(t, cfg.Debug)
}
