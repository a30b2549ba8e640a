package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/tuisnap/internal/golden"
)

func seedBaseline(t *testing.T, dir, key, frame string) string {
	t.Helper()
	store := golden.NewStore(dir)
	require.NoError(t, store.Write(key, frame))
	return store.Path(key)
}

func TestRunNoArgsShowsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"frobnicate"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"help"}, &stdout, &stderr)
	assert.Zero(t, code)
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestLsListsBaselines(t *testing.T) {
	dir := t.TempDir()
	seedBaseline(t, dir, "TestMenu", "line one\nline two\n")
	seedBaseline(t, dir, "TestMenu.footer", "footer\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"ls", dir}, &stdout, &stderr)
	assert.Zero(t, code)
	assert.Contains(t, stdout.String(), "TestMenu"+golden.Ext)
	assert.Contains(t, stdout.String(), "TestMenu.footer"+golden.Ext)
	assert.Contains(t, stdout.String(), "(2x8)")
}

func TestLsIgnoresFilesOutsideSnapshotDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray"+golden.Ext), []byte("x"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"ls", dir}, &stdout, &stderr)
	assert.Zero(t, code)
	assert.NotContains(t, stdout.String(), "stray")
	assert.Contains(t, stderr.String(), "no baselines")
}

func TestViewRendersFrame(t *testing.T) {
	dir := t.TempDir()
	path := seedBaseline(t, dir, "TestMenu", "menu body\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"view", path}, &stdout, &stderr)
	assert.Zero(t, code)
	assert.Contains(t, stdout.String(), "menu body")
}

func TestViewMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"view", filepath.Join(t.TempDir(), "nope.golden")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr.String())
}

func TestViewWrongArgCount(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"view"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
}
