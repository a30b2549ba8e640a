package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, s *Session, nodeID, name string, matched bool) {
	t.Helper()
	c := Capture{Matched: matched}
	if !matched {
		c.Actual = "actual frame"
		c.Baseline = "baseline frame"
	}
	require.NoError(t, s.Record(nodeID, "menu_test.go", 42, name, c))
}

func TestFinalizeCountsPassesAndFails(t *testing.T) {
	s := New()
	record(t, s, "TestA", DefaultName, true)
	record(t, s, "TestB", DefaultName, false)
	record(t, s, "TestC", "header", true)
	record(t, s, "TestC", "footer", false)

	out, err := s.Finalize()
	require.NoError(t, err)

	assert.Equal(t, 2, out.Summary.Passes)
	assert.Equal(t, 2, out.Summary.Fails)
	assert.Equal(t, out.Summary.Passes+out.Summary.Fails, out.Summary.Total)
	assert.InDelta(t, 100.0, out.Summary.PassPercentage+out.Summary.FailPercentage, 1e-9)
	assert.Len(t, out.Diffs, 2)
}

func TestFinalizeEmptySessionGuardsDivision(t *testing.T) {
	out, err := New().Finalize()
	require.NoError(t, err)
	assert.Empty(t, out.Diffs)
	assert.Zero(t, out.Summary.Total)
	assert.Zero(t, out.Summary.PassPercentage)
	assert.Zero(t, out.Summary.FailPercentage)
}

func TestFinalizeOneDiffPerFailingCapture(t *testing.T) {
	s := New()
	record(t, s, "TestMenu", "header", false)
	record(t, s, "TestMenu", "body", true)
	record(t, s, "TestMenu", "footer", false)

	out, err := s.Finalize()
	require.NoError(t, err)
	require.Len(t, out.Diffs, 2)
	names := []string{out.Diffs[0].DisplayName, out.Diffs[1].DisplayName}
	assert.Equal(t, []string{"TestMenu : footer", "TestMenu : header"}, names)
}

func TestFinalizeDefaultNameHasNoSuffix(t *testing.T) {
	s := New()
	record(t, s, "TestMenu", DefaultName, false)

	out, err := s.Finalize()
	require.NoError(t, err)
	require.Len(t, out.Diffs, 1)
	assert.Equal(t, "TestMenu", out.Diffs[0].DisplayName)
}

func TestFinalizeSortsByDisplayName(t *testing.T) {
	s := New()
	record(t, s, "TestZebra", DefaultName, false)
	record(t, s, "TestAlpha", DefaultName, false)
	record(t, s, "TestMenu", "b", false)
	record(t, s, "TestMenu", "a", false)

	out, err := s.Finalize()
	require.NoError(t, err)
	var names []string
	for _, d := range out.Diffs {
		names = append(names, d.DisplayName)
	}
	assert.Equal(t, []string{
		"TestAlpha",
		"TestMenu : a",
		"TestMenu : b",
		"TestZebra",
	}, names)
}

func TestRecordOverwritesSameName(t *testing.T) {
	s := New()
	record(t, s, "TestMenu", DefaultName, false)
	record(t, s, "TestMenu", DefaultName, true)

	out, err := s.Finalize()
	require.NoError(t, err)
	assert.Empty(t, out.Diffs)
	assert.Equal(t, 1, out.Summary.Passes)
}

func TestRecordAfterFinalizeFails(t *testing.T) {
	s := New()
	_, err := s.Finalize()
	require.NoError(t, err)
	err = s.Record("TestLate", "menu_test.go", 1, DefaultName, Capture{Matched: true})
	assert.Error(t, err)
}

func TestFinalizeTwiceFails(t *testing.T) {
	s := New()
	_, err := s.Finalize()
	require.NoError(t, err)
	_, err = s.Finalize()
	assert.Error(t, err)
}

func TestFinalizeMarksActualFresh(t *testing.T) {
	s := New()
	// An already-normalized placeholder, as the comparator produces.
	actual := "class terminal-0123456789abcdef0123456789abcdef-0123456789abcdef0123456789abcdef end"
	require.NoError(t, s.Record("TestMenu", "menu_test.go", 7, DefaultName, Capture{
		Actual:   actual,
		Baseline: "old",
	}))

	out, err := s.Finalize()
	require.NoError(t, err)
	require.Len(t, out.Diffs, 1)
	assert.Contains(t, out.Diffs[0].Actual, "-new")
	assert.NotEqual(t, actual, out.Diffs[0].Actual)
}

func TestFinalizeSnapshotsEnvironment(t *testing.T) {
	t.Setenv("TUISNAP_TEST_MARKER", "present")
	s := New()
	record(t, s, "TestMenu", DefaultName, false)

	out, err := s.Finalize()
	require.NoError(t, err)
	require.Len(t, out.Diffs, 1)
	assert.Equal(t, "present", out.Diffs[0].Environment["TUISNAP_TEST_MARKER"])
}

func TestFinalizeRecordsCallSite(t *testing.T) {
	s := New()
	record(t, s, "TestMenu", DefaultName, false)

	out, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "menu_test.go", out.Diffs[0].Path)
	assert.Equal(t, 42, out.Diffs[0].Line)
}

func TestFinalizeBaselineMissingFlag(t *testing.T) {
	s := New()
	require.NoError(t, s.Record("TestNew", "menu_test.go", 3, DefaultName, Capture{
		Actual: "fresh",
	}))

	out, err := s.Finalize()
	require.NoError(t, err)
	require.Len(t, out.Diffs, 1)
	assert.True(t, out.Diffs[0].BaselineMissing)
}

func TestFinalizeTimestampIsUTC(t *testing.T) {
	s := New()
	before := time.Now().UTC()
	out, err := s.Finalize()
	require.NoError(t, err)
	assert.False(t, out.Summary.GeneratedAt.Before(before.Truncate(time.Second)))
	_, offset := out.Summary.GeneratedAt.Zone()
	assert.Zero(t, offset)
}
