package reporting

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/microsoft/adbsmoke/internal/models"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *models.Summary {
	return models.NewSummary("emulator-5554", "out", []models.CheckResult{
		{Name: "adb_version", Status: models.StatusPass, DurationMs: 120, Artifacts: []string{"out/adb_version.txt"}},
		{Name: "screenshot", Status: models.StatusFail, DurationMs: 300, Artifacts: []string{"out/screenshot.png"},
			ErrorCode: "screenshot_empty", Error: "screenshot is zero bytes"},
		{Name: "logcat_snapshot", Status: models.StatusWarn, DurationMs: 80, Artifacts: []string{},
			ErrorCode: "logcat_failed", Error: "logcat unavailable"},
	})
}

func TestConvertToJUnit(t *testing.T) {
	started := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	suites := ConvertToJUnit(sampleSummary(), started)

	require.Equal(t, 3, suites.Tests)
	require.Equal(t, 1, suites.Failures)
	require.InDelta(t, 0.5, suites.Time, 0.0001)

	require.Len(t, suites.TestSuites, 1)
	suite := suites.TestSuites[0]
	require.Equal(t, "adbsmoke", suite.Name)
	require.Equal(t, "2026-08-27T09:00:00Z", suite.Timestamp)
	require.Len(t, suite.TestCases, 3)

	require.Nil(t, suite.TestCases[0].Failure)

	failed := suite.TestCases[1]
	require.Equal(t, "screenshot", failed.Name)
	require.Equal(t, "emulator-5554", failed.Classname)
	require.NotNil(t, failed.Failure)
	require.Equal(t, "screenshot_empty", failed.Failure.Type)
	require.Contains(t, failed.Failure.Body, "zero bytes")

	require.Nil(t, suite.TestCases[2].Failure, "warn checks are reported as passing")
}

func TestWriteJUnitXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junit.xml")
	require.NoError(t, WriteJUnitXML(sampleSummary(), time.Now(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), xml.Header))

	var decoded JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &decoded))
	require.Equal(t, 3, decoded.Tests)
	require.Equal(t, 1, decoded.Failures)
}
