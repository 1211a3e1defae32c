package main

import (
	"bytes"
	"testing"

	"github.com/microsoft/adbsmoke/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStatusIcon(t *testing.T) {
	require.Equal(t, "✓", statusIcon(models.StatusPass))
	require.Equal(t, "!", statusIcon(models.StatusWarn))
	require.Equal(t, "✗", statusIcon(models.StatusFail))
}

func TestPrintProgressIncludesErrorCode(t *testing.T) {
	var buf bytes.Buffer
	printProgress(&buf, models.CheckResult{
		Name:       "screenshot",
		Status:     models.StatusFail,
		DurationMs: 120,
		ErrorCode:  "screencap_failed",
	})
	require.Contains(t, buf.String(), "✗ screenshot")
	require.Contains(t, buf.String(), "[screencap_failed]")
}

func TestPrintReport(t *testing.T) {
	summary := models.NewSummary("emulator-5554", "./out", []models.CheckResult{
		{Name: "adb_version", Status: models.StatusPass, DurationMs: 12, Artifacts: []string{"adb_version.txt"}},
		{Name: "logcat_snapshot", Status: models.StatusWarn, DurationMs: 300, ErrorCode: "logcat_failed", Error: "exit status 1", Artifacts: []string{}},
	})

	var buf bytes.Buffer
	printReport(&buf, summary)
	out := buf.String()

	require.Contains(t, out, "SMOKE TEST RESULTS")
	require.Contains(t, out, "Device:   emulator-5554")
	require.Contains(t, out, "Overall:  PASS")
	require.Contains(t, out, "adb_version.txt")
	require.Contains(t, out, "[logcat_failed] exit status 1")
}

func TestPadRight(t *testing.T) {
	require.Equal(t, "ab   ", padRight("ab", 5))
	require.Equal(t, "abcdef", padRight("abcdef", 5))
}
