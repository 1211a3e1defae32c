package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSummaryStatusDerivation(t *testing.T) {
	tests := []struct {
		name   string
		checks []CheckResult
		want   Status
	}{
		{
			name:   "no checks",
			checks: nil,
			want:   StatusPass,
		},
		{
			name: "all pass",
			checks: []CheckResult{
				{Name: "adb_version", Status: StatusPass},
				{Name: "device_state", Status: StatusPass},
			},
			want: StatusPass,
		},
		{
			name: "warn does not flip overall status",
			checks: []CheckResult{
				{Name: "adb_version", Status: StatusPass},
				{Name: "logcat_snapshot", Status: StatusWarn, ErrorCode: "logcat_failed"},
			},
			want: StatusPass,
		},
		{
			name: "single fail flips overall status",
			checks: []CheckResult{
				{Name: "adb_version", Status: StatusPass},
				{Name: "screenshot", Status: StatusFail, ErrorCode: "screenshot_empty"},
				{Name: "logcat_snapshot", Status: StatusPass},
			},
			want: StatusFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummary("emulator-5554", "out", tt.checks)
			require.Equal(t, tt.want, s.Status)
			require.Equal(t, ToolName, s.Tool)
			require.Len(t, s.Checks, len(tt.checks))
		})
	}
}

func TestNewSummaryCoreArtifactMap(t *testing.T) {
	s := NewSummary("emulator-5554", "out", nil)

	require.Len(t, s.Artifacts, 5)
	require.Equal(t, "out/adb_version.txt", s.Artifacts[ArtifactADBVersion])
	require.Equal(t, "out/device_state.txt", s.Artifacts[ArtifactDeviceState])
	require.Equal(t, "out/device_info.txt", s.Artifacts[ArtifactDeviceInfo])
	require.Equal(t, "out/screenshot.png", s.Artifacts[ArtifactScreenshot])
	require.Equal(t, "out/logcat.txt", s.Artifacts[ArtifactLogcat])
}

func TestSummaryEncodeIsDeterministic(t *testing.T) {
	checks := []CheckResult{
		{Name: "adb_version", Status: StatusPass, DurationMs: 12, Artifacts: []string{"out/adb_version.txt"}},
		{Name: "screenshot", Status: StatusFail, DurationMs: 201, ErrorCode: "screencap_failed", Error: "exit status 1"},
	}
	s := NewSummary("emulator-5554", "out", checks)

	first, err := s.Encode()
	require.NoError(t, err)
	second, err := s.Encode()
	require.NoError(t, err)
	require.Equal(t, first, second)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first, &decoded))
	require.Equal(t, "adbsmoke", decoded["tool"])
	require.Equal(t, "fail", decoded["status"])
}

func TestCheckResultOmitsEmptyErrorFields(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "device_state", Status: StatusPass, Artifacts: []string{}})
	require.NoError(t, err)
	require.NotContains(t, string(data), "error_code")
	require.NotContains(t, string(data), `"error"`)
}
