// Package models defines the result types shared by the harness, the
// summary builder, and the reporting layer.
package models

import (
	"encoding/json"
	"path/filepath"
)

// ToolName identifies this harness in the summary document.
const ToolName = "adbsmoke"

// Status is the outcome classification of a check or of a whole run.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	// StatusWarn marks a best-effort check that did not succeed but must
	// not flip the run's overall status.
	StatusWarn Status = "warn"
)

// Core artifact keys. These five artifacts are produced on every run and
// appear under fixed keys in the summary's artifact map.
const (
	ArtifactADBVersion  = "adb_version"
	ArtifactDeviceState = "device_state"
	ArtifactDeviceInfo  = "device_info"
	ArtifactScreenshot  = "screenshot"
	ArtifactLogcat      = "logcat"
)

// coreArtifactFiles maps each core artifact key to its fixed file name
// inside the output directory.
var coreArtifactFiles = map[string]string{
	ArtifactADBVersion:  "adb_version.txt",
	ArtifactDeviceState: "device_state.txt",
	ArtifactDeviceInfo:  "device_info.txt",
	ArtifactScreenshot:  "screenshot.png",
	ArtifactLogcat:      "logcat.txt",
}

// CheckResult is the immutable record of one attempted check. Exactly one
// is appended, in execution order, per step that actually ran.
type CheckResult struct {
	Name       string   `json:"name"`
	Status     Status   `json:"status"`
	DurationMs int64    `json:"duration_ms"`
	Artifacts  []string `json:"artifacts"`
	// ErrorCode is a stable short code for failed or warned checks so
	// downstream automation can branch without string matching.
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Summary is the run-scoped aggregation of all check results plus the
// derived overall status. Built once after the runner finishes.
type Summary struct {
	Tool      string            `json:"tool"`
	Status    Status            `json:"status"`
	Serial    string            `json:"serial"`
	OutDir    string            `json:"out_dir"`
	Artifacts map[string]string `json:"artifacts"`
	Checks    []CheckResult     `json:"checks"`
}

// NewSummary builds the summary for a finished run. Overall status is fail
// iff at least one check failed; warns alone leave the run passing.
func NewSummary(serial, outDir string, checks []CheckResult) *Summary {
	status := StatusPass
	for _, c := range checks {
		if c.Status == StatusFail {
			status = StatusFail
			break
		}
	}

	artifacts := make(map[string]string, len(coreArtifactFiles))
	for key, file := range coreArtifactFiles {
		artifacts[key] = filepath.Join(outDir, file)
	}

	return &Summary{
		Tool:      ToolName,
		Status:    status,
		Serial:    serial,
		OutDir:    outDir,
		Artifacts: artifacts,
		Checks:    checks,
	}
}

// Encode renders the canonical JSON document. The same byte slice is both
// persisted and echoed in machine mode, which is what guarantees the two
// outputs are byte-identical.
func (s *Summary) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
