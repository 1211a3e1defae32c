package orchestration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Step names, in declared execution order. The names are part of the
// summary.json contract.
const (
	StepADBVersion  = "adb_version"
	StepDeviceState = "device_state"
	StepDeviceInfo  = "device_info"
	StepScreenshot  = "screenshot"
	StepLogcat      = "logcat_snapshot"
	StepFileIO      = "file_io"
	StepUIAutoDump  = "uiauto_dump"
	StepAPKInstall  = "apk_install"
)

// Stable error codes. Transport failures (the adb subprocess exited
// non-zero) and empty-artifact detections (the subprocess succeeded but
// produced no usable payload) carry distinct codes: they surface the same
// way but point at different root causes.
const (
	CodeADBVersionFailed = "adb_version_failed"
	CodeGetStateFailed   = "get_state_failed"
	CodeGetPropFailed    = "getprop_failed"
	CodeScreencapFailed  = "screencap_failed"
	CodeScreenshotEmpty  = "screenshot_empty"
	CodeLogcatFailed     = "logcat_failed"
	CodeWorkspaceFailed  = "workspace_create_failed"
	CodePushFailed       = "push_failed"
	CodePullFailed       = "pull_failed"
	CodePulledEmpty      = "pulled_file_empty"
	CodePullMismatch     = "pulled_file_mismatch"
	CodeUIAutoFailed     = "uiauto_dump_failed"
	CodeUIAutoEmpty      = "window_dump_empty"
	CodeInstallFailed    = "apk_install_failed"
	CodeArtifactWrite    = "artifact_write_failed"
)

// Defaults applied by Options.applyDefaults.
const (
	DefaultStepTimeout = 30 * time.Second
	DefaultLogcatLines = 500
)

// Options selects which conditional steps run and how each adb invocation
// is bounded.
type Options struct {
	OutDir      string
	WithFiles   bool
	WithUIAuto  bool
	APKPath     string
	StepTimeout time.Duration
	LogcatLines int
}

func (o *Options) applyDefaults() {
	if o.StepTimeout <= 0 {
		o.StepTimeout = DefaultStepTimeout
	}
	if o.LogcatLines <= 0 {
		o.LogcatLines = DefaultLogcatLines
	}
}

// Validate checks the whole requested step graph once, up front. Invalid
// combinations are usage errors rejected before any device interaction.
func (o Options) Validate() error {
	if o.WithUIAuto && !o.WithFiles {
		return errors.New("--with-uiauto requires --with-files")
	}
	if o.APKPath != "" {
		if _, err := os.Stat(o.APKPath); err != nil {
			return fmt.Errorf("apk file %s: %w", o.APKPath, err)
		}
	}
	return nil
}

// step describes one check in the fixed sequence.
type step struct {
	name string
	// enabled steps run; disabled steps are neither attempted nor recorded.
	enabled bool
	// bestEffort steps record warn instead of fail and never flip the
	// run's overall status. Only logcat_snapshot is best-effort.
	bestEffort bool
	// needsWorkspace steps are skipped without a record when the remote
	// workspace was never created.
	needsWorkspace bool
	run            func(ctx context.Context, rc *runContext) (artifacts []string, code string, err error)
}

// steps returns the declared sequence for the runner's options. The order
// here is the execution order and the report order.
func (r *Runner) steps() []step {
	return []step{
		{name: StepADBVersion, enabled: true, run: r.adbVersion},
		{name: StepDeviceState, enabled: true, run: r.deviceState},
		{name: StepDeviceInfo, enabled: true, run: r.deviceInfo},
		{name: StepScreenshot, enabled: true, run: r.screenshot},
		{name: StepLogcat, enabled: true, bestEffort: true, run: r.logcatSnapshot},
		{name: StepFileIO, enabled: r.opts.WithFiles, run: r.fileIO},
		{name: StepUIAutoDump, enabled: r.opts.WithFiles && r.opts.WithUIAuto, needsWorkspace: true, run: r.uiautoDump},
		{name: StepAPKInstall, enabled: r.opts.APKPath != "", run: r.apkInstall},
	}
}
