// Package orchestration executes the declared check sequence against one
// resolved device, timing and classifying each step and accumulating the
// ordered results.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/microsoft/adbsmoke/internal/adb"
	"github.com/microsoft/adbsmoke/internal/models"
	"github.com/microsoft/adbsmoke/internal/workspace"
)

// Runner drives one run against one device. Execution is strictly
// sequential: several steps have data dependencies on earlier ones, and
// the report's section order depends on deterministic execution order.
type Runner struct {
	client  *adb.Client
	opts    Options
	now     func() time.Time
	onCheck func(models.CheckResult)
}

// runContext is the mutable state threaded through the steps: the ordered
// check list and the remote workspace, if one was created.
type runContext struct {
	checks []models.CheckResult
	ws     *workspace.Workspace
}

// NewRunner creates a runner for a client already bound to a device serial.
func NewRunner(client *adb.Client, opts Options) *Runner {
	opts.applyDefaults()
	return &Runner{client: client, opts: opts, now: time.Now}
}

// OnCheck registers a listener invoked after each recorded check, in
// execution order. Used for progress output in human mode.
func (r *Runner) OnCheck(fn func(models.CheckResult)) {
	r.onCheck = fn
}

// Run executes the sequence and returns the ordered check records. The
// runner never stops early on a step failure; a step whose precondition
// was never satisfied is not attempted and produces no record. The remote
// workspace, if one was created, is released on every exit path.
func (r *Runner) Run(ctx context.Context) []models.CheckResult {
	rc := &runContext{}
	defer func() {
		// Cleanup must run even when the run context is done; it gets its
		// own deadline derived from the per-step timeout.
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.StepTimeout)
		defer cancel()
		rc.ws.Release(cleanupCtx)
	}()

	for _, st := range r.steps() {
		if !st.enabled {
			continue
		}
		if st.needsWorkspace && rc.ws == nil {
			slog.Debug("skipping step, workspace unavailable", "step", st.name)
			continue
		}
		rc.checks = append(rc.checks, r.runStep(ctx, st, rc))
	}
	return rc.checks
}

func (r *Runner) runStep(ctx context.Context, st step, rc *runContext) models.CheckResult {
	stepCtx, cancel := context.WithTimeout(ctx, r.opts.StepTimeout)
	defer cancel()

	start := r.now()
	artifacts, code, err := st.run(stepCtx, rc)
	if artifacts == nil {
		artifacts = []string{}
	}

	result := models.CheckResult{
		Name:       st.name,
		Status:     models.StatusPass,
		DurationMs: time.Since(start).Milliseconds(),
		Artifacts:  artifacts,
	}
	if err != nil {
		result.Status = models.StatusFail
		if st.bestEffort {
			result.Status = models.StatusWarn
		}
		result.ErrorCode = code
		result.Error = err.Error()
		slog.Debug("step did not pass", "step", st.name, "code", code, "error", err)
	}

	if r.onCheck != nil {
		r.onCheck(result)
	}
	return result
}

// writeArtifact persists step output under the run's output directory and
// returns the artifact path.
func (r *Runner) writeArtifact(name string, data []byte) (string, error) {
	path := filepath.Join(r.opts.OutDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

func (r *Runner) adbVersion(ctx context.Context, _ *runContext) ([]string, string, error) {
	out, err := r.client.Version(ctx)
	if err != nil {
		return nil, CodeADBVersionFailed, err
	}
	path, err := r.writeArtifact("adb_version.txt", out)
	if err != nil {
		return nil, CodeArtifactWrite, err
	}
	return []string{path}, "", nil
}

func (r *Runner) deviceState(ctx context.Context, _ *runContext) ([]string, string, error) {
	out, err := r.client.State(ctx)
	if err != nil {
		return nil, CodeGetStateFailed, err
	}
	path, err := r.writeArtifact("device_state.txt", out)
	if err != nil {
		return nil, CodeArtifactWrite, err
	}
	return []string{path}, "", nil
}

func (r *Runner) deviceInfo(ctx context.Context, _ *runContext) ([]string, string, error) {
	out, err := r.client.GetProp(ctx)
	if err != nil {
		return nil, CodeGetPropFailed, err
	}
	path, err := r.writeArtifact("device_info.txt", out)
	if err != nil {
		return nil, CodeArtifactWrite, err
	}
	return []string{path}, "", nil
}

func (r *Runner) screenshot(ctx context.Context, _ *runContext) ([]string, string, error) {
	out, err := r.client.Screencap(ctx)
	if err != nil {
		return nil, CodeScreencapFailed, err
	}
	path, err := r.writeArtifact("screenshot.png", out)
	if err != nil {
		return nil, CodeArtifactWrite, err
	}
	if len(out) == 0 {
		return []string{path}, CodeScreenshotEmpty, errors.New("screenshot is zero bytes")
	}
	return []string{path}, "", nil
}

func (r *Runner) logcatSnapshot(ctx context.Context, _ *runContext) ([]string, string, error) {
	out, err := r.client.Logcat(ctx, r.opts.LogcatLines)
	if err != nil {
		return nil, CodeLogcatFailed, err
	}
	path, err := r.writeArtifact("logcat.txt", out)
	if err != nil {
		return nil, CodeArtifactWrite, err
	}
	return []string{path}, "", nil
}

// fileIO creates the remote workspace, pushes a payload file, pulls it back
// and verifies the round trip. Workspace creation happens here, not in a
// step of its own, so a creation failure is recorded on this check while
// later workspace-dependent steps are simply not attempted.
func (r *Runner) fileIO(ctx context.Context, rc *runContext) ([]string, string, error) {
	ws, err := workspace.Create(ctx, r.client, r.now())
	if err != nil {
		return nil, CodeWorkspaceFailed, err
	}
	rc.ws = ws

	payload := fmt.Sprintf("adbsmoke file round-trip %s\n", r.now().UTC().Format(time.RFC3339))
	pushPath, err := r.writeArtifact("push.txt", []byte(payload))
	if err != nil {
		return nil, CodeArtifactWrite, err
	}
	artifacts := []string{pushPath}

	remote := ws.Join("push.txt")
	if err := r.client.Push(ctx, pushPath, remote); err != nil {
		return artifacts, CodePushFailed, err
	}

	pulledPath := filepath.Join(r.opts.OutDir, "pulled.txt")
	if err := r.client.Pull(ctx, remote, pulledPath); err != nil {
		return artifacts, CodePullFailed, err
	}
	artifacts = append(artifacts, pulledPath)

	pulled, err := os.ReadFile(pulledPath)
	if err != nil || len(pulled) == 0 {
		return artifacts, CodePulledEmpty, errors.New("pulled file is empty")
	}
	if string(pulled) != payload {
		return artifacts, CodePullMismatch, errors.New("pulled file does not match pushed content")
	}
	return artifacts, "", nil
}

func (r *Runner) uiautoDump(ctx context.Context, rc *runContext) ([]string, string, error) {
	remote := rc.ws.Join("window_dump.xml")
	if _, err := r.client.UIAutomatorDump(ctx, remote); err != nil {
		return nil, CodeUIAutoFailed, err
	}

	local := filepath.Join(r.opts.OutDir, "window_dump.xml")
	if err := r.client.Pull(ctx, remote, local); err != nil {
		return nil, CodeUIAutoFailed, err
	}

	dump, err := os.ReadFile(local)
	if err != nil || len(dump) == 0 {
		return []string{local}, CodeUIAutoEmpty, errors.New("UI hierarchy dump is empty")
	}
	return []string{local}, "", nil
}

func (r *Runner) apkInstall(ctx context.Context, _ *runContext) ([]string, string, error) {
	out, installErr := r.client.Install(ctx, r.opts.APKPath)

	// The install transcript is written even on failure; adb prints the
	// rejection reason to stdout.
	path, err := r.writeArtifact("apk_install.txt", out)
	if err != nil {
		return nil, CodeArtifactWrite, err
	}
	if installErr != nil {
		return []string{path}, CodeInstallFailed, installErr
	}
	return []string{path}, "", nil
}
