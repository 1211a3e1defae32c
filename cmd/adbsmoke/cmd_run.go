package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/microsoft/adbsmoke/internal/adb"
	"github.com/microsoft/adbsmoke/internal/config"
	"github.com/microsoft/adbsmoke/internal/device"
	"github.com/microsoft/adbsmoke/internal/models"
	"github.com/microsoft/adbsmoke/internal/orchestration"
	"github.com/microsoft/adbsmoke/internal/reporting"
	"github.com/spf13/cobra"
)

// DefaultOutDir holds the run artifacts unless --out or the config file
// says otherwise.
const DefaultOutDir = "./adbsmoke-out"

// runFlags carries the CLI surface of `adbsmoke run`.
type runFlags struct {
	serial      string
	outDir      string
	withFiles   bool
	withUIAuto  bool
	apkPath     string
	jsonOut     bool
	summaryFile string
	timeout     time.Duration
	junitPath   string
	bundlePath  string
	configPath  string
}

func newRunCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the smoke-test sequence against one connected device",
		Long: `Run the smoke-test sequence against exactly one connected device.

The unconditional checks always run, in order: adb_version, device_state,
device_info, screenshot, logcat_snapshot. --with-files adds a file
round-trip through a transient on-device workspace, --with-uiauto adds a
UI hierarchy dump (requires --with-files), and --apk installs the given
package as the final check.

The exit code is 0 when every check passed, 1 when any check failed (the
summary is still written), and 2 for usage errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(cmd.Context(), flags, os.Stdout, nil)
		},
	}

	cmd.Flags().StringVar(&flags.serial, "serial", "", "Device serial (default: $"+device.SerialEnvVar+", then auto-detect)")
	cmd.Flags().StringVar(&flags.outDir, "out", "", "Artifact output directory (default: "+DefaultOutDir+")")
	cmd.Flags().BoolVar(&flags.withFiles, "with-files", false, "Run the file round-trip check")
	cmd.Flags().BoolVar(&flags.withUIAuto, "with-uiauto", false, "Run the UI hierarchy dump check (requires --with-files)")
	cmd.Flags().StringVar(&flags.apkPath, "apk", "", "Install this APK as the final check")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Echo the summary JSON to stdout instead of the human report")
	cmd.Flags().StringVar(&flags.summaryFile, "summary-file", "", "Summary path (default: <out>/summary.json)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Per-step adb timeout (default: 30s)")
	cmd.Flags().StringVar(&flags.junitPath, "junit", "", "Also write a JUnit XML report to this path")
	cmd.Flags().StringVar(&flags.bundlePath, "bundle", "", "Archive the artifact directory to this .tar.zst path")
	cmd.Flags().StringVar(&flags.configPath, "config", config.DefaultFileName, "Config file with harness defaults")

	return cmd
}

// runSmoke is the whole harness: resolve the device, run the sequence,
// write the summary, render the requested outputs. A nil runner means the
// real adb binary. Usage errors return before any summary is written.
func runSmoke(ctx context.Context, flags runFlags, stdout io.Writer, runner adb.CommandRunner) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	opts, adbPath, err := mergeOptions(flags, cfg)
	if err != nil {
		return err
	}

	// The whole requested step graph is validated before any device
	// interaction.
	if err := opts.Validate(); err != nil {
		return err
	}

	if runner == nil {
		runner = &adb.ExecRunner{Path: adbPath}
	}
	client := adb.NewClient(runner)

	serial, err := device.Resolve(ctx, client, flags.serial)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	smokeRunner := orchestration.NewRunner(client.WithSerial(serial), opts)
	if !flags.jsonOut {
		fmt.Fprintf(stdout, "Running smoke test on %s\n\n", serial)
		smokeRunner.OnCheck(func(c models.CheckResult) { printProgress(stdout, c) })
	}

	startedAt := time.Now()
	checks := smokeRunner.Run(ctx)
	summary := models.NewSummary(serial, opts.OutDir, checks)

	data, err := summary.Encode()
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	summaryPath := flags.summaryFile
	if summaryPath == "" {
		summaryPath = filepath.Join(opts.OutDir, "summary.json")
	}
	if err := os.WriteFile(summaryPath, data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if flags.jsonOut {
		// The same bytes that were persisted, so file and stdout are
		// byte-identical.
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else {
		printReport(stdout, summary)
		fmt.Fprintf(stdout, "Summary saved to: %s\n", summaryPath)
	}

	if flags.junitPath != "" {
		if err := reporting.WriteJUnitXML(summary, startedAt, flags.junitPath); err != nil {
			return err
		}
	}
	if flags.bundlePath != "" {
		if err := reporting.WriteBundle(opts.OutDir, flags.bundlePath); err != nil {
			return err
		}
	}

	if summary.Status == models.StatusFail {
		return &CheckFailureError{Message: fmt.Sprintf("smoke test failed on %s", serial)}
	}
	return nil
}

// mergeOptions applies precedence: CLI flags over config file over
// built-in defaults.
func mergeOptions(flags runFlags, cfg config.Config) (orchestration.Options, string, error) {
	opts := orchestration.Options{
		OutDir:      flags.outDir,
		WithFiles:   flags.withFiles,
		WithUIAuto:  flags.withUIAuto,
		APKPath:     flags.apkPath,
		StepTimeout: flags.timeout,
	}
	if opts.OutDir == "" {
		opts.OutDir = cfg.OutDir
	}
	if opts.OutDir == "" {
		opts.OutDir = DefaultOutDir
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = time.Duration(cfg.StepTimeout)
	}

	var logcat config.LogcatSettings
	if err := cfg.StepSettings(orchestration.StepLogcat, &logcat); err != nil {
		return opts, "", err
	}
	opts.LogcatLines = logcat.Lines

	return opts, cfg.ADBPath, nil
}
