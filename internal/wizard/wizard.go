// Package wizard collects harness defaults interactively and turns them
// into an .adbsmoke.yaml config file.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/microsoft/adbsmoke/internal/config"
	"golang.org/x/term"
)

// RunConfigWizard runs an interactive huh form and returns the resulting
// config. Existing values in base pre-populate the form.
func RunConfigWizard(in io.Reader, out io.Writer, base config.Config) (*config.Config, error) {
	var (
		adbPath    = base.ADBPath
		outDir     = base.OutDir
		timeoutRaw string
		linesRaw   string
	)
	if base.StepTimeout != 0 {
		timeoutRaw = time.Duration(base.StepTimeout).String()
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("adb binary").
				Description("Path to the adb executable (empty means resolve from PATH)").
				Placeholder("adb").
				Value(&adbPath),
			huh.NewInput().
				Title("Output directory").
				Description("Default directory for run artifacts").
				Placeholder("./adbsmoke-out").
				Value(&outDir),
			huh.NewInput().
				Title("Per-step timeout").
				Description("Upper bound for each adb invocation, e.g. 30s or 2m").
				Placeholder("30s").
				Value(&timeoutRaw).
				Validate(validateDuration),
			huh.NewInput().
				Title("Logcat lines").
				Description("How many recent log lines the logcat snapshot captures").
				Placeholder("500").
				Value(&linesRaw).
				Validate(validateLines),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return buildConfig(adbPath, outDir, timeoutRaw, linesRaw)
}

func validateDuration(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.ParseDuration(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("not a duration: %s", s)
	}
	return nil
}

func validateLines(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
		return fmt.Errorf("not a positive integer: %s", s)
	}
	return nil
}

// buildConfig assembles the config from the raw form answers.
func buildConfig(adbPath, outDir, timeoutRaw, linesRaw string) (*config.Config, error) {
	cfg := &config.Config{
		ADBPath: strings.TrimSpace(adbPath),
		OutDir:  strings.TrimSpace(outDir),
	}
	if raw := strings.TrimSpace(timeoutRaw); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.StepTimeout = config.Duration(d)
	}
	if raw := strings.TrimSpace(linesRaw); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing logcat lines: %w", err)
		}
		cfg.Steps = map[string]map[string]any{
			"logcat_snapshot": {"lines": n},
		}
	}
	return cfg, nil
}
