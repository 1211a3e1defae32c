// Package config loads optional harness defaults from an .adbsmoke.yaml
// file. Precedence is CLI flags over file values over built-in defaults;
// the file is never required.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = ".adbsmoke.yaml"

// Duration wraps time.Duration with yaml support for values like "45s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds harness defaults. Zero values mean "use the built-in
// default" so an empty or absent file changes nothing.
type Config struct {
	// ADBPath overrides the adb binary location.
	ADBPath string `yaml:"adb_path,omitempty"`
	// OutDir is the default artifact directory.
	OutDir string `yaml:"out_dir,omitempty"`
	// StepTimeout bounds each adb invocation.
	StepTimeout Duration `yaml:"step_timeout,omitempty"`
	// Steps carries per-step settings, decoded on demand with
	// [Config.StepSettings]. Unknown step names are ignored so a config
	// file can outlive a renamed step.
	Steps map[string]map[string]any `yaml:"steps,omitempty"`
}

// LogcatSettings are the recognized settings for the logcat_snapshot step.
type LogcatSettings struct {
	Lines int `mapstructure:"lines"`
}

// Load reads the config file at path. A missing file is not an error; it
// yields the zero config.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// StepSettings decodes the settings block of one step into out. When the
// step has no block, out is left untouched.
func (c Config) StepSettings(step string, out any) error {
	block, ok := c.Steps[step]
	if !ok {
		return nil
	}
	if err := mapstructure.Decode(block, out); err != nil {
		return fmt.Errorf("decoding settings for step %s: %w", step, err)
	}
	return nil
}

// Write persists the config to path in yaml form.
func (c Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
