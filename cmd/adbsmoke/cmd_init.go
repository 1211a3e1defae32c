package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/microsoft/adbsmoke/internal/config"
	"github.com/microsoft/adbsmoke/internal/wizard"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an " + config.DefaultFileName + " config file interactively",
		Long: `Create an ` + config.DefaultFileName + ` file with harness defaults.

A guided form collects the adb binary location, the default output
directory, the per-step timeout and the logcat snapshot size. Existing
values pre-populate the form when the file already exists.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return initConfig(dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file without keeping its values")

	return cmd
}

func initConfig(dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, config.DefaultFileName)

	var base config.Config
	if !force {
		if _, err := os.Stat(path); err == nil {
			loaded, loadErr := config.Load(path)
			if loadErr != nil {
				return loadErr
			}
			base = loaded
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	cfg, err := wizard.RunConfigWizard(os.Stdin, os.Stdout, base)
	if err != nil {
		return err
	}

	if err := cfg.Write(path); err != nil {
		return err
	}
	fmt.Printf("Config written to %s\n", path)
	return nil
}
