package main

import (
	"fmt"
	"io"
	"os"

	"github.com/microsoft/adbsmoke/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <summary.json>",
		Short: "Validate a summary file against the embedded JSON schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateSummaryFile(args[0], os.Stdout)
		},
	}
}

func validateSummaryFile(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	errs := validation.ValidateSummaryBytes(data)
	if len(errs) == 0 {
		fmt.Fprintf(w, "✓ %s conforms to the summary schema\n", path)
		return nil
	}

	for _, e := range errs {
		fmt.Fprintf(w, "✗ %s\n", e)
	}
	return fmt.Errorf("%s: %d schema violation(s)", path, len(errs))
}
