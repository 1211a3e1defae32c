package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/microsoft/adbsmoke/internal/adb"
	"github.com/spf13/cobra"
)

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List connected devices and their states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := adb.NewClient(&adb.ExecRunner{})
			return listDevices(cmd.Context(), client, os.Stdout)
		},
	}
}

func listDevices(ctx context.Context, client *adb.Client, w io.Writer) error {
	devices, err := client.Devices(ctx)
	if err != nil {
		return fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Fprintln(w, "No devices connected.")
		return nil
	}

	serialWidth := len("SERIAL")
	for _, d := range devices {
		if len(d.Serial) > serialWidth {
			serialWidth = len(d.Serial)
		}
	}

	fmt.Fprintf(w, "%s  %s\n", padRight("SERIAL", serialWidth), "STATE")
	for _, d := range devices {
		fmt.Fprintf(w, "%s  %s\n", padRight(d.Serial, serialWidth), d.State)
	}
	return nil
}
