package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/microsoft/adbsmoke/internal/adb"
	"github.com/stretchr/testify/require"
)

func TestListDevices(t *testing.T) {
	fake := &adb.FakeRunner{
		Responses: map[string]adb.FakeResponse{
			"devices": {Output: []byte("List of devices attached\nemulator-5554\tdevice\nR58M123ABC\tunauthorized\n")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, listDevices(context.Background(), adb.NewClient(fake), &buf))

	out := buf.String()
	require.Contains(t, out, "SERIAL")
	require.Contains(t, out, "emulator-5554  device")
	require.Contains(t, out, "R58M123ABC     unauthorized")
}

func TestListDevicesEmpty(t *testing.T) {
	fake := &adb.FakeRunner{
		Responses: map[string]adb.FakeResponse{
			"devices": {Output: []byte("List of devices attached\n\n")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, listDevices(context.Background(), adb.NewClient(fake), &buf))
	require.Contains(t, buf.String(), "No devices connected.")
}
