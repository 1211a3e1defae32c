// Package device resolves exactly one target device for a run.
package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/microsoft/adbsmoke/internal/adb"
)

// SerialEnvVar is consulted when no explicit serial is given. It is the
// same variable adb itself honors.
const SerialEnvVar = "ANDROID_SERIAL"

// ErrNoDeviceFound indicates auto-detection found zero online devices.
var ErrNoDeviceFound = errors.New("no device found")

// AmbiguousDeviceError indicates auto-detection found more than one online
// device. The candidate serials are carried so the operator can pick one.
type AmbiguousDeviceError struct {
	Serials []string
}

func (e *AmbiguousDeviceError) Error() string {
	return fmt.Sprintf("multiple devices found, use --serial or %s to pick one: %s",
		SerialEnvVar, strings.Join(e.Serials, ", "))
}

// Resolve picks exactly one device serial. Resolution order: the explicit
// value, the environment override, then auto-detection over currently
// online devices. Pure query; nothing on the device is touched.
func Resolve(ctx context.Context, client *adb.Client, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if serial := os.Getenv(SerialEnvVar); serial != "" {
		return serial, nil
	}

	devices, err := client.Devices(ctx)
	if err != nil {
		return "", fmt.Errorf("enumerating devices: %w", err)
	}

	var online []string
	for _, d := range devices {
		if d.State == adb.StateOnline {
			online = append(online, d.Serial)
		}
	}

	switch len(online) {
	case 0:
		return "", ErrNoDeviceFound
	case 1:
		return online[0], nil
	default:
		return "", &AmbiguousDeviceError{Serials: online}
	}
}
