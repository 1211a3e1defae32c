// Package adb wraps the Android Debug Bridge command-line tool. The tool is
// consumed as an opaque subprocess: the harness observes only exit status
// and output bytes, never the underlying device protocol.
package adb

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultPath is the adb binary resolved from PATH when no explicit
// location is configured.
const DefaultPath = "adb"

// CommandRunner executes one adb invocation and returns its stdout.
// The seam exists so tests can substitute a fake for the real binary.
type CommandRunner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// ExecRunner runs the real adb binary.
type ExecRunner struct {
	// Path is the adb executable, defaulting to [DefaultPath].
	Path string
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	path := r.Path
	if path == "" {
		path = DefaultPath
	}

	cmd := exec.CommandContext(ctx, path, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("adb %s: %w: %s", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("adb %s: %w", args[0], err)
	}
	return out, nil
}

// DeviceInfo is one row of `adb devices` output.
type DeviceInfo struct {
	Serial string
	State  string
}

// StateOnline is the device state reported for a fully connected device.
const StateOnline = "device"

// Client issues adb commands, optionally bound to a single device serial.
type Client struct {
	runner CommandRunner
	serial string
}

// NewClient creates a client that is not yet bound to a device. Only
// device-independent commands (Version, Devices) may be issued on it.
func NewClient(runner CommandRunner) *Client {
	return &Client{runner: runner}
}

// WithSerial returns a copy of the client bound to the given device.
func (c *Client) WithSerial(serial string) *Client {
	return &Client{runner: c.runner, serial: serial}
}

// Serial returns the device serial the client is bound to, if any.
func (c *Client) Serial() string {
	return c.serial
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	for _, a := range args {
		if err := validateArg(a); err != nil {
			return nil, err
		}
	}
	if c.serial != "" {
		args = append([]string{"-s", c.serial}, args...)
	}
	return c.runner.Run(ctx, args...)
}

// validateArg rejects shell metacharacters in arguments. adb forwards
// `shell` arguments through the device's shell, so these would otherwise be
// interpreted remotely.
func validateArg(arg string) error {
	if strings.ContainsAny(arg, ";&|") {
		return fmt.Errorf("potentially unsafe argument: %s", arg)
	}
	return nil
}

// Version reports the adb client version.
func (c *Client) Version(ctx context.Context) ([]byte, error) {
	return c.runner.Run(ctx, "version")
}

// Devices enumerates currently connected devices in any state.
func (c *Client) Devices(ctx context.Context) ([]DeviceInfo, error) {
	out, err := c.runner.Run(ctx, "devices")
	if err != nil {
		return nil, err
	}
	return parseDevices(string(out)), nil
}

// parseDevices parses `adb devices` output. The first line is a banner;
// every following non-empty line is "<serial>\t<state>".
func parseDevices(out string) []DeviceInfo {
	var devices []DeviceInfo
	for i, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if i == 0 || line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, DeviceInfo{Serial: fields[0], State: fields[1]})
	}
	return devices
}

// State reports the connection state of the bound device.
func (c *Client) State(ctx context.Context) ([]byte, error) {
	return c.run(ctx, "get-state")
}

// GetProp dumps all system properties of the bound device.
func (c *Client) GetProp(ctx context.Context) ([]byte, error) {
	return c.run(ctx, "shell", "getprop")
}

// Screencap captures the screen as PNG bytes. exec-out avoids the line
// ending mangling that `shell` applies to binary output.
func (c *Client) Screencap(ctx context.Context) ([]byte, error) {
	return c.run(ctx, "exec-out", "screencap", "-p")
}

// Logcat returns the most recent lines of the device log without blocking.
func (c *Client) Logcat(ctx context.Context, lines int) ([]byte, error) {
	return c.run(ctx, "logcat", "-d", "-t", strconv.Itoa(lines))
}

// Shell runs a command on the device through its shell.
func (c *Client) Shell(ctx context.Context, args ...string) ([]byte, error) {
	return c.run(ctx, append([]string{"shell"}, args...)...)
}

// Push copies a local file to the device.
func (c *Client) Push(ctx context.Context, local, remote string) error {
	_, err := c.run(ctx, "push", local, remote)
	return err
}

// Pull copies a file from the device to a local path.
func (c *Client) Pull(ctx context.Context, remote, local string) error {
	_, err := c.run(ctx, "pull", remote, local)
	return err
}

// UIAutomatorDump writes the current UI hierarchy XML to remotePath.
func (c *Client) UIAutomatorDump(ctx context.Context, remotePath string) ([]byte, error) {
	return c.run(ctx, "shell", "uiautomator", "dump", remotePath)
}

// Install installs an APK, replacing an existing package if present.
func (c *Client) Install(ctx context.Context, apkPath string) ([]byte, error) {
	return c.run(ctx, "install", "-r", apkPath)
}

// RemoveAll removes a remote path recursively. The -f flag makes removal of
// an already-absent path succeed, which cleanup relies on.
func (c *Client) RemoveAll(ctx context.Context, remotePath string) error {
	_, err := c.run(ctx, "shell", "rm", "-rf", remotePath)
	return err
}

// Exists probes a remote path, reporting true when it is present.
func (c *Client) Exists(ctx context.Context, remotePath string) bool {
	_, err := c.run(ctx, "shell", "ls", remotePath)
	return err == nil
}
