package workspace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/microsoft/adbsmoke/internal/adb"
	"github.com/stretchr/testify/require"
)

func TestRemotePathEmbedsTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 15, 30, 123456789, time.UTC)
	path := RemotePath(now)

	require.Equal(t, "/data/local/tmp/adbsmoke-20260827T101530.123456789", path)
}

func TestRemotePathUniqueAcrossRuns(t *testing.T) {
	a := RemotePath(time.Now())
	b := RemotePath(time.Now().Add(time.Nanosecond))
	require.NotEqual(t, a, b)
}

func TestCreateAndRelease(t *testing.T) {
	fake := &adb.FakeRunner{}
	client := adb.NewClient(fake).WithSerial("serial1")

	ws, err := Create(context.Background(), client, time.Now())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ws.Path(), "/data/local/tmp/adbsmoke-"))
	require.True(t, fake.CalledWith("-s", "serial1", "shell", "mkdir", "-p", ws.Path()))

	ws.Release(context.Background())
	require.True(t, fake.CalledWith("-s", "serial1", "shell", "rm", "-rf", ws.Path()))
}

func TestCreateFailure(t *testing.T) {
	fake := &adb.FakeRunner{
		Hook: func(args []string) ([]byte, error, bool) {
			return nil, errors.New("read-only file system"), true
		},
	}
	client := adb.NewClient(fake).WithSerial("serial1")

	_, err := Create(context.Background(), client, time.Now())
	require.Error(t, err)
	require.Contains(t, err.Error(), "creating remote workspace")
}

func TestReleaseRunsExactlyOnce(t *testing.T) {
	fake := &adb.FakeRunner{}
	client := adb.NewClient(fake).WithSerial("serial1")

	ws, err := Create(context.Background(), client, time.Now())
	require.NoError(t, err)

	ws.Release(context.Background())
	ws.Release(context.Background())
	ws.Release(context.Background())

	removals := 0
	for _, call := range fake.Calls() {
		if len(call) > 3 && call[2] == "shell" && call[3] == "rm" {
			removals++
		}
	}
	require.Equal(t, 1, removals)
}

func TestReleaseToleratesRemovalError(t *testing.T) {
	fake := &adb.FakeRunner{
		Responses: map[string]adb.FakeResponse{},
	}
	client := adb.NewClient(fake).WithSerial("serial1")

	ws, err := Create(context.Background(), client, time.Now())
	require.NoError(t, err)

	fake.Hook = func(args []string) ([]byte, error, bool) {
		return nil, errors.New("device disconnected"), true
	}
	require.NotPanics(t, func() { ws.Release(context.Background()) })
}

func TestReleaseNilWorkspaceIsNoop(t *testing.T) {
	var ws *Workspace
	require.NotPanics(t, func() { ws.Release(context.Background()) })
}

func TestJoin(t *testing.T) {
	fake := &adb.FakeRunner{}
	client := adb.NewClient(fake).WithSerial("serial1")

	ws, err := Create(context.Background(), client, time.Now())
	require.NoError(t, err)
	require.Equal(t, ws.Path()+"/push.txt", ws.Join("push.txt"))
}
