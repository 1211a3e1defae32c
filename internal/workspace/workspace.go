// Package workspace manages the transient on-device directory used by the
// file-dependent checks. The workspace is created lazily, owned by exactly
// one run, and must be gone before the process exits no matter how the run
// ended.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/microsoft/adbsmoke/internal/adb"
)

// baseDir is the writable location available on stock devices without root.
const baseDir = "/data/local/tmp"

// Workspace is a uniquely named remote directory scoped to one run.
type Workspace struct {
	path    string
	client  *adb.Client
	release sync.Once
}

// RemotePath builds the workspace path for a run starting at now. The name
// embeds a nanosecond timestamp so concurrent runs against different
// devices cannot collide.
func RemotePath(now time.Time) string {
	return fmt.Sprintf("%s/adbsmoke-%s", baseDir, now.UTC().Format("20060102T150405.000000000"))
}

// Create allocates the remote workspace. The caller must arrange for
// Release to run on every exit path, typically via defer at the call site.
func Create(ctx context.Context, client *adb.Client, now time.Time) (*Workspace, error) {
	path := RemotePath(now)
	if _, err := client.Shell(ctx, "mkdir", "-p", path); err != nil {
		return nil, fmt.Errorf("creating remote workspace %s: %w", path, err)
	}
	return &Workspace{path: path, client: client}, nil
}

// Path returns the remote directory path.
func (w *Workspace) Path() string {
	return w.path
}

// Join returns the remote path of a file inside the workspace.
func (w *Workspace) Join(name string) string {
	return w.path + "/" + name
}

// Release removes the workspace recursively. It is idempotent, never
// returns an error, and is a no-op on a nil receiver so callers can defer
// it before knowing whether a workspace was ever created.
func (w *Workspace) Release(ctx context.Context) {
	if w == nil {
		return
	}
	w.release.Do(func() {
		if err := w.client.RemoveAll(ctx, w.path); err != nil {
			slog.Warn("failed to remove remote workspace", "path", w.path, "error", err)
		}
	})
}
