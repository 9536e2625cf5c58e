// Package runtimepath locates the per-user runtime directory that holds the
// stackwm control socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const socketName = "stackwm.sock"

// Dir returns the runtime directory. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) <os.TempDir>/stackwm-<uid> (created with 0700)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("stackwm-%d", uid))
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the control socket path. A non-empty override, such
// as ipc.socket from the config file, wins over the runtime directory.
func SocketPath(override string) (string, error) {
	if s := strings.TrimSpace(override); s != "" {
		return s, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, socketName), nil
}
