// Package lockfile marks a local database as held open by a running
// wellmeing serve process.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/logger"
)

var findProcessFunc = ps.FindProcess

var ErrHeld = errors.New("database is in use by a running wellmeing serve")

// Owner is the serve process named by a lockfile.
type Owner struct {
	PID        int
	Addr       string
	Executable string
}

// Path is the lockfile of the database at dbPath.
func Path(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), constants.ServeLockfileName)
}

// Acquire writes the lockfile for the current process. A lockfile left
// behind by a process that is gone is replaced. The returned func removes
// the lockfile.
func Acquire(dbPath, addr string) (func(), error) {
	owner, err := Holder(dbPath)
	if err != nil {
		logger.Warn("Replacing unreadable lockfile", "path", Path(dbPath), "error", err)
	}
	if owner != nil && owner.PID != os.Getpid() {
		return nil, fmt.Errorf("%w (pid %d on %s)", ErrHeld, owner.PID, owner.Addr)
	}

	path := Path(dbPath)
	content := fmt.Sprintf("%s|%d", addr, os.Getpid())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove lockfile", "path", path, "error", err)
		}
	}, nil
}

// Holder returns the live serve process holding the database at dbPath, or
// nil when there is none. A lockfile whose process is gone, or belongs to
// another program, is stale and counts as none.
func Holder(dbPath string) (*Owner, error) {
	content, err := os.ReadFile(Path(dbPath))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	addr, rawPID, ok := strings.Cut(strings.TrimSpace(string(content)), "|")
	if !ok || strings.TrimSpace(addr) == "" {
		return nil, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(rawPID)
	if err != nil || pid < 1 {
		return nil, errors.New("invalid process ID in lockfile")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return nil, nil
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return nil, nil
	}
	return &Owner{PID: pid, Addr: addr, Executable: process.Executable()}, nil
}
