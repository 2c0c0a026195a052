package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/julianstephens/wellmeing/internal/backup"
	"github.com/julianstephens/wellmeing/internal/lockfile"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/storage/postgres"
)

const automaticBackupInterval = 24 * time.Hour

var ErrRemoteBackup = errors.New("backups are only available for local databases, use pg_dump for PostgreSQL")

var lockHolder = lockfile.Holder

// localDatabase is the file behind the store, if it has one.
func (c *Context) localDatabase() (string, bool) {
	if _, ok := c.Store.(*postgres.Store); ok {
		return "", false
	}
	return c.Store.GetConfigPath(), true
}

func (c *Context) backups() (*backup.Manager, error) {
	path, ok := c.localDatabase()
	if !ok {
		return nil, ErrRemoteBackup
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backups()
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	ctx.printf("✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backups()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.printf("No backups in %s\n", mgr.Dir())
		return nil
	}
	for _, b := range backups {
		ctx.printf("%s  %s  %s\n", b.Timestamp.Format("2006-01-02 15:04:05"), formatSize(b.Size), filepath.Base(b.Path))
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore, as listed by 'backup list'."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backups()
	if err != nil {
		return err
	}
	path := cmd.Path
	if filepath.Base(path) == path {
		path = filepath.Join(mgr.Dir(), path)
	}

	db, _ := ctx.localDatabase()
	owner, err := lockHolder(db)
	if err != nil {
		logger.Warn("Ignoring unreadable serve lockfile", "path", lockfile.Path(db), "error", err)
	}
	if owner != nil {
		return fmt.Errorf("%w (pid %d on %s), stop it before restoring", lockfile.ErrHeld, owner.PID, owner.Addr)
	}

	if !cmd.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Replace the current database with %s?", filepath.Base(path)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Canceled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	safety, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if safety != "" {
		ctx.printf("Backed up the previous database to %s\n", filepath.Base(safety))
	}
	ctx.printf("✓ Restored %s\n", filepath.Base(path))
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// PerformAutomaticBackup takes a backup when the newest one is older than a
// day. Failures are logged and never stop the caller.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.backups()
	if err != nil {
		return
	}
	backups, err := mgr.List()
	if err != nil {
		logger.Warn("Automatic backup skipped", "error", err)
		return
	}
	if len(backups) > 0 && time.Since(backups[0].Timestamp) < automaticBackupInterval {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
