// Package backup keeps rotating copies of a local wellmeing database, either
// a SQLite file or a JSON document file.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/logger"
)

const (
	// MaxBackups is the number of backups kept by rotation.
	MaxBackups = 14
	DirName    = "backups"

	filePrefix      = constants.AppName + "-"
	timestampFormat = "20060102-150405"
)

var ErrNoDatabase = errors.New("database does not exist")

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64

	// counter of backups taken within the same second
	seq int
}

type Manager struct {
	dbPath string
	dir    string
	ext    string
	now    func() time.Time
}

// NewManager manages backups of dbPath in a backups directory next to it.
// A .json path is backed up as a JSON document file, anything else as a
// SQLite database.
func NewManager(dbPath string) *Manager {
	ext := filepath.Ext(dbPath)
	if ext == "" {
		ext = ".db"
	}
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		ext:    ext,
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) isJSON() bool {
	return strings.EqualFold(m.ext, ".json")
}

// Create writes a new backup and drops the oldest ones beyond MaxBackups.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "dir", m.dir, "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if m.isJSON() {
		err = m.copyJSON(path)
	} else {
		err = m.copySQLite(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

// nextPath names a backup after the current second, adding a counter when
// that name is taken.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.dir, filePrefix+stamp+m.ext)
	for i := 1; fileExists(path); i++ {
		if i > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, i, m.ext))
	}
	return path, nil
}

func (m *Manager) copySQLite(dest string) error {
	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := pingSQLite(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		db.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

func (m *Manager) copyJSON(dest string) error {
	if err := verifyJSON(m.dbPath); err != nil {
		return fmt.Errorf("source file appears to be corrupted: %w", err)
	}
	return copyFile(m.dbPath, dest)
}

// List returns the backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, m.ext) {
			continue
		}
		ts, seq, ok := parseName(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), m.ext))
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, name),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName reads YYYYMMDD-HHMMSS with an optional -N counter.
func parseName(s string) (time.Time, int, bool) {
	seq := 0
	if len(s) > len(timestampFormat) {
		rest := s[len(timestampFormat):]
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "-"))
		if !strings.HasPrefix(rest, "-") || err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
		s = s[:len(timestampFormat)]
	}
	ts, err := time.ParseInLocation(timestampFormat, s, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with the backup at path. The current
// database is backed up first, outside of rotation. It returns the path of
// that safety backup, empty when there was no database.
func (m *Manager) Restore(path string) (string, error) {
	if !fileExists(path) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := m.verify(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var current string
	if fileExists(m.dbPath) {
		var err error
		if current, err = m.create(); err != nil {
			return "", fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Backup restored", "from", path, "to", m.dbPath)
	return current, nil
}

func (m *Manager) verify(path string) error {
	if m.isJSON() {
		return verifyJSON(path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	return pingSQLite(db)
}

func pingSQLite(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func verifyJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = codec.FromJSON(data)
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
