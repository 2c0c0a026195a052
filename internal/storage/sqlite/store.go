package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/migration"
	"github.com/julianstephens/wellmeing/internal/storage"
	"github.com/julianstephens/wellmeing/migrations"
)

const (
	settingUserID = "user_id"
	settingModel  = "model"
)

type Store struct {
	path string
	db   *sql.DB

	// serializes read-modify-write of documents within the process
	writeMu sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) GetSettings() (storage.Settings, error) {
	if s.db == nil {
		return storage.Settings{}, storage.ErrNotLoaded
	}
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return storage.Settings{}, err
	}
	defer rows.Close()

	settings := storage.Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return storage.Settings{}, err
		}
		switch key {
		case settingUserID:
			settings.UserID = value
		case settingModel:
			settings.Model = value
		}
	}
	return settings, rows.Err()
}

func (s *Store) SaveSettings(settings storage.Settings) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range map[string]string{
		settingUserID: settings.UserID,
		settingModel:  settings.Model,
	} {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetDocument(ctx context.Context, userID string) (map[string]any, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM users WHERE id = ?", userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document of %s: %w", userID, err)
	}
	return codec.FromJSON([]byte(raw))
}

func (s *Store) UpdateDocument(ctx context.Context, userID string, fn storage.UpdateFunc) (map[string]any, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	doc := map[string]any{}
	var raw string
	err = tx.QueryRowContext(ctx, "SELECT document FROM users WHERE id = ?", userID).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to read document of %s: %w", userID, err)
	default:
		parsed, err := codec.FromJSON([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse document of %s: %w", userID, err)
		}
		if parsed != nil {
			doc = parsed
		}
	}

	if err := fn(doc); err != nil {
		return nil, err
	}
	data, err := codec.ToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document of %s: %w", userID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, document, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`, userID, string(data), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to write document of %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return codec.FromJSON(data)
}

func (s *Store) DeleteDocument(ctx context.Context, userID string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}
