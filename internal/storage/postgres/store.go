package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"sync"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/constants"
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
	connStr string

	mu sync.RWMutex
	db *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func New(connStr string) *Store {
	s := &Store{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

// IsConnString reports whether config names a PostgreSQL database rather
// than a local file.
func IsConnString(config string) bool {
	config = strings.TrimSpace(config)
	if strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") {
		return true
	}
	for _, part := range strings.Fields(config) {
		key, _, ok := strings.Cut(part, "=")
		if ok && (strings.EqualFold(key, "host") || strings.EqualFold(key, "dbname")) {
			return true
		}
	}
	return false
}

func (s *Store) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a DSN-style connection string carries key.
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// hasSSLMode checks URL-style and DSN-style connection strings for sslmode.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a valid PostgreSQL connection
// string (URI or DSN) without an embedded password. Passwords belong in
// PGPASSWORD or ~/.pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
	} else if hasParam(connStr, "password") {
		return false, ErrEmbeddedCredentials
	}

	return true, nil
}

func (s *Store) connect() (*sql.DB, error) {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.connect()
	if err != nil {
		return err
	}
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	db, err := s.connect()
	if err != nil {
		return err
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.Postgres), nil
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	return s.db, nil
}

func (s *Store) GetSettings() (storage.Settings, error) {
	db, err := s.conn()
	if err != nil {
		return storage.Settings{}, err
	}
	rows, err := db.Query("SELECT key, value FROM settings")
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
	db, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for key, value := range map[string]string{
		settingUserID: settings.UserID,
		settingModel:  settings.Model,
	} {
		_, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`, key, value)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetDocument(ctx context.Context, userID string) (map[string]any, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var raw []byte
	err = db.QueryRowContext(ctx, "SELECT document FROM users WHERE id = $1", userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document of %s: %w", userID, err)
	}
	return codec.FromJSON(raw)
}

// UpdateDocument locks the user's row for the duration of fn, so concurrent
// writers from other processes are serialized by the database.
func (s *Store) UpdateDocument(ctx context.Context, userID string, fn storage.UpdateFunc) (map[string]any, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Make sure the row exists so FOR UPDATE has something to lock.
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", userID); err != nil {
		return nil, fmt.Errorf("failed to create document of %s: %w", userID, err)
	}

	var raw []byte
	if err := tx.QueryRowContext(ctx,
		"SELECT document FROM users WHERE id = $1 FOR UPDATE", userID).Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to read document of %s: %w", userID, err)
	}
	doc, err := codec.FromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document of %s: %w", userID, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := fn(doc); err != nil {
		return nil, err
	}
	data, err := codec.ToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document of %s: %w", userID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET document = $2::jsonb, updated_at = now() WHERE id = $1", userID, string(data)); err != nil {
		return nil, fmt.Errorf("failed to write document of %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return codec.FromJSON(data)
}

func (s *Store) DeleteDocument(ctx context.Context, userID string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}

func (s *Store) GetConfigPath() string {
	// A non-sensitive identifier instead of the connection string.
	return "postgresql"
}
