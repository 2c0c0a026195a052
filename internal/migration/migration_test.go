package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/wellmeing/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range m {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestGetCurrentVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{"001_test.sql": "CREATE TABLE test (id INTEGER);"}), SQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil || version != 0 {
		t.Fatalf("expected version 0, got %d (%v)", version, err)
	}
	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if version, _ := runner.GetCurrentVersion(); version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "ignored",
	}), SQLite)

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	want := []string{"init", "update", "another"}
	if len(got) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Version != i+1 || got[i].Name != name {
			t.Errorf("migration %d: got version %d name %q", i, got[i].Version, got[i].Name)
		}
	}
}

func TestReadMigrationFilesErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{"missing underscore", map[string]string{"001init.sql": "SELECT 1;"}, "invalid migration filename"},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}, "version must be at least 1"},
		{"duplicate version", map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}, "duplicate migration version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(setupTestDB(t), files(tt.files), SQLite).ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	fsys := files(map[string]string{"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);"})
	runner := NewRunner(db, fsys, SQLite)

	var log []string
	count, err := runner.ApplyMigrations(func(msg string) { log = append(log, msg) })
	if err != nil || count != 1 {
		t.Fatalf("ApplyMigrations = %d, %v", count, err)
	}
	if len(log) == 0 {
		t.Error("expected progress messages")
	}

	fsys["002_posts.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY);")}
	count, err = runner.ApplyMigrations(nil)
	if err != nil || count != 1 {
		t.Fatalf("incremental ApplyMigrations = %d, %v", count, err)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("expected both tables")
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil || count != 0 {
		t.Errorf("expected no-op, got %d, %v", count, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_init.sql": `
			CREATE TABLE users (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}), SQLite)

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}
	if version, _ := runner.GetCurrentVersion(); version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{"001_init.sql": "CREATE TABLE users (id INTEGER);"}), SQLite)
	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion should have failed with newer database version")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should have failed with newer database version")
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	db := setupTestDB(t)
	if _, err := NewRunner(db, sub, SQLite).ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "settings") {
		t.Error("expected users and settings tables")
	}
}
