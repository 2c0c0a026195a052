package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/wellmeing/internal/codec"
)

type jsonFile struct {
	Version  int                        `json:"version"`
	Settings Settings                   `json:"settings"`
	Users    map[string]json.RawMessage `json:"users"`
}

// JSONStore keeps every document in a single JSON file. It is safe for use
// by multiple goroutines of one process.
type JSONStore struct {
	path string

	mu   sync.Mutex
	file *jsonFile
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.file = &jsonFile{
		Version: 1,
		Users:   make(map[string]json.RawMessage),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	file := &jsonFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if file.Users == nil {
		file.Users = make(map[string]json.RawMessage)
	}
	s.file = file
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes through a temp file so a crash never leaves a torn file.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return Settings{}, ErrNotLoaded
	}
	return s.file.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return ErrNotLoaded
	}
	s.file.Settings = settings
	return s.save()
}

func (s *JSONStore) GetDocument(ctx context.Context, userID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil, ErrNotLoaded
	}
	raw, ok := s.file.Users[userID]
	if !ok {
		return nil, nil
	}
	doc, err := codec.FromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document of %s: %w", userID, err)
	}
	return doc, nil
}

func (s *JSONStore) UpdateDocument(ctx context.Context, userID string, fn UpdateFunc) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil, ErrNotLoaded
	}

	doc := map[string]any{}
	if raw, ok := s.file.Users[userID]; ok {
		parsed, err := codec.FromJSON(raw)
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

	previous, existed := s.file.Users[userID]
	s.file.Users[userID] = data
	if err := s.save(); err != nil {
		if existed {
			s.file.Users[userID] = previous
		} else {
			delete(s.file.Users, userID)
		}
		return nil, err
	}
	return codec.FromJSON(data)
}

func (s *JSONStore) DeleteDocument(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return ErrNotLoaded
	}
	if _, ok := s.file.Users[userID]; !ok {
		return nil
	}
	delete(s.file.Users, userID)
	return s.save()
}

// GetConfigPath returns the path to the storage file.
//
// Running multiple wellmeing processes against the same file at the same
// time is not supported and may lose updates.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
