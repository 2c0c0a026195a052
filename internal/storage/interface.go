package storage

import (
	"context"
	"errors"
)

var (
	ErrNotInitialized = errors.New("storage not initialized, run 'wellmeing init' first")
	ErrNotLoaded      = errors.New("storage not loaded")
)

// Settings are the local install settings kept next to the documents.
type Settings struct {
	UserID string `json:"user_id"`
	Model  string `json:"model"`
}

// UpdateFunc mutates a user document in place. Returning an error aborts
// the update and nothing is written.
type UpdateFunc func(doc map[string]any) error

// Provider is a document store holding one JSON document per user id.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Documents. A user without a document reads as a nil map.
	GetDocument(ctx context.Context, userID string) (map[string]any, error)
	// UpdateDocument runs fn on the current document, creating an empty one
	// if needed, and persists the result atomically. It returns the stored
	// document.
	UpdateDocument(ctx context.Context, userID string, fn UpdateFunc) (map[string]any, error)
	DeleteDocument(ctx context.Context, userID string) error

	// Utils
	GetConfigPath() string
}
