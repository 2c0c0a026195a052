package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/wellmeing/internal/assistant"
	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/keyring"
	"github.com/julianstephens/wellmeing/internal/session"
	"github.com/julianstephens/wellmeing/internal/storage"
	"github.com/julianstephens/wellmeing/internal/storage/postgres"
	"github.com/julianstephens/wellmeing/internal/storage/sqlite"
	"github.com/julianstephens/wellmeing/internal/tracker"
)

var ErrNoUser = errors.New("no user configured, run 'wellmeing init' or pass --user")

// Assistant writes reports and turns speech into actions.
type Assistant interface {
	tracker.ReportWriter
	tracker.SpeechParser
}

type Context struct {
	Store storage.Provider
	// UserID overrides the user id saved by init.
	UserID string
	// APIKey and Model override the keyring key and the saved model.
	APIKey string
	Model  string
	// Now defaults to time.Now.
	Now func() time.Time
	// Out defaults to os.Stdout.
	Out io.Writer
	// Confirm asks a yes/no question. Defaults to an interactive huh prompt.
	Confirm func(title string) (bool, error)
	// Assistant replaces the OpenAI client built from the key and model.
	Assistant Assistant
	Debug     bool
}

// OpenStore picks the storage backend for config: a PostgreSQL connection
// string, a .json file, or a SQLite database.
func OpenStore(config string) (storage.Provider, error) {
	switch {
	case postgres.IsConnString(config):
		if ok, err := postgres.ValidateConnString(config); !ok {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection string contains embedded credentials, use PGPASSWORD or .pgpass instead: %w", err)
			}
			return nil, fmt.Errorf("invalid connection string: %w", err)
		}
		return postgres.New(config), nil
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return storage.NewJSONStore(ExpandHome(config)), nil
	default:
		return sqlite.NewStore(ExpandHome(config)), nil
	}
}

// ConfigDir is the directory holding logs for config. Databases reached
// over the network log under the default config directory.
func ConfigDir(config string) string {
	if postgres.IsConnString(config) {
		config = constants.DefaultConfigPath
	}
	return filepath.Dir(ExpandHome(config))
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) confirm(title string) (bool, error) {
	if c.Confirm == nil {
		return confirmPrompt(title)
	}
	return c.Confirm(title)
}

// settings are the stored settings with the command line overrides applied.
func (c *Context) settings() (storage.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return storage.Settings{}, err
	}
	if c.UserID != "" {
		settings.UserID = c.UserID
	}
	if c.Model != "" {
		settings.Model = c.Model
	}
	return settings, nil
}

// Tracker loads the configured user's document and returns a tracker for it.
func (c *Context) Tracker(ctx context.Context) (*tracker.Tracker, error) {
	settings, err := c.settings()
	if err != nil {
		return nil, err
	}
	if settings.UserID == "" {
		return nil, ErrNoUser
	}
	sess := session.New(settings.UserID, c.Store, session.WithClock(c.now))
	if err := sess.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", settings.UserID, err)
	}
	return tracker.New(c.Store, sess), nil
}

// loadAssistant builds the OpenAI assistant from the configured key and
// model unless one was set on the context.
func (c *Context) loadAssistant() (Assistant, error) {
	if c.Assistant != nil {
		return c.Assistant, nil
	}
	settings, err := c.settings()
	if err != nil {
		return nil, err
	}
	key, err := keyring.ResolveAPIKey(c.APIKey)
	if err != nil {
		return nil, err
	}
	client, err := assistant.NewClient(assistant.WithAPIKey(key), assistant.WithModel(settings.Model))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}
