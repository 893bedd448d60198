package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidName      = errors.New("invalid config name")
	ErrConfigNotFound   = errors.New("config not found")
	ErrRevisionNotFound = errors.New("revision not found")
)

// ConfigInfo describes a saved config without its content.
type ConfigInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Revision is one saved copy of a config kept in the history store.
type Revision struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Size    int             `json:"size"`
	Content json.RawMessage `json:"content,omitempty"`
}

// ConfigStorage holds the current copy of each named config.
type ConfigStorage interface {
	// Save writes content under name, replacing any previous copy, and returns where it went.
	Save(ctx context.Context, name string, content []byte) (string, error)
	Load(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]ConfigInfo, error)
	Delete(ctx context.Context, name string) error
	Path(name string) (string, error)
	Close() error
}

// HistoryStorage keeps earlier saves of each config.
type HistoryStorage interface {
	Record(ctx context.Context, rev *Revision) error
	// List returns the newest revisions first, at most limit when limit > 0.
	List(ctx context.Context, name string, limit int) ([]Revision, error)
	Get(ctx context.Context, name, id string) (*Revision, error)
	RunGC() error
	Close() error
}

// CleanName trims name and rejects anything that is blank or could leave the config directory.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\:`) || strings.ContainsRune(name, 0) {
		return "", ErrInvalidName
	}
	return name, nil
}

// OpenHistory returns badger-backed history when path is set and in-memory history otherwise.
func OpenHistory(path string, ttl time.Duration) (HistoryStorage, error) {
	if path == "" {
		return NewMemoryHistory(ttl), nil
	}
	history, err := NewBadgerHistory(path, ttl)
	if err != nil {
		return nil, err
	}
	return history, nil
}

// NewRevision builds a revision of content saved under name now.
// The version is read from config.version when content carries one.
func NewRevision(name string, content []byte) *Revision {
	var header struct {
		Config struct {
			Version int `json:"version"`
		} `json:"config"`
	}
	_ = json.Unmarshal(content, &header)

	return &Revision{
		ID:      GenerateRevisionID(),
		Name:    name,
		Version: header.Config.Version,
		SavedAt: time.Now().UTC(),
		Size:    len(content),
		Content: append(json.RawMessage(nil), content...),
	}
}

// GenerateRevisionID returns a time-ordered id so revisions sort chronologically.
func GenerateRevisionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "rev_" + strings.ReplaceAll(id.String(), "-", "")
}
