package editor

import (
	"context"
	"fmt"

	"github.com/paularlott/neollm/internal/botconfig"
)

// SaveRequest is what the store hands to the save transport.
type SaveRequest struct {
	Name    string                `json:"name"`
	Content *botconfig.BotConfig `json:"content"`
}

// Saver is the external save transport.
type Saver interface {
	Save(ctx context.Context, req SaveRequest) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, req SaveRequest) error

func (f SaverFunc) Save(ctx context.Context, req SaveRequest) error {
	return f(ctx, req)
}

// SaveError reports a transport failure while persisting a config.
type SaveError struct {
	Name string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save config %q: %v", e.Name, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Import replaces the document with the parsed data. On error the current document is
// left untouched.
func (s *Store) Import(data []byte) error {
	doc, err := botconfig.Parse(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the document with config.created_at set to now.
func (s *Store) Snapshot() *botconfig.BotConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.doc.Clone()
	doc.Settings.CreatedAt = s.now().UTC()
	return doc
}

// Export serialises Snapshot with two-space indentation.
func (s *Store) Export() ([]byte, error) {
	return botconfig.Marshal(s.Snapshot())
}

// Persist hands the exported document to saver under name. A blank name fails with
// botconfig.ErrEmptyName before the transport is touched; transport failures come
// back as *SaveError.
func (s *Store) Persist(ctx context.Context, name string, saver Saver) error {
	name, err := botconfig.CleanName(name)
	if err != nil {
		return err
	}

	if err := saver.Save(ctx, SaveRequest{Name: name, Content: s.Snapshot()}); err != nil {
		return &SaveError{Name: name, Err: err}
	}
	return nil
}
