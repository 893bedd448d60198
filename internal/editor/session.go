package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paularlott/neollm/internal/botconfig"
)

// DefaultDownloadName is used for exports when the config has no name yet.
const DefaultDownloadName = "bot-config.json"

// Session is one editing session: the document store, the caller's view state and the
// name the config will be saved under.
type Session struct {
	Store *Store
	View  *ViewState
	Name  string
}

// NewSession starts a session on doc (a default document when nil).
func NewSession(doc *botconfig.BotConfig) *Session {
	return &Session{
		Store: NewStore(doc),
		View:  &ViewState{},
	}
}

// AddStage appends a new stage and expands it.
func (s *Session) AddStage() botconfig.Stage {
	stage := s.Store.AddStage()
	s.View.Expand(stage.Name)
	return stage
}

// DeleteStage removes the stage and forgets it in the view.
func (s *Session) DeleteStage(name string) bool {
	ok := s.Store.DeleteStage(name)
	if ok {
		s.View.ForgetStage(name)
	}
	return ok
}

// RenameStage renames a stage and keeps the view pointing at it.
func (s *Session) RenameStage(from, to string) bool {
	ok := s.Store.RenameStage(from, to)
	if ok {
		s.View.RenameStage(from, to)
	}
	return ok
}

// ToggleStageExpansion flips whether the stage is expanded.
func (s *Session) ToggleStageExpansion(name string) {
	s.View.ToggleStage(name)
}

// AddSegment appends a blank segment and opens it for editing.
func (s *Session) AddSegment(stageName string) (botconfig.Segment, bool) {
	seg, ok := s.Store.AddSegment(stageName)
	if ok {
		s.View.BeginEdit(EditTarget{Stage: stageName, Kind: KindSegment, ID: seg.ID})
	}
	return seg, ok
}

// UpdateSegment saves the segment and closes the editor.
func (s *Session) UpdateSegment(stageName string, seg botconfig.Segment) bool {
	ok := s.Store.UpdateSegment(stageName, seg)
	s.View.EndEdit()
	return ok
}

// AddWakeup appends a blank wakeup and opens it for editing.
func (s *Session) AddWakeup(stageName string) (botconfig.Wakeup, bool) {
	wk, ok := s.Store.AddWakeup(stageName)
	if ok {
		s.View.BeginEdit(EditTarget{Stage: stageName, Kind: KindWakeup, ID: wk.ID})
	}
	return wk, ok
}

// UpdateWakeup saves the wakeup and closes the editor.
func (s *Session) UpdateWakeup(stageName string, wk botconfig.Wakeup) bool {
	ok := s.Store.UpdateWakeup(stageName, wk)
	s.View.EndEdit()
	return ok
}

// DeleteSegment removes a segment, closing its editor if open.
func (s *Session) DeleteSegment(stageName, id string) bool {
	ok := s.Store.DeleteSegment(stageName, id)
	if target, editing := s.View.Editing(); ok && editing && target.Kind == KindSegment && target.Stage == stageName && target.ID == id {
		s.View.EndEdit()
	}
	return ok
}

// DeleteWakeup removes a wakeup, closing its editor if open.
func (s *Session) DeleteWakeup(stageName, id string) bool {
	ok := s.Store.DeleteWakeup(stageName, id)
	if target, editing := s.View.Editing(); ok && editing && target.Kind == KindWakeup && target.Stage == stageName && target.ID == id {
		s.View.EndEdit()
	}
	return ok
}

// Import replaces the document and resets the view.
func (s *Session) Import(data []byte) error {
	if err := s.Store.Import(data); err != nil {
		return err
	}
	s.View.Reset()
	return nil
}

// ImportFile imports a JSON file and takes the config name from its base name.
func (s *Session) ImportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := s.Import(data); err != nil {
		return err
	}
	s.Name = NameFromFile(path)
	return nil
}

// ExportFile writes the exported document to path.
func (s *Session) ExportFile(path string) error {
	data, err := s.Store.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DownloadName is the file name an export is offered under.
func (s *Session) DownloadName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name + ".json"
	}
	return DefaultDownloadName
}

// Persist saves the document under the session name.
func (s *Session) Persist(ctx context.Context, saver Saver) error {
	return s.Store.Persist(ctx, s.Name, saver)
}

// NameFromFile strips the directory and a trailing .json from path.
func NameFromFile(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}
