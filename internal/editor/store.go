package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/paularlott/neollm/internal/botconfig"
)

// Store owns the BotConfig being edited. Every mutation builds a new snapshot and swaps
// it in; snapshots handed out are never modified afterwards. Operations that target an
// entity by identity report whether anything changed, so callers can tell "updated"
// from "nothing matched".
type Store struct {
	mu  sync.Mutex
	doc *botconfig.BotConfig
	now func() time.Time
}

// NewStore returns a store editing a normalised copy of doc, or a fresh default
// document when doc is nil.
func NewStore(doc *botconfig.BotConfig) *Store {
	if doc == nil {
		doc = botconfig.Defaults()
	} else {
		doc = doc.Clone()
	}
	botconfig.Normalize(doc)
	return &Store{doc: doc, now: time.Now}
}

// Document returns a deep copy of the current document.
func (s *Store) Document() *botconfig.BotConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Stage returns a copy of the named stage.
func (s *Store) Stage(name string) (botconfig.Stage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stage, ok := s.doc.Stage(name)
	if !ok {
		return botconfig.Stage{}, false
	}
	return stage.Clone(), true
}

// update runs fn on a shallow copy of the current document and installs the result
// when fn reports a change. fn must copy any slice it modifies.
func (s *Store) update(fn func(next *botconfig.BotConfig) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.doc
	if !fn(&next) {
		return false
	}
	s.doc = &next
	return true
}

// updateStage applies fn to a copy of the named stage.
func (s *Store) updateStage(name string, fn func(stage *botconfig.Stage) bool) bool {
	return s.update(func(next *botconfig.BotConfig) bool {
		i := next.StageIndex(name)
		if i < 0 {
			return false
		}
		stage := next.Stages[i]
		if !fn(&stage) {
			return false
		}
		next.Stages = replaceAt(next.Stages, i, stage)
		return true
	})
}

// AddStage appends a blank stage named "New Stage {n}" where n is the new stage count,
// counting further up if a stage already holds that name.
func (s *Store) AddStage() botconfig.Stage {
	var stage botconfig.Stage
	s.update(func(next *botconfig.BotConfig) bool {
		n := len(next.Stages) + 1
		for next.StageIndex(fmt.Sprintf("New Stage %d", n)) >= 0 {
			n++
		}
		stage = botconfig.NewStage(fmt.Sprintf("New Stage %d", n))
		next.Stages = appendCopy(next.Stages, stage)
		return true
	})
	return stage.Clone()
}

// UpdateStage replaces the stage with the same name, keeping its position.
// A stage with duplicate ids or a negative wakeup timer is refused.
func (s *Store) UpdateStage(stage botconfig.Stage) bool {
	stage = stage.Clone()
	normalizeStage(&stage)
	if botconfig.Validate(&botconfig.BotConfig{Stages: []botconfig.Stage{stage}}) != nil {
		return false
	}
	return s.update(func(next *botconfig.BotConfig) bool {
		i := next.StageIndex(stage.Name)
		if i < 0 {
			return false
		}
		next.Stages = replaceAt(next.Stages, i, stage)
		return true
	})
}

// RenameStage changes a stage name. It refuses names that are blank or already taken.
func (s *Store) RenameStage(from, to string) bool {
	if to == "" || from == to {
		return false
	}
	return s.update(func(next *botconfig.BotConfig) bool {
		i := next.StageIndex(from)
		if i < 0 || next.StageIndex(to) >= 0 {
			return false
		}
		stage := next.Stages[i]
		stage.Name = to
		next.Stages = replaceAt(next.Stages, i, stage)
		return true
	})
}

// DeleteStage removes the named stage.
func (s *Store) DeleteStage(name string) bool {
	return s.update(func(next *botconfig.BotConfig) bool {
		i := next.StageIndex(name)
		if i < 0 {
			return false
		}
		next.Stages = removeAt(next.Stages, i)
		return true
	})
}

// ReorderStages moves the stage named from into the position currently held by to.
func (s *Store) ReorderStages(from, to string) bool {
	if from == to {
		return false
	}
	return s.update(func(next *botconfig.BotConfig) bool {
		oldIndex := next.StageIndex(from)
		newIndex := next.StageIndex(to)
		if oldIndex < 0 || newIndex < 0 {
			return false
		}
		next.Stages = move(next.Stages, oldIndex, newIndex)
		return true
	})
}

// AddSegment appends a blank segment with a fresh id to the named stage.
func (s *Store) AddSegment(stageName string) (botconfig.Segment, bool) {
	seg := botconfig.NewSegment()
	ok := s.updateStage(stageName, func(stage *botconfig.Stage) bool {
		stage.Segments = appendCopy(stage.Segments, seg)
		return true
	})
	if !ok {
		return botconfig.Segment{}, false
	}
	return seg.Clone(), true
}

// UpdateSegment replaces the segment with the same id in the named stage.
func (s *Store) UpdateSegment(stageName string, seg botconfig.Segment) bool {
	seg = seg.Clone()
	if seg.Examples == nil {
		seg.Examples = []string{}
	}
	return s.updateStage(stageName, func(stage *botconfig.Stage) bool {
		i := segmentIndex(stage.Segments, seg.ID)
		if i < 0 {
			return false
		}
		stage.Segments = replaceAt(stage.Segments, i, seg)
		return true
	})
}

// DeleteSegment removes the segment with the given id from the named stage.
func (s *Store) DeleteSegment(stageName, id string) bool {
	return s.updateStage(stageName, func(stage *botconfig.Stage) bool {
		i := segmentIndex(stage.Segments, id)
		if i < 0 {
			return false
		}
		stage.Segments = removeAt(stage.Segments, i)
		return true
	})
}

// AddWakeup appends a blank wakeup with a fresh id and the default timer.
func (s *Store) AddWakeup(stageName string) (botconfig.Wakeup, bool) {
	wk := botconfig.NewWakeup()
	ok := s.updateStage(stageName, func(stage *botconfig.Stage) bool {
		stage.Wakeups = appendCopy(stage.Wakeups, wk)
		return true
	})
	if !ok {
		return botconfig.Wakeup{}, false
	}
	return wk, true
}

// UpdateWakeup replaces the wakeup with the same id in the named stage.
func (s *Store) UpdateWakeup(stageName string, wk botconfig.Wakeup) bool {
	if wk.Timer <= 0 {
		wk.Timer = botconfig.DefaultWakeupTimer
	}
	return s.updateStage(stageName, func(stage *botconfig.Stage) bool {
		i := wakeupIndex(stage.Wakeups, wk.ID)
		if i < 0 {
			return false
		}
		stage.Wakeups = replaceAt(stage.Wakeups, i, wk)
		return true
	})
}

// DeleteWakeup removes the wakeup with the given id from the named stage.
func (s *Store) DeleteWakeup(stageName, id string) bool {
	return s.updateStage(stageName, func(stage *botconfig.Stage) bool {
		i := wakeupIndex(stage.Wakeups, id)
		if i < 0 {
			return false
		}
		stage.Wakeups = removeAt(stage.Wakeups, i)
		return true
	})
}

// UpdateCompany replaces the persona metadata.
func (s *Store) UpdateCompany(company botconfig.Company) {
	s.update(func(next *botconfig.BotConfig) bool {
		next.Company = company
		return true
	})
}

// UpdateSettings replaces the runtime flags. Version and creation time are kept, they
// only change through BumpVersion and Export.
func (s *Store) UpdateSettings(settings botconfig.Settings) {
	s.update(func(next *botconfig.BotConfig) bool {
		settings.Version = next.Settings.Version
		settings.CreatedAt = next.Settings.CreatedAt
		botconfig.NormalizeSettings(&settings)
		next.Settings = settings
		return true
	})
}

// BumpVersion increments config.version and returns the new value.
func (s *Store) BumpVersion() int {
	var version int
	s.update(func(next *botconfig.BotConfig) bool {
		next.Settings.Version++
		version = next.Settings.Version
		return true
	})
	return version
}

// SetThankYouNote replaces the closing message.
func (s *Store) SetThankYouNote(note string) {
	s.update(func(next *botconfig.BotConfig) bool {
		next.Content.ThankYouNote = note
		return true
	})
}

// SetStartCommandTrigger replaces the start command; blank restores the default.
func (s *Store) SetStartCommandTrigger(trigger string) {
	s.update(func(next *botconfig.BotConfig) bool {
		next.Content.StartCommandTrigger = trigger
		if trigger == "" {
			next.Content.StartCommandTrigger = botconfig.DefaultStartCommandTrigger
		}
		return true
	})
}

// AddGreeting appends to the shared wakeup greetings.
func (s *Store) AddGreeting(text string) {
	s.update(func(next *botconfig.BotConfig) bool {
		next.Content.WakeupsBase = appendCopy(next.Content.WakeupsBase, text)
		return true
	})
}

// UpdateGreeting replaces the greeting at index.
func (s *Store) UpdateGreeting(index int, text string) bool {
	return s.update(func(next *botconfig.BotConfig) bool {
		if index < 0 || index >= len(next.Content.WakeupsBase) {
			return false
		}
		next.Content.WakeupsBase = replaceAt(next.Content.WakeupsBase, index, text)
		return true
	})
}

// RemoveGreeting removes the greeting at index.
func (s *Store) RemoveGreeting(index int) bool {
	return s.update(func(next *botconfig.BotConfig) bool {
		if index < 0 || index >= len(next.Content.WakeupsBase) {
			return false
		}
		next.Content.WakeupsBase = removeAt(next.Content.WakeupsBase, index)
		return true
	})
}

func normalizeStage(stage *botconfig.Stage) {
	doc := botconfig.BotConfig{Stages: []botconfig.Stage{*stage}}
	botconfig.Normalize(&doc)
	*stage = doc.Stages[0]
}

func segmentIndex(segments []botconfig.Segment, id string) int {
	if id == "" {
		return -1
	}
	for i := range segments {
		if segments[i].ID == id {
			return i
		}
	}
	return -1
}

func wakeupIndex(wakeups []botconfig.Wakeup, id string) int {
	if id == "" {
		return -1
	}
	for i := range wakeups {
		if wakeups[i].ID == id {
			return i
		}
	}
	return -1
}
