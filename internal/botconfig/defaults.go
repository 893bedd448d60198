package botconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultWakeupTimer          = 15
	DefaultWakeupCheckInterval  = 60
	DefaultMessagePauseInterval = 5
	DefaultStartCommandTrigger  = "/start"
)

// Defaults returns a fully populated empty document. Parse decodes on top of it so
// absent optional keys keep these values.
func Defaults() *BotConfig {
	return &BotConfig{
		Settings: Settings{
			Version:              1,
			CreatedAt:            time.Now().UTC(),
			SemanticFilter:       true,
			MessageFilter:        true,
			ErrorMessages:        true,
			WakeupCheckInterval:  DefaultWakeupCheckInterval,
			MessagePauseInterval: DefaultMessagePauseInterval,
		},
		Content: Content{
			WakeupsBase:         []string{},
			MemoryDataColumns:   []Column{DefaultColumn(0)},
			FormatAnswerColumns: []Column{DefaultColumn(0)},
			StartCommandTrigger: DefaultStartCommandTrigger,
		},
		Stages: []Stage{},
	}
}

// New returns a fresh document for the given persona.
func New(company Company) *BotConfig {
	doc := Defaults()
	doc.Company = company
	return doc
}

// DefaultColumn is the column appended when a list already holds n entries.
func DefaultColumn(n int) Column {
	return Column{Title: fmt.Sprintf("Column %d", n+1)}
}

// NewStage returns a blank stage with the given name.
func NewStage(name string) Stage {
	return Stage{
		Name:     name,
		Segments: []Segment{},
		Wakeups:  []Wakeup{},
	}
}

// NewSegment returns a blank segment with a fresh id.
func NewSegment() Segment {
	return Segment{
		ID:       GenerateSegmentID(),
		Examples: []string{},
	}
}

// NewWakeup returns a blank wakeup with a fresh id and the default timer.
func NewWakeup() Wakeup {
	return Wakeup{
		ID:    GenerateWakeupID(),
		Timer: DefaultWakeupTimer,
	}
}

// GenerateSegmentID returns a time-ordered segment id.
func GenerateSegmentID() string {
	return "seg_" + timeToken()
}

// GenerateWakeupID returns a time-ordered wakeup id.
func GenerateWakeupID() string {
	return "wk_" + timeToken()
}

func timeToken() string {
	return strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

// Normalize fills every optional field of doc with its canonical default, in place.
// It is the only place defaults are applied; all other code assumes a normalised document.
func Normalize(doc *BotConfig) {
	NormalizeSettings(&doc.Settings)

	c := &doc.Content
	if c.WakeupsBase == nil {
		c.WakeupsBase = []string{}
	}
	if len(c.MemoryDataColumns) == 0 {
		c.MemoryDataColumns = []Column{DefaultColumn(0)}
	}
	if len(c.FormatAnswerColumns) == 0 {
		c.FormatAnswerColumns = []Column{DefaultColumn(0)}
	}
	if strings.TrimSpace(c.StartCommandTrigger) == "" {
		c.StartCommandTrigger = DefaultStartCommandTrigger
	}

	if doc.Stages == nil {
		doc.Stages = []Stage{}
	}
	for i := range doc.Stages {
		normalizeStage(&doc.Stages[i])
	}
}

// NormalizeSettings applies the interval and timestamp defaults.
func NormalizeSettings(s *Settings) {
	if s.WakeupCheckInterval <= 0 {
		s.WakeupCheckInterval = DefaultWakeupCheckInterval
	}
	if s.MessagePauseInterval <= 0 {
		s.MessagePauseInterval = DefaultMessagePauseInterval
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
}

func normalizeStage(s *Stage) {
	if s.Segments == nil {
		s.Segments = []Segment{}
	}
	if s.Wakeups == nil {
		s.Wakeups = []Wakeup{}
	}
	for i := range s.Segments {
		if s.Segments[i].ID == "" {
			s.Segments[i].ID = GenerateSegmentID()
		}
		if s.Segments[i].Examples == nil {
			s.Segments[i].Examples = []string{}
		}
	}
	for i := range s.Wakeups {
		if s.Wakeups[i].ID == "" {
			s.Wakeups[i].ID = GenerateWakeupID()
		}
		if s.Wakeups[i].Timer == 0 {
			s.Wakeups[i].Timer = DefaultWakeupTimer
		}
	}
}
