package botconfig

import (
	"time"
)

// BotConfig is the root document edited by the visual editor and persisted as JSON.
// Field names are the wire contract shared with previously saved configs.
type BotConfig struct {
	Company  Company  `json:"company"`
	Settings Settings `json:"config"`
	Content  Content  `json:"content"`
	Stages   []Stage  `json:"stages"`
}

// Company holds the persona the bot speaks as.
type Company struct {
	Lang              string `json:"lang"`
	SalespersonName   string `json:"salesperson_name"`
	SalespersonGender string `json:"salesperson_gender"`
	SalespersonRole   string `json:"salesperson_role"`
	Product           string `json:"product"`
	CompanyName       string `json:"company_name"`
	CompanyBusiness   string `json:"company_business"`
	ConversationType  string `json:"conversation_type"`
	AnswerStyle       string `json:"answer_style"`
}

// Settings carries versioning and runtime flags, serialised under the "config" key.
type Settings struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	FormatAttempt      bool `json:"format_attempt"`
	DataCommandTrigger bool `json:"data_command_trigger"`
	SemanticFilter     bool `json:"semantic_filter"`
	MessageFilter      bool `json:"message_filter"`
	ErrorMessages      bool `json:"error_messages"`
	NotSafeCompose     bool `json:"not_safe_compose"`
	PublicAccess       bool `json:"public_access"`
	TestMode           bool `json:"test_mode"`

	// Intervals in seconds
	WakeupCheckInterval  int `json:"wakeup_check_interval"`
	MessagePauseInterval int `json:"message_pause_interval"`
}

// Content holds templates shared by all stages.
type Content struct {
	WakeupsBase         []string `json:"wakeups_base"`
	ThankYouNote        string   `json:"thank_you_note"`
	MemoryDataColumns   []Column `json:"memory_data_columns"`
	FormatAnswerColumns []Column `json:"format_answer_columns"`
	StartCommandTrigger string   `json:"start_command_trigger"`
}

// Column is a named slot in a key/value output template.
type Column struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ColumnList names one of the two column lists in Content.
type ColumnList string

const (
	MemoryDataColumns   ColumnList = "memory_data_columns"
	FormatAnswerColumns ColumnList = "format_answer_columns"
)

// Stage is one step of the conversation script. Name is its identity.
type Stage struct {
	Name     string    `json:"name"`
	Prompt   string    `json:"prompt"`
	Question string    `json:"question"`
	Theme    string    `json:"theme"`
	Offer    string    `json:"offer"`
	Terminal string    `json:"terminal"`
	Terms    string    `json:"terms"`
	Time     string    `json:"time"`
	Segments []Segment `json:"segments"`
	Wakeups  []Wakeup  `json:"wakeups"`
}

// Segment classifies a possible user reply within a stage.
type Segment struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// Wakeup is a timed re-engagement prompt fired after user inactivity.
type Wakeup struct {
	ID       string `json:"id"`
	Trigger  string `json:"trigger"`
	Timer    int    `json:"timer"`
	Prompt   string `json:"prompt"`
	Question string `json:"question"`
}

// StageIndex returns the position of the named stage, or -1.
func (c *BotConfig) StageIndex(name string) int {
	for i := range c.Stages {
		if c.Stages[i].Name == name {
			return i
		}
	}
	return -1
}

// Stage returns the named stage.
func (c *BotConfig) Stage(name string) (*Stage, bool) {
	i := c.StageIndex(name)
	if i < 0 {
		return nil, false
	}
	return &c.Stages[i], true
}

// Columns returns the column slice selected by list, or nil for an unknown list.
func (c *Content) Columns(list ColumnList) []Column {
	switch list {
	case MemoryDataColumns:
		return c.MemoryDataColumns
	case FormatAnswerColumns:
		return c.FormatAnswerColumns
	}
	return nil
}

// SetColumns replaces the column slice selected by list. Unknown lists are ignored.
func (c *Content) SetColumns(list ColumnList, columns []Column) {
	switch list {
	case MemoryDataColumns:
		c.MemoryDataColumns = columns
	case FormatAnswerColumns:
		c.FormatAnswerColumns = columns
	}
}

// Valid reports whether list names a known column list.
func (l ColumnList) Valid() bool {
	return l == MemoryDataColumns || l == FormatAnswerColumns
}

// Clone returns a deep copy of the document.
func (c *BotConfig) Clone() *BotConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Content = c.Content.clone()
	if c.Stages != nil {
		out.Stages = make([]Stage, len(c.Stages))
		for i := range c.Stages {
			out.Stages[i] = c.Stages[i].Clone()
		}
	}
	return &out
}

func (c Content) clone() Content {
	out := c
	if c.WakeupsBase != nil {
		out.WakeupsBase = append([]string{}, c.WakeupsBase...)
	}
	if c.MemoryDataColumns != nil {
		out.MemoryDataColumns = append([]Column{}, c.MemoryDataColumns...)
	}
	if c.FormatAnswerColumns != nil {
		out.FormatAnswerColumns = append([]Column{}, c.FormatAnswerColumns...)
	}
	return out
}

// Clone returns a deep copy of the stage.
func (s Stage) Clone() Stage {
	out := s
	if s.Segments != nil {
		out.Segments = make([]Segment, len(s.Segments))
		for i := range s.Segments {
			out.Segments[i] = s.Segments[i].Clone()
		}
	}
	if s.Wakeups != nil {
		out.Wakeups = append([]Wakeup{}, s.Wakeups...)
	}
	return out
}

// Clone returns a deep copy of the segment.
func (s Segment) Clone() Segment {
	out := s
	if s.Examples != nil {
		out.Examples = append([]string{}, s.Examples...)
	}
	return out
}
