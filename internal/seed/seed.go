// Package seed builds starting bot configs from TOML persona files.
package seed

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/paularlott/neollm/internal/botconfig"
)

// Persona is the TOML layout of a seed file.
type Persona struct {
	Company Company `toml:"company"`
	Config  Flags   `toml:"config"`
	Content struct {
		Greetings           []string `toml:"greetings"`
		ThankYouNote        string   `toml:"thank_you_note"`
		StartCommandTrigger string   `toml:"start_command_trigger"`
		MemoryDataColumns   []string `toml:"memory_data_columns"`
		FormatAnswerColumns []string `toml:"format_answer_columns"`
	} `toml:"content"`
	Stages []struct {
		Name     string `toml:"name"`
		Prompt   string `toml:"prompt"`
		Question string `toml:"question"`
		Theme    string `toml:"theme"`
		Offer    string `toml:"offer"`
		Terminal string `toml:"terminal"`
	} `toml:"stages"`
}

// Company mirrors botconfig.Company with TOML keys.
type Company struct {
	Lang              string `toml:"lang"`
	SalespersonName   string `toml:"salesperson_name"`
	SalespersonGender string `toml:"salesperson_gender"`
	SalespersonRole   string `toml:"salesperson_role"`
	Product           string `toml:"product"`
	CompanyName       string `toml:"company_name"`
	CompanyBusiness   string `toml:"company_business"`
	ConversationType  string `toml:"conversation_type"`
	AnswerStyle       string `toml:"answer_style"`
}

// Flags overrides settings; unset keys keep their defaults.
type Flags struct {
	FormatAttempt        *bool `toml:"format_attempt"`
	DataCommandTrigger   *bool `toml:"data_command_trigger"`
	SemanticFilter       *bool `toml:"semantic_filter"`
	MessageFilter        *bool `toml:"message_filter"`
	ErrorMessages        *bool `toml:"error_messages"`
	NotSafeCompose       *bool `toml:"not_safe_compose"`
	PublicAccess         *bool `toml:"public_access"`
	TestMode             *bool `toml:"test_mode"`
	WakeupCheckInterval  int   `toml:"wakeup_check_interval"`
	MessagePauseInterval int   `toml:"message_pause_interval"`
}

// Load reads a persona file.
func Load(path string) (*botconfig.BotConfig, error) {
	var p Persona
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to parse persona file: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	return p.Build()
}

// Decode parses persona TOML held in memory.
func Decode(data string) (*botconfig.BotConfig, error) {
	var p Persona
	md, err := toml.Decode(data, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to parse persona: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	return p.Build()
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("unknown persona keys: %s", strings.Join(keys, ", "))
}

// Build turns the persona into a normalised version 1 document.
func (p *Persona) Build() (*botconfig.BotConfig, error) {
	doc := botconfig.New(botconfig.Company(p.Company))
	p.Config.apply(&doc.Settings)

	doc.Content.WakeupsBase = append([]string{}, p.Content.Greetings...)
	doc.Content.ThankYouNote = p.Content.ThankYouNote
	if p.Content.StartCommandTrigger != "" {
		doc.Content.StartCommandTrigger = p.Content.StartCommandTrigger
	}
	if len(p.Content.MemoryDataColumns) > 0 {
		doc.Content.MemoryDataColumns = columns(p.Content.MemoryDataColumns)
	}
	if len(p.Content.FormatAnswerColumns) > 0 {
		doc.Content.FormatAnswerColumns = columns(p.Content.FormatAnswerColumns)
	}

	for _, s := range p.Stages {
		stage := botconfig.NewStage(strings.TrimSpace(s.Name))
		stage.Prompt = s.Prompt
		stage.Question = s.Question
		stage.Theme = s.Theme
		stage.Offer = s.Offer
		stage.Terminal = s.Terminal
		doc.Stages = append(doc.Stages, stage)
	}

	botconfig.Normalize(doc)
	if err := botconfig.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (f Flags) apply(s *botconfig.Settings) {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.FormatAttempt, f.FormatAttempt)
	set(&s.DataCommandTrigger, f.DataCommandTrigger)
	set(&s.SemanticFilter, f.SemanticFilter)
	set(&s.MessageFilter, f.MessageFilter)
	set(&s.ErrorMessages, f.ErrorMessages)
	set(&s.NotSafeCompose, f.NotSafeCompose)
	set(&s.PublicAccess, f.PublicAccess)
	set(&s.TestMode, f.TestMode)

	if f.WakeupCheckInterval > 0 {
		s.WakeupCheckInterval = f.WakeupCheckInterval
	}
	if f.MessagePauseInterval > 0 {
		s.MessagePauseInterval = f.MessagePauseInterval
	}
}

func columns(titles []string) []botconfig.Column {
	cols := make([]botconfig.Column, len(titles))
	for i, t := range titles {
		cols[i] = botconfig.Column{Title: t}
	}
	return cols
}
