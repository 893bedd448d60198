package botconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var requiredKeys = []string{"company", "config", "content", "stages"}

// Parse decodes an external JSON document. Malformed JSON yields a *ParseError; a
// well-formed document with missing required keys or mismatched types yields a
// *ValidationError listing every problem. Optional fields absent from data are
// back-filled with defaults.
func Parse(data []byte) (*BotConfig, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{Offset: syntaxErr.Offset, Err: err}
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			verr := &ValidationError{}
			verr.add("$", "expected a JSON object, got %s", typeErr.Value)
			return nil, verr
		}
		return nil, &ParseError{Err: err}
	}

	verr := &ValidationError{}
	for _, key := range requiredKeys {
		if isAbsent(top[key]) {
			verr.add(key, "is required")
		}
	}
	if raw := top["config"]; !isAbsent(raw) {
		var settings map[string]json.RawMessage
		if err := json.Unmarshal(raw, &settings); err == nil {
			for _, key := range []string{"version", "created_at"} {
				if isAbsent(settings[key]) {
					verr.add("config."+key, "is required")
				}
			}
		}
	}

	doc := parseBase()
	if err := json.Unmarshal(data, doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		var timeErr *time.ParseError
		switch {
		case errors.As(err, &typeErr):
			field := typeErr.Field
			if field == "" {
				field = "$"
			}
			verr.add(field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		case errors.As(err, &timeErr):
			verr.add("config.created_at", "invalid timestamp %q", timeErr.Value)
		default:
			verr.add("$", "%v", err)
		}
		return nil, verr
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	Normalize(doc)
	return doc, nil
}

// Validate checks the invariants the editor relies on: non-negative version and timers,
// unique non-empty stage names, and entity ids unique within their stage.
func Validate(doc *BotConfig) error {
	verr := &ValidationError{}

	if doc.Settings.Version < 0 {
		verr.add("config.version", "must not be negative")
	}

	names := make(map[string]bool, len(doc.Stages))
	for i, stage := range doc.Stages {
		path := fmt.Sprintf("stages.%d", i)
		switch {
		case strings.TrimSpace(stage.Name) == "":
			verr.add(path+".name", "is required")
		case names[stage.Name]:
			verr.add(path+".name", "duplicate stage name %q", stage.Name)
		}
		names[stage.Name] = true

		segIDs := make(map[string]bool, len(stage.Segments))
		for j, seg := range stage.Segments {
			if seg.ID != "" && segIDs[seg.ID] {
				verr.add(fmt.Sprintf("%s.segments.%d.id", path, j), "duplicate segment id %q", seg.ID)
			}
			segIDs[seg.ID] = true
		}

		wakeIDs := make(map[string]bool, len(stage.Wakeups))
		for j, wk := range stage.Wakeups {
			if wk.ID != "" && wakeIDs[wk.ID] {
				verr.add(fmt.Sprintf("%s.wakeups.%d.id", path, j), "duplicate wakeup id %q", wk.ID)
			}
			wakeIDs[wk.ID] = true
			if wk.Timer < 0 {
				verr.add(fmt.Sprintf("%s.wakeups.%d.timer", path, j), "must not be negative")
			}
		}
	}

	return verr.orNil()
}

// Marshal encodes doc as JSON indented with two spaces.
func Marshal(doc *BotConfig) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Indent re-formats arbitrary JSON with two-space indentation, preserving key order.
func Indent(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CleanName trims name and rejects it when nothing remains.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// parseBase is the decode target for Parse: scalar defaults set, list defaults left nil
// so decoding never merges into pre-populated slice elements. Normalize fills the lists.
func parseBase() *BotConfig {
	doc := Defaults()
	doc.Content.WakeupsBase = nil
	doc.Content.MemoryDataColumns = nil
	doc.Content.FormatAnswerColumns = nil
	doc.Stages = nil
	return doc
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
