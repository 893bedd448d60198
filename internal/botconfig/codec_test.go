package botconfig

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

const minimalDoc = `{
  "company": {"lang": "English", "salesperson_name": "Ann"},
  "config": {"version": 1, "created_at": "2024-01-01T00:00:00Z"},
  "content": {"wakeups_base": [], "thank_you_note": ""},
  "stages": []
}`

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"company": {`))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "invalid config JSON") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestParseNotAnObject(t *testing.T) {
	_, err := Parse([]byte(`[1, 2, 3]`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestParseMissingRequiredKeys(t *testing.T) {
	_, err := Parse([]byte(`{"company": {}, "config": {"version": 2}}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	for _, field := range []string{"content", "stages", "config.created_at"} {
		if !verr.Has(field) {
			t.Errorf("expected problem for %s, got %v", field, verr.Problems)
		}
	}
	if verr.Has("company") || verr.Has("config.version") {
		t.Errorf("unexpected problems: %v", verr.Problems)
	}
}

func TestParseTypeMismatch(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"version": 1`, `"version": "one"`, 1)
	_, err := Parse([]byte(doc))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if !verr.Has("config.version") {
		t.Errorf("expected config.version problem, got %v", verr.Problems)
	}
}

func TestParseBadTimestamp(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"2024-01-01T00:00:00Z"`, `"yesterday"`, 1)
	_, err := Parse([]byte(doc))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if !verr.Has("config.created_at") {
		t.Errorf("expected config.created_at problem, got %v", verr.Problems)
	}
}

func TestParseBackfillsOptionalFields(t *testing.T) {
	doc, err := Parse([]byte(minimalDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Content.MemoryDataColumns) != 1 || doc.Content.MemoryDataColumns[0].Title != "Column 1" {
		t.Errorf("memory_data_columns not back-filled: %+v", doc.Content.MemoryDataColumns)
	}
	if len(doc.Content.FormatAnswerColumns) != 1 {
		t.Errorf("format_answer_columns not back-filled: %+v", doc.Content.FormatAnswerColumns)
	}
	if doc.Content.StartCommandTrigger != "/start" {
		t.Errorf("expected /start, got %q", doc.Content.StartCommandTrigger)
	}
	if !doc.Settings.SemanticFilter || !doc.Settings.MessageFilter || !doc.Settings.ErrorMessages {
		t.Error("expected filter flags to default on")
	}
	if doc.Settings.TestMode || doc.Settings.PublicAccess {
		t.Error("expected test_mode and public_access to default off")
	}
	if doc.Settings.WakeupCheckInterval != DefaultWakeupCheckInterval {
		t.Errorf("wakeup_check_interval = %d", doc.Settings.WakeupCheckInterval)
	}
	if doc.Company.SalespersonName != "Ann" {
		t.Errorf("company not decoded: %+v", doc.Company)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !doc.Settings.CreatedAt.Equal(want) {
		t.Errorf("created_at = %v", doc.Settings.CreatedAt)
	}
}

func TestParseExplicitFalseFlagKept(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"version": 1`, `"version": 1, "semantic_filter": false`, 1)
	parsed, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Settings.SemanticFilter {
		t.Error("explicit false must not be replaced by the default")
	}
}

func TestParseAssignsMissingIDsAndTimers(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"stages": []`, `"stages": [{
		"name": "Intro",
		"segments": [{"type": "Greeting", "description": "", "examples": null}],
		"wakeups": [{"trigger": "no_response", "prompt": "", "question": ""}]
	}]`, 1)

	parsed, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	stage := parsed.Stages[0]
	if !strings.HasPrefix(stage.Segments[0].ID, "seg_") {
		t.Errorf("segment id not generated: %q", stage.Segments[0].ID)
	}
	if stage.Segments[0].Examples == nil {
		t.Error("examples must not be nil")
	}
	if !strings.HasPrefix(stage.Wakeups[0].ID, "wk_") {
		t.Errorf("wakeup id not generated: %q", stage.Wakeups[0].ID)
	}
	if stage.Wakeups[0].Timer != DefaultWakeupTimer {
		t.Errorf("timer = %d", stage.Wakeups[0].Timer)
	}
}

func TestParseDuplicateStageNames(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"stages": []`, `"stages": [{"name": "A"}, {"name": "A"}, {"name": " "}]`, 1)
	_, err := Parse([]byte(doc))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if !verr.Has("stages.1.name") || !verr.Has("stages.2.name") {
		t.Errorf("unexpected problems: %v", verr.Problems)
	}
}

func TestParseNegativeTimer(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"stages": []`, `"stages": [{"name": "A", "wakeups": [{"timer": -3}]}]`, 1)
	_, err := Parse([]byte(doc))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if !verr.Has("stages.0.wakeups.0.timer") {
		t.Errorf("unexpected problems: %v", verr.Problems)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc := Sample()

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"company\": {") {
		t.Errorf("expected two-space indentation:\n%s", data)
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !back.Settings.CreatedAt.Equal(doc.Settings.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", doc.Settings.CreatedAt, back.Settings.CreatedAt)
	}
	back.Settings.CreatedAt = doc.Settings.CreatedAt
	if !reflect.DeepEqual(doc, back) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", doc, back)
	}
}

func TestMarshalWireKeys(t *testing.T) {
	data, err := Marshal(Sample())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	raw := make(map[string]map[string]json.RawMessage)
	for _, section := range []string{"company", "config", "content"} {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(top[section], &fields); err != nil {
			t.Fatalf("section %s: %v", section, err)
		}
		raw[section] = fields
	}

	for _, key := range []string{"salesperson_name", "company_name", "conversation_type"} {
		if _, ok := raw["company"][key]; !ok {
			t.Errorf("company missing %s", key)
		}
	}
	for _, key := range []string{"wakeups_base", "thank_you_note", "memory_data_columns", "format_answer_columns", "start_command_trigger"} {
		if _, ok := raw["content"][key]; !ok {
			t.Errorf("content missing %s", key)
		}
	}
	for _, key := range []string{"version", "created_at", "wakeup_check_interval", "not_safe_compose"} {
		if _, ok := raw["config"][key]; !ok {
			t.Errorf("config missing %s", key)
		}
	}
}

func TestCleanName(t *testing.T) {
	if _, err := CleanName("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	name, err := CleanName("  sales bot ")
	if err != nil || name != "sales bot" {
		t.Errorf("CleanName = %q, %v", name, err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := Sample()
	clone := doc.Clone()

	clone.Stages[0].Segments[1].Examples[0] = "changed"
	clone.Content.MemoryDataColumns[0].Title = "changed"
	clone.Content.WakeupsBase[0] = "changed"

	if doc.Stages[0].Segments[1].Examples[0] == "changed" {
		t.Error("examples shared between clone and original")
	}
	if doc.Content.MemoryDataColumns[0].Title == "changed" {
		t.Error("columns shared between clone and original")
	}
	if doc.Content.WakeupsBase[0] == "changed" {
		t.Error("greetings shared between clone and original")
	}
}
