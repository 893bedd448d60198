package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paularlott/logger"
	"github.com/paularlott/neollm/internal/botconfig"
	"github.com/paularlott/neollm/internal/storage"
	"github.com/paularlott/neollm/internal/types"
)

// testLogger implements logger.Logger for testing
type testLogger struct{}

func (l *testLogger) Trace(msg string, args ...interface{})  {}
func (l *testLogger) Debug(msg string, args ...interface{})  {}
func (l *testLogger) Info(msg string, args ...interface{})   {}
func (l *testLogger) Warn(msg string, args ...interface{})   {}
func (l *testLogger) Error(msg string, args ...interface{})  {}
func (l *testLogger) Fatal(msg string, args ...interface{})  {}
func (l *testLogger) With(msg string, arg any) logger.Logger { return l }
func (l *testLogger) WithError(err error) logger.Logger      { return l }
func (l *testLogger) WithGroup(group string) logger.Logger   { return l }

// failingStorage refuses every write.
type failingStorage struct {
	*storage.MemoryStorage
}

func (f failingStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	return "", errors.New("disk full")
}

func newTestServer(t *testing.T, token string) (*Server, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "configs")
	configs, err := storage.NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	config := &types.Config{Server: types.ServerConfig{Token: token}}
	return New(config, configs, storage.NewMemoryHistory(0), &testLogger{}), dir
}

func do(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestSaveConfig(t *testing.T) {
	srv, dir := newTestServer(t, "")
	handler := srv.Handler()

	w := do(t, handler, "POST", "/api/save-config", map[string]any{
		"name":    "  sales  ",
		"content": map[string]any{"company": map[string]any{"lang": "English"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	path := filepath.Join(dir, "sales.json")
	if body["status"] != "success" || body["message"] != "Saved to "+path {
		t.Errorf("unexpected body: %v", body)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	want := "{\n  \"company\": {\n    \"lang\": \"English\"\n  }\n}"
	if string(data) != want {
		t.Errorf("file content:\n%s", data)
	}
}

func TestSaveConfigOverwrites(t *testing.T) {
	srv, dir := newTestServer(t, "")
	handler := srv.Handler()

	do(t, handler, "POST", "/api/save-config", map[string]any{"name": "bot", "content": map[string]any{"v": 1}})
	w := do(t, handler, "POST", "/api/save-config", map[string]any{"name": "bot", "content": map[string]any{"v": 2}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "bot.json"))
	if !strings.Contains(string(data), `"v": 2`) {
		t.Errorf("file not overwritten: %s", data)
	}
}

func TestSaveConfigMissingFields(t *testing.T) {
	srv, _ := newTestServer(t, "")
	handler := srv.Handler()

	for _, body := range []any{
		map[string]any{"content": map[string]any{}},
		map[string]any{"name": "bot"},
		map[string]any{"name": "   ", "content": map[string]any{}},
		map[string]any{"name": "bot", "content": nil},
		"{not json",
	} {
		w := do(t, handler, "POST", "/api/save-config", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: status = %d", body, w.Code)
			continue
		}
		if got := decode(t, w)["error"]; got != "Missing name or content" {
			t.Errorf("body %v: error = %v", body, got)
		}
	}
}

func TestSaveConfigInvalidName(t *testing.T) {
	srv, dir := newTestServer(t, "")

	w := do(t, srv.Handler(), "POST", "/api/save-config", map[string]any{
		"name":    "../escape",
		"content": map[string]any{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Invalid config name" {
		t.Errorf("error = %v", got)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Error("file written outside the config directory")
	}
}

func TestSaveConfigWriteFailure(t *testing.T) {
	config := &types.Config{}
	srv := New(config, failingStorage{storage.NewMemoryStorage()}, storage.NewMemoryHistory(0), &testLogger{})

	w := do(t, srv.Handler(), "POST", "/api/save-config", map[string]any{
		"name":    "bot",
		"content": map[string]any{},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Failed to save config" {
		t.Errorf("error = %v", got)
	}
}

func TestGetAndListConfigs(t *testing.T) {
	srv, _ := newTestServer(t, "")
	handler := srv.Handler()

	doc, _ := botconfig.Marshal(botconfig.Sample())
	do(t, handler, "POST", "/api/save-config", map[string]any{"name": "diving", "content": json.RawMessage(doc)})

	w := do(t, handler, "GET", "/api/configs/diving", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if _, err := botconfig.Parse(w.Body.Bytes()); err != nil {
		t.Errorf("saved config does not parse: %v", err)
	}

	w = do(t, handler, "GET", "/api/configs/missing", nil)
	if w.Code != http.StatusNotFound || decode(t, w)["error"] != "Config not found" {
		t.Errorf("missing config: status = %d", w.Code)
	}

	w = do(t, handler, "GET", "/api/configs", nil)
	var list struct {
		Configs []storage.ConfigInfo `json:"configs"`
	}
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Configs) != 1 || list.Configs[0].Name != "diving" {
		t.Errorf("unexpected list: %+v", list.Configs)
	}
}

func TestHistory(t *testing.T) {
	srv, _ := newTestServer(t, "")
	handler := srv.Handler()

	for v := 1; v <= 3; v++ {
		do(t, handler, "POST", "/api/save-config", map[string]any{
			"name":    "bot",
			"content": map[string]any{"config": map[string]any{"version": v}},
		})
	}

	w := do(t, handler, "GET", "/api/configs/bot/history?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result struct {
		Revisions []storage.Revision `json:"revisions"`
	}
	json.NewDecoder(w.Body).Decode(&result)
	if len(result.Revisions) != 2 || result.Revisions[0].Version != 3 || result.Revisions[1].Version != 2 {
		t.Fatalf("unexpected revisions: %+v", result.Revisions)
	}

	w = do(t, handler, "GET", "/api/configs/bot/history/"+result.Revisions[1].ID, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"version":2`) {
		t.Errorf("revision fetch: %d %s", w.Code, w.Body.String())
	}

	w = do(t, handler, "GET", "/api/configs/bot/history/rev_missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing revision status = %d", w.Code)
	}

	w = do(t, handler, "GET", "/api/configs/bot/history?limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "secret")
	handler := srv.Handler()

	w := do(t, handler, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["status"] != "ok" || body["configs"] != float64(0) {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestTokenProtectsAPI(t *testing.T) {
	srv, _ := newTestServer(t, "secret")
	handler := srv.Handler()

	w := do(t, handler, "GET", "/api/configs", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d", w.Code)
	}

	w = do(t, handler, "POST", "/mcp", map[string]any{"jsonrpc": "2.0", "id": 1, "method": "tools/list"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated mcp status = %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/configs", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d", rec.Code)
	}
}

func TestMCPEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := do(t, srv.Handler(), "POST", "/mcp", map[string]any{"jsonrpc": "2.0", "id": 1, "method": "tools/list"})
	if !strings.Contains(w.Body.String(), "list_configs") {
		t.Errorf("tools/list missing list_configs: %s", w.Body.String())
	}
}

func TestBackgroundTasksStop(t *testing.T) {
	srv, _ := newTestServer(t, "")
	srv.StartBackgroundTasks()
	srv.StopBackgroundTasks()
}
