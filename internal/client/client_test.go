package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paularlott/logger"
	"github.com/paularlott/neollm/internal/botconfig"
	"github.com/paularlott/neollm/internal/editor"
	"github.com/paularlott/neollm/internal/server"
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

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	config := &types.Config{Server: types.ServerConfig{Token: token}}
	srv := server.New(config, storage.NewMemoryStorage(), storage.NewMemoryHistory(0), &testLogger{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestPersistThroughServer(t *testing.T) {
	ts := newTestServer(t, "secret")
	c := New(ts.URL+"/", "secret", &testLogger{})
	ctx := context.Background()

	session := editor.NewSession(botconfig.Sample())
	session.Name = "diving"
	if err := session.Persist(ctx, c); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	exists, err := c.Exists(ctx, "diving")
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v", exists, err)
	}

	data, err := c.Load(ctx, "diving")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	doc, err := botconfig.Parse(data)
	if err != nil {
		t.Fatalf("saved config does not parse: %v", err)
	}
	if len(doc.Stages) != 1 || doc.Settings.Version != 4 {
		t.Errorf("unexpected document: %+v", doc.Settings)
	}

	configs, err := c.List(ctx)
	if err != nil || len(configs) != 1 || configs[0].Name != "diving" {
		t.Errorf("List = %+v, %v", configs, err)
	}
}

func TestExistsMissing(t *testing.T) {
	ts := newTestServer(t, "")
	c := New(ts.URL, "", &testLogger{})

	exists, err := c.Exists(context.Background(), "nope")
	if err != nil || exists {
		t.Errorf("Exists = %v, %v", exists, err)
	}
	if _, err := c.Load(context.Background(), "nope"); !errors.Is(err, storage.ErrConfigNotFound) {
		t.Errorf("Load = %v", err)
	}
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to save config"}`))
	}))
	defer ts.Close()

	c := New(ts.URL, "", &testLogger{})
	err := editor.NewStore(nil).Persist(context.Background(), "bot", c)

	var saveErr *editor.SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("expected SaveError, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Failed to save config") {
		t.Errorf("server message lost: %s", err.Error())
	}
}

func TestWrongToken(t *testing.T) {
	ts := newTestServer(t, "secret")
	c := New(ts.URL, "wrong", &testLogger{})

	_, err := c.List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := editor.NewStore(nil).Persist(context.Background(), "bot", New(url, "", &testLogger{}))
	var saveErr *editor.SaveError
	if !errors.As(err, &saveErr) {
		t.Errorf("expected SaveError, got %v", err)
	}
}
