package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paularlott/logger"
	"github.com/paularlott/neollm/internal/editor"
	"github.com/paularlott/neollm/internal/storage"
	"golang.org/x/net/http2"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running NeoLLM config server.
type Client struct {
	BaseURL string
	Token   string
	Client  *http.Client
	logger  logger.Logger
}

var _ editor.Saver = (*Client)(nil)

func New(baseURL, token string, logger logger.Logger) *Client {
	// Configure HTTP transport with HTTP/2 support and connection pooling
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		// Plain HTTP/1.1 still works
		logger.Warn("failed to configure HTTP/2 transport", "error", err)
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		Client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		logger: logger,
	}
}

// Save posts the document to /api/save-config.
func (c *Client) Save(ctx context.Context, req editor.SaveRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, "POST", "/api/save-config", body, &result); err != nil {
		return err
	}

	c.logger.Debug("config saved", "name", req.Name, "message", result.Message)
	return nil
}

// Exists reports whether the server already holds a config called name.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	_, err := c.Load(ctx, name)
	if errors.Is(err, storage.ErrConfigNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Load fetches the saved JSON of a config.
func (c *Client) Load(ctx context.Context, name string) ([]byte, error) {
	var raw json.RawMessage
	err := c.do(ctx, "GET", "/api/configs/"+url.PathEscape(name), nil, &raw)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, storage.ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// List returns the configs held by the server.
func (c *Client) List(ctx context.Context) ([]storage.ConfigInfo, error) {
	var result struct {
		Configs []storage.ConfigInfo `json:"configs"`
	}
	if err := c.do(ctx, "GET", "/api/configs", nil, &result); err != nil {
		return nil, err
	}
	return result.Configs, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
