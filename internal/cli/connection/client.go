package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lingtalfi/CSRFTools/internal/session"
)

// Client is an HTTP client for the csrfd API. It carries the session
// cookie across requests and, when a cookie file is configured, across
// process invocations.
type Client struct {
	baseURL    string
	client     *http.Client
	cookieFile string
	sessionID  string
}

// NewClient creates a client for the given server address. cookieFile
// may be empty, in which case the session lives only as long as the
// process.
func NewClient(server, cookieFile string) *Client {
	baseURL := server
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:    baseURL,
		cookieFile: cookieFile,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	c.loadSession()
	return c
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "csrfctl/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: c.sessionID})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	c.captureSession(resp)
	return resp, nil
}

// captureSession records the session cookie the server set, including
// the empty value written when the session is destroyed.
func (c *Client) captureSession(resp *http.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name != session.DefaultCookieName {
			continue
		}
		c.sessionID = cookie.Value
		c.saveSession()
	}
}

// SessionID returns the current session id, empty when none is held.
func (c *Client) SessionID() string {
	return c.sessionID
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) loadSession() {
	if c.cookieFile == "" {
		return
	}
	raw, err := os.ReadFile(c.cookieFile)
	if err != nil {
		return
	}
	id := strings.TrimSpace(string(raw))
	if session.IsValidID(id) {
		c.sessionID = id
	}
}

func (c *Client) saveSession() {
	if c.cookieFile == "" {
		return
	}
	if c.sessionID == "" {
		os.Remove(c.cookieFile)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.cookieFile), 0700); err != nil {
		return
	}
	os.WriteFile(c.cookieFile, []byte(c.sessionID), 0600)
}

// ParseResponse decodes a JSON envelope body into target. Error
// responses are converted into Go errors carrying the server's code
// and message.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("[%s] %s", errResp.Code, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if target != nil {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}
