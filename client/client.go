// Package client is a Go client for the hospital management API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"MediCareHMS/events"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 30 * time.Second
)

// ErrUnauthorized means the stored session was rejected and has been cleared.
var ErrUnauthorized = errors.New("session expired, please log in again")

// APIError is a non-2xx answer carrying the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// CredentialStore keeps the bearer token between calls.
type CredentialStore interface {
	Token() string
	SetToken(token string)
	Clear()
}

type MemoryCredentials struct {
	mu    sync.RWMutex
	token string
}

func (m *MemoryCredentials) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryCredentials) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *MemoryCredentials) Clear() {
	m.SetToken("")
}

type Client struct {
	BaseURL     string
	HTTP        *http.Client
	Credentials CredentialStore
	Bus         events.Bus
	Now         func() time.Time
}

/*
* Normalize the base URL
* Default to a 30s timeout, in-memory credentials and a private event bus
 */
func New(baseURL string, creds CredentialStore, bus events.Bus) *Client {
	if creds == nil {
		creds = &MemoryCredentials{}
	}
	if bus == nil {
		bus = events.NewMemoryBus()
	}
	return &Client{
		BaseURL:     NormalizeBaseURL(baseURL),
		HTTP:        &http.Client{Timeout: DefaultTimeout},
		Credentials: creds,
		Bus:         bus,
	}
}

// NormalizeBaseURL trims trailing slashes and makes sure the URL ends in /api.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	return base
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// A 401 from these paths is a failed login, not an expired session.
var credentialPaths = []string{"/auth/login", "/auth/signup", "/auth/patient/signup"}

func keepsCredentials(path string) bool {
	for _, p := range credentialPaths {
		if path == p {
			return true
		}
	}
	return false
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

/*
* Encode the body and attach the bearer token
* Clear the session on a 401 outside the login and signup paths
* Decode data into out
 */
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Credentials.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("Error calling API")
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		log.Error().Err(err).Str("path", path).Msg("Error decoding API response")
		if resp.StatusCode < 300 {
			return err
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && !keepsCredentials(path) {
		c.Credentials.Clear()
		return ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
