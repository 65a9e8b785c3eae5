package orgai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Request is the backend-neutral completion request. Stream is carried
// for wire fidelity and is always false.
type Request struct {
	Model       string
	Temperature *float64
	MaxTokens   int
	System      string
	Turns       []Turn
	Stream      bool
}

// Backend issues completion requests against one provider API.
type Backend interface {
	Name() string
	Models() []string
	Complete(ctx context.Context, req Request) (string, error)
}

// BackendRegistry is a threadsafe registry of backends keyed by name.
type BackendRegistry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewBackendRegistry builds an empty registry.
func NewBackendRegistry() *BackendRegistry {
	return &BackendRegistry{backends: make(map[string]Backend)}
}

// Register adds a backend. Returns BackendExistsError when the name is
// already taken.
func (r *BackendRegistry) Register(b Backend) error {
	if b == nil {
		return errors.New("backend is nil")
	}
	key := strings.ToLower(b.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.backends[key]; exists {
		return fmt.Errorf("%w: %s", BackendExistsError, key)
	}
	r.backends[key] = b
	return nil
}

// Lookup returns the backend registered under name.
func (r *BackendRegistry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[strings.ToLower(name)]
	return b, ok
}

// Resolve returns the backend for name, falling back to fallback when
// name is empty or unregistered.
func (r *BackendRegistry) Resolve(name, fallback string) (Backend, bool) {
	if b, ok := r.Lookup(name); ok {
		return b, true
	}
	return r.Lookup(fallback)
}

// List returns the registered backend names sorted.
func (r *BackendRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.backends))
	for name := range r.backends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultBackendRegistry is pre-populated with the built-in backends.
var DefaultBackendRegistry = newDefaultBackendRegistry()

func newDefaultBackendRegistry() *BackendRegistry {
	reg := NewBackendRegistry()
	_ = reg.Register(NewAnthropicBackend())
	_ = reg.Register(NewOpenAIBackend())
	_ = reg.Register(NewOllamaBackend())
	return reg
}

var defaultHTTPClient = &http.Client{Timeout: 5 * time.Minute}

// postJSON marshals payload, POSTs it, and decodes a 2xx response body
// into out. Non-2xx responses become a BackendError.
func postJSON(ctx context.Context, client *http.Client, backend, url string, headers map[string]string, payload, out any) error {
	if client == nil {
		client = defaultHTTPClient
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", backend, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", backend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", backend, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readBackendError(backend, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", backend, err)
	}
	return nil
}

// readBackendError drains an error body of the common
// {"error":{"type","message"}} shape, falling back to the raw body.
func readBackendError(backend string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &BackendError{
			Backend:    backend,
			StatusCode: resp.StatusCode,
			Type:       envelope.Error.Type,
			Message:    envelope.Error.Message,
		}
	}
	return &BackendError{
		Backend:    backend,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}

// EchoBackend answers with the last user turn. It backs tests and
// offline pipelines.
type EchoBackend struct {
	Prefix string
	Delay  time.Duration
	Err    error
}

func (e *EchoBackend) Name() string { return "echo" }

func (e *EchoBackend) Models() []string { return []string{"echo"} }

func (e *EchoBackend) Complete(ctx context.Context, req Request) (string, error) {
	if e.Delay > 0 {
		select {
		case <-time.After(e.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if e.Err != nil {
		return "", e.Err
	}
	last := ""
	for _, t := range req.Turns {
		if t.Role == RoleUser {
			last = t.Content
		}
	}
	return e.Prefix + last, nil
}
