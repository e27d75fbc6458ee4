// Package testutil provides deterministic test doubles for the storefront
// core, chiefly a recording fake of the backend collaborator.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Call is one request the fake backend received.
type Call struct {
	Method string
	Path   string
	Body   string
	Auth   string // Authorization header, if any
}

// Backend is an in-process fake of the HTTP backend collaborator.
//
// It records every call in arrival order and serves canned responses.
// Individual paths can be forced to fail to exercise the checkout error
// paths. Thread-safe so it can sit behind an httptest.Server.
type Backend struct {
	mu        sync.Mutex
	calls     []Call
	failPaths map[string]int
	responses map[string]string

	Server *httptest.Server
}

// NewBackend starts a fake backend. The server is shut down automatically
// via the caller's cleanup function.
func NewBackend() *Backend {
	b := &Backend{
		failPaths: make(map[string]int),
		responses: make(map[string]string),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

// URL returns the fake backend's base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Close shuts the server down.
func (b *Backend) Close() {
	b.Server.Close()
}

// Respond sets the JSON body served for path. Paths without a canned
// response get {"status": true}.
func (b *Backend) Respond(path, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[path] = body
}

// FailWith makes requests to path return the given status code.
func (b *Backend) FailWith(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPaths[path] = status
}

// Calls returns the recorded calls in arrival order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	calls := make([]Call, len(b.calls))
	copy(calls, b.calls)
	return calls
}

// CallsTo returns how many requests hit path.
func (b *Backend) CallsTo(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, call := range b.calls {
		if call.Path == path {
			n++
		}
	}
	return n
}

// LastBody decodes the most recent request body for path into out.
// Returns false when path was never called.
func (b *Backend) LastBody(path string, out any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].Path == path {
			return json.Unmarshal([]byte(b.calls[i].Body), out) == nil
		}
	}
	return false
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Body:   string(body),
		Auth:   r.Header.Get("Authorization"),
	})
	status, failing := b.failPaths[r.URL.Path]
	response, hasResponse := b.responses[r.URL.Path]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		io.WriteString(w, `{"message":"simulated backend failure"}`)
		return
	}
	if !hasResponse {
		response = `{"status": true}`
	}
	io.WriteString(w, response)
}
