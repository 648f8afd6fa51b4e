// Package testsupport provides fixtures shared by package tests: a scripted
// fake of the authentication API and small helpers around it.
package testsupport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply scripts one response of the fake API.
type Reply struct {
	Status int
	Body   any
	// Raw, when set, is written verbatim instead of encoding Body.
	Raw string
}

// Recorded is a request the fake API received.
type Recorded struct {
	Method      string
	Path        string
	ContentType string
	Body        map[string]any
}

// AuthServer is an httptest server standing in for the authentication API.
type AuthServer struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests []Recorded
	// hold, when non-nil, blocks every request until it is closed.
	hold    chan struct{}
	entered chan struct{}
}

// NewAuthServer starts a fake API closed automatically when the test ends.
// Unscripted paths answer 404 with a JSON message.
func NewAuthServer(t *testing.T) *AuthServer {
	t.Helper()

	s := &AuthServer{
		replies: make(map[string]Reply),
		entered: make(chan struct{}, 16),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Reply scripts the response for path.
func (s *AuthServer) Reply(path string, status int, body any) *AuthServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = Reply{Status: status, Body: body}
	return s
}

// ReplyRaw scripts a verbatim response body for path.
func (s *AuthServer) ReplyRaw(path string, status int, raw string) *AuthServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = Reply{Status: status, Raw: raw}
	return s
}

// Hold makes requests block until the returned release func is called.
func (s *AuthServer) Hold() (release func()) {
	s.mu.Lock()
	s.hold = make(chan struct{})
	hold := s.hold
	s.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(hold) }) }
}

// Entered is signalled each time a request reaches the handler.
func (s *AuthServer) Entered() <-chan struct{} {
	return s.entered
}

// Requests returns the requests received so far.
func (s *AuthServer) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

func (s *AuthServer) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	reply, ok := s.replies[r.URL.Path]
	hold := s.hold
	s.mu.Unlock()

	select {
	case s.entered <- struct{}{}:
	default:
	}
	if hold != nil {
		<-hold
	}

	if !ok {
		reply = Reply{Status: http.StatusNotFound, Body: map[string]any{"message": "not found"}}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(reply.Status)
	if reply.Raw != "" {
		_, _ = io.WriteString(w, reply.Raw)
		return
	}
	if reply.Body != nil {
		_ = json.NewEncoder(w).Encode(reply.Body)
	}
}

// UnreachableURL returns the address of a server that has already been shut
// down, so every request to it fails at the transport level.
func UnreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
